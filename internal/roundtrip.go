// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package internal holds http helpers shared by unit tests.
package internal

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

var _ http.RoundTripper = (*RoundTripFunc)(nil)

// RoundTripFunc is an adapter to allow the use of ordinary functions as
// RoundTrippers, similar to [http.HandlerFunc].
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements the RoundTripper interface by calling f(r).
func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Recorder returns a [RoundTripFunc] which stores headers of the
// request in h and responds with status and an empty body.
func Recorder(h *http.Header, status int) RoundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		*h = r.Header.Clone()
		return &http.Response{
			Status:     http.StatusText(status),
			StatusCode: status,
			Proto:      "HTTP/1.1",
			ProtoMajor: 1,
			ProtoMinor: 1,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    r,
		}, nil
	}
}

// Unreachable returns a [RoundTripFunc] which fails the test if any
// request is sent.
func Unreachable(tb testing.TB) RoundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		tb.Errorf("unexpected request: %s %s", r.Method, r.URL)
		return nil, errors.New("no requests are expected")
	}
}
