// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"bytes"
	"fmt"
)

var (
	_ error = Error("")
	_ error = (*APIError)(nil)
)

// Error is immutable error representation.
//
// Error strings themselves are NOT part of semver compatibility guarantees.
// Use exported symbols instead of directly using error strings.
type Error string

// Implements Error() interface.
func (e Error) Error() string {
	return string(e)
}

const (
	// ErrOptions is returned when options or arguments are invalid.
	ErrOptions = Error("githubapp: invalid options")

	// ErrPrivateKeyNotFound is returned when private key file does not exist.
	ErrPrivateKeyNotFound = Error("githubapp: private key file not found")

	// ErrInvalidPrivateKey is returned when private key cannot be parsed
	// or is not supported.
	ErrInvalidPrivateKey = Error("githubapp: invalid private key")

	// ErrInstallationNotFound is returned when none of the app's installations
	// have access to the requested repository.
	ErrInstallationNotFound = Error("githubapp: installation not found")
)

// APIError is returned when GitHub REST API responds with an unexpected status.
type APIError struct {
	// HTTP method of the request.
	Method string

	// Request URL. Query parameters are preserved.
	URL string

	// HTTP status code.
	StatusCode int

	// HTTP status as returned by the server, like "404 Not Found".
	Status string

	// Message from the error response body, if any.
	Message string

	// Raw response body.
	Body []byte
}

// Error implements error interface. Error string always includes
// response status and body.
func (e *APIError) Error() string {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Status, body)
}
