// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tprasadtp/gh-app-token/internal/api"
	"github.com/tprasadtp/gh-app-token/internal/testkeys"
)

// apiServer is a fake GitHub REST API server which records all requests.
type apiServer struct {
	t      *testing.T
	mux    *http.ServeMux
	server *httptest.Server
	mu     sync.Mutex
	calls  []string
}

// newAPIServer returns a new fake API server. Server verifies every request
// carries API version header and a bearer token. Requests authenticated with
// JWT are verified against [testkeys.RSA2048].
func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	s := &apiServer{
		t:   t,
		mux: http.NewServeMux(),
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		if v := r.Header.Get(api.VersionHeader); v != api.VersionHeaderValue {
			t.Errorf("%s %s: expected %s=%s, got %q",
				r.Method, r.URL.Path, api.VersionHeader, api.VersionHeaderValue, v)
		}

		if v := r.Header.Get(api.AcceptHeader); v != api.AcceptHeaderValue {
			t.Errorf("%s %s: expected %s=%s, got %q",
				r.Method, r.URL.Path, api.AcceptHeader, api.AcceptHeaderValue, v)
		}

		token, ok := strings.CutPrefix(r.Header.Get(api.AuthzHeader), "Bearer ")
		if !ok || token == "" {
			t.Errorf("%s %s: missing bearer token", r.Method, r.URL.Path)
		}

		// Installation tokens used by tests always start with ghs_.
		if !strings.HasPrefix(token, "ghs_") {
			_, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
				return testkeys.RSA2048().Public(), nil
			}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithIssuer("99"))
			if err != nil {
				t.Errorf("%s %s: invalid JWT: %s", r.Method, r.URL.Path, err)
			}
		}

		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.server.Close)
	return s
}

// handle registers a handler responding with status and body.
func (s *apiServer) handle(pattern string, status int, body []byte) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(api.ContentTypeHeader, api.ContentTypeJSON)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}

// handleFunc registers a handler function.
func (s *apiServer) handleFunc(pattern string, f http.HandlerFunc) {
	s.mux.HandleFunc(pattern, f)
}

// Calls returns requests received by the server as "METHOD /path".
func (s *apiServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// client returns a new client using the fake server endpoint.
func (s *apiServer) client(opts ...Option) *Client {
	s.t.Helper()
	opts = append([]Option{WithEndpoint(s.server.URL)}, opts...)
	c, err := NewClient("99", testkeys.RSA2048(), opts...)
	if err != nil {
		s.t.Fatalf("failed to create client: %s", err)
	}
	return c
}
