// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/adrg/xdg"
	"github.com/tprasadtp/gh-app-token/internal/api"
	"github.com/tprasadtp/gh-app-token/internal/cli"
	"github.com/tprasadtp/gh-app-token/internal/testdata/apitestdata"
	"github.com/tprasadtp/gh-app-token/internal/testkeys"
)

// fakeAPI is a fake GitHub REST API server backed by apitestdata.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server
	mux    *http.ServeMux

	mu      sync.Mutex
	revoke  http.HandlerFunc
	calls   []string
	bodies  map[string]string
	headers map[string]http.Header
}

// newFakeAPI returns a fake API server. Installation tokens for
// installation 42 are returned from apitestdata, others are
// "ghs_inst_<id>". Only installation 7 has access to acme/widgets
// and the direct repository installation lookup returns directStatus.
func newFakeAPI(t *testing.T, directStatus int) *fakeAPI {
	t.Helper()
	data := apitestdata.Get(t)
	f := &fakeAPI{
		t:      t,
		mux:     http.NewServeMux(),
		bodies:  make(map[string]string),
		headers: make(map[string]http.Header),
	}

	f.mux.HandleFunc("GET /repos/{owner}/{repo}/installation", func(w http.ResponseWriter, _ *http.Request) {
		if directStatus == http.StatusOK {
			writeJSON(w, http.StatusOK, data["repo-installation"])
		} else {
			writeJSON(w, directStatus, data["error-not-found"])
		}
	})

	f.mux.HandleFunc("GET /app/installations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, data["installations"])
	})

	f.mux.HandleFunc("POST /app/installations/{id}/access_tokens", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "42" {
			writeJSON(w, http.StatusCreated, data["installation-token"])
			return
		}
		writeJSON(w, http.StatusCreated,
			[]byte(`{"token":"ghs_inst_`+id+`","expires_at":"2030-01-02T15:04:05Z"}`))
	})

	f.mux.HandleFunc("GET /installation/repositories", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(api.AuthzHeader) == "Bearer ghs_inst_7" {
			writeJSON(w, http.StatusOK, data["installation-repositories"])
			return
		}
		writeJSON(w, http.StatusOK, []byte(`{"total_count":0,"repositories":[]}`))
	})

	f.mux.HandleFunc("DELETE /installation/token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		revoke := f.revoke
		f.mu.Unlock()
		if revoke != nil {
			revoke(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		if r.Body != nil {
			_, _ = body.ReadFrom(r.Body)
		}

		f.mu.Lock()
		call := r.Method + " " + r.URL.Path
		f.calls = append(f.calls, call)
		f.headers[call] = r.Header.Clone()
		if body.Len() > 0 {
			f.bodies[call] = body.String()
		}
		f.mu.Unlock()

		if v := r.Header.Get(api.VersionHeader); v != api.VersionHeaderValue {
			t.Errorf("%s: expected %s=%s, got %q", call, api.VersionHeader, api.VersionHeaderValue, v)
		}

		if !strings.HasPrefix(r.Header.Get(api.AuthzHeader), "Bearer ") {
			t.Errorf("%s: missing bearer token", call)
		}

		if !strings.HasPrefix(r.Header.Get(api.UAHeader), "gh-app-token/") {
			t.Errorf("%s: unexpected user agent %q", call, r.Header.Get(api.UAHeader))
		}

		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set(api.ContentTypeHeader, api.ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// HandleRevoke overrides token revocation handler.
func (f *fakeAPI) HandleRevoke(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoke = h
}

// URL returns base URL of the server.
func (f *fakeAPI) URL() string {
	return f.server.URL + "/"
}

// Calls returns requests received by the server as "METHOD /path".
func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Header returns request headers of the last request for call.
func (f *fakeAPI) Header(call string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[call]
}

// Body returns request body received for call.
func (f *fakeAPI) Body(call string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[call]
}

// DecodeBody decodes request body of the call into v.
func (f *fakeAPI) DecodeBody(call string, v any) {
	f.t.Helper()
	if err := json.Unmarshal([]byte(f.Body(call)), v); err != nil {
		f.t.Fatalf("invalid request body for %s: %s", call, err)
	}
}

// result of a CLI invocation.
type result struct {
	code   int
	stdout string
	stderr string
}

// invocation configures a CLI run.
type invocation struct {
	args  []string
	env   map[string]string
	stdin string
	dir   string
}

// run executes the CLI. Config files from user's XDG directories
// are never used.
func run(t *testing.T, inv invocation) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(), "v1.2.3", cli.Streams{
		In:  strings.NewReader(inv.stdin),
		Out: &stdout,
		Err: &stderr,
		LookupEnv: func(key string) (string, bool) {
			v, ok := inv.env[key]
			return v, ok
		},
		Dir: inv.dir,
	}, inv.args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// keyFile writes [testkeys.RSA2048] to a temporary file.
func keyFile(t *testing.T) string {
	t.Helper()
	return testkeys.WriteFile(t, "app.pem", testkeys.PKCS1(testkeys.RSA2048()))
}
