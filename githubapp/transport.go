// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tprasadtp/gh-app-token/internal/api"
)

var (
	_ http.RoundTripper = (*Transport)(nil)
)

// ctxTokenKey is context key holding an installation access token. When present,
// round tripper uses the installation token instead of JWT.
type ctxTokenKey struct{}

// ctxWithInstallationToken adds installation token to the context. This is
// required because listing repositories accessible to an installation
// or revoking a token must authenticate as the installation.
func ctxWithInstallationToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// installationTokenFromCtx returns installation token stored in context if any.
func installationTokenFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(ctxTokenKey{}).(string)
	return v
}

// Transport provides a [http.RoundTripper] by wrapping an existing
// http.RoundTripper and authenticates requests as a GitHub App.
//
// 'Authorization' header is always populated with a JWT unless the request
// context carries an installation access token. 'Accept' and
// 'X-GitHub-Api-Version' headers are always set to library defaults.
type Transport struct {
	issuer  string            // app id or client id
	ua      string            // user agent
	next    http.RoundTripper // next round tripper
	baseURL *url.URL          // REST API v3 base URL
	minter  jwtMinter         // jwt minter
	jwt     atomic.Value      // jwt token
}

// JWT returns already existing JWT bearer token or mints a new one.
func (t *Transport) JWT(ctx context.Context) (JWT, error) {
	v := t.jwt.Load()
	if v != nil {
		if bearer, _ := v.(JWT); bearer.IsValid() {
			return bearer, nil
		}
	}

	bearer, err := t.minter.MintJWT(ctx, t.issuer, time.Now())
	if err != nil {
		return JWT{}, fmt.Errorf("githubapp: failed to mint JWT: %w", err)
	}

	t.jwt.Store(bearer)
	return bearer, nil
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("githubapp(RoundTrip): request is nil")
	}

	if !strings.EqualFold(t.baseURL.Host, req.URL.Host) {
		return nil,
			fmt.Errorf("githubapp(RoundTrip): Host for round tripper(%s) does not match host for request(%s)",
				t.baseURL.Host, req.URL.Host)
	}

	ctx := req.Context()
	clone := cloneRequest(req) // RoundTripper should not modify request

	clone.Header.Set(api.AcceptHeader, api.AcceptHeaderValue)
	clone.Header.Set(api.VersionHeader, api.VersionHeaderValue)

	// Use fallback User Agent header if it is missing.
	if clone.Header.Get(api.UAHeader) == "" {
		clone.Header.Set(api.UAHeader, t.ua)
	}

	if token := installationTokenFromCtx(ctx); token != "" {
		clone.Header.Set(api.AuthzHeader, api.AuthzHeaderValue(token))
	} else {
		jwt, err := t.JWT(ctx)
		if err != nil {
			return nil, err
		}
		clone.Header.Set(api.AuthzHeader, api.AuthzHeaderValue(jwt.Token))
	}

	//nolint:wrapcheck // don't wrap errors returned by underlying round-tripper.
	return t.next.RoundTrip(clone)
}

// cloneRequest returns a clone of the provided *http.Request.
// The clone is a shallow copy of the struct and its shallow copy of
// Header map.
func cloneRequest(r *http.Request) *http.Request {
	// shallow copy of the struct
	clone := new(http.Request)
	*clone = *r

	// shallow copy of the Headers.
	clone.Header = maps.Clone(r.Header)
	if clone.Header == nil {
		clone.Header = make(http.Header)
	}
	return clone
}
