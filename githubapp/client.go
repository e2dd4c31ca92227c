// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/tprasadtp/gh-app-token/internal/api"
)

// Client authenticates as a GitHub App and exchanges the app's
// credentials for installation access tokens.
//
// Client does not cache installation tokens. Every call to
// [Client.InstallationToken] creates a new token.
type Client struct {
	issuer    string             // app id or client id
	baseURL   *url.URL           // REST API v3 base URL
	next      http.RoundTripper  // next round tripper
	ua        string             // user agent
	logger    logrus.FieldLogger // logger
	perPage   int                // page size for list endpoints
	transport *Transport         // authenticating transport
	http      *http.Client       // http client using transport
}

// NewClient creates a new [Client] for app identified by issuer, which can be
// numeric app ID or client ID of the app. Signer must be backed by an RSA key
// of at least 2048 bits.
//
// NewClient does not make any API calls.
func NewClient(issuer string, signer crypto.Signer, opts ...Option) (*Client, error) {
	var err error
	if signer == nil {
		err = errors.Join(err, errors.New("no signer provided"))
	}

	err = errors.Join(err, validateIssuer(issuer))

	c := &Client{
		issuer: issuer,
	}

	for i := range opts {
		if opts[i] != nil {
			err = errors.Join(err, opts[i].apply(c))
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptions, err)
	}

	minter, err := newMinter(signer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	// If there is no existing round tripper, use DefaultTransport.
	if c.next == nil {
		c.next = http.DefaultTransport
	}

	// If there is not custom user agent specified, use default.
	if c.ua == "" {
		c.ua = api.UAHeaderValue
	}

	// If endpoint is not configured, use default endpoint.
	if c.baseURL == nil {
		c.baseURL, _ = url.Parse(api.DefaultEndpoint)
	}

	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}

	if c.perPage == 0 {
		c.perPage = api.DefaultPerPage
	}

	c.transport = &Transport{
		issuer:  c.issuer,
		ua:      c.ua,
		next:    c.next,
		baseURL: c.baseURL,
		minter:  minter,
	}
	c.http = &http.Client{Transport: c.transport}
	return c, nil
}

// Issuer returns the app id or client id used as JWT issuer.
func (c *Client) Issuer() string {
	return c.issuer
}

// Endpoint returns REST API endpoint used by the client.
func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

// JWT returns JWT to authenticate as the app. A new JWT is minted
// if existing one is about to expire.
func (c *Client) JWT(ctx context.Context) (JWT, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.transport.JWT(ctx)
}

// endpoint returns absolute URL for API path elements.
func (c *Client) endpoint(elem ...string) *url.URL {
	return c.baseURL.JoinPath(elem...)
}

// do sends an API request and decodes JSON response into out, if not nil.
// If response status code is not one of expected status codes,
// an [*APIError] is returned.
func (c *Client) do(ctx context.Context, method string, u *url.URL, in, out any, expect ...int) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	r, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if in != nil {
		r.Header.Set(api.ContentTypeHeader, api.ContentTypeJSON)
	}

	resp, err := c.http.Do(r)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u.Redacted(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    u.Redacted(),
		"status": resp.StatusCode,
	}).Debug("API request")

	if !slices.Contains(expect, resp.StatusCode) {
		apiErr := &APIError{
			Method:     method,
			URL:        u.Redacted(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
		}

		// Try to decode error message if possible.
		// GitHub API error response JSON is inconsistent.
		errResp := api.ErrorResponse{}
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out != nil {
		err = json.Unmarshal(data, out)
		if err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
