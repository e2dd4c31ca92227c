// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tprasadtp/gh-app-token/internal/api"
)

// InstallationToken is an installation access token from GitHub.
type InstallationToken struct {
	// Installation access token. Typically starts with "ghs_".
	Token string `json:"token" yaml:"token"`

	// GitHub API endpoint. This is also used for token revocation.
	Server string `json:"server,omitempty" yaml:"server,omitempty"`

	// GitHub app ID or client ID used to mint the token.
	Issuer string `json:"app_id,omitempty" yaml:"appID,omitempty"`

	// Installation ID for the app.
	InstallationID uint64 `json:"installation_id,omitempty" yaml:"installationID,omitempty"`

	// Token exp time.
	Exp time.Time `json:"expires_at,omitempty" yaml:"expiresAt,omitempty"`

	// Repositories which can be accessed with the token. This may be empty
	// if scoped token is not requested. In such cases, token will have access to all
	// repositories accessible by the installation.
	Repositories []string `json:"repositories,omitempty" yaml:"repositories,omitempty"`

	// Permissions available for the token.
	Permissions map[string]string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// Fields returns [logrus.Fields] describing the token. Token itself is redacted.
func (t InstallationToken) Fields() logrus.Fields {
	return logrus.Fields{
		"server":          t.Server,
		"app_id":          t.Issuer,
		"installation_id": t.InstallationID,
		"repositories":    t.Repositories,
		"permissions":     t.Permissions,
		"exp":             t.Exp,
		"token":           "REDACTED",
	}
}

// IsValid checks if [InstallationToken] is valid for at-least 60 seconds.
func (t InstallationToken) IsValid() bool {
	return t.Token != "" && t.Exp.After(time.Now().Add(time.Minute))
}

// tokenRequest holds options for installation token requests.
type tokenRequest struct {
	repos  []string
	scopes map[string]string
}

// InstallationToken creates a new installation access token for installation id.
// This always returns a new token, thus callers can safely revoke the token
// whenever required.
//
// Use [WithRepositories] and [WithPermissions] to limit scope of the token.
func (c *Client) InstallationToken(ctx context.Context, id uint64, opts ...TokenOption) (InstallationToken, error) {
	if id == 0 {
		return InstallationToken{},
			fmt.Errorf("githubapp(token): %w: installation id cannot be zero", ErrOptions)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	req := tokenRequest{}
	for i := range opts {
		if opts[i] != nil {
			err = errors.Join(err, opts[i].applyToken(&req))
		}
	}
	if err != nil {
		return InstallationToken{}, fmt.Errorf("githubapp(token): %w: %w", ErrOptions, err)
	}

	u := c.endpoint("app", "installations", strconv.FormatUint(id, 10), "access_tokens")

	// Body is only sent when scoped token is requested.
	var body any
	if len(req.repos) > 0 || len(req.scopes) > 0 {
		body = api.InstallationTokenRequest{
			Repositories: req.repos,
			Permissions:  req.scopes,
		}
	}

	resp := api.InstallationTokenResponse{}
	err = c.do(ctx, http.MethodPost, u, body, &resp, http.StatusCreated, http.StatusOK)
	if err != nil {
		return InstallationToken{},
			fmt.Errorf("githubapp(token): failed to get installation token: %w", err)
	}

	if resp.Token == "" {
		return InstallationToken{},
			errors.New("githubapp(token): missing token in API response")
	}

	token := InstallationToken{
		Server:         c.baseURL.String(),
		Issuer:         c.issuer,
		InstallationID: id,
		Token:          resp.Token,
	}

	if resp.Exp != nil {
		token.Exp = resp.Exp.Time
	}

	if resp.Repositories != nil {
		token.Repositories = make([]string, 0, len(resp.Repositories))
		for _, item := range resp.Repositories {
			if item != nil && item.Name != nil {
				token.Repositories = append(token.Repositories, *item.Name)
			}
		}
	}

	if resp.Permissions != nil {
		token.Permissions = maps.Clone(resp.Permissions)
	}

	c.logger.WithFields(token.Fields()).Debug("Created installation access token")
	return token, nil
}

// RevokeInstallationToken revokes the installation access token.
//
// https://docs.github.com/en/rest/apps/installations?apiVersion=2022-11-28#revoke-an-installation-access-token
func (c *Client) RevokeInstallationToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("githubapp(revoke): %w: token is empty", ErrOptions)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	u := c.endpoint("installation", "token")
	err := c.do(ctxWithInstallationToken(ctx, token), http.MethodDelete, u, nil, nil, http.StatusNoContent)
	if err != nil {
		return fmt.Errorf("githubapp(revoke): failed to revoke token: %w", err)
	}

	c.logger.Debug("Revoked installation access token")
	return nil
}

// NewInstallationToken is a convenience function which resolves installation
// for the target and returns a new installation access token for it.
// This takes same options as [NewClient].
func NewInstallationToken(ctx context.Context, issuer string, signer crypto.Signer, target Target, opts ...Option) (InstallationToken, error) {
	c, err := NewClient(issuer, signer, opts...)
	if err != nil {
		return InstallationToken{}, err
	}

	id, err := c.ResolveInstallation(ctx, target)
	if err != nil {
		return InstallationToken{}, err
	}
	return c.InstallationToken(ctx, id)
}
