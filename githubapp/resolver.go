// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tprasadtp/gh-app-token/internal/api"
)

// ResolveInstallation returns installation ID of the app for the target repository.
//
//   - If target has non-zero installation ID, it is returned as is
//     without making any API calls.
//   - Otherwise, repository installation is looked up directly. If the lookup does
//     not succeed, all installations of the app are listed and repositories
//     accessible to each of them are searched for the target repository.
//
// If none of the installations have access to the repository, returned error
// wraps [ErrInstallationNotFound].
func (c *Client) ResolveInstallation(ctx context.Context, target Target) (uint64, error) {
	if target.InstallationID != 0 {
		c.logger.WithField("installation_id", target.InstallationID).
			Debug("Using configured installation id")
		return target.InstallationID, nil
	}

	if err := target.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOptions, err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id, err := c.repositoryInstallation(ctx, target)
	if err == nil {
		return id, nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return 0, fmt.Errorf("githubapp(resolve): %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"repository": target.FullName(),
		"status":     apiErr.StatusCode,
	}).Debug("Repository installation lookup failed, searching all installations")

	id, err = c.discoverInstallation(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("githubapp(resolve): %w", err)
	}
	return id, nil
}

// repositoryInstallation looks up installation for the repository.
//
// https://docs.github.com/en/rest/apps/apps?apiVersion=2022-11-28#get-a-repository-installation-for-the-authenticated-app
func (c *Client) repositoryInstallation(ctx context.Context, target Target) (uint64, error) {
	u := c.endpoint("repos", target.Owner, target.Repo, "installation")

	installation := api.Installation{}
	err := c.do(ctx, http.MethodGet, u, nil, &installation, http.StatusOK)
	if err != nil {
		return 0, err
	}

	if installation.ID == nil || *installation.ID <= 0 {
		return 0, fmt.Errorf("missing installation id in API response for %s", target.FullName())
	}

	c.logger.WithFields(logrus.Fields{
		"repository":      target.FullName(),
		"installation_id": *installation.ID,
	}).Debug("Found repository installation")
	return uint64(*installation.ID), nil
}

// discoverInstallation searches all app installations for the repository.
// Installations are searched in the order returned by the API and first
// installation with access to the repository wins.
func (c *Client) discoverInstallation(ctx context.Context, target Target) (uint64, error) {
	for page := 1; ; page++ {
		installations, err := c.listInstallations(ctx, page)
		if err != nil {
			return 0, err
		}

		for _, item := range installations {
			if item == nil || item.ID == nil {
				continue
			}
			id := uint64(*item.ID)
			logger := c.logger.WithField("installation_id", id)

			// Suspended installations cannot create access tokens.
			if item.SuspendedAt != nil && !item.SuspendedAt.IsZero() &&
				item.SuspendedAt.Time.Before(time.Now()) {
				logger.Debug("Skipping suspended installation")
				continue
			}

			ok, err := c.installationHasRepository(ctx, id, target)
			if err != nil {
				return 0, err
			}

			if ok {
				logger.WithField("repository", target.FullName()).
					Debug("Found installation with access to repository")
				return id, nil
			}
		}

		if len(installations) < c.perPage {
			break
		}
	}

	return 0, fmt.Errorf("%w: app %s is not installed on %s",
		ErrInstallationNotFound, c.issuer, target.FullName())
}

// listInstallations lists a single page of app installations.
//
// https://docs.github.com/en/rest/apps/apps?apiVersion=2022-11-28#list-installations-for-the-authenticated-app
func (c *Client) listInstallations(ctx context.Context, page int) ([]*api.Installation, error) {
	u := c.endpoint("app", "installations")
	u.RawQuery = api.PageQuery(c.perPage, page)

	var installations []*api.Installation
	err := c.do(ctx, http.MethodGet, u, nil, &installations, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to list installations: %w", err)
	}
	return installations, nil
}

// installationHasRepository checks if installation has access to the repository.
// Listing repositories requires an installation access token. A token without
// any scopes is created and revoked once the listing is complete.
//
// https://docs.github.com/en/rest/apps/installations?apiVersion=2022-11-28#list-repositories-accessible-to-the-app-installation
func (c *Client) installationHasRepository(ctx context.Context, id uint64, target Target) (bool, error) {
	token, err := c.InstallationToken(ctx, id)
	if err != nil {
		return false, err
	}

	defer func() {
		// Revoke even if parent context is already cancelled.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := c.RevokeInstallationToken(rctx, token.Token); err != nil {
			c.logger.WithField("installation_id", id).WithError(err).
				Warn("Failed to revoke installation token used for discovery")
		}
	}()

	tctx := ctxWithInstallationToken(ctx, token.Token)
	fullName := target.FullName()
	seen := int64(0)
	for page := 1; ; page++ {
		u := c.endpoint("installation", "repositories")
		u.RawQuery = api.PageQuery(c.perPage, page)

		resp := api.ListInstallationRepositoriesResponse{}
		err = c.do(tctx, http.MethodGet, u, nil, &resp, http.StatusOK)
		if err != nil {
			return false, fmt.Errorf("failed to list repositories for installation %s: %w",
				strconv.FormatUint(id, 10), err)
		}

		for _, repo := range resp.Repositories {
			if repo != nil && repo.FullName != nil && strings.EqualFold(*repo.FullName, fullName) {
				return true, nil
			}
		}

		seen += int64(len(resp.Repositories))
		if len(resp.Repositories) < c.perPage || seen >= resp.TotalCount {
			return false, nil
		}
	}
}
