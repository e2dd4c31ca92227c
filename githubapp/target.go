// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"errors"
	"fmt"
	"strings"
)

// Target identifies repository for which installation access token is requested.
type Target struct {
	// Repository owner, user or organization login.
	Owner string

	// Repository name without the owner.
	Repo string

	// Installation ID. If not zero, installation discovery is skipped.
	InstallationID uint64
}

// FullName returns repository full name in owner/repo format.
func (t Target) FullName() string {
	return t.Owner + "/" + t.Repo
}

// Validate checks owner and repository names are valid.
func (t Target) Validate() error {
	var err error
	owner := strings.ToLower(t.Owner)
	repo := strings.ToLower(t.Repo)

	if owner == "" {
		err = errors.Join(err, errors.New("owner not specified"))
	} else if !userNameRegExp.MatchString(owner) {
		err = errors.Join(err, fmt.Errorf("invalid owner: %s", t.Owner))
	}

	if repo == "" {
		err = errors.Join(err, errors.New("repository not specified"))
	} else if !validRepoName(repo) {
		err = errors.Join(err, fmt.Errorf("invalid repository: %s", t.Repo))
	}

	return err
}
