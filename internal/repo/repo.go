// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package repo parses repository references and reads them from git remotes.
package repo

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
)

// Repository is a GitHub repository reference.
type Repository struct {
	Owner string
	Name  string
}

// String returns repository in owner/name format.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// scp like syntax used by ssh remotes, git@github.com:owner/repo.git.
var scpRegExp = regexp.MustCompile(`^(?:[\w.-]+@)?[\w.-]+:([^/].*)$`)

// Parse parses repository reference. Following formats are supported,
//
//   - owner/repo
//   - https://github.com/owner/repo(.git)
//   - ssh://git@github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
//
// URLs pointing to paths within the repository (like /tree/main) are accepted.
func Parse(s string) (Repository, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Repository{}, errors.New("repository reference is empty")
	}

	var path string
	var isURL bool
	switch {
	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return Repository{}, errors.Wrapf(err, "invalid repository url %q", s)
		}
		if u.Host == "" {
			return Repository{}, errors.Errorf("invalid repository url %q: missing host", s)
		}
		path = u.Path
		isURL = true
	case scpRegExp.MatchString(s):
		path = scpRegExp.FindStringSubmatch(s)[1]
		isURL = true
	default:
		path = s
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || (!isURL && len(parts) != 2) {
		return Repository{}, errors.Errorf("invalid repository %q: must be in owner/repo format", s)
	}

	r := Repository{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
	}

	if r.Owner == "" || r.Name == "" {
		return Repository{}, errors.Errorf("invalid repository %q: must be in owner/repo format", s)
	}
	return r, nil
}

// FromGitRemote returns repository referenced by the named remote of
// git repository at dir. Parent directories of dir are searched for
// the repository. First URL of the remote is used.
func FromGitRemote(dir, remote string) (Repository, error) {
	if remote == "" {
		remote = git.DefaultRemoteName
	}

	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Repository{}, errors.Wrapf(err, "failed to open git repository at %s", dir)
	}

	rem, err := r.Remote(remote)
	if err != nil {
		return Repository{}, errors.Wrapf(err, "failed to get git remote %q", remote)
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return Repository{}, errors.Errorf("git remote %q has no urls", remote)
	}

	v, err := Parse(urls[0])
	if err != nil {
		return Repository{}, errors.Wrapf(err, "git remote %q", remote)
	}
	return v, nil
}
