// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tprasadtp/gh-app-token/internal/api"
)

// Options takes a variadic slice of [Options] and returns
// a single [Options] which includes all the given options.
// This is useful for sharing presets. If conflicting options
// are specified, last one specified wins. As a special case,
// if no options are specified or all specified options are nil,
// this will return nil.
func Options(options ...Option) Option {
	nils := 0
	for i := range options {
		if options[i] == nil {
			nils++
		}
	}
	if len(options) == nils {
		return nil
	}

	return &funcOption{
		f: func(c *Client) error {
			var err error
			for i := range options {
				if options[i] != nil {
					err = errors.Join(err, options[i].apply(c))
				}
			}
			return err
		},
	}
}

// Option is option to apply for [Client].
type Option interface {
	apply(c *Client) error
}

// funcOption wraps a function that is applied to the Client
// during its initial configuration. It implements [Option]
// interface.
type funcOption struct {
	f func(*Client) error
}

func (opt *funcOption) apply(c *Client) error {
	return opt.f(c)
}

// TokenOption is option to apply for installation token requests.
type TokenOption interface {
	applyToken(r *tokenRequest) error
}

type funcTokenOption struct {
	f func(*tokenRequest) error
}

func (opt *funcTokenOption) applyToken(r *tokenRequest) error {
	return opt.f(r)
}

var (
	repoNameRegExp  = regexp.MustCompile(`^[a-z0-9_.-]{1,100}$`)
	userNameRegExp  = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,38})?$`)
	permissionRegEx = regexp.MustCompile(`^[a-z]([a-z_]+[a-z])?[:=](` +
		strings.Join(api.TokenPermissionLevels, "|") + `)$`)
)

// validRepoName checks repository name. Name must already be lower case.
func validRepoName(name string) bool {
	return name != "." && name != ".." && repoNameRegExp.MatchString(name)
}

// WithEndpoint configures [Client] to use custom REST API(v3) endpoint
// for authenticating as app, discovering installations and creating
// installation access tokens.
//
// When not specified or empty, "https://api.github.com/" is used.
// For GitHub Enterprise Server, this is typically "https://HOSTNAME/api/v3/".
func WithEndpoint(endpoint string) Option {
	if endpoint == "" {
		return nil
	}
	return &funcOption{
		f: func(c *Client) error {
			u, err := url.Parse(endpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint url: %w", err)
			}
			switch u.Scheme {
			case "http", "https":
			default:
				return fmt.Errorf("invalid url scheme : %s (%s)", u.Scheme, endpoint)
			}

			if u.Host == "" {
				return fmt.Errorf("endpoint url has no host: %s", endpoint)
			}

			if u.Fragment != "" || u.RawQuery != "" {
				return fmt.Errorf("endpoint cannot have fragments or queries: %s", endpoint)
			}

			c.baseURL = u
			return nil
		},
	}
}

// WithRoundTripper configures [Client] to use next as next [http.RoundTripper].
//
// This can be used to further customize headers, add logging or proxies.
func WithRoundTripper(next http.RoundTripper) Option {
	if next == nil {
		return nil
	}
	return &funcOption{
		f: func(c *Client) error {
			c.next = next
			return nil
		},
	}
}

// WithUserAgent configures user agent header to use for API requests.
func WithUserAgent(ua string) Option {
	if strings.TrimSpace(ua) == "" {
		return nil
	}
	return &funcOption{
		f: func(c *Client) error {
			c.ua = ua
			return nil
		},
	}
}

// WithLogger configures logger used for diagnostics. Tokens are never logged.
// By default, nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	if logger == nil {
		return nil
	}
	return &funcOption{
		f: func(c *Client) error {
			c.logger = logger
			return nil
		},
	}
}

// WithPageSize configures page size used when listing installations and
// repositories accessible to an installation. Must be between 1 and 100.
func WithPageSize(n int) Option {
	return &funcOption{
		f: func(c *Client) error {
			if n < 1 || n > 100 {
				return fmt.Errorf("page size must be between 1 and 100: %d", n)
			}
			c.perPage = n
			return nil
		},
	}
}

// WithRepositories limits installation access token to the repositories
// specified. Repositories can be specified as "name" or "owner/name", but all
// of them must belong to the installation owner.
func WithRepositories(repos ...string) TokenOption {
	if len(repos) == 0 {
		return nil
	}
	return &funcTokenOption{
		f: func(r *tokenRequest) error {
			refOwner := ""
			invalid := make([]string, 0, len(repos))
			for _, item := range repos {
				item = strings.ToLower(strings.TrimSpace(item))
				username, repo, ok := strings.Cut(item, "/")
				// Repository is in form username/repo.
				if ok {
					if !userNameRegExp.MatchString(username) {
						invalid = append(invalid, item)
						continue
					}

					// Repositories must be under a single installation.
					if refOwner == "" {
						refOwner = username
					} else if username != refOwner {
						return fmt.Errorf("repositories from multiple owners specified: %v", repos)
					}

					item = repo
				}

				if !validRepoName(item) {
					invalid = append(invalid, item)
				} else {
					r.repos = append(r.repos, item)
				}
			}

			if len(invalid) > 0 {
				return fmt.Errorf("invalid repositories specified: %v", invalid)
			}

			// Sort before removing duplicates.
			slices.Sort(r.repos)
			r.repos = slices.Clip(slices.Compact(r.repos))
			return nil
		},
	}
}

// WithPermissions configures permission scopes. This is useful when app has
// broader set of permissions but a scoped access token is required.
//
// Permissions MUST be specified in <scope>:<access> or <scope>=<access> format.
// Where scope is permission scope like "issues" and access can be one of
// "read", "write" or "admin".
//
// For example to request permissions to write issues and pull request can be specified as,
//
//	githubapp.WithPermissions("issues:write", "pull_requests:write")
func WithPermissions(permissions ...string) TokenOption {
	if len(permissions) == 0 {
		return nil
	}
	return &funcTokenOption{
		f: func(r *tokenRequest) error {
			m := make(map[string]string, len(permissions))
			invalid := make([]string, 0, len(permissions))
			for _, item := range permissions {
				item = strings.ToLower(strings.TrimSpace(item))
				if permissionRegEx.MatchString(item) {
					// Replace = with :
					item = strings.ReplaceAll(item, "=", ":")

					// Regex already validates that permissions are
					// in <scope>:<level> format.
					scope, level, _ := strings.Cut(item, ":")
					m[scope] = level
				} else {
					invalid = append(invalid, item)
				}
			}
			if len(invalid) != 0 {
				return fmt.Errorf("invalid permissions: %v", invalid)
			}
			r.scopes = m
			return nil
		},
	}
}
