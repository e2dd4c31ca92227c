// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables recognized by the CLI.
const (
	EnvAppID           = "GITHUB_APP_ID"
	EnvPrivateKey      = "GITHUB_APP_PRIVATE_KEY_PATH"
	EnvInstallationID  = "GITHUB_APP_INSTALLATION_ID"
	EnvAPIURL          = "GITHUB_API_URL"
	EnvRepository      = "GITHUB_REPOSITORY"
	EnvRepositoryOwner = "GITHUB_REPOSITORY_OWNER"
)

var envKeys = []string{
	EnvAppID,
	EnvPrivateKey,
	EnvInstallationID,
	EnvAPIURL,
	EnvRepository,
	EnvRepositoryOwner,
}

// LookupFunc looks up environment variable, like [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// Env holds values of recognized environment variables.
type Env map[string]string

// ReadEnv reads recognized environment variables. If envFile is not empty,
// it is read with dotenv syntax and values set by lookup take precedence
// over values from the file. Empty values are ignored.
func ReadEnv(envFile string, lookup LookupFunc) (Env, error) {
	env := make(Env, len(envKeys))
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read env file %s", envFile)
		}
		for _, key := range envKeys {
			if v := strings.TrimSpace(values[key]); v != "" {
				env[key] = v
			}
		}
	}

	if lookup != nil {
		for _, key := range envKeys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				env[key] = strings.TrimSpace(v)
			}
		}
	}
	return env, nil
}

// Apply overrides config values with values from env.
// GITHUB_REPOSITORY sets both owner and repository and takes precedence
// over GITHUB_REPOSITORY_OWNER.
func (c *Config) Apply(env Env) error {
	if v, ok := env[EnvAppID]; ok {
		c.AppID = v
	}

	if v, ok := env[EnvPrivateKey]; ok {
		c.PrivateKey = v
	}

	if v, ok := env[EnvInstallationID]; ok {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvInstallationID)
		}
		c.InstallationID = id
	}

	if v, ok := env[EnvAPIURL]; ok {
		c.APIURL = v
	}

	if v, ok := env[EnvRepository]; ok {
		owner, repo, found := strings.Cut(v, "/")
		if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
			return errors.Errorf("invalid %s %q: must be in owner/repo format", EnvRepository, v)
		}
		c.Owner = owner
		c.Repo = repo
	} else if v, ok := env[EnvRepositoryOwner]; ok {
		c.Owner = v
	}
	return nil
}
