// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package config_test

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tprasadtp/gh-app-token/internal/config"
)

func reloadXDG(t *testing.T) {
	t.Helper()
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func lookupMap(m map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestReadEnv(t *testing.T) {
	t.Run("process-env", func(t *testing.T) {
		env, err := config.ReadEnv("", lookupMap(map[string]string{
			config.EnvAppID:          "99",
			config.EnvInstallationID: " 42 ",
			config.EnvAPIURL:         "",
			"HOME":                   "/root",
		}))
		require.NoError(t, err)
		assert.Equal(t, config.Env{
			config.EnvAppID:          "99",
			config.EnvInstallationID: "42",
		}, env)
	})

	t.Run("env-file", func(t *testing.T) {
		path := writeFile(t, ".env", "GITHUB_APP_ID=1\nGITHUB_APP_PRIVATE_KEY_PATH=/tmp/key.pem\nOTHER=value\n")
		env, err := config.ReadEnv(path, lookupMap(map[string]string{
			config.EnvAppID: "99",
		}))
		require.NoError(t, err)
		assert.Equal(t, config.Env{
			config.EnvAppID:      "99",
			config.EnvPrivateKey: "/tmp/key.pem",
		}, env)
	})

	t.Run("env-file-missing", func(t *testing.T) {
		_, err := config.ReadEnv(filepath.Join(t.TempDir(), ".env"), nil)
		assert.Error(t, err)
	})
}

func TestConfigApply(t *testing.T) {
	tt := []struct {
		name   string
		base   config.Config
		env    config.Env
		expect config.Config
		ok     bool
	}{
		{
			name:   "empty",
			base:   config.Config{AppID: "1", Owner: "octocat"},
			env:    config.Env{},
			expect: config.Config{AppID: "1", Owner: "octocat"},
			ok:     true,
		},
		{
			name: "all",
			base: config.Config{AppID: "1", Owner: "octocat", Repo: "gadgets"},
			env: config.Env{
				config.EnvAppID:           "99",
				config.EnvPrivateKey:      "/tmp/key.pem",
				config.EnvInstallationID:  "42",
				config.EnvAPIURL:          "https://github.example.com/api/v3",
				config.EnvRepository:      "acme/widgets",
				config.EnvRepositoryOwner: "ignored",
			},
			expect: config.Config{
				AppID:          "99",
				PrivateKey:     "/tmp/key.pem",
				InstallationID: 42,
				APIURL:         "https://github.example.com/api/v3",
				Owner:          "acme",
				Repo:           "widgets",
			},
			ok: true,
		},
		{
			name:   "owner-only",
			base:   config.Config{Repo: "widgets"},
			env:    config.Env{config.EnvRepositoryOwner: "acme"},
			expect: config.Config{Owner: "acme", Repo: "widgets"},
			ok:     true,
		},
		{
			name: "invalid-installation-id",
			env:  config.Env{config.EnvInstallationID: "forty-two"},
		},
		{
			name: "invalid-repository",
			env:  config.Env{config.EnvRepository: "widgets"},
		},
		{
			name: "invalid-repository-nested",
			env:  config.Env{config.EnvRepository: "acme/widgets/main"},
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.base
			err := cfg.Apply(tc.env)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.expect, cfg)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
