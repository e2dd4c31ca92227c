// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package config loads gh-app-token settings from configuration file
// and environment variables.
package config

import (
	"bytes"
	"os"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Output formats supported by the CLI.
const (
	FormatToken         = "token"
	FormatJSON          = "json"
	FormatYAML          = "yaml"
	FormatGitCredential = "git-credential"
	FormatEnv           = "env"
)

// Formats lists all supported output formats.
var Formats = []string{FormatToken, FormatJSON, FormatYAML, FormatGitCredential, FormatEnv}

// Name of the config file relative to XDG config directories.
const relativeConfigPath = "gh-app-token/config.toml"

// Config captures settings which can be set in config file.
// All fields are optional and are overridden by environment
// variables and flags.
type Config struct {
	AppID          string   `toml:"app_id"`
	PrivateKey     string   `toml:"private_key"`
	InstallationID uint64   `toml:"installation_id"`
	APIURL         string   `toml:"api_url"`
	Owner          string   `toml:"owner"`
	Repo           string   `toml:"repo"`
	Format         string   `toml:"format"`
	Repositories   []string `toml:"repositories"`
	Permissions    []string `toml:"permissions"`
}

func (c *Config) applyDefaults() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = FormatToken
	}
}

// Validate checks values which can be checked without network access.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return errors.Errorf("invalid format %q, must be one of %s", c.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// Default returns configuration with defaults applied.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// DefaultPath returns path of the config file in XDG config directories.
// Empty string is returned if config file does not exist.
func DefaultPath() string {
	path, err := xdg.SearchConfigFile(relativeConfigPath)
	if err != nil {
		return ""
	}
	return path
}

// Load reads configuration from path. Unknown keys are rejected.
// If path is empty, default configuration is returned.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}
