// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tprasadtp/gh-app-token/githubapp"
	"github.com/tprasadtp/gh-app-token/internal/config"
)

// loadSettings merges config file, environment variables and flags.
// Flags take precedence over environment variables, which take precedence
// over values from config file.
func loadSettings(cmd *cobra.Command, streams Streams, global *globalOptions) (config.Config, error) {
	path := global.configFile
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	env, err := config.ReadEnv(global.envFile, streams.LookupEnv)
	if err != nil {
		return config.Config{}, err
	}

	if err = cfg.Apply(env); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid environment")
	}

	flags := cmd.Flags()
	override(flags, "app-id", &cfg.AppID, global.appID)
	override(flags, "private-key", &cfg.PrivateKey, global.privateKey)
	override(flags, "api-url", &cfg.APIURL, global.apiURL)
	return cfg, nil
}

// override sets dst to v if flag was explicitly set.
func override[T any](flags *pflag.FlagSet, name string, dst *T, v T) {
	if flags.Changed(name) {
		*dst = v
	}
}

// newClient loads the private key and builds API client. Private key is
// validated before any API calls are made.
func newClient(cmd *cobra.Command, cfg config.Config, logger logrus.FieldLogger) (*githubapp.Client, error) {
	if cfg.AppID == "" {
		return nil, errors.Errorf("app id not specified, use --app-id or %s", config.EnvAppID)
	}

	if cfg.PrivateKey == "" {
		return nil, errors.Errorf("private key not specified, use --private-key or %s", config.EnvPrivateKey)
	}

	key, err := githubapp.LoadPrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	client, err := githubapp.NewClient(cfg.AppID, key,
		githubapp.WithEndpoint(cfg.APIURL),
		githubapp.WithUserAgent(userAgent(cmd.Root().Version)),
		githubapp.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"app_id":   client.Issuer(),
		"endpoint": client.Endpoint(),
	}).Debug("Initialized API client")
	return client, nil
}

func userAgent(version string) string {
	if version == "" {
		version = "devel"
	}
	return fmt.Sprintf("gh-app-token/%s", version)
}

// withTimeout returns ctx bounded by timeout. Zero timeout means no timeout.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
