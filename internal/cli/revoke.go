// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Environment variable holding token to revoke.
const envRevokeToken = "GH_APP_TOKEN"

type revokeOptions struct {
	token string
}

func newRevokeCommand(streams Streams, global *globalOptions) *cobra.Command {
	opts := &revokeOptions{}
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an installation access token",
		Long: `Revoke an installation access token.

Token is read from --token flag, GH_APP_TOKEN environment variable or
the first line of standard input, in that order.`,
		Example: `  gh-app-token --app-id 12345 --private-key app.pem --repo acme/widgets | gh-app-token revoke --app-id 12345 --private-key app.pem`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRevoke(cmd, streams, global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.token, "token", "", "installation access token to revoke")
	return cmd
}

// revokeToken returns the token to revoke.
func (o *revokeOptions) revokeToken(streams Streams) (string, error) {
	if token := strings.TrimSpace(o.token); token != "" {
		return token, nil
	}

	if streams.LookupEnv != nil {
		if v, ok := streams.LookupEnv(envRevokeToken); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	// Do not wait for input from interactive terminals.
	if streams.In != nil && !isTerminal(streams.In) {
		line, err := bufio.NewReader(io.LimitReader(streams.In, 64<<10)).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "failed to read token from stdin")
		}
		if token := strings.TrimSpace(line); token != "" {
			return token, nil
		}
	}

	return "", errors.Errorf("token not specified, use --token, %s or standard input", envRevokeToken)
}

func runRevoke(cmd *cobra.Command, streams Streams, global *globalOptions, opts *revokeOptions) error {
	logger := newLogger(streams.Err, global.verbose)

	token, err := opts.revokeToken(streams)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd, streams, global)
	if err != nil {
		return err
	}

	client, err := newClient(cmd, cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cmd.Context(), global.timeout)
	defer cancel()

	return client.RevokeInstallationToken(ctx, token)
}
