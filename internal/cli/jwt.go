// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newJWTCommand(streams Streams, global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jwt",
		Short: "Print JWT signed with the app private key",
		Long: `Print JWT signed with the app private key.

JWT is valid for 10 minutes and can be used to call API endpoints
which require authenticating as the app. No API calls are made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(streams.Err, global.verbose)
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

			token, err := client.JWT(ctx)
			if err != nil {
				return err
			}

			logger.WithFields(token.Fields()).Debugf("JWT expires %s", humanize.Time(token.Exp))
			_, err = fmt.Fprintln(streams.Out, token.Token)
			return err
		},
	}
}
