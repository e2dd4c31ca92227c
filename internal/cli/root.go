// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package cli implements gh-app-token command line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tprasadtp/gh-app-token/internal/config"
)

// Streams holds standard streams and environment used by the commands.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// LookupEnv looks up environment variables. If nil, environment
	// variables are ignored.
	LookupEnv config.LookupFunc

	// Dir is the directory used to find git repository for --git-remote.
	// Defaults to current working directory.
	Dir string
}

// OSStreams returns [Streams] backed by process stdin, stdout, stderr
// and environment.
func OSStreams() Streams {
	return Streams{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		LookupEnv: os.LookupEnv,
	}
}

// globalOptions are flags shared by all commands which talk to GitHub API.
type globalOptions struct {
	appID      string
	privateKey string
	apiURL     string
	configFile string
	envFile    string
	verbose    bool
	timeout    time.Duration
}

// Execute runs the CLI with given arguments and returns exit code.
// Only the command output is written to streams.Out. Logs and errors
// are written to streams.Err.
func Execute(ctx context.Context, version string, streams Streams, args []string) int {
	cmd := newRootCommand(version, streams)

	// Cobra falls back to os.Args when args is nil.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(streams.Err, err, useColor(streams))
		return 1
	}
	return 0
}

func newRootCommand(version string, streams Streams) *cobra.Command {
	global := &globalOptions{}
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "gh-app-token",
		Short: "Obtain GitHub App installation access token",
		Long: `Obtain GitHub App installation access token for a repository.

Installation is discovered automatically unless --installation-id is
specified. Only the token is written to standard output, thus it can be
captured with command substitution. Logs and errors are written to
standard error.`,
		Example: `  GH_TOKEN="$(gh-app-token --app-id 12345 --private-key app.pem --owner acme --repo widgets)"
  gh-app-token --app-id 12345 --private-key app.pem --repo https://github.com/acme/widgets --format json`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, streams, global, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&global.appID, "app-id", "", "GitHub app ID or client ID (required)")
	flags.StringVar(&global.privateKey, "private-key", "", "path to app private key in PEM format (required)")
	flags.StringVar(&global.apiURL, "api-url", "", "GitHub API endpoint (default \"https://api.github.com/\")")
	flags.StringVar(&global.configFile, "config", "", "path to config file (default \"$XDG_CONFIG_HOME/gh-app-token/config.toml\")")
	flags.StringVar(&global.envFile, "env-file", "", "read environment variables from file")
	flags.BoolVarP(&global.verbose, "verbose", "v", false, "write diagnostic logs to standard error")
	flags.DurationVar(&global.timeout, "timeout", 0, "timeout for all API calls (default no timeout)")

	opts.register(cmd)

	cmd.AddCommand(
		newJWTCommand(streams, global),
		newRevokeCommand(streams, global),
		newVersionCommand(),
	)
	return cmd
}
