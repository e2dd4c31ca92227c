// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package cli

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tprasadtp/gh-app-token/githubapp"
	"github.com/tprasadtp/gh-app-token/internal/config"
	"github.com/tprasadtp/gh-app-token/internal/repo"
)

type tokenOptions struct {
	owner          string
	repo           string
	installationID uint64
	format         string
	repositories   []string
	permissions    []string
	gitRemote      string
}

func (o *tokenOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.owner, "owner", "", "repository owner (required)")
	flags.StringVar(&o.repo, "repo", "", "repository name, owner/repo or repository URL (required)")
	flags.Uint64Var(&o.installationID, "installation-id", 0, "installation ID, skips installation discovery")
	flags.StringVarP(&o.format, "format", "f", config.FormatToken,
		"output format, one of "+strings.Join(config.Formats, ", "))
	flags.StringSliceVar(&o.repositories, "repositories", nil, "limit token to repositories of the installation owner")
	flags.StringSliceVar(&o.permissions, "permissions", nil, "limit token permissions, for example contents:read")
	flags.StringVar(&o.gitRemote, "git-remote", "", "infer owner and repository from git remote")
}

// apply overrides cfg with the flags which were set and validates the result.
func (o *tokenOptions) apply(cmd *cobra.Command, streams Streams, cfg *config.Config) error {
	flags := cmd.Flags()
	if o.gitRemote != "" {
		dir := streams.Dir
		if dir == "" {
			dir = "."
		}
		r, err := repo.FromGitRemote(dir, o.gitRemote)
		if err != nil {
			return err
		}
		cfg.Owner, cfg.Repo = r.Owner, r.Name
	}

	override(flags, "owner", &cfg.Owner, o.owner)

	if flags.Changed("repo") {
		if strings.Contains(o.repo, "/") {
			r, err := repo.Parse(o.repo)
			if err != nil {
				return errors.Wrap(err, "invalid --repo")
			}
			if flags.Changed("owner") && !strings.EqualFold(o.owner, r.Owner) {
				return errors.Errorf("--owner %q does not match owner of --repo %q", o.owner, o.repo)
			}
			cfg.Owner, cfg.Repo = r.Owner, r.Name
		} else {
			cfg.Repo = o.repo
		}
	}

	override(flags, "installation-id", &cfg.InstallationID, o.installationID)
	override(flags, "format", &cfg.Format, strings.ToLower(strings.TrimSpace(o.format)))
	override(flags, "repositories", &cfg.Repositories, o.repositories)
	override(flags, "permissions", &cfg.Permissions, o.permissions)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Owner == "" {
		return errors.Errorf("repository owner not specified, use --owner or %s", config.EnvRepositoryOwner)
	}

	if cfg.Repo == "" {
		return errors.Errorf("repository not specified, use --repo or %s", config.EnvRepository)
	}
	return nil
}

func runToken(cmd *cobra.Command, streams Streams, global *globalOptions, opts *tokenOptions) error {
	logger := newLogger(streams.Err, global.verbose)

	cfg, err := loadSettings(cmd, streams, global)
	if err != nil {
		return err
	}

	if err = opts.apply(cmd, streams, &cfg); err != nil {
		return err
	}

	client, err := newClient(cmd, cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cmd.Context(), global.timeout)
	defer cancel()

	target := githubapp.Target{
		Owner:          cfg.Owner,
		Repo:           cfg.Repo,
		InstallationID: cfg.InstallationID,
	}

	id, err := client.ResolveInstallation(ctx, target)
	if err != nil {
		return err
	}

	logger.WithField("installation_id", id).
		Debugf("Using installation for %s", target.FullName())

	token, err := client.InstallationToken(ctx, id,
		githubapp.WithRepositories(cfg.Repositories...),
		githubapp.WithPermissions(cfg.Permissions...),
	)
	if err != nil {
		return err
	}

	if !token.Exp.IsZero() {
		logger.WithFields(token.Fields()).
			Debugf("Installation token expires %s", humanize.Time(token.Exp))
	}

	return writeToken(streams.Out, cfg.Format, token)
}
