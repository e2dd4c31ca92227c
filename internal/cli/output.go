// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/tprasadtp/gh-app-token/githubapp"
	"github.com/tprasadtp/gh-app-token/internal/config"
	"gopkg.in/yaml.v3"
)

// Username to use with installation access tokens over https.
const gitCredentialUsername = "x-access-token"

// writeToken writes token to w in the given format. Output is rendered
// completely before writing, thus w is never written to on errors.
func writeToken(w io.Writer, format string, token githubapp.InstallationToken) error {
	var buf bytes.Buffer
	switch format {
	case config.FormatToken, "":
		buf.WriteString(token.Token)
		buf.WriteByte('\n')
	case config.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(token); err != nil {
			return errors.Wrap(err, "failed to encode token as json")
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(token); err != nil {
			return errors.Wrap(err, "failed to encode token as yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "failed to encode token as yaml")
		}
	case config.FormatGitCredential:
		host, err := credentialHost(token.Server)
		if err != nil {
			return err
		}
		// https://git-scm.com/docs/git-credential#IOFMT
		fmt.Fprintf(&buf, "protocol=https\nhost=%s\nusername=%s\npassword=%s\n",
			host, gitCredentialUsername, token.Token)
		if !token.Exp.IsZero() {
			fmt.Fprintf(&buf, "password_expiry_utc=%d\n", token.Exp.Unix())
		}
	case config.FormatEnv:
		fmt.Fprintf(&buf, "GH_TOKEN=%s\nGITHUB_TOKEN=%s\n", token.Token, token.Token)
	default:
		return errors.Errorf("unsupported output format %q", format)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// credentialHost returns git host for the API endpoint. API endpoints
// with "api." prefix (github.com and GHE.com) are served from the parent
// domain. GitHub Enterprise Server serves API from the same host.
func credentialHost(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", errors.Errorf("invalid api endpoint %q", server)
	}
	return strings.TrimPrefix(u.Host, "api."), nil
}
