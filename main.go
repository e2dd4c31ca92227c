// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Command gh-app-token obtains GitHub App installation access tokens.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tprasadtp/gh-app-token/internal/cli"
)

// Set via ldflags.
var version = "devel"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, version, cli.OSStreams(), os.Args[1:])
	stop()
	os.Exit(code)
}
