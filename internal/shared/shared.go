// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package shared holds helpers shared by tests of multiple packages.
package shared

import (
	"context"
	"testing"
	"time"
)

// TestingCtx returns a context which is cancelled when test deadline is
// reached or after timeout, whichever is earlier. Context is also cancelled
// when the test completes.
//
// Per test timeouts are not available yet.
// See https://github.com/golang/go/issues/48157 for more info.
func TestingCtx(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	if timeout <= 0 {
		t.Logf("Ignoring invalid timeout value: %s", timeout)
		timeout = 30 * time.Second
	}

	deadline := time.Now().Add(timeout)
	if ts, ok := t.Deadline(); ok && ts.Before(deadline) {
		deadline = ts
	}

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	t.Cleanup(cancel)
	return ctx, cancel
}
