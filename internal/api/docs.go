// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package api holds types and methods to serialize and deserialize
// requests to and from GitHub API.
//
// Types are just enough for the app and installation endpoints used to
// mint installation access tokens and should be considered incomplete.
package api
