// SPDX-FileCopyrightText: Copyright 2024 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

// Permission access levels as reported by installation and token endpoints.
// Permissions not granted to an installation may be reported as "none".
const (
	PermissionLevelNone  = "none"
	PermissionLevelRead  = "read"
	PermissionLevelWrite = "write"
	PermissionLevelAdmin = "admin"
)

// TokenPermissionLevels lists levels which can be requested when
// creating a scoped installation access token.
//
//nolint:gochecknoglobals // read only.
var TokenPermissionLevels = []string{
	PermissionLevelRead,
	PermissionLevelWrite,
	PermissionLevelAdmin,
}
