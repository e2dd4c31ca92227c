// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package apitestdata holds recorded REST API responses used by unit tests.
package apitestdata

import (
	"embed"
	"io/fs"
	"maps"
	"path"
	"strings"
	"sync"
	"testing"
)

// Owner is owner of the test repository.
const Owner = "acme"

// Repository is name of the test repository.
const Repository = "widgets"

// InstallationID is ID of the installation in repo-installation.json.
const InstallationID = 42

// FallbackInstallationID is ID of the installation in installations.json
// which has access to [Owner]/[Repository].
const FallbackInstallationID = 7

// AppID Test App ID.
const AppID = 99

// Token is installation access token in installation-token.json.
const Token = "ghs_abc123"

//go:embed *.json
var files embed.FS

// Read api data once.
var once sync.Once

// API data storage.
var apiDataMap map[string][]byte

// Get returns API test data which is a map of test data to JSON responses
// from API endpoint. Keys are file names with and without .json extension.
func Get(t *testing.T) map[string][]byte {
	t.Helper()
	once.Do(func() {
		items, err := fs.Glob(files, "*.json")
		if err != nil || len(items) == 0 {
			return
		}

		m := make(map[string][]byte, 2*len(items))
		for _, item := range items {
			slurp, err := files.ReadFile(item)
			if err != nil {
				return
			}
			m[item] = slurp
			m[strings.TrimSuffix(item, path.Ext(item))] = slurp
		}
		apiDataMap = m
	})

	if apiDataMap == nil {
		t.Fatalf("failed to populate api data")
	}

	// Return clone of the map, as some callers may mutate map keys.
	return maps.Clone(apiDataMap)
}
