// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

import (
	"net/url"
	"strconv"
)

// DefaultEndpoint is default GitHub REST API endpoint.
const DefaultEndpoint = "https://api.github.com/"

// DefaultPerPage is page size used for listing endpoints. This is the
// maximum allowed by GitHub REST API.
const DefaultPerPage = 100

// PageQuery returns query string for paginated list endpoints.
func PageQuery(perPage, page int) string {
	v := url.Values{}
	v.Set("per_page", strconv.Itoa(perPage))
	v.Set("page", strconv.Itoa(page))
	return v.Encode()
}
