// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tprasadtp/gh-app-token/internal/testdata/apitestdata"
)

func TestTimestamp_MarshalJSON(t *testing.T) {
	tt := []struct {
		name   string
		data   Timestamp
		expect string
	}{
		{name: "zero", data: Timestamp{}, expect: `"0001-01-01T00:00:00Z"`},
		{name: "utc", data: Timestamp{time.Date(2030, time.January, 2, 15, 4, 5, 0, time.UTC)}, expect: `"2030-01-02T15:04:05Z"`},
		{name: "offset", data: Timestamp{time.Date(2030, time.January, 2, 20, 34, 5, 0, time.FixedZone("IST", 19800))}, expect: `"2030-01-02T15:04:05Z"`},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			out, err := json.Marshal(tc.data)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if string(out) != tc.expect {
				t.Errorf("expected=%s, got=%s", tc.expect, out)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	ref := time.Date(2030, time.January, 2, 15, 4, 5, 0, time.UTC)
	tt := []struct {
		name   string
		data   string
		expect time.Time
		err    bool
	}{
		{name: "rfc3339", data: `"2030-01-02T15:04:05Z"`, expect: ref},
		{name: "rfc3339-offset", data: `"2030-01-02T20:34:05+05:30"`, expect: ref},
		{name: "rfc3339-fractional", data: `"2030-01-02T15:04:05.000Z"`, expect: ref},
		{name: "unix", data: `1893596645`, expect: ref},
		{name: "unix-milli", data: `1893596645000`, expect: ref},
		{name: "unix-zero", data: `0`, expect: time.Unix(0, 0)},
		{name: "null", data: `null`, expect: time.Time{}},
		{name: "invalid-string", data: `"tomorrow"`, err: true},
		{name: "invalid-type", data: `true`, err: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var got Timestamp
			err := json.Unmarshal([]byte(tc.data), &got)
			if tc.err {
				if err == nil {
					t.Errorf("expected an error, got %s", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if !got.Equal(Timestamp{tc.expect}) {
				t.Errorf("expected=%s, got=%s", tc.expect, got)
			}
		})
	}
}

func TestTimestamp_Response(t *testing.T) {
	data := apitestdata.Get(t)

	t.Run("token-expiry", func(t *testing.T) {
		var resp InstallationTokenResponse
		if err := json.Unmarshal(data["installation-token"], &resp); err != nil {
			t.Fatalf("failed to decode response: %s", err)
		}

		expect := Timestamp{time.Date(2030, time.January, 2, 15, 4, 5, 0, time.UTC)}
		if resp.Exp == nil || !resp.Exp.Equal(expect) {
			t.Errorf("expected expires_at=%s, got=%v", expect, resp.Exp)
		}
	})

	t.Run("suspended-at-null", func(t *testing.T) {
		var installations []*Installation
		if err := json.Unmarshal(data["installations"], &installations); err != nil {
			t.Fatalf("failed to decode response: %s", err)
		}

		for _, item := range installations {
			if item.SuspendedAt != nil && !item.SuspendedAt.IsZero() {
				t.Errorf("installation %d must not be suspended: %s", *item.ID, item.SuspendedAt)
			}
		}
	})
}
