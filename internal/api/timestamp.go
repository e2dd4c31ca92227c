// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package api

import (
	"strconv"
	"time"
)

// Timestamp represents a time that can be unmarshalled from a JSON string
// formatted as either an RFC3339 or Unix timestamp. Unix timestamps can be
// in seconds or milliseconds. Marshalling always uses RFC3339.
type Timestamp struct {
	time.Time
}

// Unix timestamps larger than this are assumed to be in milliseconds.
// This is 2286-11-20 in seconds.
const unixMilliThreshold = 1e10

// MarshalJSON implements [encoding/json.Marshaler].
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Time.UTC().Format(time.RFC3339))), nil
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" {
		return nil
	}

	i, err := strconv.ParseInt(str, 10, 64)
	if err == nil {
		if i > unixMilliThreshold {
			t.Time = time.UnixMilli(i).UTC()
		} else {
			t.Time = time.Unix(i, 0).UTC()
		}
		return nil
	}

	unquoted, err := strconv.Unquote(str)
	if err != nil {
		return err
	}

	v, err := time.Parse(time.RFC3339, unquoted)
	if err != nil {
		return err
	}
	t.Time = v.UTC()
	return nil
}

// Equal reports whether t and u are equal based on time.Equal.
func (t Timestamp) Equal(u Timestamp) bool {
	return t.Time.Equal(u.Time)
}
