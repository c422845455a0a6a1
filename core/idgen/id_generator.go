// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers that tie together the log lines of one run.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Make makes a short run ID from the wall clock and 3 bytes of entropy.
func Make() string {
	return makeAt(time.Now())
}

func makeAt(t time.Time) string {
	entropy := [3]byte{'a', 'a', 'a'}

	_, _ = rand.Read(entropy[:])

	return maketime(t) + "-" + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// maketime formats the time of day as hhmmss.
func maketime(t time.Time) string {
	return t.Format("150405")
}
