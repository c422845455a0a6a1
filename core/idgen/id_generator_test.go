// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)

	id := makeAt(at)
	prefix, suffix, ok := strings.Cut(id, "-")

	assert.True(t, ok)
	assert.Equal(t, "130405", prefix)
	assert.Len(t, suffix, 4)
	assert.NotEqual(t, Make(), Make())
}
