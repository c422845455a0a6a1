// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/i18nmerge/config"
)

func TestRun_UnknownCommand(t *testing.T) {
	require.ErrorIs(t, run([]string{"merge"}), errUnknownCommand)
}

func TestRun_Version(t *testing.T) {
	require.NoError(t, run([]string{"version"}))
}

func TestRun_BadFlag(t *testing.T) {
	require.Error(t, run([]string{"-no-such-flag"}))
}

func TestNewRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	registry, err := newRegistry(cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"command", "gettext", "go"}, registry.IDs())

	e, err := registry.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "go", e.ID())
}
