// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/storage"
)

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	req := extract.Request{OutputDir: "out", OutputFile: "messages.json", Format: "json"}

	got := Expand([]string{"tool", "--out={outputDir}", "{outputFile}", "{outputPath}", "-f", "{format}"}, req)
	assert.Equal(t, []string{"tool", "--out=out", "messages.json", filepath.Join("out", "messages.json"), "-f", "json"}, got)
}

func TestTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "", n: 3, want: ""},
		{in: "one\n\ntwo\n", n: 3, want: "one; two"},
		{in: "a\nb\nc\nd\n", n: 2, want: "c; d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tail(tt.in, tt.n), tt.in)
	}
}

func TestExtract_Success(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	req := extract.Request{OutputDir: dir, OutputFile: "messages.json", Format: extract.FormatJSON}

	var logs bytes.Buffer

	e := New(Config{Args: []string{
		"sh", "-c", `echo scanning; printf '{"locale":"en","translations":{"a":"A"}}' > "$0"`, "{outputPath}",
	}}, zerolog.New(&logs).Level(zerolog.DebugLevel))

	res := e.Extract(context.Background(), req)
	require.True(t, res.Success, res.Error)

	c, err := storage.LoadCatalog(req.Path(), "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "A"}, c.Translations)
	assert.Contains(t, logs.String(), "scanning")
}

func TestExtract_Failure(t *testing.T) {
	t.Parallel()
	requireShell(t)

	e := New(Config{Args: []string{"sh", "-c", "echo first >&2; echo 'cannot parse app.ts' >&2; exit 3"}}, zerolog.Nop())

	res := e.Extract(context.Background(), extract.Request{OutputDir: t.TempDir(), OutputFile: "messages.json"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "cannot parse app.ts")
	assert.Contains(t, res.Error, "exit status 3")
}

func TestExtract_FailureKeepsExistingCatalog(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	req := extract.Request{OutputDir: dir, OutputFile: "messages.json", Format: extract.FormatJSON}

	const existing = `{"translations":{"kept":"kept"}}`
	require.NoError(t, os.WriteFile(req.Path(), []byte(existing), 0o600))

	e := New(Config{Args: []string{
		"sh", "-c", `printf '{"translations":{' > "$0"; exit 1`, "{outputPath}",
	}}, zerolog.Nop())

	res := e.Extract(context.Background(), req)
	require.False(t, res.Success)

	data, err := os.ReadFile(req.Path())
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

func TestExtract_NotConfigured(t *testing.T) {
	t.Parallel()

	res := New(Config{}, zerolog.Nop()).Extract(context.Background(), extract.Request{})
	assert.Equal(t, extract.Failed(errNoCommand), res)
}

func TestExtract_Canceled(t *testing.T) {
	t.Parallel()
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(Config{Args: []string{"sh", "-c", "sleep 5"}}, zerolog.Nop()).Extract(ctx, extract.Request{})
	assert.False(t, res.Success)
}
