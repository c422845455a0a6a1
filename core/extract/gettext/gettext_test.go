// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gettext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/storage"
)

const template = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

#: views/index.jet.html:3
msgid "Settings"
msgstr ""

#: core/user.go:12
msgid "{{.Count}} file"
msgid_plural "{{.Count}} files"
msgstr[0] ""
msgstr[1] ""

#: views/menu.go:7
msgctxt "menu"
msgid "Open"
msgstr ""

#: views/menu.go:9
msgctxt "menu"
msgid "{{.Count}} item"
msgid_plural "{{.Count}} items"
msgstr[0] ""
msgstr[1] ""
`

func TestFromPO(t *testing.T) {
	t.Parallel()

	c := FromPO([]byte(template), "en-US")

	assert.Equal(t, "en-US", c.Locale)
	assert.Equal(t, map[string]string{
		"Settings":                 "Settings",
		"{{.Count}} file":          "{{.Count}} file",
		"{{.Count}} files":         "{{.Count}} files",
		"menu\x04Open":             "Open",
		"menu\x04{{.Count}} item":  "{{.Count}} item",
		"menu\x04{{.Count}} items": "{{.Count}} items",
	}, c.Translations)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pot := filepath.Join(dir, "messages.pot")
	require.NoError(t, os.WriteFile(pot, []byte(template), 0o600))

	req := extract.Request{OutputDir: filepath.Join(dir, "out"), OutputFile: "messages.json", Format: extract.FormatJSON}

	res := New(Config{Template: pot}, zerolog.Nop()).Extract(context.Background(), req)
	require.True(t, res.Success, res.Error)

	c, err := storage.LoadCatalog(req.Path(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Settings",
		"menu\x04Open",
		"menu\x04{{.Count}} item",
		"menu\x04{{.Count}} items",
		"{{.Count}} file",
		"{{.Count}} files",
	}, c.IDs())
}

func TestExtract_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
	}{
		{name: "not configured", template: ""},
		{name: "missing file", template: filepath.Join(t.TempDir(), "missing.pot")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := t.TempDir()
			req := extract.Request{OutputDir: out, OutputFile: "messages.json"}

			res := New(Config{Template: tt.template}, zerolog.Nop()).Extract(context.Background(), req)
			assert.False(t, res.Success)
			assert.NotEmpty(t, res.Error)

			_, ok, err := storage.LoadIfExists(req.Path())
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestContextSeparatorMatchesGettext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gotext.EotSeparator, extract.ContextSeparator)
}
