// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
)

func TestLoadIfExists_Missing(t *testing.T) {
	t.Parallel()

	data, ok, err := LoadIfExists(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "messages.fr.json")

	require.NoError(t, Save(path, []byte("first")))
	require.NoError(t, Save(path, []byte("second")))

	data, ok, err := LoadIfExists(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should be left behind")
}

func TestLoadIfExists_Directory(t *testing.T) {
	t.Parallel()

	_, _, err := LoadIfExists(t.TempDir())
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file yields stamped shell", func(t *testing.T) {
		t.Parallel()

		c, err := LoadCatalog(filepath.Join(dir, "missing.json"), "fr-FR")
		require.NoError(t, err)
		assert.True(t, catalog.New("fr-FR", nil).Equal(c))
	})

	t.Run("empty file yields stamped shell", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

		c, err := LoadCatalog(path, "de")
		require.NoError(t, err)
		assert.True(t, catalog.New("de", nil).Equal(c))
	})

	t.Run("existing file keeps its own locale", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "fr.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"locale":"fr","translations":{"a":"A"}}`), 0o600))

		c, err := LoadCatalog(path, "fr-FR")
		require.NoError(t, err)
		assert.Equal(t, "fr", c.Locale)
		assert.Equal(t, map[string]string{"a": "A"}, c.Translations)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"translations":`), 0o600))

		_, err := LoadCatalog(path, "fr")
		require.ErrorIs(t, err, catalog.ErrMalformed)
	})
}

func TestUnchanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.json")

	assert.False(t, Unchanged(path, []byte("a")), "missing file counts as changed")

	require.NoError(t, Save(path, []byte("a")))
	assert.True(t, Unchanged(path, []byte("a")))
	assert.False(t, Unchanged(path, []byte("b")))
}
