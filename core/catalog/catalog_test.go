// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	t.Parallel()

	base := New("fr", map[string]string{"a": "A", "b": "B"})

	assert.True(t, base.Equal(New("fr", map[string]string{"b": "B", "a": "A"})))
	assert.False(t, base.Equal(New("de", map[string]string{"a": "A", "b": "B"})), "locale differs")
	assert.False(t, base.Equal(New("fr", map[string]string{"a": "A"})), "entry missing")
	assert.False(t, base.Equal(New("fr", map[string]string{"a": "A", "b": "b"})), "text differs")
	assert.True(t, New("", nil).Equal(&Catalog{}), "nil and empty mappings are equal")

	var nilCatalog *Catalog
	assert.True(t, nilCatalog.Equal(nil))
	assert.False(t, nilCatalog.Equal(base))
}

func TestIDsSorted(t *testing.T) {
	t.Parallel()

	c := New("", map[string]string{"banana": "", "apple": "", "cherry": ""})

	assert.Equal(t, []string{"apple", "banana", "cherry"}, c.IDs())
	assert.Equal(t, 3, c.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := New("fr", map[string]string{"a": "A"})
	clone := c.Clone()
	clone.Translations["a"] = "changed"

	text, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "A", text)
}
