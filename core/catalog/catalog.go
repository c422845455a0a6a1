// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog models a translation catalog: a locale tag and a mapping
of message ids to translated text.

The in-memory mapping carries no order. Order is imposed on output by
[Marshal], which always writes ids in ascending order so that two catalogs
with the same content serialize to the same bytes.
*/
package catalog

import (
	"maps"
	"slices"
)

// Catalog is a locale-tagged collection of message id to text pairs.
//
// Locale may be empty for catalogs loaded from files that do not declare one,
// such as a freshly extracted source catalog.
type Catalog struct {
	Locale       string
	Translations map[string]string
}

// New returns a catalog for locale. A nil translations map is replaced with an empty one.
func New(locale string, translations map[string]string) *Catalog {
	if translations == nil {
		translations = map[string]string{}
	}

	return &Catalog{Locale: locale, Translations: translations}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.Translations)
}

// IDs returns the message ids in ascending order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(c.Translations))
}

// Lookup returns the text for id and whether the id exists.
func (c *Catalog) Lookup(id string) (string, bool) {
	if c == nil || c.Translations == nil {
		return "", false
	}

	text, ok := c.Translations[id]

	return text, ok
}

// Equal reports whether c and other have the same locale and the same entries.
// Insertion order is irrelevant, and a nil mapping equals an empty one.
func (c *Catalog) Equal(other *Catalog) bool {
	if c == nil || other == nil {
		return c == other
	}

	if c.Locale != other.Locale {
		return false
	}

	if len(c.Translations) != len(other.Translations) {
		return false
	}

	return maps.Equal(c.Translations, other.Translations)
}

// Clone returns a deep copy of c.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}

	return New(c.Locale, maps.Clone(c.Translations))
}
