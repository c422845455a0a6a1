// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the locale of the msgids themselves and the matching fallback.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Languages returns the tags of the loaded catalogs, sorted by tag string,
// with [BaseLocale] included even without a catalog of its own.
//
// It panics if Setup has not been called.
func Languages() []language.Tag {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Languages")
	}

	out := slices.Clone(supportedTags)
	slices.SortFunc(out, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	return out
}

// Coverage reports how many entries of the catalog matched by t carry a real
// translation, out of all its entries. Entries still marked with
// [MarkerPrefix] or left empty count as untranslated.
// It returns zeros when no catalog is loaded for t.
func Coverage(t language.Tag) (translated, total int) {
	c, _ := resolveLocale(t)
	if c == nil {
		return 0, 0
	}

	for _, id := range c.IDs() {
		if _, ok := lookup(c, id); ok {
			translated++
		}
	}

	return translated, c.Len()
}
