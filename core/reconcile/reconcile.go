// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package reconcile merges a freshly extracted source catalog into an existing
target-locale catalog.

The result holds exactly the ids of the source catalog:

  - ids already present in the target keep their translation unchanged,
  - new ids receive a placeholder derived from the source text,
  - ids missing from the source are dropped.
*/
package reconcile

import (
	"strings"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
)

// Options controls how placeholders for new ids are built.
type Options struct {
	// NewPrefix is prepended, followed by one space, to the source text of a new id.
	NewPrefix string

	// SourceLanguageTargetLocale names the target locale that is written in the
	// source language. New ids in that locale copy the source text verbatim.
	// Empty means no such locale.
	SourceLanguageTargetLocale string

	// CollapseWhitespace replaces runs of whitespace with a single space in the
	// source text used for new placeholders.
	CollapseWhitespace bool

	// Trim removes leading and trailing whitespace from the source text used for
	// new placeholders.
	Trim bool

	// RemoveIDsWithPrefix lists id prefixes that are removed from the source
	// catalog by [FilterSource].
	RemoveIDsWithPrefix []string
}

// Stats counts what a reconciliation did to the target.
type Stats struct {
	Kept    int
	Added   int
	Removed int
}

// Changed reports whether ids were added or removed.
func (s Stats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Reconcile returns the new catalog for locale. See [ReconcileWithStats].
func Reconcile(source, target *catalog.Catalog, locale string, opts Options) *catalog.Catalog {
	result, _ := ReconcileWithStats(source, target, locale, opts)

	return result
}

// ReconcileWithStats builds the new target catalog for locale from source and
// the previously persisted target, which may be nil.
//
// The returned catalog is always stamped with locale, whatever the target claimed.
// Neither source nor target is modified.
func ReconcileWithStats(source, target *catalog.Catalog, locale string, opts Options) (*catalog.Catalog, Stats) {
	var existing map[string]string
	if target != nil {
		existing = target.Translations
	}

	result := catalog.New(locale, make(map[string]string, source.Len()))

	var stats Stats

	for _, id := range source.IDs() {
		if text, ok := existing[id]; ok {
			result.Translations[id] = text
			stats.Kept++

			continue
		}

		result.Translations[id] = placeholder(source.Translations[id], locale, opts)
		stats.Added++
	}

	for id := range existing {
		if _, ok := result.Translations[id]; !ok {
			stats.Removed++
		}
	}

	return result, stats
}

// placeholder builds the translation of a new id.
func placeholder(sourceText, locale string, opts Options) string {
	text := normalize(sourceText, opts)

	if opts.SourceLanguageTargetLocale != "" && locale == opts.SourceLanguageTargetLocale {
		return text
	}

	return opts.NewPrefix + " " + text
}

func normalize(text string, opts Options) string {
	if opts.CollapseWhitespace {
		text = strings.Join(strings.Fields(text), " ")
	}

	if opts.Trim {
		text = strings.TrimSpace(text)
	}

	return text
}

// FilterSource returns a copy of source without the ids matching
// opts.RemoveIDsWithPrefix, and the number of ids removed. With no prefixes
// configured, source is returned unchanged.
func FilterSource(source *catalog.Catalog, opts Options) (*catalog.Catalog, int) {
	if len(opts.RemoveIDsWithPrefix) == 0 || source == nil {
		return source, 0
	}

	filtered := catalog.New(source.Locale, make(map[string]string, source.Len()))
	removed := 0

	for id, text := range source.Translations {
		if hasAnyPrefix(id, opts.RemoveIDsWithPrefix) {
			removed++

			continue
		}

		filtered.Translations[id] = text
	}

	return filtered, removed
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
