// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides internationalisation utilities backed by the JSON
catalogs that i18nmerge maintains. It translates source message IDs (msgids)
across locales and supports both context and plural forms.

# Quick start

Use the original English UI text as the msgid; do not invent keys.

Load the catalogs once at startup:

	if err := i18n.Setup(os.DirFS("."), "locales"); err != nil { ... }

Translate strings with calls such as:

	i18n.Tr(ctx, "Are you sure you want to quit?")
	i18n.TrC(ctx, "menu", "Open") // disambiguation via context
	i18n.TrN(ctx, "{{.Count}} file", "{{.Count}} files", n, "Count", n)
	i18n.TrNC(ctx, "menu", "{{.Count}} item", "{{.Count}} items", n, "Count", n)

The same calls are what the go extractor looks for, so every msgid above ends
up in the source catalog. A context is stored in the catalog id as
context + "\x04" + msgid.

# Missing translations

By default, missing translations return the msgid unchanged. Entries that
still start with MarkerPrefix were added by a merge and are treated as
missing. When strict mode is enabled with SetStrictMissingKeys, missing
lookups are logged once per locale+key and the returned text is visibly
wrapped as "⟦...⟧".

# Formatting

Translations can include placeholders that are processed by Go's standard
text/template package. Provide substitutions as alternating key-value pairs
to any of the Tr functions:

	i18n.Tr(ctx, "Welcome, {{.Name}}!", "Name", user.Name)

Numbers are not localised automatically; convert values to strings
yourself if you need locale-specific presentation.
*/
package i18n
