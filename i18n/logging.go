// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// MarkerPrefix is the marker i18nmerge puts in front of entries it added.
// A translation equal to it, or starting with it and a space, is treated as missing.
var MarkerPrefix = "@new"

// Logger is the logger used by package i18n. Setup derives it from the global logger.
var Logger zerolog.Logger

var (
	strict atomic.Bool

	// reported holds the missingKey values already logged in strict mode.
	reported sync.Map
)

type missingKey struct {
	locale string
	id     string
}

// SetStrictMissingKeys toggles strict mode. In strict mode a missing
// translation is rendered as ⟦msgid⟧ and logged once per locale and id.
func SetStrictMissingKeys(enabled bool) {
	strict.Store(enabled)
}

func strictMissingKeys() bool {
	return strict.Load()
}

func logMissingOnce(locale, id string) {
	if !strictMissingKeys() {
		return
	}

	if _, seen := reported.LoadOrStore(missingKey{locale: locale, id: id}, struct{}{}); seen {
		return
	}

	Logger.Warn().
		Str("locale", locale).
		Str("id", id).
		Msg("Missing translation")
}

// strippedTagString keeps base, script and region of tag, the form catalogs are keyed by.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}
