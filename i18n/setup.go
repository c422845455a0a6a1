// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
)

var (
	// localesByTag maps canonical BCP 47 tags, for example
	// "en", "ja", "pt-BR", to their loaded catalog.
	localesByTag map[string]*catalog.Catalog

	// supportedTags holds the list of BCP 47 tags for which a catalog was successfully loaded.
	supportedTags []language.Tag

	// matcher is a private [language.Matcher] derived from the loaded catalogs.
	matcher language.Matcher
)

// Setup initialises package i18n by loading the JSON catalogs in dir of fsys
// and constructing a language matcher.
//
// Every *.json file in dir is parsed as a catalog. Its locale is the "locale"
// member, or when that is empty the last dot separated part of the file name,
// so "messages.pt_BR.json" is read as "pt-BR". Files whose locale is not a
// valid BCP 47 tag are skipped with a warning. When two files claim the same
// locale, the one sorting last by name wins. The base locale, specified by
// BaseLocale, is always included and acts as the default fallback.
//
// Calling Setup again replaces the previously loaded catalogs and matcher.
//
// It returns an error if dir cannot be read or a catalog does not parse.
func Setup(fsys fs.FS, dir string) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	localesByTag = make(map[string]*catalog.Catalog)
	supportedTags = nil
	matcher = nil

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var tagsList []language.Tag

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		fileName := entry.Name()

		data, err := fs.ReadFile(fsys, path.Join(dir, fileName))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fileName, err)
		}

		c, err := catalog.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", fileName, err)
		}

		localeName := c.Locale
		if localeName == "" {
			localeName = localeFromFileName(fileName)
		}

		// Accept both underscore and hyphen.
		// Convert to a canonical BCP 47 string for matching and display.
		t, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")
			continue
		}

		canonical := t.String()

		if _, dup := localesByTag[canonical]; !dup {
			tagsList = append(tagsList, t)
		}

		localesByTag[canonical] = c

		Logger.Info().
			Str("locale", canonical).
			Int("messages", c.Len()).
			Msg("Loaded locale")
	}

	// Build a private matcher from the loaded languages.
	// baseTag is first to make it the default fallback for matching.
	all := make([]language.Tag, 0, len(tagsList)+1)

	all = append(all, baseTag)

	// Sort loaded tags by their canonical string.
	sort.Slice(tagsList, func(i, j int) bool { return tagsList[i].String() < tagsList[j].String() })

	for _, t := range tagsList {
		if t == baseTag {
			continue
		}

		all = append(all, t)
	}

	matcher = language.NewMatcher(all)
	supportedTags = all

	return nil
}

// localeFromFileName returns the part between the last two dots of name,
// or the stem when there is only one dot.
func localeFromFileName(name string) string {
	stem := strings.TrimSuffix(name, ".json")
	if i := strings.LastIndexByte(stem, '.'); i >= 0 {
		return stem[i+1:]
	}

	return stem
}
