// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package gettext converts a gettext POT template into a source catalog.
//
// This lets projects that already produce a template with xgettext, or with
// cmd/i18n_extract of an older release, feed the JSON merge pipeline.
package gettext

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
	"codeberg.org/pixivfe/i18nmerge/core/extract"
)

// ID is the identifier of this extractor.
const ID = "gettext"

var errNoTemplate = errors.New("no POT template configured")

// Config locates the template.
type Config struct {
	// Template is the path of the .pot file.
	Template string

	// SourceLocale is stamped on the written catalog.
	SourceLocale string
}

// Extractor reads a POT template.
type Extractor struct {
	cfg    Config
	logger zerolog.Logger
}

// New returns an Extractor for cfg.
func New(cfg Config, logger zerolog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: logger.With().Str("extractor", ID).Logger(),
	}
}

// ID implements [extract.Extractor].
func (e *Extractor) ID() string {
	return ID
}

// Extract implements [extract.Extractor].
func (e *Extractor) Extract(ctx context.Context, req extract.Request) extract.Result {
	if err := ctx.Err(); err != nil {
		return extract.Failed(err)
	}

	c, err := e.Load()
	if err != nil {
		return extract.Failed(err)
	}

	if err := extract.WriteCatalog(req, c); err != nil {
		return extract.Failed(err)
	}

	e.logger.Info().
		Str("template", e.cfg.Template).
		Int("messages", c.Len()).
		Str("path", req.Path()).
		Msg("Converted POT template")

	return extract.Succeeded()
}

// Load parses the template and returns its messages as a source catalog.
func (e *Extractor) Load() (*catalog.Catalog, error) {
	if e.cfg.Template == "" {
		return nil, errNoTemplate
	}

	data, err := os.ReadFile(e.cfg.Template) // #nosec G304 -- template path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", e.cfg.Template, err)
	}

	return FromPO(data, e.cfg.SourceLocale), nil
}

// FromPO converts the content of a PO or POT file to a catalog.
// Both msgid and msgid_plural become entries whose text is the msgid itself.
// Messages with a msgctxt are keyed as msgctxt + [extract.ContextSeparator] + msgid,
// the same ids the go extractor and i18n.TrC use. The header entry is skipped.
func FromPO(data []byte, locale string) *catalog.Catalog {
	po := gotext.NewPo()
	po.Parse(data)

	c := catalog.New(locale, nil)
	domain := po.GetDomain()

	add(c, "", domain.GetTranslations())

	for msgctxt, translations := range domain.GetCtxTranslations() {
		add(c, msgctxt+extract.ContextSeparator, translations)
	}

	return c
}

// add records every non-empty msgid of translations, and its plural, under prefix.
func add(c *catalog.Catalog, prefix string, translations map[string]*gotext.Translation) {
	for id, tr := range translations {
		if id == "" {
			continue
		}

		c.Translations[prefix+id] = id

		if tr != nil && tr.PluralID != "" {
			c.Translations[prefix+tr.PluralID] = tr.PluralID
		}
	}
}
