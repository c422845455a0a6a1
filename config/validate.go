// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/i18nmerge/core/audit"
	"codeberg.org/pixivfe/i18nmerge/core/extract/command"
	"codeberg.org/pixivfe/i18nmerge/core/extract/gettext"
)

// validation errors.
var (
	errNoNewPrefix         = errors.New("newPrefix must not be empty")
	errEmptyTargetFile     = errors.New("target file path must not be empty")
	errDuplicateTargetFile = errors.New("target file is used by more than one locale")
	errTargetIsSource      = errors.New("target file is the source catalog")
	errNoTemplate          = errors.New("extraction.gettext.template is required by the gettext extractor")
	errNoCommand           = errors.New("extraction.command.args is required by the command extractor")
	errInvalidLogFormat    = errors.New("invalid log.format value")
)

// Validate checks the configuration. Locales that are not valid BCP 47 tags
// are only reported as warnings, since the catalogs treat them as opaque.
func (cfg *Config) Validate() error {
	if cfg.NewPrefix == "" {
		return errNoNewPrefix
	}

	source := filepath.Clean(cfg.SourcePath())
	owners := make(map[string]string, len(cfg.TargetFiles))

	for _, locale := range slices.Sorted(maps.Keys(cfg.TargetFiles)) {
		file := cfg.TargetFiles[locale]
		if file == "" {
			return fmt.Errorf("%w: locale %q", errEmptyTargetFile, locale)
		}

		path := filepath.Clean(cfg.Pipeline().TargetPath(locale))

		if path == source {
			return fmt.Errorf("%w: locale %q", errTargetIsSource, locale)
		}

		if other, ok := owners[path]; ok {
			return fmt.Errorf("%w: %s (locales %q and %q)", errDuplicateTargetFile, file, other, locale)
		}

		owners[path] = locale

		if _, err := language.Parse(locale); err != nil {
			log.Warn().
				Str("locale", locale).
				Err(err).
				Msg("Locale is not a valid BCP 47 tag")
		}
	}

	switch cfg.Extractor {
	case gettext.ID:
		if cfg.Extraction.Gettext.Template == "" {
			return errNoTemplate
		}
	case command.ID:
		if len(cfg.Extraction.Command.Args) == 0 {
			return errNoCommand
		}
	}

	if _, err := audit.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level value: %w", err)
	}

	switch cfg.Log.Format {
	case "", "console", audit.FormatJSON:
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

// AuditOptions returns the logging options.
func (cfg *Config) AuditOptions() audit.Options {
	return audit.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Outputs: cfg.Log.Outputs,
		Verbose: cfg.Verbose,
	}
}
