// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18nmerge/config"
	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/extract/command"
	"codeberg.org/pixivfe/i18nmerge/core/extract/gettext"
	"codeberg.org/pixivfe/i18nmerge/core/extract/gosource"
)

// newRegistry returns a registry holding every built-in extractor configured from cfg.
func newRegistry(cfg *config.Config, logger zerolog.Logger) (*extract.Registry, error) {
	x := cfg.Extraction

	return extract.NewRegistry(
		gosource.New(gosource.Config{
			Dir:          x.Go.Dir,
			Patterns:     x.Go.Patterns,
			Package:      x.Go.Package,
			SourceLocale: cfg.SourceLocale,
		}, logger),
		gettext.New(gettext.Config{
			Template:     x.Gettext.Template,
			SourceLocale: cfg.SourceLocale,
		}, logger),
		command.New(command.Config{
			Args: x.Command.Args,
			Dir:  x.Command.Dir,
		}, logger),
	)
}
