// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Print logs the version and, in verbose mode, writes the effective
// configuration to w as YAML.
func (cfg *Config) Print(w io.Writer) {
	var build buildInfo

	build.load()

	log.Info().
		Str("version", BuildVersion).
		Str("revision", build.Revision()).
		Str("extractor", cfg.Extractor).
		Int("locales", len(cfg.TargetFiles)).
		Msg("Starting i18nmerge")

	if !cfg.Verbose {
		return
	}

	configYAML, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2))
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Msg("Effective configuration:")
	fmt.Fprintln(w, string(configYAML))
}
