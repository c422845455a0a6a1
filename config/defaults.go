// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/extract/gosource"
	"codeberg.org/pixivfe/i18nmerge/core/inference"
	"codeberg.org/pixivfe/i18nmerge/core/pipeline"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.OutputPath = "."
	cfg.SourceFile = pipeline.DefaultSourceFile
	cfg.SourceLocale = "en-US"
	cfg.TargetFiles = map[string]string{}
	cfg.SourceLanguageTargetLocale = ""
	cfg.NewPrefix = inference.DefaultNewPrefix
	cfg.RemoveIDsWithPrefix = nil
	cfg.CollapseWhitespace = false
	cfg.Trim = false
	cfg.AtomicWrites = false

	cfg.Extractor = extract.DefaultID

	cfg.Extraction.Go.Dir = "."
	cfg.Extraction.Go.Patterns = []string{"./..."}
	cfg.Extraction.Go.Package = gosource.DefaultPackage

	cfg.Extraction.Gettext.Template = ""

	cfg.Extraction.Command.Args = nil
	cfg.Extraction.Command.Dir = ""

	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Log.Outputs = []string{"/dev/stderr"}

	cfg.Verbose = false
}

// FromInference returns the default configuration with the inferred values applied.
func FromInference(res inference.Result) *Config {
	cfg := &Config{}
	cfg.SetDefaults()

	cfg.OutputPath = res.OutputPath
	cfg.TargetFiles = res.TargetFiles
	cfg.NewPrefix = res.NewPrefix

	if res.SourceFile != "" {
		cfg.SourceFile = res.SourceFile
	}

	return cfg
}
