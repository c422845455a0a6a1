// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package config loads the i18nmerge configuration.

Values are applied in this order, later sources overriding earlier ones:

 1. built-in defaults ([Config.SetDefaults])
 2. the configuration file, YAML or TOML by extension
 3. a .env file in the working directory, which never overrides variables already set
 4. environment variables
 5. command-line flags ([Overrides])
*/
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/i18nmerge/core/pipeline"
	"codeberg.org/pixivfe/i18nmerge/core/reconcile"
)

// ConfigFileEnv names the environment variable selecting the configuration file.
const ConfigFileEnv = "I18NMERGE_CONFIGFILE"

// defaultConfigFiles are tried in order when no configuration file is given.
var defaultConfigFiles = []string{"./i18nmerge.yaml", "./i18nmerge.yml", "./i18nmerge.toml"}

// Config holds the settings of one i18nmerge invocation.
type Config struct {
	// OutputPath is the directory of the source and target catalogs.
	OutputPath string `env:"I18NMERGE_OUTPUT_PATH" toml:"outputPath" yaml:"outputPath"`

	// SourceFile is the source catalog file name relative to OutputPath.
	SourceFile string `env:"I18NMERGE_SOURCE_FILE" toml:"sourceFile" yaml:"sourceFile"`

	// SourceLocale is stamped on the source catalog by the built-in extractors.
	SourceLocale string `env:"I18NMERGE_SOURCE_LOCALE" toml:"sourceLocale" yaml:"sourceLocale"`

	// TargetFiles maps locales to catalog files relative to OutputPath.
	// In the environment it is written as fr:messages.fr.json,de:messages.de.json.
	TargetFiles map[string]string `env:"I18NMERGE_TARGET_FILES" toml:"targetFiles" yaml:"targetFiles"`

	SourceLanguageTargetLocale string `env:"I18NMERGE_SOURCE_LANGUAGE_TARGET_LOCALE" toml:"sourceLanguageTargetLocale" yaml:"sourceLanguageTargetLocale"`

	NewPrefix string `env:"I18NMERGE_NEW_PREFIX" toml:"newPrefix" yaml:"newPrefix"`

	RemoveIDsWithPrefix []string `env:"I18NMERGE_REMOVE_IDS_WITH_PREFIX" envSeparator:"," toml:"removeIdsWithPrefix" yaml:"removeIdsWithPrefix"`
	CollapseWhitespace  bool     `env:"I18NMERGE_COLLAPSE_WHITESPACE"    toml:"collapseWhitespace"  yaml:"collapseWhitespace"`
	Trim                bool     `env:"I18NMERGE_TRIM"                   toml:"trim"                yaml:"trim"`

	// AtomicWrites defers every write until all locales reconciled.
	AtomicWrites bool `env:"I18NMERGE_ATOMIC_WRITES" toml:"atomicWrites" yaml:"atomicWrites"`

	// Extractor selects the extraction step by identifier.
	Extractor string `env:"I18NMERGE_EXTRACTOR" toml:"extractor" yaml:"extractor"`

	Extraction struct {
		Go struct {
			Dir      string   `env:"I18NMERGE_GO_DIR"                     toml:"dir"      yaml:"dir"`
			Patterns []string `env:"I18NMERGE_GO_PATTERNS" envSeparator:"," toml:"patterns" yaml:"patterns"`
			Package  string   `env:"I18NMERGE_GO_PACKAGE"                 toml:"package"  yaml:"package"`
		} `toml:"go" yaml:"go"`

		Gettext struct {
			Template string `env:"I18NMERGE_POT_TEMPLATE" toml:"template" yaml:"template"`
		} `toml:"gettext" yaml:"gettext"`

		Command struct {
			Args []string `env:"I18NMERGE_COMMAND"     envSeparator:" " toml:"args" yaml:"args"`
			Dir  string   `env:"I18NMERGE_COMMAND_DIR"                  toml:"dir"  yaml:"dir"`
		} `toml:"command" yaml:"command"`
	} `toml:"extraction" yaml:"extraction"`

	Log struct {
		Level   string   `env:"I18NMERGE_LOG_LEVEL"                    toml:"level"   yaml:"level"`
		Format  string   `env:"I18NMERGE_LOG_FORMAT"                   toml:"format"  yaml:"format"`
		Outputs []string `env:"I18NMERGE_LOG_OUTPUTS" envSeparator:"," toml:"outputs" yaml:"outputs"`
	} `toml:"log" yaml:"log"`

	// Verbose forces debug logging.
	Verbose bool `env:"I18NMERGE_VERBOSE" toml:"verbose" yaml:"verbose"`
}

// Load builds the configuration from defaults, the configuration file, .env
// and the environment. configFile may be empty; see [ResolveConfigFile].
// The result is not validated.
func Load(configFile string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if err := cfg.readFile(ResolveConfigFile(configFile)); err != nil {
		return nil, err
	}

	if err := useDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("error using .env file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	return cfg, nil
}

// ResolveConfigFile picks the configuration file. An explicit path wins, then
// the I18NMERGE_CONFIGFILE variable, then the first default file that exists.
// It returns "" when there is nothing to read.
func ResolveConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if fromEnv := os.Getenv(ConfigFileEnv); fromEnv != "" {
		return fromEnv
	}

	for _, candidate := range defaultConfigFiles {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// useDotEnv loads path into the environment if it exists.
// Variables that are already set keep their value.
func useDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Loaded environment file")

	return nil
}

// SourcePath returns the location of the source catalog.
func (cfg *Config) SourcePath() string {
	return cfg.Pipeline().SourcePath()
}

// MergeOptions returns the reconciliation options.
func (cfg *Config) MergeOptions() reconcile.Options {
	return reconcile.Options{
		NewPrefix:                  cfg.NewPrefix,
		SourceLanguageTargetLocale: cfg.SourceLanguageTargetLocale,
		CollapseWhitespace:         cfg.CollapseWhitespace,
		Trim:                       cfg.Trim,
		RemoveIDsWithPrefix:        cfg.RemoveIDsWithPrefix,
	}
}

// Pipeline returns the pass configuration.
func (cfg *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		OutputPath:   cfg.OutputPath,
		SourceFile:   cfg.SourceFile,
		TargetFiles:  cfg.TargetFiles,
		Options:      cfg.MergeOptions(),
		AtomicWrites: cfg.AtomicWrites,
	}
}
