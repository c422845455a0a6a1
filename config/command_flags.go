// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// Overrides holds the command-line flags that take precedence over every
// other configuration source.
type Overrides struct {
	ConfigFile   string
	OutputPath   string
	Extractor    string
	AtomicWrites bool
	Verbose      bool

	set map[string]bool
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Overrides {
	o := &Overrides{}

	fs.StringVar(&o.ConfigFile, "config", "", "Path to an i18nmerge configuration file in YAML or TOML format.")
	fs.StringVar(&o.OutputPath, "output-path", "", "Directory of the source and target catalogs.")
	fs.StringVar(&o.Extractor, "extractor", "", "Identifier of the extractor to run.")
	fs.BoolVar(&o.AtomicWrites, "atomic", false, "Write the catalogs only after every locale was reconciled.")
	fs.BoolVar(&o.Verbose, "verbose", false, "Enable debug logging.")

	return o
}

// Collect records which flags of fs were given explicitly.
// It must be called after fs.Parse.
func (o *Overrides) Collect(fs *flag.FlagSet) {
	o.set = map[string]bool{}

	fs.Visit(func(f *flag.Flag) {
		o.set[f.Name] = true
	})
}

// Apply copies the explicitly given flags into cfg.
func (o *Overrides) Apply(cfg *Config) {
	if o.set["output-path"] {
		cfg.OutputPath = o.OutputPath
	}

	if o.set["extractor"] {
		cfg.Extractor = o.Extractor
	}

	if o.set["atomic"] {
		cfg.AtomicWrites = o.AtomicWrites
	}

	if o.set["verbose"] {
		cfg.Verbose = o.Verbose
	}
}
