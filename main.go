// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18nmerge extracts translatable strings and keeps per-locale JSON catalogs
in sync with them.

Usage:

	i18nmerge [run] [flags]   extract, then reconcile and write every catalog
	i18nmerge check [flags]   report catalogs a run would change, exit 1 if any
	i18nmerge init [flags]    write a configuration inferred from angular.json
	i18nmerge version         print the version
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/i18nmerge/config"
	"codeberg.org/pixivfe/i18nmerge/core/audit"
	"codeberg.org/pixivfe/i18nmerge/core/inference"
	"codeberg.org/pixivfe/i18nmerge/core/pipeline"
	"codeberg.org/pixivfe/i18nmerge/core/storage"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errStale          = errors.New("catalogs are out of date")
	errConfigExists   = errors.New("configuration file already exists")
)

// main is the entry point of the application.
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("i18nmerge failed")
	}
}

// run dispatches to the subcommand named by the first argument.
func run(args []string) error {
	audit.SetDefaultLogger()

	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		return runPass(args, false)
	case "check":
		return runPass(args, true)
	case "init":
		return runInit(args)
	case "version":
		fmt.Println(config.BuildVersion)

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd)
	}
}

// loadConfig parses the flags in args and returns the validated configuration.
func loadConfig(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	overrides := config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	overrides.Collect(fs)

	cfg, err := config.Load(overrides.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	if err := audit.Setup(cfg.AuditOptions()); err != nil {
		return nil, err
	}

	cfg.Print(os.Stderr)

	return cfg, nil
}

// runPass performs a reconciliation pass, or only reports stale catalogs when check is set.
func runPass(args []string, check bool) error {
	name := "run"
	if check {
		name = "check"
	}

	cfg, err := loadConfig(name, args)
	if err != nil {
		return err
	}

	registry, err := newRegistry(cfg, log.Logger)
	if err != nil {
		return err
	}

	extractor, err := registry.Lookup(cfg.Extractor)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg.Pipeline(), extractor, log.Logger)

	if check {
		report, err := p.Check(ctx)
		if err != nil {
			return err
		}

		stale := report.Stale()
		for _, path := range stale {
			log.Warn().Str("path", path).Msg("Catalog is out of date")
		}

		if len(stale) > 0 {
			return fmt.Errorf("%w: %d files", errStale, len(stale))
		}

		log.Info().Msg("Catalogs are up to date")

		return nil
	}

	report, err := p.Run(ctx)

	res := pipeline.ResultOf(err)
	if !res.Success {
		log.Error().Str("error", res.Error).Msg("Pass failed")

		return err
	}

	log.Info().
		Int("changed", len(report.Stale())).
		Int("locales", len(report.Locales)).
		Msg("Pass succeeded")

	return nil
}

// runInit writes a configuration file inferred from an angular.json style workspace.
func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)

	workspace := fs.String("workspace", "angular.json", "Workspace file to infer the configuration from.")
	project := fs.String("project", "", "Project of the workspace; the first one if empty.")
	out := fs.String("o", "i18nmerge.yaml", "Configuration file to write, YAML or TOML by extension.")
	force := fs.Bool("force", false, "Overwrite an existing configuration file.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*out); err == nil && !*force {
		return fmt.Errorf("%w: %s", errConfigExists, *out)
	}

	res, err := inference.Load(*workspace, *project, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to infer configuration: %w", err)
	}

	data, err := config.FromInference(res).Marshal(*out)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := storage.Save(*out, data); err != nil {
		return err
	}

	log.Info().
		Str("path", *out).
		Str("project", res.Project).
		Int("locales", len(res.TargetFiles)).
		Msg("Wrote configuration")

	return nil
}
