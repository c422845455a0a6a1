// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package pipeline runs one reconciliation pass.

A run invokes the configured extractor, loads the source catalog it wrote,
reconciles every configured target locale against it in ascending locale
order, and finally rewrites the source catalog in canonical form.

If the extractor reports failure nothing is written at all. Any other failure
stops the run where it happened. By default each target file is written as
soon as its locale is reconciled, so locales processed before the failure
stay updated; [Config.AtomicWrites] defers every write until all locales
reconciled.

Files whose canonical content is already on disk are not rewritten.
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18nmerge/core/audit"
	"codeberg.org/pixivfe/i18nmerge/core/catalog"
	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/idgen"
	"codeberg.org/pixivfe/i18nmerge/core/reconcile"
	"codeberg.org/pixivfe/i18nmerge/core/storage"
)

// DefaultSourceFile is the source catalog file name used when none is configured.
const DefaultSourceFile = "messages.json"

var (
	// ErrExtractionFailed is returned when the extractor reports failure.
	// The error message is "extraction failed: " followed by the extractor's detail.
	ErrExtractionFailed = errors.New("extraction failed")

	errSourceMissing = errors.New("extractor reported success but wrote no source catalog")
)

// Config describes one pass.
type Config struct {
	// OutputPath is the directory holding the source and every target file.
	OutputPath string

	// SourceFile is the source catalog file name relative to OutputPath.
	SourceFile string

	// TargetFiles maps a locale to its catalog file relative to OutputPath.
	TargetFiles map[string]string

	// Options controls reconciliation.
	Options reconcile.Options

	// AtomicWrites defers all writes until every locale reconciled.
	AtomicWrites bool
}

// SourcePath returns the location of the source catalog.
func (c Config) SourcePath() string {
	file := c.SourceFile
	if file == "" {
		file = DefaultSourceFile
	}

	return filepath.Join(c.OutputPath, file)
}

// TargetPath returns the location of the catalog of locale.
func (c Config) TargetPath(locale string) string {
	return filepath.Join(c.OutputPath, c.TargetFiles[locale])
}

// LocaleReport describes what a pass did to one target catalog.
type LocaleReport struct {
	Locale  string
	Path    string
	Stats   reconcile.Stats
	Changed bool
}

// Report describes a finished pass.
type Report struct {
	// Source is the path of the source catalog.
	Source string

	// SourceChanged reports whether the canonical source differs from what was on disk.
	SourceChanged bool

	// Filtered counts source ids dropped by Options.RemoveIDsWithPrefix.
	Filtered int

	// Locales lists the target catalogs in processing order.
	Locales []LocaleReport
}

// Stale returns the paths whose content changed, or would change in check mode.
func (r Report) Stale() []string {
	var paths []string

	for _, l := range r.Locales {
		if l.Changed {
			paths = append(paths, l.Path)
		}
	}

	if r.SourceChanged {
		paths = append(paths, r.Source)
	}

	return paths
}

// Result is the overall outcome of a pass in the same shape as [extract.Result].
type Result struct {
	Success bool
	Error   string
}

// ResultOf converts the error returned by [Pipeline.Run] to a Result.
func ResultOf(err error) Result {
	if err != nil {
		return Result{Error: err.Error()}
	}

	return Result{Success: true}
}

// Pipeline drives an extractor and the reconciliation of every target locale.
// A Pipeline runs one pass at a time.
type Pipeline struct {
	cfg       Config
	extractor extract.Extractor
	logger    zerolog.Logger

	state State
	runID string
}

// New returns a Pipeline that obtains the source catalog from extractor.
func New(cfg Config, extractor extract.Extractor, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger.With().Str("sys", "pipeline").Logger(),
	}
}

// State returns the phase of the current or last run.
func (p *Pipeline) State() State {
	return p.state
}

// output is one serialized catalog on its way to disk.
type output struct {
	locale string // empty for the source catalog
	path   string
	data   []byte
}

// sink handles one output and reports whether it differs from the file on disk.
type sink func(out output) (bool, error)

// Run performs a full pass and writes the results.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	logger := p.begin()
	sourcePath := p.cfg.SourcePath()
	report := Report{Source: sourcePath}

	source, filtered, err := p.extractSource(ctx, logger, extract.Request{
		OutputDir:  filepath.Dir(sourcePath),
		OutputFile: filepath.Base(sourcePath),
		Format:     extract.FormatJSON,
		Progress:   false,
	})
	if err != nil {
		return report, err
	}

	report.Filtered = filtered

	write := func(out output) (bool, error) {
		return p.write(ctx, logger, out)
	}

	if !p.cfg.AtomicWrites {
		if err := p.merge(ctx, logger, source, &report, write); err != nil {
			return report, err
		}

		p.finish(logger, report)

		return report, nil
	}

	var pending []output

	buffer := func(out output) (bool, error) {
		pending = append(pending, out)

		return false, nil
	}

	if err := p.merge(ctx, logger, source, &report, buffer); err != nil {
		return report, err
	}

	logger.Debug().Int("files", len(pending)).Msg("Committing outputs")

	for i, out := range pending {
		changed, err := write(out)
		if err != nil {
			return report, err
		}

		if i < len(report.Locales) {
			report.Locales[i].Changed = changed
		} else {
			report.SourceChanged = changed
		}
	}

	p.finish(logger, report)

	return report, nil
}

// Check performs a pass without touching the configured output directory.
// The extractor writes into a temporary directory and every reconciled catalog
// is compared with the file on disk. Changed entries of the report name the
// files a Run would rewrite.
func (p *Pipeline) Check(ctx context.Context) (Report, error) {
	logger := p.begin()
	sourcePath := p.cfg.SourcePath()
	report := Report{Source: sourcePath}

	tmp, err := os.MkdirTemp("", "i18nmerge-check-*")
	if err != nil {
		return report, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			logger.Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary directory")
		}
	}()

	source, filtered, err := p.extractSource(ctx, logger, extract.Request{
		OutputDir:  tmp,
		OutputFile: filepath.Base(sourcePath),
		Format:     extract.FormatJSON,
		Progress:   false,
	})
	if err != nil {
		return report, err
	}

	report.Filtered = filtered

	compare := func(out output) (bool, error) {
		stale := !storage.Unchanged(out.path, out.data)

		span := audit.Span{Step: audit.StepCheck, RunID: p.runID, Locale: out.locale, Path: out.path, Bytes: len(out.data)}
		span.Log(logger)

		return stale, nil
	}

	if err := p.merge(ctx, logger, source, &report, compare); err != nil {
		return report, err
	}

	p.finish(logger, report)

	return report, nil
}

func (p *Pipeline) begin() zerolog.Logger {
	p.runID = idgen.Make()
	logger := p.logger.With().Str("run", p.runID).Logger()

	p.setState(logger, Idle)

	return logger
}

func (p *Pipeline) finish(logger zerolog.Logger, report Report) {
	p.setState(logger, Done)

	logger.Info().
		Int("locales", len(report.Locales)).
		Int("stale", len(report.Stale())).
		Msg("Pass finished")
}

func (p *Pipeline) setState(logger zerolog.Logger, s State) {
	p.state = s

	logger.Debug().Stringer("state", s).Msg("State changed")
}

// extractSource runs the extractor for req and loads the catalog it wrote.
// It returns the source with filtered ids removed and the number removed.
func (p *Pipeline) extractSource(ctx context.Context, logger zerolog.Logger, req extract.Request) (*catalog.Catalog, int, error) {
	p.setState(logger, ExtractingSource)

	span := audit.Span{Step: audit.StepExtract, RunID: p.runID, Path: req.Path()}
	spanCtx := span.Begin(ctx)

	res := p.extractor.Extract(spanCtx, req)

	span.End()

	if !res.Success {
		err := fmt.Errorf("%w: %s", ErrExtractionFailed, res.Error)

		span.Error = err
		span.Log(logger)
		p.setState(logger, Failed)

		return nil, 0, err
	}

	span.Log(logger)

	data, ok, err := storage.LoadIfExists(req.Path())
	if err != nil {
		return nil, 0, err
	}

	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", errSourceMissing, req.Path())
	}

	source, err := catalog.Parse(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse source catalog %s: %w", req.Path(), err)
	}

	source, filtered := reconcile.FilterSource(source, p.cfg.Options)

	logger.Info().
		Str("extractor", p.extractor.ID()).
		Int("messages", source.Len()).
		Int("filtered", filtered).
		Msg("Source catalog ready")

	p.setState(logger, SourceReady)

	return source, filtered, nil
}

// merge reconciles every target locale in ascending order, then the source
// catalog itself, handing each serialized result to put.
func (p *Pipeline) merge(ctx context.Context, logger zerolog.Logger, source *catalog.Catalog, report *Report, put sink) error {
	locales := slices.Sorted(maps.Keys(p.cfg.TargetFiles))

	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.setState(logger, MergingLocale)

		path := p.cfg.TargetPath(locale)

		data, stats, err := p.mergeLocale(ctx, logger, source, locale, path)
		if err != nil {
			return err
		}

		changed, err := put(output{locale: locale, path: path, data: data})
		if err != nil {
			return err
		}

		report.Locales = append(report.Locales, LocaleReport{
			Locale:  locale,
			Path:    path,
			Stats:   stats,
			Changed: changed,
		})

		logger.Info().
			Str("locale", locale).
			Int("kept", stats.Kept).
			Int("added", stats.Added).
			Int("removed", stats.Removed).
			Msg("Reconciled locale")
	}

	p.setState(logger, SourceRewrite)

	data, err := catalog.Marshal(source)
	if err != nil {
		return fmt.Errorf("failed to encode source catalog: %w", err)
	}

	changed, err := put(output{path: report.Source, data: data})
	if err != nil {
		return err
	}

	report.SourceChanged = changed

	return nil
}

// mergeLocale loads the catalog of locale at path, reconciles it with source
// and returns the serialized result, timed as a merge step.
func (p *Pipeline) mergeLocale(
	ctx context.Context,
	logger zerolog.Logger,
	source *catalog.Catalog,
	locale, path string,
) ([]byte, reconcile.Stats, error) {
	span := audit.Span{Step: audit.StepMerge, RunID: p.runID, Locale: locale, Path: path}
	span.Begin(ctx)

	data, stats, err := func() ([]byte, reconcile.Stats, error) {
		target, err := storage.LoadCatalog(path, locale)
		if err != nil {
			return nil, reconcile.Stats{}, err
		}

		merged, stats := reconcile.ReconcileWithStats(source, target, locale, p.cfg.Options)

		data, err := catalog.Marshal(merged)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to encode catalog for %s: %w", locale, err)
		}

		return data, stats, nil
	}()

	span.End()
	span.Bytes = len(data)
	span.Error = err
	span.Log(logger)

	return data, stats, err
}

// write persists out unless the file already holds the same bytes.
func (p *Pipeline) write(ctx context.Context, logger zerolog.Logger, out output) (bool, error) {
	if storage.Unchanged(out.path, out.data) {
		logger.Debug().Str("path", out.path).Msg("Unchanged")

		return false, nil
	}

	span := audit.Span{Step: audit.StepWrite, RunID: p.runID, Locale: out.locale, Path: out.path, Bytes: len(out.data)}
	span.Begin(ctx)

	err := storage.Save(out.path, out.data)

	span.End()
	span.Error = err
	span.Log(logger)

	if err != nil {
		return false, err
	}

	return true, nil
}
