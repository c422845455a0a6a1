// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package gosource extracts message ids from Go source code.

It type-checks the configured packages and records string constants passed to
the runtime i18n package of this repository:

	i18n.Tr(ctx, "Settings")
	i18n.TrC(ctx, "menu", "Open")
	i18n.TrN(ctx, "{{.Count}} file", "{{.Count}} files", n)
	i18n.MsgKey("Settings")

Implicit conversions to i18n.MsgKey are found too: MsgKey-typed function
parameters, and map, slice, array and struct literals whose keys, elements or
fields are MsgKeys.

The message id is the msgid itself, prefixed by its context and
[extract.ContextSeparator] when a context is given. The source text is the msgid.
*/
package gosource

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
	"codeberg.org/pixivfe/i18nmerge/core/extract"
)

// ID is the identifier of this extractor.
const ID = extract.DefaultID

// DefaultPackage is the name of the runtime package whose calls are extracted.
const DefaultPackage = "i18n"

var (
	errPackageLoad  = errors.New("failed to load packages")
	errNoI18nPkg    = errors.New("no i18n package defining MsgKey found")
	defaultPatterns = []string{"./..."}
)

// Config selects the packages to scan.
type Config struct {
	// Dir is the directory packages are loaded from.
	Dir string

	// Patterns are go/packages patterns, "./..." by default.
	Patterns []string

	// Package is the name of the i18n runtime package, "i18n" by default.
	Package string

	// SourceLocale is stamped on the written catalog.
	SourceLocale string
}

// Extractor scans Go packages.
type Extractor struct {
	cfg    Config
	logger zerolog.Logger
}

// New returns an Extractor for cfg.
func New(cfg Config, logger zerolog.Logger) *Extractor {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = defaultPatterns
	}

	if cfg.Package == "" {
		cfg.Package = DefaultPackage
	}

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
	c, err := e.Scan(ctx)
	if err != nil {
		return extract.Failed(err)
	}

	if err := extract.WriteCatalog(req, c); err != nil {
		return extract.Failed(err)
	}

	e.logger.Info().
		Int("messages", c.Len()).
		Str("path", req.Path()).
		Msg("Wrote source catalog")

	return extract.Succeeded()
}

// Scan loads the configured packages and returns the extracted source catalog.
func (e *Extractor) Scan(ctx context.Context) (*catalog.Catalog, error) {
	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Dir:     e.cfg.Dir,
		Mode:    packages.LoadAllSyntax,
		Tests:   false,
	}, e.cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errPackageLoad, err)
	}

	loadErrors := 0

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, perr := range p.Errors {
			loadErrors++

			e.logger.Error().
				Str("package", p.PkgPath).
				Str("error", perr.Error()).
				Msg("Package error")
		}
	})

	if loadErrors > 0 {
		return nil, fmt.Errorf("%w: %d errors", errPackageLoad, loadErrors)
	}

	i18nPkgs := findI18nPkgPaths(pkgs, e.cfg.Package)
	if len(i18nPkgs) == 0 {
		return nil, fmt.Errorf("%w: package name %q", errNoI18nPkg, e.cfg.Package)
	}

	root := e.cfg.Dir
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	refs := extractRefs(pkgs, root, i18nPkgs)

	e.dropInvalidUTF8(refs)
	e.logRefs(refs)

	return buildCatalog(refs, e.cfg.SourceLocale), nil
}

func (e *Extractor) logRefs(refs map[key][]ref) {
	if e.logger.GetLevel() > zerolog.DebugLevel {
		return
	}

	keys := sortedKeys(refs)
	for _, k := range keys {
		rs := refs[k]
		sortRefs(rs)

		e.logger.Debug().
			Str("msgid", k.id).
			Str("context", k.ctx).
			Str("first", fmt.Sprintf("%s:%d", rs[0].file, rs[0].line)).
			Int("refs", len(rs)).
			Msg("Found message")
	}
}

// dropInvalidUTF8 removes messages whose strings are not valid UTF-8,
// such as literals built from \x escapes. The catalog encoding cannot carry them.
func (e *Extractor) dropInvalidUTF8(refs map[key][]ref) {
	for k, rs := range refs {
		if utf8.ValidString(k.ctx) && utf8.ValidString(k.id) && utf8.ValidString(k.plural) {
			continue
		}

		sortRefs(rs)

		e.logger.Warn().
			Str("msgid", strconv.Quote(k.id)).
			Str("first", fmt.Sprintf("%s:%d", rs[0].file, rs[0].line)).
			Msg("Skipping message that is not valid UTF-8")

		delete(refs, k)
	}
}

// buildCatalog converts the collected keys to a flat catalog.
// Plural entries contribute both their singular and plural msgids.
func buildCatalog(refs map[key][]ref, locale string) *catalog.Catalog {
	c := catalog.New(locale, make(map[string]string, len(refs)))

	for k := range refs {
		c.Translations[messageID(k.ctx, k.id)] = k.id

		if k.plural != "" {
			c.Translations[messageID(k.ctx, k.plural)] = k.plural
		}
	}

	return c
}

// messageID joins a gettext context and msgid.
func messageID(ctx, msgid string) string {
	if ctx == "" {
		return msgid
	}

	return ctx + extract.ContextSeparator + msgid
}

// extractRefs traverses all Go source files in the given packages,
// looking for i18n function calls and message keys to extract.
func extractRefs(pkgs []*packages.Package, projectRoot string, i18nPkgPaths map[string]struct{}) map[key][]ref {
	refs := map[key][]ref{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		sc := &scanner{
			refs:        refs,
			projectRoot: projectRoot,
			fset:        p.Fset,
			info:        p.TypesInfo,
			i18nPkgs:    i18nPkgPaths,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					sc.handleCallExpr(x)
				case *ast.CompositeLit:
					sc.handleCompositeLit(x)
				}

				return true
			})
		}
	}

	return refs
}

func sortedKeys(refs map[key][]ref) []key {
	keys := make([]key, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ctx != keys[j].ctx {
			return keys[i].ctx < keys[j].ctx
		}

		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}

		return keys[i].plural < keys[j].plural
	})

	return keys
}

func sortRefs(rs []ref) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].file != rs[j].file {
			return rs[i].file < rs[j].file
		}

		return rs[i].line < rs[j].line
	})
}

// position converts pos to a ref relative to root.
func position(fset *token.FileSet, root string, pos token.Pos) ref {
	p := fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(root, file); err == nil {
		file = rel
	}

	return ref{file: filepath.ToSlash(file), line: p.Line}
}
