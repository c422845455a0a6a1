// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract defines the contract between the merge pipeline and the
step that produces a source catalog.

An [Extractor] scans an application (or converts some other artefact) and
writes a source catalog to the location given in its [Request]. The pipeline
only consumes the [Result] and the file written; it never inspects how the
catalog was produced.

Extractors are selected by identifier through a [Registry]. The built-in
implementations live in the subpackages gosource, gettext and command.
*/
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// DefaultID identifies the extractor used when none is configured.
const DefaultID = "go"

// FormatJSON is the only catalog format the pipeline requests.
const FormatJSON = "json"

// ContextSeparator joins a disambiguating context and a msgid into one message id.
// It is the EOT character used by gettext for the same purpose.
const ContextSeparator = "\x04"

var (
	errUnknownExtractor   = errors.New("unknown extractor")
	errDuplicateExtractor = errors.New("duplicate extractor")
)

// Request tells an extractor where to write the source catalog.
type Request struct {
	OutputDir  string
	OutputFile string
	Format     string
	Progress   bool
}

// Path returns the full path of the requested output file.
func (r Request) Path() string {
	return filepath.Join(r.OutputDir, r.OutputFile)
}

// Result reports the outcome of an extraction.
type Result struct {
	Success bool
	Error   string
}

// Succeeded returns a successful Result.
func Succeeded() Result {
	return Result{Success: true}
}

// Failed returns an unsuccessful Result carrying the text of err.
func Failed(err error) Result {
	if err == nil {
		return Result{Error: "unknown error"}
	}

	return Result{Error: err.Error()}
}

// Extractor produces a source catalog file.
type Extractor interface {
	// ID returns the identifier the extractor is registered under.
	ID() string

	// Extract writes the source catalog described by req.
	// It must not write anything when it reports failure.
	Extract(ctx context.Context, req Request) Result
}

// Registry resolves extractors by identifier.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry holding the given extractors.
// It returns an error if two extractors share an identifier.
func NewRegistry(extractors ...Extractor) (*Registry, error) {
	r := &Registry{extractors: make(map[string]Extractor, len(extractors))}

	for _, e := range extractors {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds e to the registry.
func (r *Registry) Register(e Extractor) error {
	if _, exists := r.extractors[e.ID()]; exists {
		return fmt.Errorf("%w: %q", errDuplicateExtractor, e.ID())
	}

	r.extractors[e.ID()] = e

	return nil
}

// Lookup returns the extractor registered under id. An empty id selects [DefaultID].
func (r *Registry) Lookup(id string) (Extractor, error) {
	if id == "" {
		id = DefaultID
	}

	e, ok := r.extractors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", errUnknownExtractor, id, r.IDs())
	}

	return e, nil
}

// IDs returns the registered identifiers in ascending order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.extractors))
	for id := range r.extractors {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.extractors[id]

	return ok
}
