// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package inference derives an initial configuration from an existing
angular.json style workspace file.

The heuristics are best-effort: when several translation files are listed for
one locale the shortest path wins, because files pulled in from dependencies
tend to live deeper in the tree. Explicit configuration always overrides what
is inferred here.
*/
package inference

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultOutputPath is used when neither the workspace nor its translation files name a directory.
	DefaultOutputPath = "src/locales"

	// DefaultSourceFile is the source catalog file name assumed when the workspace names none.
	DefaultSourceFile = "messages.json"

	// DefaultNewPrefix marks entries added by a merge.
	DefaultNewPrefix = "@new"
)

var (
	// ErrProjectNotFound is returned when the requested project is not in the workspace.
	ErrProjectNotFound = errors.New("project not found")

	errInvalidWorkspace = errors.New("workspace file is not valid JSON")
)

// Result is the inferred configuration.
type Result struct {
	// Project is the name of the project the values were read from.
	Project string

	OutputPath string

	// SourceFile is relative to OutputPath. It is empty when the default applies.
	SourceFile string

	// TargetFiles maps locales to files relative to OutputPath.
	TargetFiles map[string]string

	NewPrefix string
}

// targetFile is one inferred locale file, relative to the workspace root.
type targetFile struct {
	locale string
	file   string
}

// Load reads the workspace file at path and infers from it.
// Existence probes are resolved against the directory holding the file.
func Load(path, project string, logger zerolog.Logger) (Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- workspace path comes from the command line
	if err != nil {
		return Result{}, fmt.Errorf("failed to read workspace %s: %w", path, err)
	}

	return Infer(data, project, OSExists(filepath.Dir(path)), logger)
}

// OSExists returns a probe reporting whether a slash separated path exists below root.
func OSExists(root string) func(string) bool {
	return func(p string) bool {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))

		return err == nil
	}
}

// Infer derives a configuration for project from workspace.
// An empty project selects the first project of the document.
// exists reports whether a path relative to the workspace root exists.
func Infer(workspace []byte, project string, exists func(string) bool, logger zerolog.Logger) (Result, error) {
	if !gjson.ValidBytes(workspace) {
		return Result{}, errInvalidWorkspace
	}

	p, name, ok := findProject(gjson.GetBytes(workspace, "projects"), project)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrProjectNotFound, project)
	}

	logger = logger.With().Str("project", name).Logger()

	files := targetFiles(p.Get("i18n.locales"))
	if len(files) == 0 {
		logger.Warn().Msg("Could not infer translation target files, define i18n.locales in the workspace and run init again")
	} else {
		for _, f := range files {
			logger.Info().Str("locale", f.locale).Str("file", f.file).Msg("Found target translation file")
		}
	}

	options := extractOptions(p)

	fromOptions := ""
	if v := options.Get("outputPath"); v.Type == gjson.String {
		fromOptions = v.String()
	}

	fromFiles := ""
	if len(files) > 0 {
		fromFiles = path.Dir(files[0].file)
	}

	outputPath := DefaultOutputPath

	switch {
	case fromOptions != "":
		outputPath = path.Clean(fromOptions)
	case fromFiles != "":
		outputPath = fromFiles
	}

	logger.Info().Str("path", outputPath).Msg("Inferred output path")

	targets := make(map[string]string, len(files))
	for _, f := range files {
		targets[f.locale] = relative(outputPath, f.file)
	}

	outFile := DefaultSourceFile
	if v := options.Get("outFile"); v.Type == gjson.String && v.String() != "" {
		outFile = v.String()
	}

	sourceFile := sourceFileFor(outFile, outputPath, exists, fromOptions, fromFiles, DefaultOutputPath, ".")
	if sourceFile == DefaultSourceFile {
		sourceFile = ""
	}

	return Result{
		Project:     name,
		OutputPath:  outputPath,
		SourceFile:  sourceFile,
		TargetFiles: targets,
		NewPrefix:   DefaultNewPrefix,
	}, nil
}

// findProject returns the project called name, or the first one when name is empty.
func findProject(projects gjson.Result, name string) (gjson.Result, string, bool) {
	var (
		found gjson.Result
		key   string
		ok    bool
	)

	if !projects.IsObject() {
		return found, "", false
	}

	projects.ForEach(func(k, v gjson.Result) bool {
		if name == "" || k.String() == name {
			found, key, ok = v, k.String(), v.IsObject()

			return false
		}

		return true
	})

	return found, key, ok
}

// targetFiles selects one file per locale in document order.
// A locale maps to a path, a list of paths, or an object whose "translation"
// member holds either.
func targetFiles(locales gjson.Result) []targetFile {
	var files []targetFile

	locales.ForEach(func(locale, v gjson.Result) bool {
		candidates := v
		if v.IsObject() {
			candidates = v.Get("translation")
		}

		if file, ok := selectFile(candidates); ok {
			files = append(files, targetFile{locale: locale.String(), file: file})
		}

		return true
	})

	return files
}

// selectFile picks the shortest path of candidates, the first one on ties.
func selectFile(candidates gjson.Result) (string, bool) {
	if candidates.Type == gjson.String {
		return candidates.String(), candidates.String() != ""
	}

	if !candidates.IsArray() {
		return "", false
	}

	best, found := "", false

	for _, c := range candidates.Array() {
		if c.Type != gjson.String {
			continue
		}

		if !found || len(c.String()) < len(best) {
			best, found = c.String(), true
		}
	}

	return best, found && best != ""
}

// extractOptions returns the options of the extract-i18n target, which older
// workspaces keep under "architect" and newer ones under "targets".
func extractOptions(project gjson.Result) gjson.Result {
	for _, section := range []string{"architect", "targets"} {
		if target := project.Get(section + ".extract-i18n"); target.Exists() {
			return target.Get("options")
		}
	}

	return gjson.Result{}
}

// sourceFileFor returns outFile relative to outputPath, located in the first
// base directory where it exists. When it exists nowhere outFile is returned unchanged.
func sourceFileFor(outFile, outputPath string, exists func(string) bool, bases ...string) string {
	for _, base := range bases {
		if base == "" {
			continue
		}

		candidate := path.Join(base, outFile)
		if exists(candidate) {
			return relative(outputPath, candidate)
		}
	}

	return outFile
}

// relative returns target relative to base, both slash separated and
// relative to the workspace root.
func relative(base, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash("/"+base), filepath.FromSlash("/"+target))
	if err != nil {
		return target
	}

	return filepath.ToSlash(rel)
}
