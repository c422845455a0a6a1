// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package storage reads and writes catalog files.
//
// A file that does not exist yet is a normal state, not an error, so a first
// run behaves like any later run.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
)

const dirPermissions = 0o755

// LoadIfExists returns the content of path. ok is false, with a nil error,
// when the file does not exist.
func LoadIfExists(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path) // #nosec G304 -- catalog paths come from configuration
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, true, nil
}

// Save writes data to path, creating missing parent directories.
//
// The file is replaced atomically: readers see either the old or the new
// content, never a partial write.
func Save(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// LoadCatalog reads and parses the catalog at path.
//
// A missing or empty file yields an empty catalog stamped with fallbackLocale.
// Content that does not parse is returned as an error wrapping [catalog.ErrMalformed].
func LoadCatalog(path, fallbackLocale string) (*catalog.Catalog, error) {
	data, ok, err := LoadIfExists(path)
	if err != nil {
		return nil, err
	}

	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return catalog.New(fallbackLocale, nil), nil
	}

	c, err := catalog.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return c, nil
}

// Unchanged reports whether the file at path already holds exactly data.
// A missing or unreadable file is reported as changed.
func Unchanged(path string, data []byte) bool {
	current, ok, err := LoadIfExists(path)
	if err != nil || !ok {
		return false
	}

	return bytes.Equal(current, data)
}
