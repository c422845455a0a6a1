// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"errors"
	"fmt"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
	"codeberg.org/pixivfe/i18nmerge/core/storage"
)

var errUnsupportedFormat = errors.New("unsupported format")

// WriteCatalog stores c at the location requested by req using the canonical encoding.
// Built-in extractors use it so the file they hand over is already normalized.
func WriteCatalog(req Request, c *catalog.Catalog) error {
	if req.Format != "" && req.Format != FormatJSON {
		return fmt.Errorf("%w: %q", errUnsupportedFormat, req.Format)
	}

	data, err := catalog.Marshal(c)
	if err != nil {
		return err
	}

	return storage.Save(req.Path(), data)
}
