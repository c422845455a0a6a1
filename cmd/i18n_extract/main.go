// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract scans Go packages for i18n calls and writes the source catalog,
without reconciling any locale.

	go run ./cmd/i18n_extract -o src/locales/messages.json
*/
package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/i18nmerge/core/audit"
	"codeberg.org/pixivfe/i18nmerge/core/extract"
	"codeberg.org/pixivfe/i18nmerge/core/extract/gosource"
)

func main() {
	audit.SetDefaultLogger()

	outPath := flag.String("o", "messages.json", "output file")
	dir := flag.String("dir", ".", "directory packages are loaded from")
	pkg := flag.String("package", gosource.DefaultPackage, "name of the i18n runtime package")
	locale := flag.String("locale", "en-US", "locale stamped on the catalog")
	flag.Parse()

	patterns := flag.Args()

	e := gosource.New(gosource.Config{
		Dir:          *dir,
		Patterns:     patterns,
		Package:      *pkg,
		SourceLocale: *locale,
	}, log.Logger)

	res := e.Extract(context.Background(), extract.Request{
		OutputDir:  filepath.Dir(*outPath),
		OutputFile: filepath.Base(*outPath),
		Format:     extract.FormatJSON,
		Progress:   true,
	})
	if !res.Success {
		log.Fatal().Str("error", res.Error).Msg("Extraction failed")
	}
}
