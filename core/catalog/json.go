// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrMalformed is returned by Parse when the content does not have the catalog shape.
var ErrMalformed = errors.New("malformed catalog")

// ErrInvalidUTF8 is returned by Marshal for a catalog holding a string that is
// not valid UTF-8. JSON cannot carry such a string unchanged.
var ErrInvalidUTF8 = errors.New("catalog text is not valid UTF-8")

// indent is the indentation unit of the canonical encoding.
const indent = "  "

// document is the persisted shape. Field order fixes the top-level key order,
// and encoding/json writes map keys in ascending order.
type document struct {
	Locale       string            `json:"locale,omitempty"`
	Translations map[string]string `json:"translations"`
}

// wireDocument is the decoding shape; null translation values stay distinguishable.
type wireDocument struct {
	Locale       string             `json:"locale"`
	Translations map[string]*string `json:"translations"`
}

// Marshal encodes c in the canonical form:
//
//	{
//	  "locale": "fr-FR",
//	  "translations": {
//	    "apple": "Pomme",
//	    "banana": "Banane"
//	  }
//	}
//
// Translation keys are always written in ascending byte order regardless of how
// the mapping was populated, so equal catalogs always produce identical bytes.
// HTML characters are written literally and there is no trailing newline.
//
// A locale, id or text that is not valid UTF-8 is rejected with [ErrInvalidUTF8].
func Marshal(c *Catalog) ([]byte, error) {
	if c == nil {
		c = New("", nil)
	}

	if err := checkUTF8(c); err != nil {
		return nil, err
	}

	doc := document{Locale: c.Locale, Translations: c.Translations}
	if doc.Translations == nil {
		doc.Translations = map[string]string{}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	// Encode terminates the document with a newline; catalogs end at the closing brace.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Parse decodes a catalog. A missing or null "translations" member yields an
// empty mapping; a missing "locale" yields an empty locale.
//
// Content that is not a JSON object, or whose locale or translation values are
// not strings, is rejected with an error wrapping [ErrMalformed].
func Parse(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	var doc wireDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	translations := make(map[string]string, len(doc.Translations))

	for id, text := range doc.Translations {
		if text == nil {
			return nil, fmt.Errorf("%w: translation %q is null", ErrMalformed, id)
		}

		translations[id] = *text
	}

	return New(doc.Locale, translations), nil
}

func checkUTF8(c *Catalog) error {
	if !utf8.ValidString(c.Locale) {
		return fmt.Errorf("%w: locale %q", ErrInvalidUTF8, c.Locale)
	}

	ids := make([]string, 0, len(c.Translations))
	for id := range c.Translations {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		if !utf8.ValidString(id) || !utf8.ValidString(c.Translations[id]) {
			return fmt.Errorf("%w: id %q", ErrInvalidUTF8, id)
		}
	}

	return nil
}
