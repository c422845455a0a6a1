// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/i18nmerge/core/catalog"
)

// templateCache maps template text to its parsed *template.Template.
var templateCache sync.Map

type Vars map[string]any

// NewUserError returns an error whose message is the translation of msgid.
func NewUserError(ctx context.Context, msgid string, kv ...any) *UserError {
	return &UserError{
		msgid: Tr(ctx, msgid, kv...),
		kv:    kv,
	}
}

// UserError carries a message already translated for the requesting locale.
type UserError struct {
	msgid string
	kv    []any
}

func (e *UserError) Error() string {
	return e.msgid
}

// Tr looks up the catalog entry whose id is msgid in the locale of ctx and
// renders it with the named values in kv.
//
// An entry that is absent, empty or still marked with [MarkerPrefix] falls
// back to msgid, wrapped as ⟦msgid⟧ in strict mode.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return translate(ctx, "", msgid, v(kv...))
}

// TrC is Tr for the entry keyed contextKey + "\x04" + msgid, the id the
// extractors give a message with a context.
func TrC(ctx context.Context, contextKey, msgid string, kv ...any) string {
	return translate(ctx, contextKey, msgid, v(kv...))
}

// TrN is Tr for the singular entry when n == 1 and the plural entry otherwise.
// Both are ordinary catalog entries keyed by their own msgid.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return translate(ctx, "", pick(singular, plural, n), v(kv...))
}

// TrNC combines TrC and TrN: the entry is keyed contextKey + "\x04" + the
// singular or plural msgid.
func TrNC(ctx context.Context, contextKey, singular, plural string, n int, kv ...any) string {
	return translate(ctx, contextKey, pick(singular, plural, n), v(kv...))
}

func pick(singular, plural string, n int) string {
	if n == 1 {
		return singular
	}

	return plural
}

func translate(ctx context.Context, contextKey, msgid string, vars Vars) string {
	c, matched := resolveLocale(TagFrom(ctx))
	id := entryID(contextKey, msgid)

	text, ok := lookup(c, id)

	switch {
	case ok:
	case strictMissingKeys():
		logMissingOnce(strippedTagString(matched), id)

		text = "⟦" + msgid + "⟧"
	default:
		text = msgid
	}

	return render(matched, text, vars)
}

// lookup returns the translation of id in c. Entries that still carry
// [MarkerPrefix] were added by a merge and not translated yet; they count as missing.
func lookup(c *catalog.Catalog, id string) (string, bool) {
	text, ok := c.Lookup(id)
	if !ok || text == "" {
		return "", false
	}

	if MarkerPrefix != "" && (text == MarkerPrefix || strings.HasPrefix(text, MarkerPrefix+" ")) {
		return "", false
	}

	return text, true
}

// render executes s as a text/template with data. Texts without actions are returned as is.
func render(locale language.Tag, s string, data Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var buf bytes.Buffer

	tmpl, err := parseTemplate(s)
	if err == nil {
		err = tmpl.Execute(&buf, map[string]any(data))
	}

	if err != nil {
		if strictMissingKeys() {
			return "⟦" + s + "⟧"
		}

		Logger.Error().Err(err).Stringer("locale", locale).Str("text", s).Msg("Failed to render translation")

		return s
	}

	return buf.String()
}

// parseTemplate returns the cached template for s, parsing it on first use.
func parseTemplate(s string) (*template.Template, error) {
	if cached, ok := templateCache.Load(s); ok {
		return cached.(*template.Template), nil
	}

	tmpl, err := template.New("msg").Option("missingkey=error").Parse(s)
	if err != nil {
		return nil, err
	}

	templateCache.Store(s, tmpl)

	return tmpl, nil
}

// resolveLocale returns the loaded catalog best matching t and the matched tag.
// Before Setup it returns nil and baseTag.
func resolveLocale(t language.Tag) (*catalog.Catalog, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	matched, _ := language.MatchStrings(matcher, t.String())

	return localesByTag[strippedTagString(matched)], matched
}

// entryID returns the catalog id of msgid under ctxKey.
func entryID(ctxKey, id string) string {
	if ctxKey != "" {
		return ctxKey + gotext.EotSeparator + id
	}

	return id
}

// v builds Vars from alternating key, value pairs. It panics on an odd count
// or a non-string key.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n.V: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.V: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
