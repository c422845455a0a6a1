// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// WithTag stores t in ctx and returns a derived context that carries it.
//
// The returned context should be passed to downstream code that performs
// translations. Passing the zero value of [language.Tag] clears any existing value.
//
// The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or the tag for [BaseLocale]
// if none is present. It never returns the zero value of [language.Tag].
// A nil ctx yields the base tag.
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// Match returns the best loaded language for the given preferences, each a
// BCP 47 tag or an Accept-Language value, in priority order.
//
// If Setup has not been called, Match returns the tag for [BaseLocale].
func Match(preferred ...string) language.Tag {
	if matcher == nil {
		return baseTag
	}

	tag, _ := language.MatchStrings(matcher, preferred...)

	return tag
}

// WithPreferred resolves the language with [Match] and installs it in the
// returned context. It is equivalent to:
//
//	WithTag(ctx, Match(preferred...))
func WithPreferred(ctx context.Context, preferred ...string) context.Context {
	return WithTag(ctx, Match(preferred...))
}
