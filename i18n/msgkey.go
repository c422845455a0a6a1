// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// Translatable resolves to display text for the locale carried by ctx.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey is a source message id, the original English UI text.
//
// Conversions to MsgKey are picked up by the extractor like Tr calls, so a
// table of MsgKey values needs no Tr call to end up in the source catalog:
//
//	var labels = map[string]i18n.MsgKey{"save": "Save", "quit": "Quit"}
type MsgKey string

// Tr translates k; it is equivalent to calling [Tr] with the same msgid.
func (k MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(k))
}

// With binds template values to k, given as alternating key, value pairs.
func (k MsgKey) With(kv ...any) Translatable {
	return boundKey{id: string(k), vars: v(kv...)}
}

// Render writes the translation of k to w.
func (k MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, k.Tr(ctx))

	return err
}

type boundKey struct {
	id   string
	vars Vars
}

func (b boundKey) Tr(ctx context.Context) string {
	return translate(ctx, "", b.id, b.vars)
}

// TrAll translates items in order.
func TrAll(ctx context.Context, items ...Translatable) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Tr(ctx)
	}

	return out
}
