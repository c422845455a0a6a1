// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_CanonicalForm(t *testing.T) {
	t.Parallel()

	c := New("fr-FR", map[string]string{
		"banana": "Banane",
		"apple":  "Pomme",
	})

	got, err := Marshal(c)
	require.NoError(t, err)

	want := `{
  "locale": "fr-FR",
  "translations": {
    "apple": "Pomme",
    "banana": "Banane"
  }
}`
	assert.Equal(t, want, string(got))
}

func TestMarshal_OrderIndependentOfPopulation(t *testing.T) {
	t.Parallel()

	ids := []string{"z.last", "a.first", "m.middle", "B.upper", "a.first.child"}

	forward := New("de", nil)
	for _, id := range ids {
		forward.Translations[id] = "text " + id
	}

	backward := New("de", nil)
	for i := len(ids) - 1; i >= 0; i-- {
		backward.Translations[ids[i]] = "text " + ids[i]
	}

	a, err := Marshal(forward)
	require.NoError(t, err)

	b, err := Marshal(backward)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Less(t, indexOf(a, `"B.upper"`), indexOf(a, `"a.first"`))
	assert.Less(t, indexOf(a, `"a.first"`), indexOf(a, `"a.first.child"`))
	assert.Less(t, indexOf(a, `"m.middle"`), indexOf(a, `"z.last"`))
}

func TestMarshal_EmptyAndUnlocalized(t *testing.T) {
	t.Parallel()

	got, err := Marshal(New("", nil))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"translations\": {}\n}", string(got))

	got, err = Marshal(&Catalog{Locale: "ja"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"locale\": \"ja\",\n  \"translations\": {}\n}", string(got))
}

func TestMarshal_DoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	got, err := Marshal(New("en", map[string]string{"link": `<a href="x">Tom & Jerry</a>`}))
	require.NoError(t, err)
	assert.Contains(t, string(got), `"<a href=\"x\">Tom & Jerry</a>"`)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *Catalog
		wantErr bool
	}{
		{
			name:  "full",
			input: `{"locale":"fr-FR","translations":{"group.label":"Étiqueter"}}`,
			want:  New("fr-FR", map[string]string{"group.label": "Étiqueter"}),
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  New("", nil),
		},
		{
			name:  "null translations",
			input: `{"locale":"de","translations":null}`,
			want:  New("de", nil),
		},
		{
			name:  "unknown members are ignored",
			input: `{"translations":{"a":"A"},"_meta":{"x":1}}`,
			want:  New("", map[string]string{"a": "A"}),
		},
		{name: "empty input", input: "  \n", wantErr: true},
		{name: "array", input: `[]`, wantErr: true},
		{name: "null document", input: `null`, wantErr: true},
		{name: "truncated", input: `{"translations":{"a":"A"`, wantErr: true},
		{name: "non-string value", input: `{"translations":{"a":1}}`, wantErr: true},
		{name: "non-string locale", input: `{"locale":42,"translations":{}}`, wantErr: true},
		{name: "null value", input: `{"translations":{"a":null}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformed)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %+v, want %+v", got, tt.want)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	catalogs := []*Catalog{
		New("", nil),
		New("en-US", map[string]string{"group.label": "Label"}),
		New("fr-FR", map[string]string{
			"apple":    "@new Apple",
			"banana":   "Banane",
			"unicode":  "日本語 é \U0001F600",
			"escapes":  "line\nbreak\t\"quoted\"\\",
			"ctx\x04id": "with context",
		}),
	}

	for _, c := range catalogs {
		data, err := Marshal(c)
		require.NoError(t, err)

		parsed, err := Parse(data)
		require.NoError(t, err)
		assert.True(t, c.Equal(parsed), "round trip changed %+v into %+v", c, parsed)

		again, err := Marshal(parsed)
		require.NoError(t, err)
		assert.Equal(t, data, again)
	}
}

func TestMarshal_RejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	for _, c := range []*Catalog{
		New("fr", map[string]string{"a\xffb": "x"}),
		New("fr", map[string]string{"a": "x\xff"}),
		New("fr\xff", nil),
	} {
		_, err := Marshal(c)
		require.ErrorIs(t, err, ErrInvalidUTF8)
	}
}

func indexOf(data []byte, needle string) int {
	return bytes.Index(data, []byte(needle))
}
