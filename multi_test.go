package l10n

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMultiLoader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := Config{Locales: "locales", FallbackLanguage: "en-US"}

	overrides, err := NewStaticLoader(ctx, cfg, WithFS(fstest.MapFS{
		"locales/en-US/main.ftl": {Data: []byte("hello-world = Howdy!\n")},
		"locales/de/main.ftl":    {Data: []byte("hello-world = Hallo Welt!\n")},
	}))
	require.NoError(t, err)
	base := newTestLoader(t)

	m := NewMultiLoader(base)
	m.PushFront(overrides)

	t.Run("MultiLoader_FirstWins", func(t *testing.T) {
		text, ok := m.Lookup(language.MustParse("en-US"), "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Howdy!", text)

		text, ok = m.Lookup(language.German, "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Hallo Welt!", text)
	})

	t.Run("MultiLoader_FallsThrough", func(t *testing.T) {
		text, ok := m.Lookup(language.French, "only-english")
		require.True(t, ok)
		assert.Equal(t, "Only in English", text)

		text, ok = m.LookupAttribute(language.French, "login", "placeholder", nil)
		require.True(t, ok)
		assert.Equal(t, "Email address", text)
	})

	t.Run("MultiLoader_Locales", func(t *testing.T) {
		assert.Equal(t, []string{"de", "en-US", "fr", "zh-Hans"}, tagStrings(m.Locales()))
	})

	t.Run("MultiLoader_Resolve", func(t *testing.T) {
		// overrides has no fr and answers from its en-US fallback first.
		res, err := m.Resolve(Query{Language: language.French, Key: "hello-world"})
		require.NoError(t, err)
		assert.Equal(t, "Howdy!", res.Text)
		assert.Equal(t, "en-US", res.Language.String())
		assert.False(t, res.Matched)

		text, ok := m.Lookup(language.French, "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Howdy!", text)

		res, err = NewMultiLoader(base, overrides).Resolve(Query{Language: language.French, Key: "hello-world"})
		require.NoError(t, err)
		assert.Equal(t, "Bonjour le monde!", res.Text)
		assert.True(t, res.Matched)

		_, err = m.Resolve(Query{Language: language.French, Key: "nope"})
		require.ErrorIs(t, err, ErrMissingKey)
		_, err = m.Resolve(Query{Language: language.Japanese, Key: "nope"})
		require.ErrorIs(t, err, ErrUnknownLanguage)
	})

	t.Run("MultiLoader_PushBack", func(t *testing.T) {
		mm := NewMultiLoader()
		_, ok := mm.Lookup(language.French, "hello-world")
		assert.False(t, ok)

		mm.PushBack(base)
		mm.PushBack(overrides)
		text, ok := mm.Lookup(language.MustParse("en-US"), "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Hello World!", text)
	})
}
