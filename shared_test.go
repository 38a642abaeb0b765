package l10n

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
}

func TestSharedLoader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	enUS := language.MustParse("en-US")

	t.Run("SharedLoader_Lookup", func(t *testing.T) {
		l, err := NewSharedLoader(ctx, testConfig(), noIsolation())
		require.NoError(t, err)

		text, ok := l.Lookup(language.German, "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Hello World!", text)
		assert.Equal(t, []string{"en-US", "fr", "zh-Hans"}, tagStrings(l.Locales()))

		_, err = l.Resolve(Query{Language: language.French, Key: "nope"})
		require.ErrorIs(t, err, ErrMissingKey)
	})

	t.Run("SharedLoader_ZeroValue", func(t *testing.T) {
		var l SharedLoader
		assert.Nil(t, l.Snapshot())
		assert.Empty(t, l.Locales())

		_, ok := l.Lookup(enUS, "hello-world")
		assert.False(t, ok)
		_, ok = l.LookupAttribute(enUS, "login", "placeholder", nil)
		assert.False(t, ok)

		_, err := l.Resolve(Query{Language: enUS, Key: "hello-world"})
		require.ErrorIs(t, err, ErrUnknownLanguage)

		require.ErrorIs(t, l.Rebuild(ctx), ErrInvalidConfig)
		require.NoError(t, l.RebuildFrom(ctx, testConfig()))
		text, ok := l.Lookup(enUS, "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Hello World!", text)
	})

	t.Run("SharedLoader_RebuildIdempotent", func(t *testing.T) {
		l, err := NewSharedLoader(ctx, testConfig(), noIsolation())
		require.NoError(t, err)
		before := l.Snapshot()
		require.NoError(t, l.Rebuild(ctx))
		after := l.Snapshot()
		require.NotSame(t, before, after)

		keys := []string{"hello-world", "greeting", "only-english", "brand-line", "login", "login.placeholder", "nope"}
		for _, lang := range []string{"en-US", "fr", "zh-Hans", "zh-Hans-CN", "de", "en"} {
			for _, key := range keys {
				tag := language.MustParse(lang)
				t1, ok1 := before.Lookup(tag, key)
				t2, ok2 := after.Lookup(tag, key)
				assert.Equal(t, ok1, ok2, "%s %s", lang, key)
				assert.Equal(t, t1, t2, "%s %s", lang, key)
			}
		}
	})

	t.Run("SharedLoader_SnapshotIsolation", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"en-US/main.ftl": "hello = Hello\n",
			"fr/main.ftl":    "hello = Bonjour\n",
		})
		l, err := NewSharedLoader(ctx, Config{Locales: root, FallbackLanguage: "en-US"})
		require.NoError(t, err)
		old := l.Snapshot()

		writeTree(t, root, map[string]string{
			"fr/main.ftl": "hello = Salut\n",
			"de/main.ftl": "hello = Hallo\n",
		})
		require.NoError(t, l.Rebuild(ctx))

		text, _ := l.Lookup(language.French, "hello")
		assert.Equal(t, "Salut", text)
		text, _ = l.Lookup(language.German, "hello")
		assert.Equal(t, "Hallo", text)

		text, _ = old.Lookup(language.French, "hello")
		assert.Equal(t, "Bonjour", text)
		text, _ = old.Lookup(language.German, "hello")
		assert.Equal(t, "Hello", text)
	})

	t.Run("SharedLoader_FailedRebuildKeepsSnapshot", func(t *testing.T) {
		l, err := NewSharedLoader(ctx, testConfig(), noIsolation())
		require.NoError(t, err)
		before := l.Snapshot()

		bad := testConfig()
		bad.FallbackLanguage = "de"
		require.ErrorIs(t, l.RebuildFrom(ctx, bad), ErrMissingFallback)
		assert.Same(t, before, l.Snapshot())

		// The failed config was not kept.
		require.NoError(t, l.Rebuild(ctx))
		assert.Equal(t, "en-US", l.Snapshot().Fallback().String())
	})

	t.Run("SharedLoader_RebuildFrom", func(t *testing.T) {
		l, err := NewSharedLoader(ctx, testConfig(), noIsolation())
		require.NoError(t, err)

		next := testConfig()
		next.FallbackLanguage = "fr"
		require.NoError(t, l.RebuildFrom(ctx, next))
		text, ok := l.Lookup(language.German, "hello-world")
		require.True(t, ok)
		assert.Equal(t, "Bonjour le monde!", text)

		require.NoError(t, l.Rebuild(ctx))
		assert.Equal(t, "fr", l.Snapshot().Fallback().String())
	})

	t.Run("SharedLoader_LenientByDefault", func(t *testing.T) {
		cfg := Config{Locales: "locales", FallbackLanguage: "en-US"}
		l, err := NewSharedLoader(ctx, cfg, WithFS(brokenTree()))
		require.NoError(t, err)
		require.ErrorIs(t, l.Snapshot().Warnings(), ErrResourceParse)

		_, err = NewSharedLoader(ctx, cfg, WithFS(brokenTree()), WithMode(ModeStrict))
		require.ErrorIs(t, err, ErrResourceParse)
	})

	t.Run("SharedLoader_ConcurrentReaders", func(t *testing.T) {
		l, err := NewSharedLoader(ctx, testConfig(), noIsolation())
		require.NoError(t, err)

		var wg sync.WaitGroup
		stop := make(chan struct{})
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
					}
					text, ok := l.Lookup(enUS, "hello-world")
					assert.True(t, ok)
					assert.Equal(t, "Hello World!", text)
					text, ok = l.LookupAttribute(language.French, "login", "placeholder", nil)
					assert.True(t, ok)
					assert.Equal(t, "Email address", text)
				}
			}()
		}
		for range 5 {
			require.NoError(t, l.Rebuild(ctx))
		}
		close(stop)
		wg.Wait()
	})
}
