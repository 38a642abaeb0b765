package l10n

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
	"github.com/lifei6671/l10n/fluent"
)

// countingEngine records how often every path is parsed.
type countingEngine struct {
	fluent.Engine

	mu     sync.Mutex
	parsed map[string]int
}

func (e *countingEngine) ParseResource(name string, src []byte) (bundle.Resource, error) {
	e.mu.Lock()
	if e.parsed == nil {
		e.parsed = make(map[string]int)
	}
	e.parsed[name]++
	e.mu.Unlock()
	return e.Engine.ParseResource(name, src)
}

func buildSets(shared string) []ResourceSet {
	core := ResourceFile{Path: "core.ftl", Data: []byte(shared), Shared: true}
	return []ResourceSet{
		{Language: language.MustParse("en-US"), Files: []ResourceFile{
			{Path: "en-US/main.ftl", Data: []byte("hello = Hello { -brand }\n")}, core,
		}},
		{Language: language.French, Files: []ResourceFile{
			{Path: "fr/main.ftl", Data: []byte("hello = Bonjour { -brand }\n")}, core,
		}},
		{Language: language.German, Files: []ResourceFile{
			{Path: "de/main.ftl", Data: []byte("hello = Hallo { -brand }\n")}, core,
		}},
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Build_SharedParsedOnce", func(t *testing.T) {
		engine := &countingEngine{}
		var customized atomic.Int32
		b := &Builder{
			Engine: engine,
			Customizer: CustomizerFunc(func(_ language.Tag, bndl bundle.Bundle) error {
				customized.Inc()
				bndl.SetUseIsolating(false)
				return nil
			}),
			Workers: 2,
		}
		res, err := b.Build(ctx, buildSets("-brand = Acme\n"))
		require.NoError(t, err)
		require.Len(t, res.Bundles, 3)
		assert.NoError(t, res.Warnings)

		assert.Equal(t, 1, engine.parsed["core.ftl"])
		assert.Equal(t, 1, engine.parsed["fr/main.ftl"])
		assert.Equal(t, int32(3), customized.Load())

		assert.Equal(t, "en-US", res.Bundles[0].Language.String())
		assert.Equal(t, "fr", res.Bundles[1].Language.String())
		assert.Equal(t, "de", res.Bundles[2].Language.String())
		text, err := res.Bundles[1].Bundle.Format("hello", nil)
		require.NoError(t, err)
		assert.Equal(t, "Bonjour Acme", text)
	})

	t.Run("Build_StrictSharedFailure", func(t *testing.T) {
		b := &Builder{Engine: fluent.New(), Mode: ModeStrict}
		_, err := b.Build(ctx, buildSets("-brand = {\n"))
		require.ErrorIs(t, err, ErrResourceParse)

		var rerr *ResourceError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "core.ftl", rerr.Path)
	})

	t.Run("Build_LenientSharedFailure", func(t *testing.T) {
		b := &Builder{Engine: fluent.New(), Mode: ModeLenient}
		res, err := b.Build(ctx, buildSets("-brand = {\n"))
		require.NoError(t, err)
		require.ErrorIs(t, res.Warnings, ErrResourceParse)
		require.Len(t, res.Bundles, 3)

		text, err := res.Bundles[0].Bundle.Format("hello", nil)
		require.ErrorIs(t, err, bundle.ErrFormat)
		assert.Contains(t, text, "{-brand}")
	})

	t.Run("Build_StrictOverride", func(t *testing.T) {
		sets := buildSets("-brand = Acme\nhello = Shared hello\n")
		_, err := (&Builder{Engine: fluent.New()}).Build(ctx, sets)
		require.ErrorIs(t, err, bundle.ErrOverride)

		res, err := (&Builder{Engine: fluent.New(), Mode: ModeLenient}).Build(ctx, sets)
		require.NoError(t, err)
		require.ErrorIs(t, res.Warnings, bundle.ErrOverride)
		text, err := res.Bundles[0].Bundle.Format("hello", nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello Acme", text)
	})

	t.Run("Build_Empty", func(t *testing.T) {
		res, err := (&Builder{Engine: fluent.New()}).Build(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Bundles)
	})

	t.Run("Build_Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := (&Builder{Engine: fluent.New()}).Build(cctx, buildSets("-brand = Acme\n"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestBuildMode_Text(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		text string
		mode BuildMode
	}{
		{"", ModeDefault},
		{"default", ModeDefault},
		{"strict", ModeStrict},
		{" Lenient ", ModeLenient},
	} {
		var m BuildMode
		require.NoError(t, m.UnmarshalText([]byte(tc.text)), tc.text)
		assert.Equal(t, tc.mode, m, tc.text)
	}

	var m BuildMode
	require.ErrorIs(t, m.UnmarshalText([]byte("sloppy")), ErrInvalidConfig)

	text, err := ModeLenient.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lenient", string(text))
	assert.Equal(t, ModeStrict, ModeDefault.or(ModeStrict))
	assert.Equal(t, ModeLenient, ModeLenient.or(ModeStrict))
}
