package l10n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifei6671/l10n/bundle"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("APP_LOCALES", "/srv/locales")
	t.Setenv("APP_FALLBACK_LANGUAGE", "en-US")
	t.Setenv("APP_CORE_LOCALES", "/srv/core.ftl")
	t.Setenv("APP_FOLLOW_SYMLINKS", "true")
	t.Setenv("APP_BUILD_MODE", "lenient")
	t.Setenv("APP_BUILD_WORKERS", "3")
	t.Setenv("APP_IGNORE_FILES", ".gitignore,.l10nignore")

	cfg, err := ConfigFromEnv("APP_")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Locales:          "/srv/locales",
		FallbackLanguage: "en-US",
		CoreLocales:      "/srv/core.ftl",
		FollowSymlinks:   true,
		Mode:             ModeLenient,
		Workers:          3,
		IgnoreFiles:      []string{".gitignore", ".l10nignore"},
	}, cfg)
	require.NoError(t, cfg.Validate())

	t.Setenv("APP_BUILD_MODE", "sloppy")
	_, err = ConfigFromEnv("APP_")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	want := Config{
		Locales:          "locales",
		FallbackLanguage: "fr",
		Mode:             ModeStrict,
		IgnoreFiles:      []string{".ignore"},
	}

	t.Run("LoadConfigFile_TOML", func(t *testing.T) {
		p := filepath.Join(dir, "l10n.toml")
		require.NoError(t, os.WriteFile(p, []byte(`locales = "locales"
fallback_language = "fr"
build_mode = "strict"
ignore_files = [".ignore"]
`), 0o644))
		cfg, err := LoadConfigFile(p)
		require.NoError(t, err)
		assert.Equal(t, want, cfg)
	})

	t.Run("LoadConfigFile_YAML", func(t *testing.T) {
		p := filepath.Join(dir, "l10n.yaml")
		require.NoError(t, os.WriteFile(p, []byte(`locales: locales
fallback_language: fr
build_mode: strict
ignore_files:
  - .ignore
`), 0o644))
		cfg, err := LoadConfigFile(p)
		require.NoError(t, err)
		assert.Equal(t, want, cfg)
	})

	t.Run("LoadConfigFile_EmptyIgnoreFiles", func(t *testing.T) {
		p := filepath.Join(dir, "no-ignore.yaml")
		require.NoError(t, os.WriteFile(p, []byte("locales: locales\nfallback_language: fr\nignore_files: []\n"), 0o644))
		cfg, err := LoadConfigFile(p)
		require.NoError(t, err)
		require.NotNil(t, cfg.IgnoreFiles)
		assert.Empty(t, cfg.IgnoreFiles)

		// The drafts and backups hidden by .gitignore now redefine hello-world.
		tree := testConfig()
		tree.IgnoreFiles = cfg.IgnoreFiles
		_, err = NewStaticLoader(context.Background(), tree, WithMode(ModeStrict))
		require.ErrorIs(t, err, bundle.ErrOverride)

		tree.IgnoreFiles = nil
		_, err = NewStaticLoader(context.Background(), tree, WithMode(ModeStrict))
		require.NoError(t, err)
	})

	t.Run("LoadConfigFile_Invalid", func(t *testing.T) {
		p := filepath.Join(dir, "broken.toml")
		require.NoError(t, os.WriteFile(p, []byte("locales = \n"), 0o644))
		_, err := LoadConfigFile(p)
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = LoadConfigFile(filepath.Join(dir, "l10n.ini"))
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	valid := Config{Locales: "locales", FallbackLanguage: "en-US"}
	require.NoError(t, valid.Validate())

	for name, cfg := range map[string]Config{
		"no locales":       {FallbackLanguage: "en-US"},
		"no fallback":      {Locales: "locales"},
		"bad fallback":     {Locales: "locales", FallbackLanguage: "not a language"},
		"unknown mode":     {Locales: "locales", FallbackLanguage: "en-US", Mode: BuildMode(9)},
		"negative workers": {Locales: "locales", FallbackLanguage: "en-US", Workers: -1},
	} {
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}
}
