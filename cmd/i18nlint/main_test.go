package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocales(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return root
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Run_Clean", func(t *testing.T) {
		dir := writeLocales(t, map[string]string{
			"en-US/main.ftl": "hello = Hello\n",
			"fr/main.ftl":    "hello = Bonjour\n",
		})
		var stdout, stderr bytes.Buffer
		code := run(ctx, []string{"-d", dir, "--fail"}, &stdout, &stderr)
		assert.Equal(t, 0, code, stderr.String())
		assert.Contains(t, stdout.String(), "Languages: [en-US fr]")
		assert.Contains(t, stdout.String(), "Missing keys: None")
	})

	t.Run("Run_Issues", func(t *testing.T) {
		dir := writeLocales(t, map[string]string{
			"en-US/main.ftl": "hello = Hello\nbye = Bye\n",
			"fr/main.ftl":    "hello = Bonjour\n",
		})
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 0, run(ctx, []string{"-d", dir}, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "  - bye")

		stdout.Reset()
		assert.Equal(t, 1, run(ctx, []string{"-d", dir, "--fail"}, &stdout, &stderr))
	})

	t.Run("Run_ConfigFile", func(t *testing.T) {
		dir := writeLocales(t, map[string]string{
			"fr/main.ftl": "hello = Bonjour\n",
		})
		cfgFile := filepath.Join(t.TempDir(), "lint.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("locales: "+dir+"\nfallback_language: fr\n"), 0o644))

		var stdout, stderr bytes.Buffer
		code := run(ctx, []string{"--config", cfgFile}, &stdout, &stderr)
		assert.Equal(t, 0, code, stderr.String())
		assert.Contains(t, stdout.String(), "Fallback: fr")
	})

	t.Run("Run_BuildFailure", func(t *testing.T) {
		dir := writeLocales(t, map[string]string{"fr/main.ftl": "hello = Bonjour\n"})
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 1, run(ctx, []string{"-d", dir, "-f", "en-US"}, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "check failed")
	})

	t.Run("Run_BadFlags", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run(ctx, []string{"--engine", "gettext"}, &stdout, &stderr))
		assert.Equal(t, 2, run(ctx, []string{"--log-level", "loud"}, &stdout, &stderr))
		assert.Equal(t, 2, run(ctx, []string{"--no-such-flag"}, &stdout, &stderr))
	})
}
