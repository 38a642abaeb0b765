package msgfile

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

//go:embed testdata
var testdata embed.FS

func parseFile(t *testing.T, name string) bundle.Resource {
	t.Helper()
	src, err := testdata.ReadFile("testdata/" + name)
	require.NoError(t, err)
	res, err := New().ParseResource(name, src)
	require.NoError(t, err)
	return res
}

func TestEngine_ParseResource(t *testing.T) {
	t.Parallel()

	t.Run("ParseResource_Formats", func(t *testing.T) {
		for _, name := range []string{"active.toml", "extra.yaml", "extra.json"} {
			res := parseFile(t, name)
			assert.Equal(t, name, res.Name())
		}
	})

	t.Run("ParseResource_Fail", func(t *testing.T) {
		_, err := New().ParseResource("broken.toml", []byte("hello = "))
		assert.ErrorIs(t, err, bundle.ErrParse)

		_, err = New().ParseResource("notes.txt", []byte("hello"))
		assert.ErrorIs(t, err, bundle.ErrParse)
	})
}

func TestBundle_Format(t *testing.T) {
	t.Parallel()

	b := New().NewBundle(language.English)
	require.NoError(t, b.AddResource(parseFile(t, "active.toml")))
	assert.Equal(t, language.English, b.Locale())

	t.Run("Format_Plain", func(t *testing.T) {
		got, err := b.Format("hello", nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", got)
	})

	t.Run("Format_TemplateData", func(t *testing.T) {
		got, err := b.Format("greeting", bundle.Args{"Name": "Ana"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Ana!", got)
	})

	t.Run("Format_Plural", func(t *testing.T) {
		got, err := b.Format("emails", bundle.Args{"count": 1})
		require.NoError(t, err)
		assert.Equal(t, "You have 1 email.", got)

		got, err = b.Format("emails", bundle.Args{"count": 3})
		require.NoError(t, err)
		assert.Equal(t, "You have 3 emails.", got)
	})

	t.Run("Format_Attribute", func(t *testing.T) {
		got, err := b.FormatAttribute("login", "placeholder", nil)
		require.NoError(t, err)
		assert.Equal(t, "Email", got)
	})

	t.Run("Format_NotFound", func(t *testing.T) {
		_, err := b.Format("nope", nil)
		assert.ErrorIs(t, err, bundle.ErrMessageNotFound)
		assert.False(t, b.HasMessage("nope"))
	})
}

func TestBundle_AddResource(t *testing.T) {
	t.Parallel()

	b := New().NewBundle(language.English)
	require.NoError(t, b.AddResource(parseFile(t, "active.toml")))

	err := b.AddResource(parseFile(t, "extra.yaml"))
	assert.ErrorIs(t, err, bundle.ErrOverride)

	got, err := b.Format("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", got, "first definition wins")

	got, err = b.Format("farewell", bundle.Args{"Name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Goodbye, Ana", got)

	require.NoError(t, b.AddResource(parseFile(t, "extra.json")))
	assert.Equal(t, []string{"emails", "farewell", "greeting", "hello", "login.placeholder", "ok"}, b.Messages())
}
