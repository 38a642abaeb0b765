package fluent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestBundle_Check(t *testing.T) {
	t.Parallel()

	t.Run("Check_Clean", func(t *testing.T) {
		b := newTestBundle(t, language.English, "-brand = Acme\nhello = Hi { -brand } { $name } { NUMBER(1) }\n")
		assert.Empty(t, b.Check())
	})

	t.Run("Check_DanglingReferences", func(t *testing.T) {
		src := "a = { b }\nc = { -t }\nd = { FOO() }\ne = { a.attr }\nok = { a }\n-term = { $x ->\n   *[other] { missing }\n}\n"
		b := newTestBundle(t, language.English, src)

		errs := b.Check()
		require.Len(t, errs, 5)
		want := []string{
			"a: unknown message b",
			"c: unknown term -t",
			"d: unknown function FOO",
			"e: unknown attribute a.attr",
			"-term: unknown message missing",
		}
		for i, err := range errs {
			assert.EqualError(t, err, want[i])
		}

		var refErr *ReferenceError
		require.ErrorAs(t, errs[2], &refErr)
		assert.Equal(t, "function", refErr.Kind)
	})
}
