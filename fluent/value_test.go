package fluent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestValueOf(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, StringValue("x"), ValueOf("x"))
	assert.Equal(t, Number(3), ValueOf(3))
	assert.Equal(t, Number(2.5), ValueOf(float32(2.5)))
	assert.Equal(t, Number(7), ValueOf(uint8(7)))
	assert.Equal(t, DateTimeValue{Time: now}, ValueOf(now))
	assert.Equal(t, DateTimeValue{Time: now}, ValueOf(&now))
	assert.Equal(t, StringValue("stringer"), ValueOf(stringer{}))
	assert.Equal(t, StringValue("[1 2]"), ValueOf([]int{1, 2}))
	assert.Equal(t, NoneValue{}, ValueOf(nil))
}

func TestNumberValue_Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1,234", Number(1234).format(language.English))
	assert.Equal(t, "0.5", Number(0.5).format(language.English))
	assert.Equal(t, "1.50", parseNumberLiteral("1.50").format(language.English))

	noGrouping := Number(1234)
	noGrouping.Options.UseGrouping = false
	assert.Equal(t, "1234", noGrouping.format(language.English))

	percent := Number(0.25)
	percent.Options.Style = "percent"
	assert.Equal(t, "25%", percent.format(language.English))
}

func TestNumberValue_PluralCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "one", Number(1).pluralCategory(language.English))
	assert.Equal(t, "other", Number(2).pluralCategory(language.English))
	assert.Equal(t, "other", Number(1.5).pluralCategory(language.English))
	assert.Equal(t, "other", parseNumberLiteral("1.0").pluralCategory(language.English))
	assert.Equal(t, "few", Number(3).pluralCategory(language.Polish))
	assert.Equal(t, "many", Number(11).pluralCategory(language.Polish))
}
