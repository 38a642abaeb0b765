package fluent

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

///////////////////////////////////////////////////////////////////////////////
// RUNTIME VALUES
///////////////////////////////////////////////////////////////////////////////

// undetermined is used where a value is turned into text outside any locale,
// such as function options.
var undetermined = language.Und

// Value is the result of resolving an expression. Arguments passed to a bundle
// are converted with ValueOf; functions receive and return Values.
type Value interface {
	format(locale language.Tag) string
}

// StringValue is plain text.
type StringValue string

func (s StringValue) format(language.Tag) string { return string(s) }

// NumberOptions mirrors the subset of NUMBER options the engine understands.
type NumberOptions struct {
	MinimumFractionDigits int
	// MaximumFractionDigits < 0 means unlimited.
	MaximumFractionDigits int
	UseGrouping           bool
	// Style is "decimal", "percent" or "currency".
	Style    string
	Currency string
}

// DefaultNumberOptions groups digits and keeps every significant fraction digit.
func DefaultNumberOptions() NumberOptions {
	return NumberOptions{MaximumFractionDigits: -1, UseGrouping: true, Style: "decimal"}
}

// NumberValue is a number with its formatting options.
type NumberValue struct {
	Value   float64
	Options NumberOptions
}

// Number wraps f with the default options.
func Number(f float64) NumberValue {
	return NumberValue{Value: f, Options: DefaultNumberOptions()}
}

func (n NumberValue) format(locale language.Tag) string {
	f := n.Value
	opts := n.Options
	if opts.Style == "percent" {
		f *= 100
	}

	maxDigits := opts.MaximumFractionDigits
	if maxDigits < 0 {
		maxDigits = max(fractionDigits(f), opts.MinimumFractionDigits)
	}
	numOpts := []number.Option{
		number.MinFractionDigits(opts.MinimumFractionDigits),
		number.MaxFractionDigits(maxDigits),
	}
	if !opts.UseGrouping {
		numOpts = append(numOpts, number.NoSeparator())
	}

	s := message.NewPrinter(locale).Sprint(number.Decimal(f, numOpts...))
	switch opts.Style {
	case "percent":
		return s + "%"
	case "currency":
		if opts.Currency != "" {
			return opts.Currency + s
		}
	}
	return s
}

// pluralCategory returns the CLDR cardinal category of n in locale.
func (n NumberValue) pluralCategory(locale language.Tag) string {
	digits := n.Options.MinimumFractionDigits
	if d := fractionDigits(n.Value); d > digits {
		digits = d
	}
	s := strconv.FormatFloat(math.Abs(n.Value), 'f', digits, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	i, _ := strconv.Atoi(intPart)
	trimmed := strings.TrimRight(frac, "0")
	f, _ := strconv.Atoi("0" + frac)
	t, _ := strconv.Atoi("0" + trimmed)

	switch plural.Cardinal.MatchPlural(locale, i, len(frac), len(trimmed), f, t) {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	default:
		return "other"
	}
}

// fractionDigits counts the digits after the point in the shortest
// representation of f.
func fractionDigits(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// DateTimeValue is a point in time rendered with a Go layout.
type DateTimeValue struct {
	Time   time.Time
	Layout string
}

func (d DateTimeValue) format(language.Tag) string {
	layout := d.Layout
	if layout == "" {
		layout = time.DateOnly
	}
	return d.Time.Format(layout)
}

// NoneValue stands for something that could not be resolved. It renders as
// its fallback text.
type NoneValue struct {
	Fallback string
}

func (n NoneValue) format(language.Tag) string {
	if n.Fallback == "" {
		return "???"
	}
	return n.Fallback
}

// ValueOf converts an argument to a Value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return NoneValue{}
	case Value:
		return x
	case string:
		return StringValue(x)
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case time.Time:
		return DateTimeValue{Time: x}
	case *time.Time:
		if x == nil {
			return NoneValue{}
		}
		return DateTimeValue{Time: *x}
	case fmt.Stringer:
		return StringValue(x.String())
	default:
		return StringValue(fmt.Sprint(v))
	}
}

// toFloat accepts numbers and numeric strings, with or without thousands separators.
func toFloat(v Value) (float64, error) {
	switch x := v.(type) {
	case NumberValue:
		return x.Value, nil
	case StringValue:
		s := strings.ReplaceAll(strings.TrimSpace(string(x)), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as a number", string(x))
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func parseNumberLiteral(raw string) NumberValue {
	f, _ := strconv.ParseFloat(raw, 64)
	n := Number(f)
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		n.Options.MinimumFractionDigits = len(raw) - i - 1
	}
	return n
}
