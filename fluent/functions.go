package fluent

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// FUNCTION REGISTRY
///////////////////////////////////////////////////////////////////////////////

var functionRegistry = map[string]Function{}
var regMutex sync.RWMutex

// Function implements a call such as NUMBER($n, minimumFractionDigits: 2).
type Function func(positional []Value, named map[string]Value) (Value, error)

// RegisterFunction makes f available to every bundle. Bundles can shadow it
// with Bundle.AddFunction.
func RegisterFunction(name string, f Function) {
	regMutex.Lock()
	defer regMutex.Unlock()
	functionRegistry[name] = f
}

func lookupFunction(name string) (Function, bool) {
	regMutex.RLock()
	defer regMutex.RUnlock()
	f, ok := functionRegistry[name]
	return f, ok
}

///////////////////////////////////////////////////////////////////////////////
// BUILT-IN FUNCTIONS REGISTERED AT INIT
///////////////////////////////////////////////////////////////////////////////

func init() {
	RegisterFunction("NUMBER", numberFunc)
	RegisterFunction("CURRENCY", currencyFunc)
	RegisterFunction("DATETIME", datetimeFunc)
	RegisterFunction("UPPER", func(args []Value, _ map[string]Value) (Value, error) {
		s, err := firstArg("UPPER", args)
		if err != nil {
			return nil, err
		}
		return StringValue(strings.ToUpper(s.format(undetermined))), nil
	})
	RegisterFunction("LOWER", func(args []Value, _ map[string]Value) (Value, error) {
		s, err := firstArg("LOWER", args)
		if err != nil {
			return nil, err
		}
		return StringValue(strings.ToLower(s.format(undetermined))), nil
	})
}

func firstArg(fn string, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing argument", fn)
	}
	if none, ok := args[0].(NoneValue); ok {
		return nil, fmt.Errorf("%s: unresolved argument %s", fn, none.format(undetermined))
	}
	return args[0], nil
}

func numberFunc(args []Value, named map[string]Value) (Value, error) {
	v, err := firstArg("NUMBER", args)
	if err != nil {
		return nil, err
	}
	n := NumberValue{Options: DefaultNumberOptions()}
	if nv, ok := v.(NumberValue); ok {
		n = nv
	} else if n.Value, err = toFloat(v); err != nil {
		return nil, fmt.Errorf("NUMBER: %w", err)
	}

	for name, opt := range named {
		switch name {
		case "minimumFractionDigits":
			d, err := intOption(name, opt)
			if err != nil {
				return nil, err
			}
			n.Options.MinimumFractionDigits = d
		case "maximumFractionDigits":
			d, err := intOption(name, opt)
			if err != nil {
				return nil, err
			}
			n.Options.MaximumFractionDigits = d
		case "useGrouping":
			s := opt.format(undetermined)
			n.Options.UseGrouping = s != "false" && s != "never"
		case "style":
			n.Options.Style = opt.format(undetermined)
		case "currency":
			n.Options.Currency = opt.format(undetermined)
		}
	}
	return n, nil
}

// currencyFunc renders an amount with two fraction digits and a leading symbol.
// A string amount may carry a symbol of its own, which is stripped.
func currencyFunc(args []Value, named map[string]Value) (Value, error) {
	v, err := firstArg("CURRENCY", args)
	if err != nil {
		return nil, err
	}
	symbol := "$"
	if s, ok := named["symbol"]; ok {
		symbol = s.format(undetermined)
	}
	if s, ok := v.(StringValue); ok {
		str := strings.TrimSpace(string(s))
		for _, sym := range []string{"$", "¥", "€", "£", symbol} {
			str = strings.TrimPrefix(str, sym)
		}
		v = StringValue(str)
	}

	f, err := toFloat(v)
	if err != nil {
		return nil, fmt.Errorf("CURRENCY: %w", err)
	}
	n := Number(f)
	n.Options.MinimumFractionDigits = 2
	n.Options.MaximumFractionDigits = 2
	n.Options.Style = "currency"
	n.Options.Currency = symbol
	return n, nil
}

var dateStyles = map[string]string{
	"short":  "2006-01-02",
	"medium": "Jan 2, 2006",
	"long":   "January 2, 2006",
	"full":   "Monday, January 2, 2006",
}

var timeStyles = map[string]string{
	"short":  "15:04",
	"medium": "15:04:05",
	"long":   "15:04:05 MST",
}

func datetimeFunc(args []Value, named map[string]Value) (Value, error) {
	v, err := firstArg("DATETIME", args)
	if err != nil {
		return nil, err
	}

	var d DateTimeValue
	switch x := v.(type) {
	case DateTimeValue:
		d = x
	case StringValue:
		t, err := time.Parse(time.RFC3339, string(x))
		if err != nil {
			return nil, fmt.Errorf("DATETIME: %w", err)
		}
		d = DateTimeValue{Time: t}
	case NumberValue:
		d = DateTimeValue{Time: time.UnixMilli(int64(x.Value)).UTC()}
	default:
		return nil, fmt.Errorf("DATETIME: not a time: %T", v)
	}

	var layout []string
	if s, ok := named["dateStyle"]; ok {
		l, ok := dateStyles[s.format(undetermined)]
		if !ok {
			return nil, fmt.Errorf("DATETIME: unknown dateStyle %q", s.format(undetermined))
		}
		layout = append(layout, l)
	}
	if s, ok := named["timeStyle"]; ok {
		l, ok := timeStyles[s.format(undetermined)]
		if !ok {
			return nil, fmt.Errorf("DATETIME: unknown timeStyle %q", s.format(undetermined))
		}
		layout = append(layout, l)
	}
	if s, ok := named["layout"]; ok {
		layout = []string{s.format(undetermined)}
	}
	if len(layout) > 0 {
		d.Layout = strings.Join(layout, " ")
	}
	return d, nil
}

func intOption(name string, v Value) (int, error) {
	if n, ok := v.(NumberValue); ok {
		return int(n.Value), nil
	}
	d, err := strconv.Atoi(v.format(undetermined))
	if err != nil {
		return 0, fmt.Errorf("option %s: expected an integer, got %q", name, v.format(undetermined))
	}
	return d, nil
}
