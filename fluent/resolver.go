package fluent

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lifei6671/l10n/bundle"
)

const (
	fsi = '\u2068'
	pdi = '\u2069'

	maxDepth = 100
)

// ErrCyclic is reported when a message or term references itself.
var ErrCyclic = errors.New("fluent: cyclic reference")

// ReferenceError reports something a pattern refers to that does not exist.
type ReferenceError struct {
	// Kind is one of "variable", "message", "term", "attribute" or "function".
	Kind string
	Name string
}

func (e *ReferenceError) Error() string { return fmt.Sprintf("unknown %s %s", e.Kind, e.Name) }

// FormatError collects the problems met while rendering one message. The text
// returned with it is still usable.
type FormatError struct {
	ID   string
	Errs []error
}

func (e *FormatError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("fluent: formatting %q: %s", e.ID, strings.Join(msgs, "; "))
}

// Is reports FormatError as a bundle.ErrFormat.
func (e *FormatError) Is(target error) bool { return target == bundle.ErrFormat }

func (e *FormatError) Unwrap() []error { return e.Errs }

///////////////////////////////////////////////////////////////////////////////
// RESOLVER
///////////////////////////////////////////////////////////////////////////////

// resolver renders one message. It is created per Format call so bundles stay
// read-only and safe for concurrent use.
type resolver struct {
	bundle *Bundle
	args   bundle.Args
	// local holds the arguments of the term being resolved; terms cannot see
	// the caller's variables.
	local    map[string]Value
	inTerm   bool
	visiting map[*Pattern]struct{}
	depth    int
	errs     []error
}

func newResolver(b *Bundle, args bundle.Args) *resolver {
	return &resolver{bundle: b, args: args, visiting: make(map[*Pattern]struct{})}
}

func (r *resolver) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *resolver) resolvePattern(p *Pattern) string {
	if _, ok := r.visiting[p]; ok || r.depth >= maxDepth {
		r.fail(ErrCyclic)
		return "{???}"
	}
	r.visiting[p] = struct{}{}
	r.depth++
	defer func() {
		delete(r.visiting, p)
		r.depth--
	}()

	if len(p.Elements) == 1 {
		if t, ok := p.Elements[0].(*TextElement); ok {
			return t.Value
		}
	}

	var sb strings.Builder
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *TextElement:
			sb.WriteString(el.Value)
		case *Placeable:
			isolate := r.bundle.useIsolating && len(p.Elements) > 1 && needsIsolation(el.Expression)
			if isolate {
				sb.WriteRune(fsi)
			}
			sb.WriteString(r.resolveExpression(el.Expression).format(r.bundle.locale))
			if isolate {
				sb.WriteRune(pdi)
			}
		}
	}
	return sb.String()
}

func needsIsolation(expr Expression) bool {
	switch expr.(type) {
	case *MessageReference, *TermReference, *StringLiteral:
		return false
	default:
		return true
	}
}

func (r *resolver) resolveExpression(expr Expression) Value {
	switch e := expr.(type) {
	case *StringLiteral:
		return StringValue(e.Value)
	case *NumberLiteral:
		return parseNumberLiteral(e.Raw)
	case *VariableReference:
		return r.resolveVariable(e)
	case *MessageReference:
		return r.resolveMessageReference(e)
	case *TermReference:
		return r.resolveTermReference(e)
	case *FunctionReference:
		return r.resolveFunction(e)
	case *SelectExpression:
		v := r.selectVariant(e, r.resolveExpression(e.Selector))
		return StringValue(r.resolvePattern(v.Value))
	case *Placeable:
		return r.resolveExpression(e.Expression)
	default:
		return NoneValue{}
	}
}

func (r *resolver) resolveVariable(e *VariableReference) Value {
	fallback := NoneValue{Fallback: "{$" + e.ID + "}"}
	if r.inTerm {
		if v, ok := r.local[e.ID]; ok {
			return v
		}
		r.fail(&ReferenceError{Kind: "variable", Name: "$" + e.ID})
		return fallback
	}
	v, ok := r.args[e.ID]
	if !ok {
		r.fail(&ReferenceError{Kind: "variable", Name: "$" + e.ID})
		return fallback
	}
	return ValueOf(v)
}

func (r *resolver) resolveMessageReference(e *MessageReference) Value {
	msg, ok := r.bundle.messages[e.ID]
	if !ok {
		r.fail(&ReferenceError{Kind: "message", Name: e.ID})
		return NoneValue{Fallback: "{" + e.ID + "}"}
	}
	if e.Attribute != "" {
		attr := findAttribute(msg.Attributes, e.Attribute)
		if attr == nil {
			r.fail(&ReferenceError{Kind: "attribute", Name: e.ID + "." + e.Attribute})
			return NoneValue{Fallback: "{" + e.ID + "." + e.Attribute + "}"}
		}
		return StringValue(r.resolvePattern(attr.Value))
	}
	if msg.Value == nil {
		r.fail(fmt.Errorf("message %s has no value", e.ID))
		return NoneValue{Fallback: "{" + e.ID + "}"}
	}
	return StringValue(r.resolvePattern(msg.Value))
}

func (r *resolver) resolveTermReference(e *TermReference) Value {
	name := "-" + e.ID
	term, ok := r.bundle.terms[e.ID]
	if !ok {
		r.fail(&ReferenceError{Kind: "term", Name: name})
		return NoneValue{Fallback: "{" + name + "}"}
	}
	pattern := term.Value
	if e.Attribute != "" {
		attr := findAttribute(term.Attributes, e.Attribute)
		if attr == nil {
			r.fail(&ReferenceError{Kind: "attribute", Name: name + "." + e.Attribute})
			return NoneValue{Fallback: "{" + name + "." + e.Attribute + "}"}
		}
		pattern = attr.Value
	}

	local := make(map[string]Value)
	if e.Arguments != nil {
		for _, arg := range e.Arguments.Named {
			local[arg.Name] = r.resolveExpression(arg.Value)
		}
	}
	savedLocal, savedInTerm := r.local, r.inTerm
	r.local, r.inTerm = local, true
	defer func() { r.local, r.inTerm = savedLocal, savedInTerm }()

	return StringValue(r.resolvePattern(pattern))
}

func (r *resolver) resolveFunction(e *FunctionReference) Value {
	fallback := NoneValue{Fallback: "{" + e.ID + "()}"}
	f, ok := r.bundle.function(e.ID)
	if !ok {
		r.fail(&ReferenceError{Kind: "function", Name: e.ID})
		return fallback
	}

	var (
		positional []Value
		named      = make(map[string]Value)
	)
	if e.Arguments != nil {
		for _, arg := range e.Arguments.Positional {
			positional = append(positional, r.resolveExpression(arg))
		}
		for _, arg := range e.Arguments.Named {
			named[arg.Name] = r.resolveExpression(arg.Value)
		}
	}

	v, err := f(positional, named)
	if err != nil {
		r.fail(err)
		return fallback
	}
	return v
}

// selectVariant prefers an exact numeric key over a plural category, and falls
// back to the default variant.
func (r *resolver) selectVariant(sel *SelectExpression, v Value) *Variant {
	var def *Variant
	for _, vr := range sel.Variants {
		if vr.Default {
			def = vr
			break
		}
	}

	switch x := v.(type) {
	case NumberValue:
		for _, vr := range sel.Variants {
			if !vr.Numeric {
				continue
			}
			if k, err := strconv.ParseFloat(vr.Key, 64); err == nil && k == x.Value {
				return vr
			}
		}
		category := x.pluralCategory(r.bundle.locale)
		for _, vr := range sel.Variants {
			if !vr.Numeric && vr.Key == category {
				return vr
			}
		}
	case StringValue:
		for _, vr := range sel.Variants {
			if !vr.Numeric && vr.Key == string(x) {
				return vr
			}
		}
	}
	return def
}
