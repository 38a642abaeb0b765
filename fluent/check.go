package fluent

import (
	"fmt"
	"maps"
	"slices"
)

// CheckError is a dangling reference found by Bundle.Check.
type CheckError struct {
	// Entry is the message or term (prefixed with "-") holding the reference.
	Entry string
	Err   *ReferenceError
}

func (e *CheckError) Error() string { return fmt.Sprintf("%s: %s", e.Entry, e.Err) }

func (e *CheckError) Unwrap() error { return e.Err }

// Check walks every message and term and reports references to messages,
// terms, attributes and functions that do not exist. Variables are not
// checked; they are supplied at format time.
func (b *Bundle) Check() []error {
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(b.messages)) {
		msg := b.messages[id]
		errs = append(errs, b.checkEntry(id, msg.Value, msg.Attributes)...)
	}
	for _, id := range slices.Sorted(maps.Keys(b.terms)) {
		term := b.terms[id]
		errs = append(errs, b.checkEntry("-"+id, term.Value, term.Attributes)...)
	}
	return errs
}

func (b *Bundle) checkEntry(name string, value *Pattern, attrs []*Attribute) []error {
	var refs []*ReferenceError
	if value != nil {
		refs = b.checkPattern(value, refs)
	}
	for _, a := range attrs {
		refs = b.checkPattern(a.Value, refs)
	}

	errs := make([]error, 0, len(refs))
	for _, ref := range refs {
		errs = append(errs, &CheckError{Entry: name, Err: ref})
	}
	return errs
}

func (b *Bundle) checkPattern(p *Pattern, refs []*ReferenceError) []*ReferenceError {
	for _, el := range p.Elements {
		if pl, ok := el.(*Placeable); ok {
			refs = b.checkExpression(pl.Expression, refs)
		}
	}
	return refs
}

func (b *Bundle) checkExpression(expr Expression, refs []*ReferenceError) []*ReferenceError {
	switch e := expr.(type) {
	case *MessageReference:
		msg, ok := b.messages[e.ID]
		switch {
		case !ok:
			refs = append(refs, &ReferenceError{Kind: "message", Name: e.ID})
		case e.Attribute != "" && findAttribute(msg.Attributes, e.Attribute) == nil:
			refs = append(refs, &ReferenceError{Kind: "attribute", Name: e.ID + "." + e.Attribute})
		}
	case *TermReference:
		term, ok := b.terms[e.ID]
		switch {
		case !ok:
			refs = append(refs, &ReferenceError{Kind: "term", Name: "-" + e.ID})
		case e.Attribute != "" && findAttribute(term.Attributes, e.Attribute) == nil:
			refs = append(refs, &ReferenceError{Kind: "attribute", Name: "-" + e.ID + "." + e.Attribute})
		}
		refs = b.checkArguments(e.Arguments, refs)
	case *FunctionReference:
		if _, ok := b.function(e.ID); !ok {
			refs = append(refs, &ReferenceError{Kind: "function", Name: e.ID})
		}
		refs = b.checkArguments(e.Arguments, refs)
	case *SelectExpression:
		refs = b.checkExpression(e.Selector, refs)
		for _, v := range e.Variants {
			refs = b.checkPattern(v.Value, refs)
		}
	case *Placeable:
		refs = b.checkExpression(e.Expression, refs)
	}
	return refs
}

func (b *Bundle) checkArguments(args *CallArguments, refs []*ReferenceError) []*ReferenceError {
	if args == nil {
		return refs
	}
	for _, arg := range args.Positional {
		refs = b.checkExpression(arg, refs)
	}
	return refs
}
