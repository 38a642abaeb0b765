// Package fluent is a bundle engine for Fluent (.ftl) resources.
//
// It supports the parts of the Fluent syntax found in application locale
// trees: comments, messages with attributes, terms, multiline patterns,
// variables, message and term references, parametrized terms, function calls
// and select expressions with plural categories.
package fluent

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

var (
	_ bundle.Engine  = Engine{}
	_ bundle.Bundle  = (*Bundle)(nil)
	_ bundle.Checker = (*Bundle)(nil)
)

// Engine parses .ftl files and creates fluent bundles.
type Engine struct{}

// New returns the Fluent engine.
func New() Engine { return Engine{} }

func (Engine) Name() string { return "fluent" }

func (Engine) Extensions() []string { return []string{".ftl"} }

// ParseResource parses src. On syntax errors the returned resource still holds
// every entry that parsed.
func (Engine) ParseResource(name string, src []byte) (bundle.Resource, error) {
	res, err := Parse(name, src)
	return res, err
}

func (Engine) NewBundle(locale language.Tag) bundle.Bundle { return NewBundle(locale) }

// OverrideError lists ids of a resource that were already defined in the bundle.
type OverrideError struct {
	Resource string
	IDs      []string
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("fluent: %s redefines %s", e.Resource, strings.Join(e.IDs, ", "))
}

// Is reports OverrideError as a bundle.ErrOverride.
func (e *OverrideError) Is(target error) bool { return target == bundle.ErrOverride }

// Bundle holds the messages and terms of one language.
type Bundle struct {
	locale       language.Tag
	messages     map[string]*Message
	terms        map[string]*Term
	functions    map[string]Function
	useIsolating bool
}

// NewBundle creates an empty bundle with bidi isolation enabled.
func NewBundle(locale language.Tag) *Bundle {
	return &Bundle{
		locale:       locale,
		messages:     make(map[string]*Message),
		terms:        make(map[string]*Term),
		functions:    make(map[string]Function),
		useIsolating: true,
	}
}

func (b *Bundle) Locale() language.Tag { return b.locale }

// AddResource adds the entries of res. An id that is already defined keeps its
// first definition; the rejected ids are returned in an *OverrideError.
func (b *Bundle) AddResource(res bundle.Resource) error {
	r, ok := res.(*Resource)
	if !ok {
		return fmt.Errorf("%w: %T", bundle.ErrResourceType, res)
	}

	var dup []string
	for _, entry := range r.Body {
		switch e := entry.(type) {
		case *Message:
			if _, exists := b.messages[e.ID]; exists {
				dup = append(dup, e.ID)
				continue
			}
			b.messages[e.ID] = e
		case *Term:
			if _, exists := b.terms[e.ID]; exists {
				dup = append(dup, "-"+e.ID)
				continue
			}
			b.terms[e.ID] = e
		}
	}
	if len(dup) > 0 {
		return &OverrideError{Resource: r.name, IDs: dup}
	}
	return nil
}

// AddFunction registers f for this bundle only, shadowing a global function of
// the same name.
func (b *Bundle) AddFunction(name string, f Function) {
	b.functions[name] = f
}

func (b *Bundle) function(name string) (Function, bool) {
	if f, ok := b.functions[name]; ok {
		return f, true
	}
	return lookupFunction(name)
}

func (b *Bundle) SetUseIsolating(enabled bool) { b.useIsolating = enabled }

// HasMessage reports whether id, or id.attr, is defined.
func (b *Bundle) HasMessage(id string) bool {
	_, err := b.pattern(id, "")
	return err == nil
}

func (b *Bundle) Messages() []string {
	return slices.Sorted(maps.Keys(b.messages))
}

// Format renders message id. An id of the form "msg.attr" renders the attribute.
func (b *Bundle) Format(id string, args bundle.Args) (string, error) {
	return b.format(id, "", args)
}

func (b *Bundle) FormatAttribute(id, attribute string, args bundle.Args) (string, error) {
	return b.format(id, attribute, args)
}

func (b *Bundle) format(id, attribute string, args bundle.Args) (string, error) {
	p, err := b.pattern(id, attribute)
	if err != nil {
		return "", err
	}
	r := newResolver(b, args)
	s := r.resolvePattern(p)
	if len(r.errs) > 0 {
		name := id
		if attribute != "" {
			name += "." + attribute
		}
		return s, &FormatError{ID: name, Errs: r.errs}
	}
	return s, nil
}

func (b *Bundle) pattern(id, attribute string) (*Pattern, error) {
	if attribute == "" {
		id, attribute, _ = strings.Cut(id, ".")
	}
	msg, ok := b.messages[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bundle.ErrMessageNotFound, id)
	}
	if attribute != "" {
		attr := findAttribute(msg.Attributes, attribute)
		if attr == nil {
			return nil, fmt.Errorf("%w: %s.%s", bundle.ErrMessageNotFound, id, attribute)
		}
		return attr.Value, nil
	}
	if msg.Value == nil {
		return nil, fmt.Errorf("%w: %s has no value", bundle.ErrMessageNotFound, id)
	}
	return msg.Value, nil
}
