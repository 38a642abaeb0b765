package l10n

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

///////////////////////////////////////////////////////////////////////////////
// TEMPLATE FUNCTIONS
///////////////////////////////////////////////////////////////////////////////

// TemplateOption configures FuncMap.
type TemplateOption func(*templateFuncs)

// WithMissingKey sets what is rendered for a message found nowhere.
// Defaults to the key itself.
func WithMissingKey(f func(lang language.Tag, key string) string) TemplateOption {
	return func(t *templateFuncs) {
		if f != nil {
			t.missing = f
		}
	}
}

type templateFuncs struct {
	loader  Loader
	missing func(lang language.Tag, key string) string
}

// FuncMap exposes l to text/template and html/template:
//
//	{{ localize "fr" "greeting" "name" .User }}
//	{{ localizeAttr .Lang "login" "placeholder" }}
//
// The language may be a language.Tag or a string. Trailing arguments are
// name/value pairs.
func FuncMap(l Loader, opts ...TemplateOption) map[string]any {
	t := &templateFuncs{
		loader:  l,
		missing: func(_ language.Tag, key string) string { return key },
	}
	for _, opt := range opts {
		opt(t)
	}
	return map[string]any{
		"localize":     t.localize,
		"localizeAttr": t.localizeAttr,
	}
}

func (t *templateFuncs) localize(lang any, key string, pairs ...any) (string, error) {
	tag, args, err := templateArgs(lang, pairs)
	if err != nil {
		return "", fmt.Errorf("localize %s: %w", key, err)
	}
	if text, ok := t.loader.LookupWithArgs(tag, key, args); ok {
		return text, nil
	}
	return t.missing(tag, key), nil
}

func (t *templateFuncs) localizeAttr(lang any, key, attribute string, pairs ...any) (string, error) {
	tag, args, err := templateArgs(lang, pairs)
	if err != nil {
		return "", fmt.Errorf("localizeAttr %s.%s: %w", key, attribute, err)
	}
	if text, ok := t.loader.LookupAttribute(tag, key, attribute, args); ok {
		return text, nil
	}
	return t.missing(tag, key+"."+attribute), nil
}

func templateArgs(lang any, pairs []any) (language.Tag, bundle.Args, error) {
	var tag language.Tag
	switch v := lang.(type) {
	case language.Tag:
		tag = v
	case string:
		parsed, err := language.Parse(v)
		if err != nil {
			return language.Und, nil, fmt.Errorf("language %q: %w", v, err)
		}
		tag = parsed
	case fmt.Stringer:
		parsed, err := language.Parse(v.String())
		if err != nil {
			return language.Und, nil, fmt.Errorf("language %q: %w", v.String(), err)
		}
		tag = parsed
	default:
		return language.Und, nil, fmt.Errorf("unsupported language type %T", lang)
	}

	if len(pairs)%2 != 0 {
		return language.Und, nil, fmt.Errorf("odd number of arguments: %d", len(pairs))
	}
	if len(pairs) == 0 {
		return tag, nil, nil
	}
	args := make(bundle.Args, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return language.Und, nil, fmt.Errorf("argument name %v is %T, not string", pairs[i], pairs[i])
		}
		args[name] = pairs[i+1]
	}
	return tag, args, nil
}
