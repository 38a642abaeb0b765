// Package msgfile is a bundle engine for go-i18n message files written in
// TOML, YAML or JSON.
//
// Messages use go-i18n's template syntax ({{.Name}}) and plural forms. Nested
// tables are flattened into dotted ids, so a "placeholder" key inside a "login"
// table is the "placeholder" attribute of message "login".
package msgfile

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/lifei6671/l10n/bundle"
)

var (
	_ bundle.Engine = Engine{}
	_ bundle.Bundle = (*Bundle)(nil)
)

// PluralCountArg is the argument that selects the plural form.
const PluralCountArg = "count"

var unmarshalers = map[string]i18n.UnmarshalFunc{
	"toml": toml.Unmarshal,
	"yaml": yaml.Unmarshal,
	"yml":  yaml.Unmarshal,
	"json": json.Unmarshal,
}

// Engine parses message files and creates go-i18n backed bundles.
type Engine struct{}

// New returns the message-file engine.
func New() Engine { return Engine{} }

func (Engine) Name() string { return "msgfile" }

func (Engine) Extensions() []string { return []string{".toml", ".yaml", ".yml", ".json"} }

// ParseResource decodes src according to the extension of name. The language
// is never taken from the file name; the loader decides it.
func (Engine) ParseResource(name string, src []byte) (bundle.Resource, error) {
	format := strings.TrimPrefix(path.Ext(name), ".")
	if _, ok := unmarshalers[format]; !ok {
		return nil, fmt.Errorf("%w: msgfile: %s: unsupported format %q", bundle.ErrParse, name, format)
	}
	mf, err := i18n.ParseMessageFileBytes(src, "und."+format, unmarshalers)
	if err != nil {
		return nil, fmt.Errorf("%w: msgfile: %s: %v", bundle.ErrParse, name, err)
	}
	return &Resource{name: name, messages: mf.Messages}, nil
}

func (Engine) NewBundle(locale language.Tag) bundle.Bundle { return NewBundle(locale) }

// Resource is a decoded message file.
type Resource struct {
	name     string
	messages []*i18n.Message
}

func (r *Resource) Name() string { return r.name }

// Bundle wraps a go-i18n bundle holding a single language.
type Bundle struct {
	locale language.Tag
	bundle *i18n.Bundle
	ids    map[string]struct{}
}

// NewBundle creates an empty bundle for locale.
func NewBundle(locale language.Tag) *Bundle {
	b := i18n.NewBundle(locale)
	for format, fn := range unmarshalers {
		b.RegisterUnmarshalFunc(format, fn)
	}
	return &Bundle{locale: locale, bundle: b, ids: make(map[string]struct{})}
}

func (b *Bundle) Locale() language.Tag { return b.locale }

// AddResource adds the messages of res. Ids already present keep their first
// definition and are reported with bundle.ErrOverride.
func (b *Bundle) AddResource(res bundle.Resource) error {
	r, ok := res.(*Resource)
	if !ok {
		return fmt.Errorf("%w: %T", bundle.ErrResourceType, res)
	}

	var (
		fresh []*i18n.Message
		dup   []string
	)
	for _, m := range r.messages {
		if _, exists := b.ids[m.ID]; exists {
			dup = append(dup, m.ID)
			continue
		}
		fresh = append(fresh, m)
	}
	if err := b.bundle.AddMessages(b.locale, fresh...); err != nil {
		return fmt.Errorf("msgfile: %s: %w", r.name, err)
	}
	for _, m := range fresh {
		b.ids[m.ID] = struct{}{}
	}

	if len(dup) > 0 {
		return fmt.Errorf("%w: msgfile: %s redefines %s", bundle.ErrOverride, r.name, strings.Join(dup, ", "))
	}
	return nil
}

// SetUseIsolating is a no-op: go-i18n templates do not insert isolation marks.
func (b *Bundle) SetUseIsolating(bool) {}

func (b *Bundle) HasMessage(id string) bool {
	_, ok := b.ids[id]
	return ok
}

func (b *Bundle) Messages() []string {
	return slices.Sorted(maps.Keys(b.ids))
}

// Format renders message id with args as template data. The "count" argument,
// when present, selects the plural form.
func (b *Bundle) Format(id string, args bundle.Args) (string, error) {
	if !b.HasMessage(id) {
		return "", fmt.Errorf("%w: %s", bundle.ErrMessageNotFound, id)
	}

	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(args) > 0 {
		cfg.TemplateData = map[string]any(args)
		if count, ok := args[PluralCountArg]; ok {
			cfg.PluralCount = count
		}
	}

	s, err := i18n.NewLocalizer(b.bundle, b.locale.String()).Localize(cfg)
	if err != nil {
		return s, fmt.Errorf("%w: msgfile: %s: %v", bundle.ErrFormat, id, err)
	}
	return s, nil
}

// FormatAttribute renders the nested message id.attribute.
func (b *Bundle) FormatAttribute(id, attribute string, args bundle.Args) (string, error) {
	return b.Format(id+"."+attribute, args)
}
