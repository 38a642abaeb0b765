package l10n

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

// MultiLoader asks several loaders in priority order. The first loader that
// produces a text wins, even when that text came from its own fallback.
//
// It is not safe to push loaders while it is being read.
type MultiLoader struct {
	loaders []Loader
}

func NewMultiLoader(loaders ...Loader) *MultiLoader {
	return &MultiLoader{loaders: loaders}
}

// PushFront gives l the highest priority.
func (m *MultiLoader) PushFront(l Loader) {
	m.loaders = append([]Loader{l}, m.loaders...)
}

// PushBack gives l the lowest priority.
func (m *MultiLoader) PushBack(l Loader) {
	m.loaders = append(m.loaders, l)
}

func (m *MultiLoader) Lookup(lang language.Tag, key string) (string, bool) {
	return m.lookup(Query{Language: lang, Key: key})
}

func (m *MultiLoader) LookupWithArgs(lang language.Tag, key string, args bundle.Args) (string, bool) {
	return m.lookup(Query{Language: lang, Key: key, Args: args})
}

func (m *MultiLoader) LookupAttribute(lang language.Tag, key, attribute string, args bundle.Args) (string, bool) {
	return m.lookup(Query{Language: lang, Key: key, Attribute: attribute, Args: args})
}

func (m *MultiLoader) lookup(q Query) (string, bool) {
	res, err := m.Resolve(q)
	if err != nil && !errors.Is(err, bundle.ErrFormat) {
		return "", false
	}
	return res.Text, true
}

// Locales concatenates the locales of every loader, dropping repeats.
func (m *MultiLoader) Locales() []language.Tag {
	var out []language.Tag
	for _, l := range m.loaders {
		out = append(out, l.Locales()...)
	}
	return dedupTags(out)
}

// Resolve returns the result of the first loader that produced a text. When
// there is none, the error matches ErrMissingKey if any loader knew the
// language and ErrUnknownLanguage otherwise.
func (m *MultiLoader) Resolve(q Query) (Result, error) {
	kind := ErrUnknownLanguage
	for _, l := range m.loaders {
		res, err := l.Resolve(q)
		switch {
		case err == nil || errors.Is(err, bundle.ErrFormat):
			return res, err
		case errors.Is(err, ErrMissingKey):
			kind = ErrMissingKey
		}
	}
	return Result{}, &LookupError{Language: q.Language, Key: q.key(), Kind: kind}
}
