package checker

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/multierr"

	"github.com/lifei6671/l10n"
	"github.com/lifei6671/l10n/bundle"
)

// CoreLanguage is the Result key used for shared resources.
const CoreLanguage = "core"

type Result struct {
	Languages []string
	Fallback  string
	AllKeys   []string
	// MissingKeys lists, per language, the keys some other language defines.
	MissingKeys map[string][]string
	// RedundantKeys lists, per language, the keys the fallback does not define.
	RedundantKeys map[string][]string
	// ResourceErrors are the files that could not be parsed or added.
	ResourceErrors map[string][]error
	// ReferenceErrors are messages pointing at messages, terms or functions
	// that do not exist.
	ReferenceErrors map[string][]error
	// Skipped are the directories that are not language identifiers.
	Skipped []string
}

// HasIssues reports whether anything but skipped directories was found.
func (r *Result) HasIssues() bool {
	for _, m := range []map[string][]string{r.MissingKeys, r.RedundantKeys} {
		for _, arr := range m {
			if len(arr) > 0 {
				return true
			}
		}
	}
	for _, m := range []map[string][]error{r.ResourceErrors, r.ReferenceErrors} {
		for _, errs := range m {
			if len(errs) > 0 {
				return true
			}
		}
	}
	return false
}

// CheckLocales builds cfg leniently with engine and performs:
//  1. key alignment check (missing / redundant)
//  2. resource syntax check, from the build warnings
//  3. reference check, for engines whose bundles implement bundle.Checker
func CheckLocales(ctx context.Context, cfg l10n.Config, engine bundle.Engine, opts ...l10n.Option) (*Result, error) {
	opts = append([]l10n.Option{l10n.WithEngine(engine), l10n.WithMode(l10n.ModeLenient)}, opts...)
	loader, err := l10n.NewStaticLoader(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Fallback:        loader.Fallback().String(),
		MissingKeys:     make(map[string][]string),
		RedundantKeys:   make(map[string][]string),
		ResourceErrors:  make(map[string][]error),
		ReferenceErrors: make(map[string][]error),
		Skipped:         loader.Skipped(),
	}

	langKeys := make(map[string]map[string]struct{})
	allKeysSet := make(map[string]struct{})
	for _, tag := range loader.Locales() {
		lang := tag.String()
		res.Languages = append(res.Languages, lang)

		b, _ := loader.Bundle(tag)
		kset := make(map[string]struct{})
		for _, k := range b.Messages() {
			kset[k] = struct{}{}
			allKeysSet[k] = struct{}{}
		}
		langKeys[lang] = kset

		if c, ok := b.(bundle.Checker); ok {
			if errs := c.Check(); len(errs) > 0 {
				res.ReferenceErrors[lang] = errs
			}
		}
	}

	for k := range allKeysSet {
		res.AllKeys = append(res.AllKeys, k)
	}
	sort.Strings(res.AllKeys)

	fallbackKeys := langKeys[res.Fallback]
	for lang, kset := range langKeys {
		for _, k := range res.AllKeys {
			if _, ok := kset[k]; !ok {
				res.MissingKeys[lang] = append(res.MissingKeys[lang], k)
			}
		}
		for _, k := range res.AllKeys {
			_, inLang := kset[k]
			_, inFallback := fallbackKeys[k]
			if inLang && !inFallback {
				res.RedundantKeys[lang] = append(res.RedundantKeys[lang], k)
			}
		}
	}

	for _, err := range multierr.Errors(loader.Warnings()) {
		lang := CoreLanguage
		var rerr *l10n.ResourceError
		if errors.As(err, &rerr) && rerr.Language.String() != "und" {
			lang = rerr.Language.String()
		}
		res.ResourceErrors[lang] = append(res.ResourceErrors[lang], err)
	}
	return res, nil
}
