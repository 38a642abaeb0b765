package l10n

import (
	"errors"
	"log/slog"
	"slices"

	"golang.org/x/text/language"

	"github.com/lifei6671/l10n/bundle"
)

// BundleSet 是一次构建的结果：每个语言一个 bundle，加上解析好的兜底语言。
// 构建完成后不再修改，并发读取无需加锁。
type BundleSet struct {
	locales  []language.Tag
	bundles  map[string]bundle.Bundle
	fallback language.Tag
	relax    Relaxation
	// chains 预先计算每个已构建语言的 fallback 链
	chains   map[string]chain
	warnings error
	skipped  []string
	logger   *slog.Logger
}

type chain struct {
	candidates []language.Tag
	matched    bool
}

func newBundleSet(res *BuildResult, scan *ScanResult, fallback language.Tag, relax Relaxation, logger *slog.Logger) *BundleSet {
	s := &BundleSet{
		locales:  make([]language.Tag, 0, len(res.Bundles)),
		bundles:  make(map[string]bundle.Bundle, len(res.Bundles)),
		fallback: fallback,
		relax:    relax,
		chains:   make(map[string]chain, len(res.Bundles)),
		warnings: res.Warnings,
		skipped:  slices.Clone(scan.Skipped),
		logger:   logger,
	}
	for _, b := range res.Bundles {
		s.locales = append(s.locales, b.Language)
		s.bundles[b.Language.String()] = b.Bundle
	}
	for _, tag := range s.locales {
		candidates, matched := Negotiate(tag, s.locales, fallback, relax)
		s.chains[tag.String()] = chain{candidates: candidates, matched: matched}
	}
	return s
}

// Locales returns the built languages in construction order.
func (s *BundleSet) Locales() []language.Tag {
	return slices.Clone(s.locales)
}

// Fallback returns the built language used as the last resort.
func (s *BundleSet) Fallback() language.Tag {
	return s.fallback
}

// Bundle returns the bundle built for exactly tag.
func (s *BundleSet) Bundle(tag language.Tag) (bundle.Bundle, bool) {
	b, ok := s.bundles[tag.String()]
	return b, ok
}

// Warnings returns the resources skipped by a lenient build, combined with
// multierr. It is nil after a clean build.
func (s *BundleSet) Warnings() error {
	return s.warnings
}

// Skipped lists the directories left out because their names are not
// language identifiers.
func (s *BundleSet) Skipped() []string {
	return slices.Clone(s.skipped)
}

// Chain returns the languages probed for lang, in order. The last element is
// always the fallback.
func (s *BundleSet) Chain(lang language.Tag) []language.Tag {
	return slices.Clone(s.chain(lang).candidates)
}

func (s *BundleSet) chain(lang language.Tag) chain {
	if c, ok := s.chains[lang.String()]; ok {
		return c
	}
	candidates, matched := Negotiate(lang, s.locales, s.fallback, s.relax)
	return chain{candidates: candidates, matched: matched}
}

// Lookup 返回 key 在 lang 的 fallback 链上第一个找到的翻译。
func (s *BundleSet) Lookup(lang language.Tag, key string) (string, bool) {
	return s.LookupWithArgs(lang, key, nil)
}

func (s *BundleSet) LookupWithArgs(lang language.Tag, key string, args bundle.Args) (string, bool) {
	return s.lookup(Query{Language: lang, Key: key, Args: args})
}

func (s *BundleSet) LookupAttribute(lang language.Tag, key, attribute string, args bundle.Args) (string, bool) {
	return s.lookup(Query{Language: lang, Key: key, Attribute: attribute, Args: args})
}

// lookup 把 "语言未知" 和 "key 缺失" 都折叠为 false；格式化错误只记录日志。
func (s *BundleSet) lookup(q Query) (string, bool) {
	res, err := s.Resolve(q)
	if err != nil {
		if !errors.Is(err, bundle.ErrFormat) {
			return "", false
		}
		s.logger.Warn("message formatted with errors",
			slog.String("lang", res.Language.String()), slog.String("key", q.Key), slog.Any("error", err))
	}
	return res.Text, true
}

// Resolve probes the fallback chain of q.Language and reports why nothing was
// found. A message rendered with errors is returned together with a
// *LookupError matching bundle.ErrFormat.
func (s *BundleSet) Resolve(q Query) (Result, error) {
	c := s.chain(q.Language)
	for _, tag := range c.candidates {
		b, ok := s.bundles[tag.String()]
		if !ok {
			continue
		}
		text, err := format(b, q)
		if errors.Is(err, bundle.ErrMessageNotFound) {
			continue
		}
		res := Result{Text: text, Language: tag, Matched: c.matched}
		if err != nil {
			return res, &LookupError{Language: tag, Key: q.key(), Kind: bundle.ErrFormat, Err: err}
		}
		return res, nil
	}

	kind := ErrMissingKey
	if !c.matched {
		kind = ErrUnknownLanguage
	}
	return Result{}, &LookupError{Language: q.Language, Key: q.key(), Kind: kind}
}

func format(b bundle.Bundle, q Query) (string, error) {
	if q.Attribute != "" {
		return b.FormatAttribute(q.Key, q.Attribute, q.Args)
	}
	return b.Format(q.Key, q.Args)
}
