package l10n

import (
	"sort"

	"golang.org/x/text/language"
)

// Relaxation produces the tags probed for a requested language, most specific
// first. The first element is the requested tag itself without extensions.
// A relaxation never produces a tag more specific than its input.
type Relaxation interface {
	Relax(tag language.Tag) []language.Tag
}

// RelaxationFunc adapts a function to Relaxation.
type RelaxationFunc func(tag language.Tag) []language.Tag

func (f RelaxationFunc) Relax(tag language.Tag) []language.Tag { return f(tag) }

var (
	// RangeRelaxation tries every combination of keeping or dropping the
	// script, the region and the variants, ordered by how many subtags are
	// kept. On ties the script is kept before the region:
	// zh-Hans-CN -> zh-Hans-CN, zh-Hans, zh-CN, zh.
	RangeRelaxation Relaxation = RelaxationFunc(rangeRelax)
	// TruncateRelaxation drops the last subtag at each step:
	// zh-Hans-CN -> zh-Hans-CN, zh-Hans, zh.
	TruncateRelaxation Relaxation = RelaxationFunc(truncateRelax)
)

func rangeRelax(tag language.Tag) []language.Tag {
	s := splitTag(tag)

	type candidate struct {
		tag   subtags
		score int
	}
	var cands []candidate
	for _, keepScript := range keepOrDrop(s.script != "") {
		for _, keepRegion := range keepOrDrop(s.region != "") {
			for _, keepVariants := range keepOrDrop(len(s.variants) > 0) {
				c := subtags{base: s.base}
				score := 0
				if keepScript {
					c.script = s.script
					score++
				}
				if keepRegion {
					c.region = s.region
					score++
				}
				if keepVariants {
					c.variants = s.variants
					score += len(s.variants)
				}
				cands = append(cands, candidate{tag: c, score: score})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	out := make([]language.Tag, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.tag.tag())
	}
	return dedupTags(out)
}

func keepOrDrop(present bool) []bool {
	if present {
		return []bool{true, false}
	}
	return []bool{false}
}

func truncateRelax(tag language.Tag) []language.Tag {
	s := splitTag(tag)
	out := []language.Tag{s.tag()}
	for len(s.variants) > 0 {
		s.variants = s.variants[:len(s.variants)-1]
		out = append(out, s.tag())
	}
	if s.region != "" {
		s.region = ""
		out = append(out, s.tag())
	}
	if s.script != "" {
		s.script = ""
		out = append(out, s.tag())
	}
	return dedupTags(out)
}

func dedupTags(tags []language.Tag) []language.Tag {
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		key := t.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Negotiate returns the bundles to probe for requested: the relaxed candidates
// present in available, then fallback. matched reports whether any candidate
// other than the appended fallback was found. Nothing more specific than
// requested, and no sibling of it, is ever returned.
func Negotiate(requested language.Tag, available []language.Tag, fallback language.Tag, relax Relaxation) (candidates []language.Tag, matched bool) {
	if relax == nil {
		relax = RangeRelaxation
	}
	index := make(map[string]language.Tag, len(available))
	for _, t := range available {
		index[t.String()] = t
	}

	seen := make(map[string]struct{})
	for _, c := range relax.Relax(requested) {
		key := c.String()
		t, ok := index[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		candidates = append(candidates, t)
	}
	matched = len(candidates) > 0
	if _, ok := seen[fallback.String()]; !ok {
		candidates = append(candidates, fallback)
	}
	return candidates, matched
}

// resolveFallback finds the built tag serving as fallback: the configured tag
// itself or its closest relaxation.
func resolveFallback(fallback language.Tag, built []language.Tag, relax Relaxation) (language.Tag, error) {
	index := make(map[string]language.Tag, len(built))
	for _, t := range built {
		index[t.String()] = t
	}
	for _, c := range relax.Relax(fallback) {
		if t, ok := index[c.String()]; ok {
			return t, nil
		}
	}
	return language.Und, &MissingFallbackError{Fallback: fallback, Built: built}
}
