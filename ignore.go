package l10n

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/multierr"
)

// DefaultIgnoreFiles are read in every walked directory.
var DefaultIgnoreFiles = []string{".gitignore", ".ignore"}

// ignoreRule is one line of an ignore file, compiled.
type ignoreRule struct {
	pattern glob.Glob
	// alt matches a leading "**/" against zero directories.
	alt      glob.Glob
	negate   bool
	dirOnly  bool
	anchored bool
	// base is the slash separated directory holding the ignore file.
	base string
}

func (r ignoreRule) match(p string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	rel := p
	if r.base != "." {
		if !strings.HasPrefix(p, r.base+"/") {
			return false
		}
		rel = p[len(r.base)+1:]
	}
	if !r.anchored {
		return r.pattern.Match(path.Base(rel))
	}
	return r.pattern.Match(rel) || r.alt != nil && r.alt.Match(rel)
}

var globEscaper = strings.NewReplacer("{", `\{`, "}", `\}`)

// parseIgnore compiles gitignore style rules. Lines that do not compile are
// reported and left out; the other rules still apply.
func parseIgnore(base string, data []byte) ([]ignoreRule, error) {
	var (
		rules []ignoreRule
		errs  error
	)
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, " \r")
		if line == "" || line[0] == '#' {
			continue
		}

		r := ignoreRule{base: base}
		switch {
		case line[0] == '!':
			r.negate = true
			line = line[1:]
		case strings.HasPrefix(line, `\!`), strings.HasPrefix(line, `\#`):
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimRight(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			r.anchored = true
			line = strings.TrimLeft(line, "/")
		} else if strings.Contains(line, "/") {
			r.anchored = true
		}
		if line == "" {
			continue
		}

		g, err := glob.Compile(globEscaper.Replace(line), '/')
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %q: %w", n+1, line, err))
			continue
		}
		r.pattern = g
		if rest, ok := strings.CutPrefix(line, "**/"); ok {
			if r.alt, err = glob.Compile(globEscaper.Replace(rest), '/'); err != nil {
				r.alt = nil
			}
		}
		rules = append(rules, r)
	}
	return rules, errs
}

// ignoreMatcher evaluates the rules collected from a directory and its parents.
// It is never modified once built; extend returns a new matcher.
type ignoreMatcher struct {
	rules []ignoreRule
}

func (m *ignoreMatcher) extend(rules []ignoreRule) *ignoreMatcher {
	if len(rules) == 0 {
		return m
	}
	merged := make([]ignoreRule, 0, len(m.rules)+len(rules))
	merged = append(merged, m.rules...)
	merged = append(merged, rules...)
	return &ignoreMatcher{rules: merged}
}

// ignored applies every rule in order; the last matching rule decides.
func (m *ignoreMatcher) ignored(p string, isDir bool) bool {
	ignored := false
	for _, r := range m.rules {
		if r.match(p, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}
