package l10n

import (
	"strings"

	"golang.org/x/text/language"
)

// ParseIdentifier turns a directory name into a canonical language tag.
// Hidden names, ill-formed tags and well-formed tags with unknown subtags are
// rejected with an *InvalidIdentifierError.
func ParseIdentifier(name string) (language.Tag, error) {
	if name == "" || strings.HasPrefix(name, ".") {
		return language.Und, &InvalidIdentifierError{Name: name}
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, &InvalidIdentifierError{Name: name, Err: err}
	}
	return tag, nil
}

// subtags is a canonical tag split into the parts relaxation works on.
// Extensions and private use subtags are not kept.
type subtags struct {
	base     string
	script   string
	region   string
	variants []string
}

func splitTag(tag language.Tag) subtags {
	parts := strings.Split(tag.String(), "-")
	s := subtags{base: parts[0]}
	for _, p := range parts[1:] {
		switch {
		case len(p) == 1:
			return s
		case len(p) == 4 && isLetter(p[0]) && s.script == "" && s.region == "" && len(s.variants) == 0:
			s.script = p
		case (len(p) == 2 && isLetter(p[0]) || len(p) == 3 && isNumeric(p[0])) && s.region == "" && len(s.variants) == 0:
			s.region = p
		default:
			s.variants = append(s.variants, p)
		}
	}
	return s
}

func (s subtags) tag() language.Tag {
	parts := []string{s.base}
	if s.script != "" {
		parts = append(parts, s.script)
	}
	if s.region != "" {
		parts = append(parts, s.region)
	}
	parts = append(parts, s.variants...)
	return language.Make(strings.Join(parts, "-"))
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isNumeric(c byte) bool { return c >= '0' && c <= '9' }
