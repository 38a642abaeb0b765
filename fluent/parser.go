package fluent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lifei6671/l10n/bundle"
)

// Resource is a parsed .ftl file.
type Resource struct {
	name string
	Body []Entry
}

// Name returns the path the resource was parsed from.
func (r *Resource) Name() string { return r.name }

// ParseError locates one syntax error inside a resource.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// SyntaxError lists every entry of a resource that failed to parse.
type SyntaxError struct {
	Name   string
	Errors []ParseError
}

func (e *SyntaxError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, pe := range e.Errors {
		msgs = append(msgs, pe.Error())
	}
	return fmt.Sprintf("fluent: %s: %s", e.Name, strings.Join(msgs, "; "))
}

// Is reports SyntaxError as a bundle.ErrParse.
func (e *SyntaxError) Is(target error) bool { return target == bundle.ErrParse }

// Parse parses src. Entries that fail to parse are skipped; their errors are
// returned as a *SyntaxError together with the resource holding every valid entry.
func Parse(name string, src []byte) (*Resource, error) {
	p := &parser{src: strings.ReplaceAll(string(src), "\r\n", "\n")}
	res := &Resource{name: name}

	var errs []ParseError
	for {
		p.skipBlankLines()
		if p.eof() {
			break
		}
		start := p.pos
		entry, err := p.parseEntry()
		if err != nil {
			errs = append(errs, p.locate(err))
			p.pos = start
			p.skipJunk()
			continue
		}
		if entry != nil {
			res.Body = append(res.Body, entry)
		}
	}

	if len(errs) > 0 {
		return res, &SyntaxError{Name: name, Errors: errs}
	}
	return res, nil
}

///////////////////////////////////////////////////////////////////////////////
// ENTRY PARSER
///////////////////////////////////////////////////////////////////////////////

type parser struct {
	src string
	pos int
}

type posError struct {
	pos int
	msg string
}

func (e *posError) Error() string { return e.msg }

func (p *parser) errorf(format string, args ...any) error {
	return &posError{pos: p.pos, msg: fmt.Sprintf(format, args...)}
}

func (p *parser) locate(err error) ParseError {
	pos := p.pos
	if pe, ok := err.(*posError); ok {
		pos = pe.pos
	}
	if pos > len(p.src) {
		pos = len(p.src)
	}
	line := strings.Count(p.src[:pos], "\n") + 1
	col := pos - strings.LastIndexByte(p.src[:pos], '\n')
	return ParseError{Line: line, Column: col, Message: err.Error()}
}

func (p *parser) parseEntry() (Entry, error) {
	switch c := p.cur(); {
	case c == '#':
		p.skipLine()
		return nil, nil
	case c == '-':
		p.pos++
		return p.parseTerm()
	case isIdentStart(c):
		return p.parseMessage()
	default:
		return nil, p.errorf("expected a message, a term or a comment")
	}
}

func (p *parser) parseMessage() (*Message, error) {
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}
	value, err := p.parseEntryValue()
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	if value == nil && len(attrs) == 0 {
		return nil, p.errorf("expected a value or an attribute for message %q", id)
	}
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return &Message{ID: id, Value: value, Attributes: attrs}, nil
}

func (p *parser) parseTerm() (*Term, error) {
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}
	value, err := p.parseEntryValue()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.errorf("expected a value for term %q", "-"+id)
	}
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return &Term{ID: id, Value: value, Attributes: attrs}, nil
}

func (p *parser) parseEntryValue() (*Pattern, error) {
	p.skipInline()
	if !p.consume('=') {
		return nil, p.errorf(`expected "="`)
	}
	p.skipInline()
	return p.parsePattern(false)
}

func (p *parser) parseAttributes() ([]*Attribute, error) {
	var attrs []*Attribute
	for {
		save := p.pos
		if !p.consume('\n') {
			return attrs, nil
		}
		p.skipBlank()
		if !p.consume('.') {
			p.pos = save
			return attrs, nil
		}
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		value, err := p.parseEntryValue()
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, p.errorf("expected a value for attribute %q", id)
		}
		attrs = append(attrs, &Attribute{ID: id, Value: value})
	}
}

func (p *parser) expectLineEnd() error {
	if p.eof() || p.cur() == '\n' {
		return nil
	}
	return p.errorf("expected a line end")
}

///////////////////////////////////////////////////////////////////////////////
// PATTERN PARSER
///////////////////////////////////////////////////////////////////////////////

// rawElement is a pattern element before indentation is normalized.
type rawElement struct {
	text      string
	placeable *Placeable
	indent    bool
	newlines  int
	width     int
}

// parsePattern reads text and placeables up to a line end that is not followed by
// an indented continuation line. Inside a select variant a '}' also ends it.
func (p *parser) parsePattern(inVariant bool) (*Pattern, error) {
	var elems []rawElement

loop:
	for !p.eof() {
		switch p.cur() {
		case '{':
			pl, err := p.parsePlaceable()
			if err != nil {
				return nil, err
			}
			elems = append(elems, rawElement{placeable: pl})
		case '}':
			if inVariant {
				break loop
			}
			return nil, p.errorf("unbalanced closing brace")
		case '\n':
			newlines, width, next, ok := p.continuation()
			if !ok {
				break loop
			}
			elems = append(elems, rawElement{indent: true, newlines: newlines, width: width})
			p.pos = next
		default:
			start := p.pos
			for !p.eof() && !isSpecial(p.cur()) {
				p.pos++
			}
			elems = append(elems, rawElement{text: p.src[start:p.pos]})
		}
	}

	return dedent(elems), nil
}

// continuation inspects the lines following the current '\n'. It reports how many
// line ends precede the next indented content line, that line's indentation and
// where its content starts.
func (p *parser) continuation() (newlines, width, next int, ok bool) {
	i := p.pos
	for i < len(p.src) && p.src[i] == '\n' {
		i++
		newlines++
		width = 0
		for i < len(p.src) && p.src[i] == ' ' {
			i++
			width++
		}
		if i >= len(p.src) {
			return 0, 0, 0, false
		}
		if p.src[i] == '\n' {
			continue
		}
		if width == 0 {
			return 0, 0, 0, false
		}
		switch p.src[i] {
		case '[', '*', '.', '}':
			return 0, 0, 0, false
		}
		return newlines, width, i, true
	}
	return 0, 0, 0, false
}

// dedent removes the common indentation of continuation lines, drops the line
// break of a pattern that starts on the line after "=", and trims trailing blanks.
func dedent(elems []rawElement) *Pattern {
	common := -1
	for _, e := range elems {
		if e.indent && (common < 0 || e.width < common) {
			common = e.width
		}
	}

	var (
		out []PatternElement
		buf strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, &TextElement{Value: buf.String()})
			buf.Reset()
		}
	}
	for i, e := range elems {
		switch {
		case e.placeable != nil:
			flush()
			out = append(out, e.placeable)
		case e.indent:
			if i > 0 {
				buf.WriteString(strings.Repeat("\n", e.newlines))
			}
			buf.WriteString(strings.Repeat(" ", e.width-common))
		default:
			buf.WriteString(e.text)
		}
	}
	flush()

	if n := len(out); n > 0 {
		if t, ok := out[n-1].(*TextElement); ok {
			t.Value = strings.TrimRight(t.Value, " \n")
			if t.Value == "" {
				out = out[:n-1]
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &Pattern{Elements: out}
}

///////////////////////////////////////////////////////////////////////////////
// PLACEABLE PARSER
///////////////////////////////////////////////////////////////////////////////

func (p *parser) parsePlaceable() (*Placeable, error) {
	p.pos++ // '{'
	p.skipBlank()
	expr, err := p.parseInlineExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if strings.HasPrefix(p.src[p.pos:], "->") {
		p.pos += 2
		if _, ok := expr.(*MessageReference); ok {
			return nil, p.errorf("message references cannot be used as selectors")
		}
		sel, err := p.parseVariants(expr)
		if err != nil {
			return nil, err
		}
		expr = sel
		p.skipBlank()
	}
	if !p.consume('}') {
		return nil, p.errorf(`expected "}"`)
	}
	return &Placeable{Expression: expr}, nil
}

func (p *parser) parseInlineExpression() (Expression, error) {
	if p.eof() {
		return nil, p.errorf("unexpected end of resource")
	}
	switch c := p.cur(); {
	case c == '"':
		return p.parseStringLiteral()
	case isDigit(c), c == '-' && isDigit(p.peek(1)):
		return p.parseNumberLiteral()
	case c == '$':
		p.pos++
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		return &VariableReference{ID: id}, nil
	case c == '-':
		p.pos++
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		ref := &TermReference{ID: id}
		if ref.Attribute, err = p.attributeAccessor(); err != nil {
			return nil, err
		}
		if p.lookaheadCall() {
			if ref.Arguments, err = p.parseCallArguments(); err != nil {
				return nil, err
			}
		}
		return ref, nil
	case c == '{':
		return p.parsePlaceable()
	case isIdentStart(c):
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if p.lookaheadCall() {
			if !isFunctionName(id) {
				return nil, p.errorf("function names must be upper case, got %q", id)
			}
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			return &FunctionReference{ID: id, Arguments: args}, nil
		}
		ref := &MessageReference{ID: id}
		if ref.Attribute, err = p.attributeAccessor(); err != nil {
			return nil, err
		}
		return ref, nil
	default:
		return nil, p.errorf("expected an inline expression")
	}
}

func (p *parser) attributeAccessor() (string, error) {
	if !p.consume('.') {
		return "", nil
	}
	return p.identifier()
}

// lookaheadCall reports whether an argument list follows, leaving the parser on
// the '(' when it does.
func (p *parser) lookaheadCall() bool {
	save := p.pos
	p.skipBlank()
	if p.cur() == '(' {
		return true
	}
	p.pos = save
	return false
}

func (p *parser) parseCallArguments() (*CallArguments, error) {
	p.pos++ // '('
	args := &CallArguments{}
	seen := make(map[string]struct{})
	for {
		p.skipBlank()
		if p.consume(')') {
			return args, nil
		}

		named, err := p.parseNamedArgument()
		if err != nil {
			return nil, err
		}
		if named != nil {
			if _, dup := seen[named.Name]; dup {
				return nil, p.errorf("duplicate named argument %q", named.Name)
			}
			seen[named.Name] = struct{}{}
			args.Named = append(args.Named, named)
		} else {
			if len(args.Named) > 0 {
				return nil, p.errorf("positional arguments must precede named arguments")
			}
			expr, err := p.parseInlineExpression()
			if err != nil {
				return nil, err
			}
			args.Positional = append(args.Positional, expr)
		}

		p.skipBlank()
		if p.consume(',') {
			continue
		}
		if p.consume(')') {
			return args, nil
		}
		return nil, p.errorf(`expected "," or ")"`)
	}
}

// parseNamedArgument returns nil without consuming input when the next argument
// is positional.
func (p *parser) parseNamedArgument() (*NamedArgument, error) {
	if !isIdentStart(p.cur()) {
		return nil, nil
	}
	save := p.pos
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if !p.consume(':') {
		p.pos = save
		return nil, nil
	}
	p.skipBlank()
	var value Expression
	switch c := p.cur(); {
	case c == '"':
		value, err = p.parseStringLiteral()
	case isDigit(c), c == '-':
		value, err = p.parseNumberLiteral()
	default:
		return nil, p.errorf("named argument %q expects a string or number literal", name)
	}
	if err != nil {
		return nil, err
	}
	return &NamedArgument{Name: name, Value: value}, nil
}

func (p *parser) parseVariants(selector Expression) (*SelectExpression, error) {
	sel := &SelectExpression{Selector: selector}
	defaults := 0
	for {
		p.skipBlank()
		def := p.consume('*')
		if p.cur() != '[' {
			if def {
				return nil, p.errorf(`expected "[" after "*"`)
			}
			break
		}
		p.pos++
		p.skipBlank()

		v := &Variant{Default: def}
		if c := p.cur(); isDigit(c) || c == '-' {
			lit, err := p.parseNumberLiteral()
			if err != nil {
				return nil, err
			}
			v.Key, v.Numeric = lit.Raw, true
		} else {
			key, err := p.identifier()
			if err != nil {
				return nil, err
			}
			v.Key = key
		}
		p.skipBlank()
		if !p.consume(']') {
			return nil, p.errorf(`expected "]"`)
		}
		p.skipInline()

		value, err := p.parsePattern(true)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, p.errorf("expected a value for variant [%s]", v.Key)
		}
		v.Value = value
		if def {
			defaults++
		}
		sel.Variants = append(sel.Variants, v)
	}

	if len(sel.Variants) == 0 {
		return nil, p.errorf("expected at least one variant")
	}
	if defaults != 1 {
		return nil, p.errorf("expected exactly one default variant, found %d", defaults)
	}
	return sel, nil
}

///////////////////////////////////////////////////////////////////////////////
// LITERALS AND LEXICAL HELPERS
///////////////////////////////////////////////////////////////////////////////

func (p *parser) parseStringLiteral() (*StringLiteral, error) {
	p.pos++ // '"'
	var buf strings.Builder
	for {
		if p.eof() || p.cur() == '\n' {
			return nil, p.errorf("unterminated string literal")
		}
		c := p.cur()
		switch c {
		case '"':
			p.pos++
			return &StringLiteral{Value: buf.String()}, nil
		case '\\':
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			buf.WriteRune(r)
		default:
			buf.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseEscape() (rune, error) {
	p.pos++ // '\'
	switch c := p.cur(); c {
	case '\\', '"':
		p.pos++
		return rune(c), nil
	case 'u', 'U':
		n := 4
		if c == 'U' {
			n = 6
		}
		start := p.pos + 1
		if start+n > len(p.src) {
			return 0, p.errorf("invalid unicode escape")
		}
		v, err := strconv.ParseUint(p.src[start:start+n], 16, 32)
		if err != nil {
			return 0, p.errorf("invalid unicode escape %q", p.src[start:start+n])
		}
		p.pos = start + n
		return rune(v), nil
	default:
		return 0, p.errorf("unknown escape sequence \\%c", c)
	}
}

func (p *parser) parseNumberLiteral() (*NumberLiteral, error) {
	start := p.pos
	p.consume('-')
	if !isDigit(p.cur()) {
		return nil, p.errorf("expected a digit")
	}
	for isDigit(p.cur()) {
		p.pos++
	}
	if p.cur() == '.' && isDigit(p.peek(1)) {
		p.pos++
		for isDigit(p.cur()) {
			p.pos++
		}
	}
	return &NumberLiteral{Raw: p.src[start:p.pos]}, nil
}

func (p *parser) identifier() (string, error) {
	start := p.pos
	if !isIdentStart(p.cur()) {
		return "", p.errorf("expected an identifier")
	}
	p.pos++
	for isIdentChar(p.cur()) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) cur() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peek(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *parser) consume(c byte) bool {
	if p.cur() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipInline() {
	for p.cur() == ' ' {
		p.pos++
	}
}

func (p *parser) skipBlank() {
	for c := p.cur(); c == ' ' || c == '\n'; c = p.cur() {
		p.pos++
	}
}

// skipBlankLines consumes whole lines holding only spaces.
func (p *parser) skipBlankLines() {
	for !p.eof() {
		i := p.pos
		for i < len(p.src) && p.src[i] == ' ' {
			i++
		}
		switch {
		case i >= len(p.src):
			p.pos = i
			return
		case p.src[i] == '\n':
			p.pos = i + 1
		default:
			return
		}
	}
}

func (p *parser) skipLine() {
	if i := strings.IndexByte(p.src[p.pos:], '\n'); i >= 0 {
		p.pos += i + 1
		return
	}
	p.pos = len(p.src)
}

// skipJunk moves to the next line that could start an entry.
func (p *parser) skipJunk() {
	for {
		p.skipLine()
		if p.eof() {
			return
		}
		if c := p.cur(); c == '#' || c == '-' || isIdentStart(c) {
			return
		}
	}
}

func isSpecial(c byte) bool { return c == '{' || c == '}' || c == '\n' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) || c == '_' || c == '-' }

func isFunctionName(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '-') {
			return false
		}
	}
	return id != "" && !isDigit(id[0])
}
