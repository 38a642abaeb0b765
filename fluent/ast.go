package fluent

///////////////////////////////////////////////////////////////////////////////
// AST DEFINITIONS
///////////////////////////////////////////////////////////////////////////////

// Entry is a top-level definition of a resource: *Message or *Term.
type Entry interface {
	entryID() string
}

// Message is a public entry: `id = pattern` followed by optional attributes.
type Message struct {
	ID         string
	Value      *Pattern // nil when the message only has attributes
	Attributes []*Attribute
}

func (m *Message) entryID() string { return m.ID }

// Term is a private entry: `-id = pattern`. It can only be referenced from
// other patterns.
type Term struct {
	ID         string
	Value      *Pattern
	Attributes []*Attribute
}

func (t *Term) entryID() string { return "-" + t.ID }

// Attribute is a named sub-value: `.id = pattern`.
type Attribute struct {
	ID    string
	Value *Pattern
}

func findAttribute(attrs []*Attribute, id string) *Attribute {
	for _, a := range attrs {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Pattern is a sequence of text and placeables.
type Pattern struct {
	Elements []PatternElement
}

// PatternElement is *TextElement or *Placeable.
type PatternElement interface {
	patternElement()
}

// TextElement is a static text segment.
type TextElement struct {
	Value string
}

// Placeable is `{ expression }`.
type Placeable struct {
	Expression Expression
}

func (*TextElement) patternElement() {}
func (*Placeable) patternElement()   {}

// Expression is anything that can appear inside a placeable.
type Expression interface {
	expression()
}

// StringLiteral is `"text"` with escapes already decoded.
type StringLiteral struct {
	Value string
}

// NumberLiteral keeps the source digits so that the fraction precision survives.
type NumberLiteral struct {
	Raw string
}

// VariableReference is `$name`.
type VariableReference struct {
	ID string
}

// MessageReference is `id` or `id.attr`.
type MessageReference struct {
	ID        string
	Attribute string
}

// TermReference is `-id`, `-id.attr` or `-id(name: value)`.
type TermReference struct {
	ID        string
	Attribute string
	Arguments *CallArguments
}

// FunctionReference is `NAME(positional, named: value)`.
type FunctionReference struct {
	ID        string
	Arguments *CallArguments
}

// CallArguments holds the arguments of a function call or a parametrized term.
type CallArguments struct {
	Positional []Expression
	Named      []*NamedArgument
}

// NamedArgument is `name: literal`.
type NamedArgument struct {
	Name  string
	Value Expression
}

// SelectExpression is `{ selector -> [key] pattern *[other] pattern }`.
type SelectExpression struct {
	Selector Expression
	Variants []*Variant
}

// Variant is one branch of a select expression.
type Variant struct {
	// Key is the identifier or the raw number between the brackets.
	Key     string
	Numeric bool
	Value   *Pattern
	Default bool
}

func (*StringLiteral) expression()     {}
func (*NumberLiteral) expression()     {}
func (*VariableReference) expression() {}
func (*MessageReference) expression()  {}
func (*TermReference) expression()     {}
func (*FunctionReference) expression() {}
func (*SelectExpression) expression()  {}
func (*Placeable) expression()         {}
