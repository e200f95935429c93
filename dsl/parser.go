package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[(){},=]`},
	})

	workspaceParser = participle.MustBuild[Workspace](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Workspace is the root AST node of a .brick file: a list of top-level blocks.
type Workspace struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Blocks []*Block       `parser:"@@*"`
}

// Block declares one block, e.g. `block controls_if (prev next colour="#5b80a5") { ... }`.
type Block struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Type  string         `parser:"'block' @Ident"`
	Attrs *AttrList      `parser:"@@?"`
	Items []*Item        `parser:"'{' @@* '}'"`
}

// Item is a statement inside a block body.
type Item struct {
	Icon  *Icon  `parser:"  @@"`
	Input *Input `parser:"| @@"`
	Next  *Block `parser:"| 'next' @@"`
}

// Icon declares a decoration glyph such as `icon warning (width=16 height=16)`.
type Icon struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'icon' @Ident"`
	Attrs *AttrList      `parser:"@@?"`
}

// Input declares an input slot: `input value "COND" (inline) { block ... }`.
type Input struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"'input' @( 'dummy' | 'value' | 'statement' )"`
	Name  StringLiteral  `parser:"@String?"`
	Attrs *AttrList      `parser:"@@?"`
	Items []*InputItem   `parser:"( '{' @@* '}' )?"`
}

// InputItem is either a field on the input or the block connected to it.
type InputItem struct {
	Field *Field `parser:"  @@"`
	Block *Block `parser:"| @@"`
}

// Field declares a field: `label "if"`, `dropdown "EQ" (noflip)`.
type Field struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"@( 'label' | 'text' | 'dropdown' | 'checkbox' | 'image' | 'variable' )"`
	Text  *StringLiteral `parser:"@String?"`
	Attrs *AttrList      `parser:"@@?"`
}

// AttrList is a parenthesised list of key or key=value attributes.
type AttrList struct {
	Attrs []*Attr `parser:"'(' ( @@ ( ','? @@ )* )? ')'"`
}

// Attr is a single attribute; a bare key acts as a boolean flag.
type Attr struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"( '=' @@ )?"`
}

// Value is an attribute value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *float64       `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value in string form.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

func (l *AttrList) lookup(key string) (*Attr, bool) {
	if l == nil {
		return nil, false
	}
	for _, a := range l.Attrs {
		if a.Key == key {
			return a, true
		}
	}
	return nil, false
}

// Flag reports whether key is present. `key=false` and `key=no` count as absent.
func (l *AttrList) Flag(key string) bool {
	a, ok := l.lookup(key)
	if !ok {
		return false
	}
	switch a.Value.Text() {
	case "false", "no", "0":
		return false
	}
	return true
}

// String returns the textual value of key.
func (l *AttrList) String(key string) (string, bool) {
	a, ok := l.lookup(key)
	if !ok || a.Value == nil {
		return "", false
	}
	return a.Value.Text(), true
}

// Number returns the numeric value of key.
func (l *AttrList) Number(key string) (float64, error) {
	a, ok := l.lookup(key)
	if !ok || a.Value == nil {
		return 0, nil
	}
	if a.Value.Number != nil {
		return *a.Value.Number, nil
	}
	f, err := strconv.ParseFloat(a.Value.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("属性 %s 不是数字: %q", key, a.Value.Text())
	}
	return f, nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a workspace description from an io.Reader.
func Parse(r io.Reader) (*Workspace, error) {
	return workspaceParser.Parse("", r)
}

// ParseString parses a workspace description from a string.
func ParseString(input string) (*Workspace, error) {
	return workspaceParser.ParseString("", input)
}
