package token

import (
	"fmt"

	"github.com/dshills/stylecritic/internal/schema"
)

// Kind classifies a lexical unit.
type Kind int

const (
	EOF Kind = iota
	Whitespace
	Newline
	Comment
	Ident
	Atom
	Number
	String
	Charlist
	Sigil
	Bitstring
	Operator
	Delim
	Invalid
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "eof"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case Comment:
		return "comment"
	case Ident:
		return "identifier"
	case Atom:
		return "atom"
	case Number:
		return "number"
	case String:
		return "string"
	case Charlist:
		return "charlist"
	case Sigil:
		return "sigil"
	case Bitstring:
		return "bitstring"
	case Operator:
		return "operator"
	case Delim:
		return "delimiter"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Token is one classified lexical unit. Text is the exact source slice:
// concatenating the Text of every token scanned from a well-formed input
// reproduces that input byte for byte.
type Token struct {
	Kind   Kind
	Text   string
	Offset int // byte offset of the first character
	Pos    schema.Position
}

// End returns the byte offset one past the last character of the token.
func (t Token) End() int { return t.Offset + len(t.Text) }

// Span returns the token's byte span.
func (t Token) Span() schema.Span {
	return schema.Span{Start: t.Offset, End: t.End()}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Pos.Line, t.Pos.Column)
}

// UnterminatedLiteralError reports a quoted or bitstring literal that was
// not closed before end of input. It carries the opening position so the
// caller can report a single violation there; it is recoverable, never a
// fatal abort.
type UnterminatedLiteralError struct {
	Pos    schema.Position
	Offset int
	Delim  string // the opening delimiter, e.g. `"`, `'`, `<<`, `"""`
}

func (e *UnterminatedLiteralError) Error() string {
	return fmt.Sprintf("unterminated literal opened with %s at %d:%d", e.Delim, e.Pos.Line, e.Pos.Column)
}
