package token

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/stylecritic/internal/schema"
)

// Scan converts source text into its token sequence. Positions are
// 1-based and monotonically non-decreasing.
//
// When a quoted or bitstring literal is left unterminated, Scan returns
// the tokens produced up to the opening delimiter together with an
// *UnterminatedLiteralError; the remainder of the input yields no tokens.
func Scan(src string) ([]Token, error) {
	s := &scanner{src: src, line: 1, col: 1}
	var toks []Token

	for s.off < len(s.src) {
		start := s.off
		pos := schema.Position{Line: s.line, Column: s.col}

		kind, uerr := s.next(pos)
		if uerr != nil {
			return toks, uerr
		}

		text := s.src[start:s.off]
		toks = append(toks, Token{Kind: kind, Text: text, Offset: start, Pos: pos})
		s.advancePos(text)
	}

	return toks, nil
}

type scanner struct {
	src  string
	off  int
	line int
	col  int
}

// next consumes one token starting at s.off and returns its kind.
// It moves s.off only; line/column bookkeeping happens in advancePos.
func (s *scanner) next(pos schema.Position) (Kind, *UnterminatedLiteralError) {
	c := s.src[s.off]
	switch {
	case c == '\n':
		s.off++
		return Newline, nil
	case c == '\r' && s.peekAt(1) == '\n':
		s.off += 2
		return Newline, nil
	case c == ' ' || c == '\t':
		s.consumeRun(" \t")
		return Whitespace, nil
	case c == '#':
		s.consumeUntil('\n')
		return Comment, nil
	case c == '"':
		return s.scanQuoted('"', pos)
	case c == '\'':
		return s.scanQuoted('\'', pos)
	case c == '~' && isLetter(s.peekAt(1)):
		return s.scanSigil(pos)
	case c == '<' && s.peekAt(1) == '<' && s.peekAt(2) != '<':
		return s.scanBitstring(pos)
	case isDigit(c):
		s.scanNumber()
		return Number, nil
	case c == ':' && s.peekAt(1) != ':' && isIdentStart(s.peekAt(1)):
		s.off++
		s.scanIdentTail()
		return Atom, nil
	case isIdentStart(c):
		s.scanIdentTail()
		return Ident, nil
	case c == '@' && isIdentStart(s.peekAt(1)):
		// Module attribute: scanned as one identifier including the @.
		s.off++
		s.scanIdentTail()
		return Ident, nil
	case strings.IndexByte("()[]{},", c) >= 0:
		s.off++
		return Delim, nil
	default:
		if s.scanOperator() {
			return Operator, nil
		}
		_, size := utf8.DecodeRuneInString(s.src[s.off:])
		s.off += size
		return Invalid, nil
	}
}

// scanQuoted consumes a string or charlist literal, including the
// triple-quoted heredoc form. quote is '"' or '\''.
func (s *scanner) scanQuoted(quote byte, pos schema.Position) (Kind, *UnterminatedLiteralError) {
	kind := String
	if quote == '\'' {
		kind = Charlist
	}

	delim := string(quote)
	if s.peekAt(1) == quote && s.peekAt(2) == quote {
		delim = strings.Repeat(string(quote), 3)
	}
	s.off += len(delim)

	for s.off < len(s.src) {
		if s.src[s.off] == '\\' {
			s.off += 2
			continue
		}
		if strings.HasPrefix(s.src[s.off:], delim) {
			s.off += len(delim)
			return kind, nil
		}
		s.off++
	}
	s.off = len(s.src)
	return kind, &UnterminatedLiteralError{Pos: pos, Offset: s.off, Delim: delim}
}

// sigilPairs maps opening sigil delimiters to their closers.
var sigilPairs = map[byte]byte{
	'(': ')', '[': ']', '{': '}', '<': '>',
	'/': '/', '|': '|', '"': '"', '\'': '\'',
}

// scanSigil consumes ~r/.../opts style literals.
func (s *scanner) scanSigil(pos schema.Position) (Kind, *UnterminatedLiteralError) {
	start := s.off
	s.off++ // ~
	for s.off < len(s.src) && isLetter(s.src[s.off]) {
		s.off++
	}
	if s.off >= len(s.src) {
		return Sigil, &UnterminatedLiteralError{Pos: pos, Offset: start, Delim: s.src[start:]}
	}

	open := s.src[s.off]
	closer, ok := sigilPairs[open]
	if !ok {
		// ~x not followed by a delimiter is not a sigil after all.
		s.off = start + 1
		return Operator, nil
	}
	s.off++

	depth := 1
	for s.off < len(s.src) {
		c := s.src[s.off]
		if c == '\\' {
			s.off += 2
			continue
		}
		if c == open && open != closer {
			depth++
		} else if c == closer {
			depth--
			if depth == 0 {
				s.off++
				// Trailing modifier letters, e.g. ~r/x/iu.
				for s.off < len(s.src) && isLetter(s.src[s.off]) {
					s.off++
				}
				return Sigil, nil
			}
		}
		s.off++
	}
	delim := s.src[start:min(start+4, len(s.src))]
	return Sigil, &UnterminatedLiteralError{Pos: pos, Offset: start, Delim: delim}
}

// scanBitstring consumes a <<...>> literal as a single token, skipping
// over nested bitstrings and quoted content.
func (s *scanner) scanBitstring(pos schema.Position) (Kind, *UnterminatedLiteralError) {
	s.off += 2
	depth := 1
	for s.off < len(s.src) {
		c := s.src[s.off]
		switch {
		case c == '\\':
			s.off += 2
		case c == '"' || c == '\'':
			if _, uerr := s.scanQuoted(c, pos); uerr != nil {
				return Bitstring, &UnterminatedLiteralError{Pos: pos, Offset: s.off, Delim: "<<"}
			}
		case c == '<' && s.peekAt(1) == '<':
			depth++
			s.off += 2
		case c == '>' && s.peekAt(1) == '>':
			depth--
			s.off += 2
			if depth == 0 {
				return Bitstring, nil
			}
		default:
			s.off++
		}
	}
	return Bitstring, &UnterminatedLiteralError{Pos: pos, Offset: s.off, Delim: "<<"}
}

// scanNumber consumes integer and float literals, including 0x/0o/0b
// prefixes, underscore separators, and exponents.
func (s *scanner) scanNumber() {
	if s.src[s.off] == '0' && strings.IndexByte("xXoObB", s.peekAt(1)) >= 0 {
		s.off += 2
		for s.off < len(s.src) && (isHexDigit(s.src[s.off]) || s.src[s.off] == '_') {
			s.off++
		}
		return
	}
	s.consumeDigits()
	if s.off < len(s.src) && s.src[s.off] == '.' && isDigit(s.peekAt(1)) {
		s.off++
		s.consumeDigits()
	}
	if s.off < len(s.src) && (s.src[s.off] == 'e' || s.src[s.off] == 'E') {
		next := s.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
			s.off++
			if s.src[s.off] == '+' || s.src[s.off] == '-' {
				s.off++
			}
			s.consumeDigits()
		}
	}
}

// scanIdentTail consumes identifier characters plus an optional trailing
// ? or ! (predicate and bang names).
func (s *scanner) scanIdentTail() {
	for s.off < len(s.src) && isIdentChar(s.src[s.off]) {
		s.off++
	}
	if s.off < len(s.src) && (s.src[s.off] == '?' || s.src[s.off] == '!') {
		s.off++
	}
}

// operators is ordered longest first so greedy matching is correct.
var operators = []string{
	"===", "!==", "<<<", ">>>", "&&&", "|||", "^^^", "~>>", "<<~", "<~>", "...",
	"->", "<-", "=>", "==", "!=", "<=", ">=", "&&", "||", "|>", "++", "--",
	"::", "=~", "<>", "..", "**", "~>", "<~",
	"+", "-", "*", "/", "=", "<", ">", "!", "&", "|", "^", ".", ":", ";",
	"%", "?", "\\", "~", "@",
}

func (s *scanner) scanOperator() bool {
	for _, op := range operators {
		if strings.HasPrefix(s.src[s.off:], op) {
			s.off += len(op)
			return true
		}
	}
	return false
}

func (s *scanner) consumeRun(set string) {
	for s.off < len(s.src) && strings.IndexByte(set, s.src[s.off]) >= 0 {
		s.off++
	}
}

func (s *scanner) consumeUntil(stop byte) {
	for s.off < len(s.src) && s.src[s.off] != stop {
		s.off++
	}
}

func (s *scanner) consumeDigits() {
	for s.off < len(s.src) && (isDigit(s.src[s.off]) || s.src[s.off] == '_') {
		s.off++
	}
}

// peekAt returns the byte n positions past the current offset, or 0 at
// end of input.
func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

// advancePos updates the line/column counters for consumed text.
// Columns count runes, not bytes.
func (s *scanner) advancePos(text string) {
	for _, r := range text {
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }
