package rule

import (
	"github.com/dshills/stylecritic/internal/schema"
	"github.com/dshills/stylecritic/internal/source"
	"github.com/dshills/stylecritic/internal/token"
)

// MatcherKind is the closed set of matcher variants. Keeping the set
// closed gives the evaluator a uniform fault-isolation boundary.
type MatcherKind int

const (
	// KindLine matchers run once per source line.
	KindLine MatcherKind = iota
	// KindToken matchers run once per token, with the full sequence
	// available as a window around the current index.
	KindToken
	// KindPair matchers run once per matched delimiter pair.
	KindPair
	// KindCustom matchers run once per file with the full parsed view.
	KindCustom
)

// Pair is a matched open/close delimiter, as indices into the token slice.
type Pair struct {
	Open  int
	Close int
}

// Finding is a single matcher hit. Message, when non-empty, overrides the
// rule's stock message; Fix is optional.
type Finding struct {
	Pos     schema.Position
	Message string
	Fix     *schema.Fix
}

// Matcher function signatures, one per MatcherKind.
type (
	LineFn   func(n int, line string, span schema.Span) []Finding
	TokenFn  func(toks []token.Token, i int) []Finding
	PairFn   func(toks []token.Token, p Pair) []Finding
	CustomFn func(f *source.File, toks []token.Token) []Finding
)

// Rule is a single checkable style convention. Immutable once registered.
type Rule struct {
	ID       string
	Category schema.Category
	Severity schema.Severity
	Message  string

	Kind   MatcherKind
	Line   LineFn
	Token  TokenFn
	Pair   PairFn
	Custom CustomFn
}
