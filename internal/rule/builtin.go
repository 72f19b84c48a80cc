package rule

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/stylecritic/internal/schema"
	"github.com/dshills/stylecritic/internal/source"
	"github.com/dshills/stylecritic/internal/token"
)

// Options holds the tunable knobs of the built-in rule set.
type Options struct {
	MaxLineLength int
	IndentWidth   int
}

// DefaultOptions returns the stock style-guide settings.
func DefaultOptions() Options {
	return Options{MaxLineLength: 98, IndentWidth: 2}
}

// Builtin returns the built-in rule definitions in their canonical order.
// Callers select, re-rank, and register them into a Registry.
func Builtin(opts Options) []Rule {
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = DefaultOptions().MaxLineLength
	}
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = DefaultOptions().IndentWidth
	}

	return []Rule{
		{
			ID:       "trailing-whitespace",
			Category: schema.CategoryLayout,
			Severity: schema.SeverityWarning,
			Message:  "trailing whitespace",
			Kind:     KindLine,
			Line:     matchTrailingWhitespace,
		},
		{
			ID:       "tab-indentation",
			Category: schema.CategoryLayout,
			Severity: schema.SeverityError,
			Message:  "indentation uses tabs; use spaces",
			Kind:     KindLine,
			Line:     matchTabIndentation(opts.IndentWidth),
		},
		{
			ID:       "indent-width",
			Category: schema.CategoryLayout,
			Severity: schema.SeverityWarning,
			Message:  fmt.Sprintf("indentation is not a multiple of %d spaces", opts.IndentWidth),
			Kind:     KindLine,
			Line:     matchIndentWidth(opts.IndentWidth),
		},
		{
			ID:       "line-length",
			Category: schema.CategoryLayout,
			Severity: schema.SeverityWarning,
			Message:  fmt.Sprintf("line exceeds %d characters", opts.MaxLineLength),
			Kind:     KindLine,
			Line:     matchLineLength(opts.MaxLineLength),
		},
		{
			ID:       "space-after-comma",
			Category: schema.CategorySyntax,
			Severity: schema.SeverityWarning,
			Message:  "missing space after comma",
			Kind:     KindToken,
			Token:    matchSpaceAfterComma,
		},
		{
			ID:       "bracket-spacing",
			Category: schema.CategorySyntax,
			Severity: schema.SeverityWarning,
			Message:  "no spaces just inside brackets",
			Kind:     KindPair,
			Pair:     matchBracketSpacing,
		},
		{
			ID:       "variable-snake-case",
			Category: schema.CategoryNaming,
			Severity: schema.SeverityWarning,
			Message:  "variable names should be snake_case",
			Kind:     KindToken,
			Token:    matchVariableSnakeCase,
		},
		{
			ID:       "one-letter-variable",
			Category: schema.CategoryNaming,
			Severity: schema.SeverityWarning,
			Message:  "avoid one-letter variable names",
			Kind:     KindToken,
			Token:    matchOneLetterVariable,
		},
		{
			ID:       "predicate-is-prefix",
			Category: schema.CategoryNaming,
			Severity: schema.SeverityWarning,
			Message:  "is_ prefix is reserved for guards; use a trailing ? instead",
			Kind:     KindToken,
			Token:    matchPredicateIsPrefix,
		},
		{
			ID:       "module-pascal-case",
			Category: schema.CategoryModules,
			Severity: schema.SeverityError,
			Message:  "module names should be UpperCamelCase",
			Kind:     KindToken,
			Token:    matchModulePascalCase,
		},
		{
			ID:       "single-module-per-file",
			Category: schema.CategoryModules,
			Severity: schema.SeverityWarning,
			Message:  "more than one top-level module in file",
			Kind:     KindCustom,
			Custom:   matchSingleModulePerFile,
		},
		{
			ID:       "comment-leading-space",
			Category: schema.CategoryComments,
			Severity: schema.SeverityWarning,
			Message:  "comment text should be separated from # by a space",
			Kind:     KindToken,
			Token:    matchCommentLeadingSpace,
		},
		{
			ID:       "regex-string-match",
			Category: schema.CategoryRegex,
			Severity: schema.SeverityWarning,
			Message:  "=~ with a plain string; prefer String.contains?/2",
			Kind:     KindToken,
			Token:    matchRegexStringMatch,
		},
		{
			ID:       "raise-string",
			Category: schema.CategoryExceptions,
			Severity: schema.SeverityWarning,
			Message:  "raise with a bare string; prefer a dedicated exception module",
			Kind:     KindToken,
			Token:    matchRaiseString,
		},
	}
}

// --- layout ---

func matchTrailingWhitespace(n int, line string, span schema.Span) []Finding {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) == len(line) {
		return nil
	}
	return []Finding{{
		Pos: schema.Position{Line: n, Column: utf8.RuneCountInString(trimmed) + 1},
		Fix: &schema.Fix{
			Span: schema.Span{Start: span.Start + len(trimmed), End: span.End},
		},
	}}
}

func matchTabIndentation(width int) LineFn {
	return func(n int, line string, span schema.Span) []Finding {
		indent := leadingBlanks(line)
		tab := strings.IndexByte(indent, '\t')
		if tab < 0 {
			return nil
		}
		return []Finding{{
			Pos: schema.Position{Line: n, Column: tab + 1},
			Fix: &schema.Fix{
				Span:        schema.Span{Start: span.Start, End: span.Start + len(indent)},
				Replacement: strings.ReplaceAll(indent, "\t", strings.Repeat(" ", width)),
			},
		}}
	}
}

func matchIndentWidth(width int) LineFn {
	return func(n int, line string, span schema.Span) []Finding {
		indent := leadingBlanks(line)
		if len(indent) == len(line) || strings.ContainsRune(indent, '\t') {
			// Blank lines and tab indentation are other rules' business.
			return nil
		}
		if len(indent)%width == 0 {
			return nil
		}
		return []Finding{{Pos: schema.Position{Line: n, Column: 1}}}
	}
}

func matchLineLength(max int) LineFn {
	return func(n int, line string, span schema.Span) []Finding {
		if utf8.RuneCountInString(line) <= max {
			return nil
		}
		return []Finding{{Pos: schema.Position{Line: n, Column: max + 1}}}
	}
}

func leadingBlanks(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// --- syntax ---

func matchSpaceAfterComma(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Delim || t.Text != "," {
		return nil
	}
	if i+1 >= len(toks) {
		return nil
	}
	switch toks[i+1].Kind {
	case token.Whitespace, token.Newline:
		return nil
	}
	return []Finding{{
		Pos: t.Pos,
		Fix: &schema.Fix{
			Span:        schema.Span{Start: t.End(), End: t.End()},
			Replacement: " ",
		},
	}}
}

func matchBracketSpacing(toks []token.Token, p Pair) []Finding {
	var out []Finding

	// A space right after the opener, unless the content starts on the
	// next line.
	if i := p.Open + 1; i < p.Close && toks[i].Kind == token.Whitespace {
		if toks[i+1].Kind != token.Newline {
			out = append(out, Finding{
				Pos: toks[i].Pos,
				Fix: &schema.Fix{Span: toks[i].Span()},
			})
		}
	}

	// A space right before the closer, unless it is closing indentation
	// on its own line.
	if i := p.Close - 1; i > p.Open+1 && toks[i].Kind == token.Whitespace && toks[i-1].Kind != token.Newline {
		out = append(out, Finding{
			Pos: toks[i].Pos,
			Fix: &schema.Fix{Span: toks[i].Span()},
		})
	}

	return out
}

// --- naming ---

func matchVariableSnakeCase(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Ident || !isBareAssignTarget(toks, i) {
		return nil
	}
	first := rune(t.Text[0])
	if !unicode.IsLower(first) && first != '_' {
		return nil
	}
	if !strings.ContainsFunc(t.Text, unicode.IsUpper) {
		return nil
	}
	suggestion := snakeCase(t.Text)
	return []Finding{{
		Pos:     t.Pos,
		Message: fmt.Sprintf("variable %s is not snake_case (suggest %s)", t.Text, suggestion),
		Fix: &schema.Fix{
			Span:        t.Span(),
			Replacement: suggestion,
		},
	}}
}

func matchOneLetterVariable(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Ident || len(t.Text) != 1 || !isBareAssignTarget(toks, i) {
		return nil
	}
	c := t.Text[0]
	if c < 'a' || c > 'z' {
		return nil
	}
	// Best-effort heuristic: loop-style index bindings false-positive here.
	return []Finding{{
		Pos:     t.Pos,
		Message: fmt.Sprintf("avoid one-letter variable name %s", t.Text),
	}}
}

func matchPredicateIsPrefix(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Ident || (t.Text != "def" && t.Text != "defp") {
		return nil
	}
	j := nextCode(toks, i)
	if j < 0 || toks[j].Kind != token.Ident {
		return nil
	}
	name := toks[j].Text
	if !strings.HasPrefix(name, "is_") || strings.HasSuffix(name, "?") {
		return nil
	}
	return []Finding{{
		Pos:     toks[j].Pos,
		Message: fmt.Sprintf("%s is not a guard; name it %s?", name, strings.TrimPrefix(name, "is_")),
	}}
}

func matchModulePascalCase(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Ident || t.Text != "defmodule" {
		return nil
	}
	var out []Finding
	j := nextCode(toks, i)
	for j >= 0 && toks[j].Kind == token.Ident {
		if !isPascalCase(toks[j].Text) {
			out = append(out, Finding{
				Pos:     toks[j].Pos,
				Message: fmt.Sprintf("module segment %s is not UpperCamelCase", toks[j].Text),
			})
		}
		k := nextCode(toks, j)
		if k < 0 || toks[k].Kind != token.Operator || toks[k].Text != "." {
			break
		}
		j = nextCode(toks, k)
	}
	return out
}

func matchSingleModulePerFile(f *source.File, toks []token.Token) []Finding {
	var out []Finding
	seen := false
	for _, t := range toks {
		if t.Kind == token.Ident && t.Text == "defmodule" && t.Pos.Column == 1 {
			if seen {
				out = append(out, Finding{Pos: t.Pos})
			}
			seen = true
		}
	}
	return out
}

// --- comments ---

func matchCommentLeadingSpace(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Comment {
		return nil
	}
	body := strings.TrimLeft(t.Text, "#")
	hashes := len(t.Text) - len(body)
	if body == "" || strings.HasPrefix(body, " ") {
		return nil
	}
	// Shebang lines are not comments in the style sense.
	if t.Pos.Line == 1 && t.Pos.Column == 1 && strings.HasPrefix(t.Text, "#!") {
		return nil
	}
	return []Finding{{
		Pos: t.Pos,
		Fix: &schema.Fix{
			Span:        schema.Span{Start: t.Offset + hashes, End: t.Offset + hashes},
			Replacement: " ",
		},
	}}
}

// --- regex / exceptions ---

func matchRegexStringMatch(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Operator || t.Text != "=~" {
		return nil
	}
	j := nextCode(toks, i)
	if j < 0 || toks[j].Kind != token.String {
		return nil
	}
	return []Finding{{Pos: t.Pos}}
}

func matchRaiseString(toks []token.Token, i int) []Finding {
	t := toks[i]
	if t.Kind != token.Ident || t.Text != "raise" {
		return nil
	}
	j := nextCode(toks, i)
	if j < 0 || toks[j].Kind != token.String {
		return nil
	}
	return []Finding{{Pos: toks[j].Pos}}
}

// --- shared helpers ---

// nextCode returns the index of the next token after i that is neither
// whitespace, newline, nor comment, or -1.
func nextCode(toks []token.Token, i int) int {
	for j := i + 1; j < len(toks); j++ {
		switch toks[j].Kind {
		case token.Whitespace, token.Newline, token.Comment:
			continue
		}
		return j
	}
	return -1
}

// prevCode returns the index of the previous code token before i, or -1.
func prevCode(toks []token.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		switch toks[j].Kind {
		case token.Whitespace, token.Newline, token.Comment:
			continue
		}
		return j
	}
	return -1
}

// isBareAssignTarget reports whether toks[i] is the left-hand side of a
// plain = match and not part of a remote call or keyword pair.
func isBareAssignTarget(toks []token.Token, i int) bool {
	j := nextCode(toks, i)
	if j < 0 || toks[j].Kind != token.Operator || toks[j].Text != "=" {
		return false
	}
	if p := prevCode(toks, i); p >= 0 {
		if toks[p].Kind == token.Operator && toks[p].Text == "." {
			return false
		}
	}
	return true
}

// isPascalCase reports whether s is an UpperCamelCase module segment:
// leading uppercase letter, no underscores.
func isPascalCase(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	if !unicode.IsUpper(first) {
		return false
	}
	return !strings.ContainsRune(s, '_')
}

// snakeCase converts a camelCase identifier to snake_case, keeping
// consecutive uppercase runs together (myHTTPServer → my_http_server).
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || (prevUpper && nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
