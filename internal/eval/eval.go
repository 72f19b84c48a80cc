// Package eval walks a parsed source view and applies every registered
// rule, collecting violations. Rules are independent: overlapping hits
// are all reported, and one broken rule never aborts the rest.
package eval

import (
	"fmt"
	"sort"

	"github.com/dshills/stylecritic/internal/rule"
	"github.com/dshills/stylecritic/internal/schema"
	"github.com/dshills/stylecritic/internal/source"
	"github.com/dshills/stylecritic/internal/token"
)

// Evaluate applies each rule in registry order and returns the collected
// violations sorted by position, with ties broken by registry insertion
// order.
func Evaluate(f *source.File, toks []token.Token, reg *rule.Registry) []schema.Violation {
	type ordered struct {
		v     schema.Violation
		order int
	}
	var all []ordered

	pairs := matchPairs(toks)

	for ri, r := range reg.All() {
		findings, fault := runRule(r, f, toks, pairs)
		for _, fd := range findings {
			all = append(all, ordered{v: toViolation(r, f, fd), order: ri})
		}
		if fault != nil {
			all = append(all, ordered{order: ri, v: schema.Violation{
				RuleID:   schema.RuleIDRuleExecutionError,
				Category: schema.CategoryExecution,
				Severity: schema.SeverityError,
				Path:     f.Path,
				Pos:      schema.Position{Line: 1, Column: 1},
				Message:  fmt.Sprintf("rule %s failed: %v", r.ID, fault),
			}})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].v.Pos != all[j].v.Pos {
			return all[i].v.Pos.Before(all[j].v.Pos)
		}
		return all[i].order < all[j].order
	})

	out := make([]schema.Violation, len(all))
	for i, o := range all {
		out[i] = o.v
	}
	return out
}

// runRule drives one rule's matcher over the parsed view. A panicking
// matcher is isolated: its partial findings are dropped and the panic
// value is returned as the fault.
func runRule(r rule.Rule, f *source.File, toks []token.Token, pairs []rule.Pair) (findings []rule.Finding, fault any) {
	defer func() {
		if p := recover(); p != nil {
			findings = nil
			fault = p
		}
	}()

	switch r.Kind {
	case rule.KindLine:
		for n := 1; n <= f.LineCount(); n++ {
			line := f.Line(n)
			span := f.LineSpan(n)
			span.End = span.Start + len(line) // excludes any \r
			findings = append(findings, r.Line(n, line, span)...)
		}
	case rule.KindToken:
		for i := range toks {
			findings = append(findings, r.Token(toks, i)...)
		}
	case rule.KindPair:
		for _, p := range pairs {
			findings = append(findings, r.Pair(toks, p)...)
		}
	case rule.KindCustom:
		findings = r.Custom(f, toks)
	}
	return findings, nil
}

func toViolation(r rule.Rule, f *source.File, fd rule.Finding) schema.Violation {
	msg := r.Message
	if fd.Message != "" {
		msg = fd.Message
	}
	return schema.Violation{
		RuleID:   r.ID,
		Category: r.Category,
		Severity: r.Severity,
		Path:     f.Path,
		Pos:      fd.Pos,
		Message:  msg,
		Excerpt:  f.Line(fd.Pos.Line),
		Fix:      fd.Fix,
	}
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

// matchPairs pairs up delimiter tokens with a stack. Unbalanced
// delimiters simply produce no pair; they are not an error here.
func matchPairs(toks []token.Token) []rule.Pair {
	var stack []int
	var pairs []rule.Pair
	for i, t := range toks {
		if t.Kind != token.Delim {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			stack = append(stack, i)
		case ")", "]", "}":
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if toks[top].Text == closers[t.Text] {
					pairs = append(pairs, rule.Pair{Open: top, Close: i})
					break
				}
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Open < pairs[j].Open })
	return pairs
}
