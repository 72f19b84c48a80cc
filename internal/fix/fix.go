// Package fix applies autofixes to a working copy of source text.
package fix

import (
	"sort"
	"strings"

	"github.com/dshills/stylecritic/internal/schema"
)

// Result describes one autofix pass over a single file.
type Result struct {
	Text    string // the fixed content
	Applied int
	// Skipped holds violations whose fix targeted a span already altered
	// by an earlier fix in the same pass. They stay unresolved and are
	// reported as such.
	Skipped []schema.Violation
}

// Apply applies each violation's fix (when present) to src in ascending
// span order. A fix whose target overlaps a span already rewritten in
// this pass is skipped so that overlapping edits cannot corrupt output.
// Running Apply again on the fixed text applies nothing further.
func Apply(src string, violations []schema.Violation) Result {
	type edit struct {
		v   schema.Violation
		fix schema.Fix
	}
	var edits []edit
	for _, v := range violations {
		if v.Fix == nil {
			continue
		}
		f := *v.Fix
		if f.Span.Start < 0 || f.Span.End < f.Span.Start || f.Span.End > len(src) {
			continue
		}
		edits = append(edits, edit{v: v, fix: f})
	}
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].fix.Span.Start != edits[j].fix.Span.Start {
			return edits[i].fix.Span.Start < edits[j].fix.Span.Start
		}
		return edits[i].fix.Span.End < edits[j].fix.Span.End
	})

	var (
		b    strings.Builder
		res  Result
		prev int
	)
	for _, e := range edits {
		// Spans are half-open, so a fix starting exactly where the last
		// one ended does not overlap it.
		if e.fix.Span.Start < prev {
			res.Skipped = append(res.Skipped, e.v)
			continue
		}
		b.WriteString(src[prev:e.fix.Span.Start])
		b.WriteString(e.fix.Replacement)
		prev = e.fix.Span.End
		res.Applied++
	}
	b.WriteString(src[prev:])
	res.Text = b.String()
	return res
}
