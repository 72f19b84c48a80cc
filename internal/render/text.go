package render

import (
	"bytes"
	"fmt"

	"github.com/dshills/stylecritic/internal/schema"
)

type textRenderer struct{}

// Render writes one line per violation, grouped by file in report order
// (files come pre-sorted by path, violations by position), followed by a
// summary line. The summary always appears, even when some files or
// rules failed.
func (r *textRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer

	for _, file := range report.Files {
		for _, v := range file.Violations {
			fixable := ""
			if v.Fix != nil && !file.Fixed {
				fixable = " (fixable)"
			}
			fmt.Fprintf(&buf, "%s:%d:%d: %s: [%s] %s%s\n",
				v.Path, v.Pos.Line, v.Pos.Column, v.Severity, v.RuleID, v.Message, fixable)
		}
	}

	s := report.Summary
	total := s.ErrorCount + s.WarningCount
	fmt.Fprintf(&buf, "%d file(s) scanned", s.FilesScanned)
	if s.FilesFailed > 0 {
		fmt.Fprintf(&buf, ", %d failed", s.FilesFailed)
	}
	fmt.Fprintf(&buf, ": %d violation(s) (%d error(s), %d warning(s))",
		total, s.ErrorCount, s.WarningCount)
	if s.FixesApplied > 0 || s.FixesSkipped > 0 {
		fmt.Fprintf(&buf, ", %d fix(es) applied", s.FixesApplied)
		if s.FixesSkipped > 0 {
			fmt.Fprintf(&buf, ", %d skipped (unresolved)", s.FixesSkipped)
		}
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
