package schema

// Report is the top-level output structure for a check run.
type Report struct {
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Input   Input        `json:"input"`
	Summary Summary      `json:"summary"`
	Files   []FileReport `json:"files"`
}

// Input captures the parameters used for this run.
type Input struct {
	Paths             []string `json:"paths"`
	Profile           string   `json:"profile"`
	ConfigFile        string   `json:"config_file,omitempty"`
	Fix               bool     `json:"fix"`
	SeverityThreshold string   `json:"severity_threshold"`
}

// Summary holds aggregate counts across all scanned files.
// Counts always reflect all violations before any --severity-threshold
// filtering of the output.
type Summary struct {
	FilesScanned int `json:"files_scanned"`
	FilesFailed  int `json:"files_failed"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	FixesApplied int `json:"fixes_applied"`
	FixesSkipped int `json:"fixes_skipped"`
}

// FileReport holds the violations found in a single file.
type FileReport struct {
	Path         string      `json:"path"`
	Hash         string      `json:"hash"` // "sha256:<hex>" of the content as scanned
	Violations   []Violation `json:"violations"`
	Fixed        bool        `json:"fixed,omitempty"`
	FixesApplied int         `json:"fixes_applied,omitempty"`
	FixesSkipped int         `json:"fixes_skipped,omitempty"`
}

// Severity levels for violations.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SeverityOrdinal returns the numeric ordering for a severity, used by
// --severity-threshold comparison. warning(0) < error(1).
// Returns -1 for an unrecognised severity.
func SeverityOrdinal(s Severity) int {
	switch s {
	case SeverityWarning:
		return 0
	case SeverityError:
		return 1
	default:
		return -1
	}
}

// IsValidSeverity reports whether s is one of the defined severity levels.
func IsValidSeverity(s Severity) bool {
	return SeverityOrdinal(s) >= 0
}

// Category classifies a rule by the style-guide section it enforces.
type Category string

const (
	CategoryLayout     Category = "layout"
	CategorySyntax     Category = "syntax"
	CategoryNaming     Category = "naming"
	CategoryComments   Category = "comments"
	CategoryModules    Category = "modules"
	CategoryRegex      Category = "regex"
	CategoryExceptions Category = "exceptions"

	// CategoryExecution marks violations synthesised by the checker itself
	// (scan recovery, rule fault isolation) rather than by a style rule.
	CategoryExecution Category = "execution"
)

// IsValidCategory reports whether c is one of the defined rule categories.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryLayout, CategorySyntax, CategoryNaming, CategoryComments,
		CategoryModules, CategoryRegex, CategoryExceptions, CategoryExecution:
		return true
	}
	return false
}

// Reserved rule identifiers for violations that do not originate from a
// registered style rule. They are never registrable.
const (
	RuleIDUnterminatedLiteral = "unterminated-literal"
	RuleIDRuleExecutionError  = "rule-execution-error"
)

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p orders strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Span is a half-open [Start, End) byte-offset range in a source file.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Fix is a deterministic replacement of a source span that resolves a
// violation without changing program meaning.
type Fix struct {
	Span        Span   `json:"span"`
	Replacement string `json:"replacement"`
}

// Violation is a single rule firing against a location in scanned text.
// Never mutated after creation.
type Violation struct {
	RuleID   string   `json:"rule_id"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Pos      Position `json:"position"`
	Message  string   `json:"message"`
	Excerpt  string   `json:"excerpt,omitempty"` // offending source line, redacted before render
	Fix      *Fix     `json:"fix,omitempty"`
}

// Counts returns the error and warning totals for a set of violations.
// Counts are always taken before --severity-threshold filtering.
func Counts(violations []Violation) (errors, warnings int) {
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// FilterBySeverity returns only violations at or above the given threshold.
// The filter affects output only; exit-code policy and summary counts use
// the unfiltered set.
func FilterBySeverity(violations []Violation, threshold Severity) []Violation {
	if threshold == SeverityWarning {
		return violations
	}
	out := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if SeverityOrdinal(v.Severity) >= SeverityOrdinal(threshold) {
			out = append(out, v)
		}
	}
	return out
}
