// Package redact strips credential material from source excerpts quoted
// in violation output, so reports can be pasted into tickets and CI logs.
package redact

import "regexp"

const redacted = "[REDACTED]"

// keyBoundary matches the armor lines of PEM key blocks. Excerpts are
// single lines, so any line between the armor lines is unrecognisable
// base64; wiping the whole excerpt when armor appears is the safe call.
var keyBoundary = regexp.MustCompile(`-----(BEGIN|END) [A-Z ]+KEY-----`)

// patterns holds single-line secret-detection regexes in priority order.
// A pattern that needs a boundary character captures it and keeps it via
// ${1}, so redaction never eats surrounding quotes or whitespace.
var patterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	// AWS access key IDs
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), redacted},
	// API secret keys, word-boundary aware
	{regexp.MustCompile(`(^|\s|["'])sk-[a-zA-Z0-9]{20,}`), "${1}" + redacted},
	// JWT tokens (three base64url segments)
	{regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`), redacted},
	// Bearer tokens; minimum 20-char token to avoid false positives
	{regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]{20,}=*`), redacted},
	// Inline password assignments
	{regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`), redacted},
}

// Excerpt replaces known secret patterns in a single-line excerpt with
// [REDACTED]. A line that is part of a PEM key block is wiped entirely.
func Excerpt(line string) string {
	if keyBoundary.MatchString(line) {
		return redacted
	}
	for _, p := range patterns {
		line = p.re.ReplaceAllString(line, p.repl)
	}
	return line
}
