// Package patch renders the outcome of an autofix pass as
// diff-match-patch text for --diff-out.
package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// FileDiff is one file's content before and after an autofix pass.
type FileDiff struct {
	Path   string
	Before string
	After  string
}

// GenerateDiff converts FileDiff entries into diff-match-patch text, one
// stanza per changed file. Files whose content did not change produce no
// output.
func GenerateDiff(diffs []FileDiff) string {
	dmp := diffmatchpatch.New()
	var out strings.Builder

	for _, fd := range diffs {
		if fd.Before == fd.After {
			continue
		}
		d := dmp.DiffMain(fd.Before, fd.After, false)
		patches := dmp.PatchMake(fd.Before, d)
		text := dmp.PatchToText(patches)
		if text == "" {
			continue
		}
		out.WriteString(fmt.Sprintf("# fixes for %s\n", fd.Path))
		out.WriteString(text)
		out.WriteString("\n")
	}

	return out.String()
}
