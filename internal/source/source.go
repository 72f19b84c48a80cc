package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dshills/stylecritic/internal/schema"
)

// File holds a loaded source file with derived position metadata.
type File struct {
	Path string
	Hash string // "sha256:<hex>"
	Raw  string // original content

	// lineStarts[i] is the byte offset of the first character of line i+1.
	lineStarts []int
}

// Load reads a source file from disk, computes its hash, and indexes its
// line starts for offset/position mapping.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	f := FromString(path, string(data))
	return f, nil
}

// FromString builds a File from in-memory content. The hash is computed
// the same way Load computes it.
func FromString(path, content string) *File {
	sum := sha256.Sum256([]byte(content))
	return &File{
		Path:       path,
		Hash:       fmt.Sprintf("sha256:%x", sum),
		Raw:        content,
		lineStarts: indexLines(content),
	}
}

// indexLines returns the byte offset of every line start. Offset 0 is
// always a line start, even for empty input.
func indexLines(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineCount returns the number of lines in the file. A trailing newline
// does not start a counted line.
func (f *File) LineCount() int {
	n := len(f.lineStarts)
	if n > 0 && f.lineStarts[n-1] == len(f.Raw) && len(f.Raw) > 0 {
		return n - 1
	}
	return n
}

// Line returns the 1-based line n without its trailing newline.
// Out-of-range lines return "".
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Raw)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1 // drop the newline
	}
	if start > end {
		return ""
	}
	return strings.TrimSuffix(f.Raw[start:end], "\r")
}

// PosAt converts a byte offset into a 1-based line/column position.
// Offsets past the end of the file map to the position just past the
// last character.
func (f *File) PosAt(offset int) schema.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Raw) {
		offset = len(f.Raw)
	}
	// First line start strictly greater than offset.
	i := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	line := i // lineStarts[i-1] <= offset, so offset is on line i
	return schema.Position{Line: line, Column: offset - f.lineStarts[line-1] + 1}
}

// OffsetAt converts a 1-based position back into a byte offset.
func (f *File) OffsetAt(pos schema.Position) int {
	if pos.Line < 1 || pos.Line > len(f.lineStarts) {
		return len(f.Raw)
	}
	return f.lineStarts[pos.Line-1] + pos.Column - 1
}

// LineSpan returns the byte span of line n excluding its newline.
func (f *File) LineSpan(n int) schema.Span {
	if n < 1 || n > len(f.lineStarts) {
		return schema.Span{Start: len(f.Raw), End: len(f.Raw)}
	}
	start := f.lineStarts[n-1]
	end := len(f.Raw)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return schema.Span{Start: start, End: end}
}
