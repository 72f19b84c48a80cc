package render

import (
	"fmt"

	"github.com/dshills/stylecritic/internal/schema"
)

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(report *schema.Report) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "text" (default), "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "text":
		return &textRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are text, json", format)
	}
}
