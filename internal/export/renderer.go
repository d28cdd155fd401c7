// Package export renders reconstructed threads in the supported output
// formats. Renderers only consume the Thread/Message contract and never
// affect reconstruction.
package export

import (
	"fmt"

	"github.com/teambrain/threadctl/internal/models"
)

// Format names accepted by ForFormat.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatText     = "text"
)

// Renderer converts a thread into output text.
type Renderer interface {
	Render(t *models.Thread) (string, error)
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string, includeContent bool) (Renderer, error) {
	switch format {
	case FormatMarkdown, "":
		return &Markdown{IncludeContent: includeContent}, nil
	case FormatJSON:
		return &JSON{}, nil
	case FormatText:
		return &Text{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected markdown, json, or text)", format)
	}
}
