package export

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/teambrain/threadctl/internal/models"
)

const (
	bannerWidth    = 70
	maxContentRows = 10
	maxLineWidth   = 100
)

// Text renders a thread as a plain diagnostic listing with a fixed-width
// banner and depth markers per message.
type Text struct{}

// Render implements Renderer.
func (r *Text) Render(t *models.Thread) (string, error) {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "CONVERSATION THREAD #%d\n", t.Root.ID)
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "Started by: %s\n", t.Root.SenderID)
	fmt.Fprintf(&b, "Messages: %d\n", t.MessageCount())
	fmt.Fprintf(&b, "Participants: %s\n", strings.Join(t.Participants(), ", "))
	b.WriteString(banner + "\n\n")

	for _, msg := range t.Messages {
		indent := strings.Repeat("| ", msg.Depth)

		stamp := "?"
		if ts, ok := msg.Timestamp(); ok {
			stamp = ts.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "%s[%s] %s:\n", indent, stamp, msg.SenderID)

		lines := []string{"(empty)"}
		if msg.Content != "" {
			lines = strings.Split(msg.Content, "\n")
		}
		shown := lines
		if len(shown) > maxContentRows {
			shown = shown[:maxContentRows]
		}
		for _, line := range shown {
			fmt.Fprintf(&b, "%s  %s\n", indent, runewidth.Truncate(line, maxLineWidth, ""))
		}
		if len(lines) > maxContentRows {
			fmt.Fprintf(&b, "%s  ... (%d more lines)\n", indent, len(lines)-maxContentRows)
		}
		b.WriteString("\n")
	}

	b.WriteString(banner + "\n")
	return b.String(), nil
}
