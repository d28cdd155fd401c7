package export

import (
	"fmt"
	"strings"

	"github.com/teambrain/threadctl/internal/models"
)

// Markdown renders a thread as a hierarchical markdown document, one section
// per message, indented by reply depth.
type Markdown struct {
	// IncludeContent controls whether full message bodies are emitted.
	// When false only a preview line is written per message.
	IncludeContent bool
}

// Render implements Renderer.
func (r *Markdown) Render(t *models.Thread) (string, error) {
	var b strings.Builder

	channel := t.Root.ChannelName
	if channel == "" {
		channel = t.Root.ChannelID
	}

	fmt.Fprintf(&b, "# Conversation Thread #%d\n\n", t.Root.ID)
	fmt.Fprintf(&b, "**Started by:** %s\n", t.Root.SenderID)
	fmt.Fprintf(&b, "**Channel:** %s\n", channel)
	fmt.Fprintf(&b, "**Messages:** %d\n", t.MessageCount())
	fmt.Fprintf(&b, "**Depth:** %d\n", t.Depth())
	fmt.Fprintf(&b, "**Participants:** %s\n", strings.Join(t.Participants(), ", "))
	if d, ok := t.Duration(); ok {
		fmt.Fprintf(&b, "**Duration:** %.1f minutes\n", d.Minutes())
	}

	b.WriteString("\n---\n\n## Messages\n\n")

	for _, msg := range t.Messages {
		indent := strings.Repeat("  ", msg.Depth)

		stamp := "Unknown"
		if ts, ok := msg.Timestamp(); ok {
			stamp = ts.Format("2006-01-02 15:04:05")
		}

		fmt.Fprintf(&b, "%s### %s (#%d)\n", indent, msg.SenderID, msg.ID)
		fmt.Fprintf(&b, "%s*%s*\n\n", indent, stamp)

		if r.IncludeContent && msg.Content != "" {
			for _, line := range strings.Split(msg.Content, "\n") {
				fmt.Fprintf(&b, "%s%s\n", indent, line)
			}
		} else {
			fmt.Fprintf(&b, "%s%s\n", indent, msg.Preview())
		}
		b.WriteString("\n")

		if len(msg.Mentions) > 0 {
			fmt.Fprintf(&b, "%s**Mentions:** %s\n\n", indent, strings.Join(msg.Mentions, ", "))
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
