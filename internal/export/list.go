package export

import (
	"fmt"
	"strings"

	"github.com/teambrain/threadctl/internal/models"
)

// FormatThreadList renders numbered thread summaries for search and scan
// output.
func FormatThreadList(threads []*models.Thread, verbose bool) string {
	if len(threads) == 0 {
		return "No threads found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d thread(s):\n\n", len(threads))

	for i, t := range threads {
		summary := t.Summarize()
		fmt.Fprintf(&b, "%d. Thread #%d\n", i+1, summary.RootID)
		fmt.Fprintf(&b, "   Sender: %s\n", summary.RootSender)
		fmt.Fprintf(&b, "   Messages: %d | Depth: %d | Participants: %d\n",
			summary.MessageCount, summary.Depth, summary.ParticipantCount)

		if verbose {
			fmt.Fprintf(&b, "   Channel: %s\n", summary.Channel)
			participants := summary.Participants
			if len(participants) > 5 {
				participants = participants[:5]
			}
			fmt.Fprintf(&b, "   Participants: %s\n", strings.Join(participants, ", "))
			if summary.DurationMinutes != nil {
				fmt.Fprintf(&b, "   Duration: %.1f min\n", *summary.DurationMinutes)
			}
		}

		fmt.Fprintf(&b, "   Preview: %s\n\n", summary.RootPreview)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
