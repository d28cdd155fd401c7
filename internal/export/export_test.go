package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teambrain/threadctl/internal/models"
)

func sampleThread() *models.Thread {
	root := &models.Message{
		ID:          1,
		Content:     "kickoff for @logan",
		SenderID:    "forge",
		ChannelID:   "ch-1",
		ChannelName: "general",
		CreatedAt:   "2026-01-29T10:00:00Z",
		Mentions:    models.ExtractMentions("kickoff for @logan"),
	}
	thread := models.NewThread(root)

	reply := &models.Message{
		ID:        2,
		Content:   "on it",
		SenderID:  "clu",
		CreatedAt: "2026-01-29T10:02:00Z",
		Depth:     1,
	}
	thread.Add(reply)
	thread.SortByTime()
	return thread
}

func TestForFormat(t *testing.T) {
	md, err := ForFormat("markdown", true)
	require.NoError(t, err)
	require.IsType(t, &Markdown{}, md)

	jr, err := ForFormat("json", true)
	require.NoError(t, err)
	require.IsType(t, &JSON{}, jr)

	tr, err := ForFormat("text", true)
	require.NoError(t, err)
	require.IsType(t, &Text{}, tr)

	// Empty format defaults to markdown.
	def, err := ForFormat("", true)
	require.NoError(t, err)
	require.IsType(t, &Markdown{}, def)

	_, err = ForFormat("yaml", true)
	require.Error(t, err)
}

func TestMarkdownRender(t *testing.T) {
	out, err := (&Markdown{IncludeContent: true}).Render(sampleThread())
	require.NoError(t, err)

	require.Contains(t, out, "# Conversation Thread #1")
	require.Contains(t, out, "**Started by:** forge")
	require.Contains(t, out, "**Channel:** general")
	require.Contains(t, out, "**Messages:** 2")
	require.Contains(t, out, "**Depth:** 1")
	require.Contains(t, out, "**Participants:** clu, forge")
	require.Contains(t, out, "**Duration:** 2.0 minutes")
	require.Contains(t, out, "### forge (#1)")
	require.Contains(t, out, "kickoff for @logan")
	require.Contains(t, out, "**Mentions:** logan")
	// Reply section indented one level.
	require.Contains(t, out, "  ### clu (#2)")
}

func TestMarkdownRenderNoContent(t *testing.T) {
	thread := sampleThread()
	thread.Root.Content = strings.Repeat("x", 200)

	out, err := (&Markdown{IncludeContent: false}).Render(thread)
	require.NoError(t, err)

	require.NotContains(t, out, strings.Repeat("x", 200))
	require.Contains(t, out, strings.Repeat("x", 100)+"...")
}

func TestJSONRender(t *testing.T) {
	out, err := (&JSON{}).Render(sampleThread())
	require.NoError(t, err)

	var doc struct {
		Summary  models.Summary `json:"summary"`
		Messages []struct {
			ID    int64 `json:"id"`
			Depth int   `json:"depth"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	require.Equal(t, int64(1), doc.Summary.RootID)
	require.Equal(t, 2, doc.Summary.MessageCount)
	require.Len(t, doc.Messages, 2)
	require.Equal(t, int64(1), doc.Messages[0].ID)
	require.Equal(t, 1, doc.Messages[1].Depth)
}

func TestTextRender(t *testing.T) {
	out, err := (&Text{}).Render(sampleThread())
	require.NoError(t, err)

	require.Contains(t, out, strings.Repeat("=", 70))
	require.Contains(t, out, "CONVERSATION THREAD #1")
	require.Contains(t, out, "Started by: forge")
	require.Contains(t, out, "[2026-01-29 10:00] forge:")
	// Reply indented with the depth marker.
	require.Contains(t, out, "| [2026-01-29 10:02] clu:")
}

func TestTextRenderElidesLongContent(t *testing.T) {
	thread := sampleThread()
	thread.Root.Content = strings.Repeat("line\n", 14) + "last"

	out, err := (&Text{}).Render(thread)
	require.NoError(t, err)

	require.Contains(t, out, "... (5 more lines)")
	require.NotContains(t, out, "last")
}

func TestTextRenderEmptyContent(t *testing.T) {
	thread := sampleThread()
	thread.Root.Content = ""

	out, err := (&Text{}).Render(thread)
	require.NoError(t, err)
	require.Contains(t, out, "(empty)")
}

func TestFormatThreadList(t *testing.T) {
	require.Equal(t, "No threads found.", FormatThreadList(nil, false))

	out := FormatThreadList([]*models.Thread{sampleThread()}, false)
	require.Contains(t, out, "Found 1 thread(s):")
	require.Contains(t, out, "1. Thread #1")
	require.Contains(t, out, "Sender: forge")
	require.Contains(t, out, "Messages: 2 | Depth: 1 | Participants: 2")
	require.Contains(t, out, "Preview: kickoff for @logan")
	require.NotContains(t, out, "Channel:")

	verbose := FormatThreadList([]*models.Thread{sampleThread()}, true)
	require.Contains(t, verbose, "Channel: general")
	require.Contains(t, verbose, "Duration: 2.0 min")
}
