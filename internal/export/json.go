package export

import (
	"encoding/json"
	"fmt"

	"github.com/teambrain/threadctl/internal/models"
)

// JSON renders a thread as a structured document: the summary plus the full
// ordered message list.
type JSON struct{}

type jsonThread struct {
	Summary  models.Summary    `json:"summary"`
	Messages []*models.Message `json:"messages"`
}

// Render implements Renderer.
func (r *JSON) Render(t *models.Thread) (string, error) {
	doc := jsonThread{
		Summary:  t.Summarize(),
		Messages: t.Messages,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode thread: %w", err)
	}
	return string(data) + "\n", nil
}
