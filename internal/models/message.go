// Package models defines the core data types for threadctl.
package models

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// MessageType categorizes messages in the comms store.
type MessageType string

const (
	MessageTypeMessage MessageType = "message"
	MessageTypeSystem  MessageType = "system"
	MessageTypeBot     MessageType = "bot"
)

// Accepted created_at layouts, tried in order. The store has accumulated
// rows written by different producers, so more than one format exists.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

var mentionPattern = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// Message is a single message row from the comms store.
// Depth is the only mutable field; it is assigned during thread
// reconstruction and is meaningless before that.
type Message struct {
	// ID is the store's primary key.
	ID int64 `json:"id"`

	// Content is the message body, possibly empty.
	Content string `json:"content"`

	// SenderID identifies the sender.
	SenderID string `json:"sender"`

	// SenderName is the sender's display name.
	SenderName string `json:"sender_name"`

	// ChannelID identifies the channel the message was posted to.
	ChannelID string `json:"channel_id"`

	// ChannelName is the channel's display name, joined in at load time.
	ChannelName string `json:"channel_name"`

	// ParentID is the message this one directly replies to, if any.
	ParentID *int64 `json:"parent_id"`

	// ThreadID is the message considered this thread's origin, if any.
	ThreadID *int64 `json:"thread_id"`

	// CreatedAt is the raw stored timestamp. Parsed lazily; an absent or
	// unparseable value is a valid state, not an error.
	CreatedAt string `json:"created_at"`

	// Type tags the message kind.
	Type MessageType `json:"message_type"`

	// Mentions holds the distinct @names extracted from Content.
	Mentions []string `json:"mentions"`

	// Depth is the reply distance from the thread root, set during
	// reconstruction. 0 at the root.
	Depth int `json:"depth"`
}

// ExtractMentions returns the distinct @name tokens in content, sorted.
func ExtractMentions(content string) []string {
	if content == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var mentions []string
	for _, match := range mentionPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		mentions = append(mentions, name)
	}
	sort.Strings(mentions)
	return mentions
}

// Timestamp parses CreatedAt. The second return value is false when the
// field is empty or matches none of the accepted layouts.
func (m *Message) Timestamp() (time.Time, bool) {
	if m.CreatedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, m.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const previewLimit = 100

// Preview returns a short single-line excerpt of the content.
func (m *Message) Preview() string {
	if m.Content == "" {
		return "(empty)"
	}
	text := strings.TrimSpace(strings.ReplaceAll(m.Content, "\n", " "))
	if len(text) > previewLimit {
		return text[:previewLimit] + "..."
	}
	return text
}

// IsRootCandidate reports whether the message looks like a thread origin:
// it replies to nothing, or its thread reference points at itself.
func (m *Message) IsRootCandidate() bool {
	if m.ParentID == nil && m.ThreadID == nil {
		return true
	}
	return m.ThreadID != nil && *m.ThreadID == m.ID
}

// RootID returns the message's own thread reference, or its own id when it
// has none. Search queries use this to map a matching message to the thread
// it belongs to.
func (m *Message) RootID() int64 {
	if m.ThreadID != nil {
		return *m.ThreadID
	}
	return m.ID
}
