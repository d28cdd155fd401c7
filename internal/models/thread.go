package models

import (
	"sort"
	"time"
)

// Thread is a reconstructed conversation: a root message plus every message
// reachable from it through the reply graph, each annotated with its depth.
type Thread struct {
	// Root is the thread's origin message.
	Root *Message

	// Messages holds every message in the thread, unique by id.
	Messages []*Message

	ids          map[int64]struct{}
	participants map[string]struct{}
	mentions     map[string]struct{}
}

// NewThread creates a thread containing only its root.
func NewThread(root *Message) *Thread {
	t := &Thread{
		Root:         root,
		ids:          make(map[int64]struct{}),
		participants: make(map[string]struct{}),
		mentions:     make(map[string]struct{}),
	}
	t.insert(root)
	return t
}

// Add inserts a message into the thread. Returns false without modifying
// the thread when a message with the same id is already present.
func (t *Thread) Add(m *Message) bool {
	if _, ok := t.ids[m.ID]; ok {
		return false
	}
	t.insert(m)
	return true
}

func (t *Thread) insert(m *Message) {
	t.Messages = append(t.Messages, m)
	t.ids[m.ID] = struct{}{}
	t.participants[m.SenderID] = struct{}{}
	for _, mention := range m.Mentions {
		t.mentions[mention] = struct{}{}
	}
}

// Contains reports whether a message with the given id is in the thread.
func (t *Thread) Contains(id int64) bool {
	_, ok := t.ids[id]
	return ok
}

// MessageCount returns the number of messages in the thread.
func (t *Thread) MessageCount() int {
	return len(t.Messages)
}

// Depth returns the maximum reply depth across the thread. 0 for a
// single-message thread.
func (t *Thread) Depth() int {
	depth := 0
	for _, m := range t.Messages {
		if m.Depth > depth {
			depth = m.Depth
		}
	}
	return depth
}

// Participants returns the distinct sender ids, sorted.
func (t *Thread) Participants() []string {
	return sortedKeys(t.participants)
}

// AllMentions returns the distinct @names across all messages, sorted.
func (t *Thread) AllMentions() []string {
	return sortedKeys(t.mentions)
}

// Duration returns the time span between the earliest and latest parseable
// timestamps. ok is false when fewer than two messages have one.
func (t *Thread) Duration() (time.Duration, bool) {
	first, last, count := t.timeBounds()
	if count < 2 {
		return 0, false
	}
	return last.Sub(first), true
}

// SortByTime orders messages chronologically. Messages without a parseable
// timestamp sort first, ordered among themselves by id, so the result is
// deterministic regardless of how many timestamps are missing.
func (t *Thread) SortByTime() {
	sort.SliceStable(t.Messages, func(i, j int) bool {
		a, b := t.Messages[i], t.Messages[j]
		at, aok := a.Timestamp()
		bt, bok := b.Timestamp()
		switch {
		case aok && bok:
			if !at.Equal(bt) {
				return at.Before(bt)
			}
			return a.ID < b.ID
		case aok != bok:
			return !aok
		default:
			return a.ID < b.ID
		}
	})
}

// SortByDepth orders messages by (depth, id) for hierarchical display.
func (t *Thread) SortByDepth() {
	sort.SliceStable(t.Messages, func(i, j int) bool {
		a, b := t.Messages[i], t.Messages[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.ID < b.ID
	})
}

// Summary holds the derived view of a thread used by exports and listings.
type Summary struct {
	RootID           int64    `json:"root_id"`
	RootPreview      string   `json:"root_preview"`
	RootSender       string   `json:"root_sender"`
	MessageCount     int      `json:"message_count"`
	Depth            int      `json:"depth"`
	Participants     []string `json:"participants"`
	ParticipantCount int      `json:"participant_count"`
	Mentions         []string `json:"mentions"`
	StartTime        *string  `json:"start_time"`
	EndTime          *string  `json:"end_time"`
	DurationMinutes  *float64 `json:"duration_minutes"`
	Channel          string   `json:"channel"`
}

// Summarize computes the thread's summary.
func (t *Thread) Summarize() Summary {
	s := Summary{
		RootID:           t.Root.ID,
		RootPreview:      t.Root.Preview(),
		RootSender:       t.Root.SenderID,
		MessageCount:     t.MessageCount(),
		Depth:            t.Depth(),
		Participants:     t.Participants(),
		ParticipantCount: len(t.participants),
		Mentions:         t.AllMentions(),
		Channel:          t.Root.ChannelName,
	}
	if s.Channel == "" {
		s.Channel = t.Root.ChannelID
	}

	first, last, count := t.timeBounds()
	if count > 0 {
		start := first.Format(time.RFC3339)
		end := last.Format(time.RFC3339)
		s.StartTime = &start
		s.EndTime = &end
	}
	if d, ok := t.Duration(); ok {
		minutes := d.Minutes()
		s.DurationMinutes = &minutes
	}
	return s
}

func (t *Thread) timeBounds() (first, last time.Time, count int) {
	for _, m := range t.Messages {
		ts, ok := m.Timestamp()
		if !ok {
			continue
		}
		if count == 0 || ts.Before(first) {
			first = ts
		}
		if count == 0 || ts.After(last) {
			last = ts
		}
		count++
	}
	return first, last, count
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
