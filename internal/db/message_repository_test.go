package db

import (
	"context"
	"errors"
	"testing"
)

type messageRow struct {
	id        int64
	content   string
	senderID  string
	channelID string
	parentID  *int64
	threadID  *int64
	createdAt string
}

func openTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return database
}

func seedChannel(t *testing.T, database *DB, id, name string) {
	t.Helper()
	_, err := database.ExecContext(context.Background(),
		`INSERT INTO channels (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		t.Fatalf("seed channel: %v", err)
	}
}

func seedMessage(t *testing.T, database *DB, row messageRow) {
	t.Helper()
	_, err := database.ExecContext(context.Background(), `
		INSERT INTO messages (id, content, sender_id, sender_name, channel_id, parent_id, thread_id, created_at, message_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'message')
	`, row.id, row.content, row.senderID, row.senderID, row.channelID, row.parentID, row.threadID, row.createdAt)
	if err != nil {
		t.Fatalf("seed message %d: %v", row.id, err)
	}
}

func ptr(v int64) *int64 { return &v }

func TestMessageRepositoryGet(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	seedChannel(t, database, "ch-1", "general")
	seedMessage(t, database, messageRow{
		id: 1, content: "hello @clu", senderID: "forge",
		channelID: "ch-1", createdAt: "2026-01-29T10:00:00Z",
	})

	msg, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if msg.ID != 1 || msg.SenderID != "forge" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.ChannelName != "general" {
		t.Fatalf("ChannelName = %q, want joined channel name", msg.ChannelName)
	}
	if len(msg.Mentions) != 1 || msg.Mentions[0] != "clu" {
		t.Fatalf("Mentions = %v, want [clu]", msg.Mentions)
	}
	if msg.ParentID != nil || msg.ThreadID != nil {
		t.Fatalf("expected nil references, got %+v", msg)
	}
}

func TestMessageRepositoryGetNotFound(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	_, err := repo.Get(ctx, 9999)
	if !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("Get missing id: err = %v, want ErrMessageNotFound", err)
	}
}

func TestMessageRepositoryGetWithoutChannel(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	// No channels row: the LEFT JOIN must still return the message.
	seedMessage(t, database, messageRow{
		id: 1, senderID: "forge", channelID: "ghost", createdAt: "2026-01-29T10:00:00Z",
	})

	msg, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if msg.ChannelName != "" {
		t.Fatalf("ChannelName = %q, want empty", msg.ChannelName)
	}
}

func TestMessageRepositoryChildren(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	seedMessage(t, database, messageRow{id: 1, senderID: "forge", createdAt: "2026-01-29T10:00:00Z"})
	// Direct reply via parent_id.
	seedMessage(t, database, messageRow{id: 2, senderID: "clu", parentID: ptr(1), createdAt: "2026-01-29T10:02:00Z"})
	// Thread-only reply: thread_id without parent_id attaches under the root.
	seedMessage(t, database, messageRow{id: 3, senderID: "nova", threadID: ptr(1), createdAt: "2026-01-29T10:01:00Z"})
	// Thread member with a parent elsewhere is not a direct child of the root.
	seedMessage(t, database, messageRow{id: 4, senderID: "tex", parentID: ptr(2), threadID: ptr(1), createdAt: "2026-01-29T10:03:00Z"})

	children, err := repo.Children(ctx, 1)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}

	// Ordered by raw created_at: 3 before 2.
	if len(children) != 2 || children[0].ID != 3 || children[1].ID != 2 {
		ids := make([]int64, len(children))
		for i, c := range children {
			ids[i] = c.ID
		}
		t.Fatalf("children ids = %v, want [3 2]", ids)
	}
}

func TestMessageRepositoryChildrenEmpty(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	seedMessage(t, database, messageRow{id: 1, senderID: "forge", createdAt: "2026-01-29T10:00:00Z"})

	children, err := repo.Children(ctx, 1)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected no children, got %d", len(children))
	}
}

func TestMessageRepositoryChildrenExcludesSelf(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	// A root whose thread_id points at itself must not list itself.
	seedMessage(t, database, messageRow{id: 1, senderID: "forge", threadID: ptr(1), createdAt: "2026-01-29T10:00:00Z"})
	seedMessage(t, database, messageRow{id: 2, senderID: "clu", threadID: ptr(1), createdAt: "2026-01-29T10:01:00Z"})

	children, err := repo.Children(ctx, 1)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 1 || children[0].ID != 2 {
		t.Fatalf("unexpected children: %+v", children)
	}
}

func TestMessageRepositoryRootIDsByContent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	seedMessage(t, database, messageRow{id: 1, content: "consciousness kickoff", senderID: "forge", createdAt: "2026-01-29T10:00:00Z"})
	seedMessage(t, database, messageRow{id: 2, content: "more consciousness talk", senderID: "clu", parentID: ptr(1), threadID: ptr(1), createdAt: "2026-01-29T10:01:00Z"})
	seedMessage(t, database, messageRow{id: 3, content: "unrelated", senderID: "nova", createdAt: "2026-01-29T10:02:00Z"})

	roots, err := repo.RootIDsByContent(ctx, "consciousness", 10)
	if err != nil {
		t.Fatalf("RootIDsByContent: %v", err)
	}
	// Both matches collapse to root 1.
	if len(roots) != 1 || roots[0] != 1 {
		t.Fatalf("roots = %v, want [1]", roots)
	}

	none, err := repo.RootIDsByContent(ctx, "no such topic", 10)
	if err != nil {
		t.Fatalf("RootIDsByContent: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no roots, got %v", none)
	}
}

func TestMessageRepositoryRootIDsBySender(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	seedMessage(t, database, messageRow{id: 1, senderID: "forge", createdAt: "2026-01-29T10:00:00Z"})
	seedMessage(t, database, messageRow{id: 2, senderID: "clu", parentID: ptr(1), threadID: ptr(1), createdAt: "2026-01-29T10:01:00Z"})
	seedMessage(t, database, messageRow{id: 3, senderID: "nova", createdAt: "2026-01-29T10:02:00Z"})

	roots, err := repo.RootIDsBySender(ctx, "clu", 10)
	if err != nil {
		t.Fatalf("RootIDsBySender: %v", err)
	}
	if len(roots) != 1 || roots[0] != 1 {
		t.Fatalf("roots = %v, want [1]", roots)
	}
}

func TestMessageRepositoryCandidateRootIDs(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	// Standalone message, a self-referencing thread root, and two replies.
	seedMessage(t, database, messageRow{id: 1, senderID: "forge", createdAt: "2026-01-29T10:00:00Z"})
	seedMessage(t, database, messageRow{id: 2, senderID: "clu", threadID: ptr(2), createdAt: "2026-01-29T10:01:00Z"})
	seedMessage(t, database, messageRow{id: 3, senderID: "nova", parentID: ptr(1), createdAt: "2026-01-29T10:02:00Z"})
	seedMessage(t, database, messageRow{id: 4, senderID: "tex", threadID: ptr(2), createdAt: "2026-01-29T10:03:00Z"})

	roots, err := repo.CandidateRootIDs(ctx, 10)
	if err != nil {
		t.Fatalf("CandidateRootIDs: %v", err)
	}

	// Newest first: 2 then 1.
	if len(roots) != 2 || roots[0] != 2 || roots[1] != 1 {
		t.Fatalf("roots = %v, want [2 1]", roots)
	}
}

func TestMessageRepositoryStats(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	seedChannel(t, database, "ch-1", "general")
	seedMessage(t, database, messageRow{id: 1, senderID: "forge", channelID: "ch-1", createdAt: "2026-01-29T10:00:00Z"})
	seedMessage(t, database, messageRow{id: 2, senderID: "clu", channelID: "ch-1", parentID: ptr(1), createdAt: "2026-01-29T10:05:00Z"})
	seedMessage(t, database, messageRow{id: 3, senderID: "forge", channelID: "ch-1", parentID: ptr(1), createdAt: "2026-01-29T10:10:00Z"})

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalMessages != 3 || stats.ReplyMessages != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.UniqueSenders != 2 || stats.Channels != 1 {
		t.Fatalf("unexpected sender/channel counts: %+v", stats)
	}
	if stats.EarliestMessage == nil || *stats.EarliestMessage != "2026-01-29T10:00:00Z" {
		t.Fatalf("unexpected earliest: %v", stats.EarliestMessage)
	}
	if stats.LatestMessage == nil || *stats.LatestMessage != "2026-01-29T10:10:00Z" {
		t.Fatalf("unexpected latest: %v", stats.LatestMessage)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewMessageRepository(database)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalMessages != 0 || stats.EarliestMessage != nil || stats.LatestMessage != nil {
		t.Fatalf("unexpected stats for empty store: %+v", stats)
	}
}
