package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/teambrain/threadctl/internal/models"
)

// Message repository errors.
var (
	ErrMessageNotFound = errors.New("message not found")
)

// MessageRepository handles read access to the messages table.
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `
	m.id, m.content, m.sender_id, m.sender_name, m.channel_id,
	m.parent_id, m.thread_id, m.created_at, m.message_type,
	c.name AS channel_name`

// Get retrieves a message by id along with its channel's display name.
// Returns ErrMessageNotFound when the id does not exist.
func (r *MessageRepository) Get(ctx context.Context, id int64) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		LEFT JOIN channels c ON m.channel_id = c.id
		WHERE m.id = ?
	`, id)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to load message %d: %w", id, err)
	}
	return msg, nil
}

// Children retrieves the direct replies to a message, ordered by the raw
// stored created_at value. A child is a message whose parent_id matches, or
// one whose thread_id matches while it has no parent_id of its own (replies
// that only carry a thread reference attach directly under the root).
// Returns an empty slice, not an error, when there are none.
func (r *MessageRepository) Children(ctx context.Context, id int64) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		LEFT JOIN channels c ON m.channel_id = c.id
		WHERE m.parent_id = ?
		   OR (m.thread_id = ? AND m.parent_id IS NULL AND m.id != ?)
		ORDER BY m.created_at
	`, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of %d: %w", id, err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// RootIDsByContent finds the thread-root ids of messages whose content
// contains the given substring, newest matches first.
func (r *MessageRepository) RootIDsByContent(ctx context.Context, substring string, limit int) ([]int64, error) {
	return r.rootIDs(ctx, `
		SELECT DISTINCT COALESCE(m.thread_id, m.id) AS root_id
		FROM messages m
		WHERE m.content LIKE ?
		ORDER BY m.created_at DESC
		LIMIT ?
	`, "%"+substring+"%", limit)
}

// RootIDsBySender finds the thread-root ids of messages sent by anyone whose
// sender id or display name contains the given substring, newest first.
func (r *MessageRepository) RootIDsBySender(ctx context.Context, substring string, limit int) ([]int64, error) {
	pattern := "%" + substring + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT COALESCE(m.thread_id, m.id) AS root_id
		FROM messages m
		WHERE m.sender_id LIKE ? OR m.sender_name LIKE ?
		ORDER BY m.created_at DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query roots by sender: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

// CandidateRootIDs finds messages that look like thread origins: no parent
// and no thread reference, or a thread reference pointing at themselves.
// Newest first.
func (r *MessageRepository) CandidateRootIDs(ctx context.Context, limit int) ([]int64, error) {
	return r.rootIDs(ctx, `
		SELECT DISTINCT m.id
		FROM messages m
		WHERE (m.parent_id IS NULL AND m.thread_id IS NULL)
		   OR m.thread_id = m.id
		ORDER BY m.created_at DESC
		LIMIT ?
	`, limit)
}

func (r *MessageRepository) rootIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query root ids: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

// Stats holds store-wide statistics.
type Stats struct {
	TotalMessages   int64   `json:"total_messages"`
	ReplyMessages   int64   `json:"reply_messages"`
	UniqueSenders   int64   `json:"unique_senders"`
	Channels        int64   `json:"channels"`
	EarliestMessage *string `json:"earliest_message"`
	LatestMessage   *string `json:"latest_message"`
}

// Stats computes store-wide statistics.
func (r *MessageRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM messages`, &stats.TotalMessages},
		{`SELECT COUNT(*) FROM messages WHERE parent_id IS NOT NULL`, &stats.ReplyMessages},
		{`SELECT COUNT(DISTINCT sender_id) FROM messages`, &stats.UniqueSenders},
		{`SELECT COUNT(*) FROM channels`, &stats.Channels},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
	}

	var earliest, latest sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MIN(created_at), MAX(created_at) FROM messages`,
	).Scan(&earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("failed to compute time range: %w", err)
	}
	if earliest.Valid {
		stats.EarliestMessage = &earliest.String
	}
	if latest.Valid {
		stats.LatestMessage = &latest.String
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var msg models.Message
	var parentID, threadID sql.NullInt64
	var channelName sql.NullString
	var messageType string

	if err := row.Scan(
		&msg.ID,
		&msg.Content,
		&msg.SenderID,
		&msg.SenderName,
		&msg.ChannelID,
		&parentID,
		&threadID,
		&msg.CreatedAt,
		&messageType,
		&channelName,
	); err != nil {
		return nil, err
	}

	if msg.SenderName == "" {
		msg.SenderName = msg.SenderID
	}
	msg.Type = models.MessageType(messageType)
	if parentID.Valid {
		msg.ParentID = &parentID.Int64
	}
	if threadID.Valid {
		msg.ThreadID = &threadID.Int64
	}
	if channelName.Valid {
		msg.ChannelName = channelName.String
	}
	msg.Mentions = models.ExtractMentions(msg.Content)

	return &msg, nil
}

func collectMessages(rows *sql.Rows) ([]*models.Message, error) {
	messages := []*models.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

func collectIDs(rows *sql.Rows) ([]int64, error) {
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}
	return ids, nil
}
