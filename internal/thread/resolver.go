// Package thread reconstructs conversation threads from the comms store.
package thread

import (
	"context"
	"errors"

	"github.com/teambrain/threadctl/internal/db"
	"github.com/teambrain/threadctl/internal/models"
)

// resolver fronts the message repository with a per-reconstruction id cache.
// Within one reconstruction every lookup of the same id returns the same
// *models.Message instance, which the traversal's visited checks and depth
// assignment rely on. A resolver must not be shared across reconstructions:
// depth mutation is traversal-specific.
type resolver struct {
	repo  *db.MessageRepository
	cache map[int64]*models.Message
}

func newResolver(repo *db.MessageRepository) *resolver {
	return &resolver{
		repo:  repo,
		cache: make(map[int64]*models.Message),
	}
}

// message returns the message with the given id, or db.ErrMessageNotFound.
func (r *resolver) message(ctx context.Context, id int64) (*models.Message, error) {
	if msg, ok := r.cache[id]; ok {
		return msg, nil
	}
	msg, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache[id] = msg
	return msg, nil
}

// children returns the direct replies to id in stored chronological order.
// Rows already materialized in this reconstruction are swapped for their
// cached instances so object identity holds across lookups.
func (r *resolver) children(ctx context.Context, id int64) ([]*models.Message, error) {
	fetched, err := r.repo.Children(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Message, 0, len(fetched))
	for _, msg := range fetched {
		if cached, ok := r.cache[msg.ID]; ok {
			out = append(out, cached)
			continue
		}
		r.cache[msg.ID] = msg
		out = append(out, msg)
	}
	return out, nil
}

// parent resolves the message's ancestor reference: the parent link when
// present, otherwise the thread link when it points somewhere other than the
// message itself. Returns nil with no error when neither applies, or when
// the referenced ancestor does not exist in the store (dangling reference).
func (r *resolver) parent(ctx context.Context, msg *models.Message) (*models.Message, error) {
	var parentID int64
	switch {
	case msg.ParentID != nil:
		parentID = *msg.ParentID
	case msg.ThreadID != nil && *msg.ThreadID != msg.ID:
		parentID = *msg.ThreadID
	default:
		return nil, nil
	}

	parent, err := r.message(ctx, parentID)
	if err != nil {
		if errors.Is(err, db.ErrMessageNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parent, nil
}
