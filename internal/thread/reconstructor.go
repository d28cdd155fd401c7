package thread

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/teambrain/threadctl/internal/db"
	"github.com/teambrain/threadctl/internal/logging"
	"github.com/teambrain/threadctl/internal/models"
)

// Reconstructor builds complete conversation threads from any message in
// them: backward to the thread origin, then forward through every reply.
type Reconstructor struct {
	repo   *db.MessageRepository
	logger zerolog.Logger
}

// NewReconstructor creates a Reconstructor over the given repository.
func NewReconstructor(repo *db.MessageRepository) *Reconstructor {
	return &Reconstructor{
		repo:   repo,
		logger: logging.Component("thread"),
	}
}

// Reconstruct returns the full thread containing the message with the given
// id. Returns db.ErrMessageNotFound when the id does not exist. Cyclic or
// dangling ancestry is tolerated: the walk terminates at whichever message
// it reaches when the cycle closes, and that message becomes the root.
func (r *Reconstructor) Reconstruct(ctx context.Context, id int64) (*models.Thread, error) {
	res := newResolver(r.repo)

	start, err := res.message(ctx, id)
	if err != nil {
		return nil, err
	}

	root, err := r.findRoot(ctx, res, start)
	if err != nil {
		return nil, err
	}

	thread, err := r.collect(ctx, res, root)
	if err != nil {
		return nil, err
	}

	thread.SortByTime()
	return thread, nil
}

// findRoot walks ancestor references upward until no ancestor remains or a
// previously visited id reappears.
func (r *Reconstructor) findRoot(ctx context.Context, res *resolver, start *models.Message) (*models.Message, error) {
	current := start
	visited := map[int64]struct{}{current.ID: {}}

	for {
		parent, err := res.parent(ctx, current)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		if _, seen := visited[parent.ID]; seen {
			r.logger.Debug().
				Int64("message_id", current.ID).
				Int64("ancestor_id", parent.ID).
				Msg("ancestry cycle detected, treating current message as root")
			break
		}
		visited[parent.ID] = struct{}{}
		current = parent
	}

	return current, nil
}

// collect walks the reply graph breadth-first from the root, assigning each
// message a depth one greater than the message through which it was first
// discovered. Each id is enqueued at most once, so traversal terminates on
// any finite store.
func (r *Reconstructor) collect(ctx context.Context, res *resolver, root *models.Message) (*models.Thread, error) {
	root.Depth = 0
	thread := models.NewThread(root)

	type item struct {
		msg   *models.Message
		depth int
	}
	queue := []item{{msg: root, depth: 0}}
	visited := map[int64]struct{}{root.ID: {}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := res.children(ctx, current.msg.ID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			child.Depth = current.depth + 1
			thread.Add(child)
			visited[child.ID] = struct{}{}
			queue = append(queue, item{msg: child, depth: child.Depth})
		}
	}

	return thread, nil
}
