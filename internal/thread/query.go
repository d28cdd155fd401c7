package thread

import (
	"context"
	"errors"
	"sort"

	"github.com/teambrain/threadctl/internal/db"
	"github.com/teambrain/threadctl/internal/models"
)

const defaultQueryLimit = 50

// Criteria defines the thresholds for a significant-thread scan.
type Criteria struct {
	// MinDepth is the minimum reply depth.
	MinDepth int

	// MinMessages is the minimum message count.
	MinMessages int

	// MinParticipants is the minimum number of distinct senders.
	MinParticipants int

	// Limit caps how many threads are returned.
	Limit int
}

// FindByTopic returns the threads containing at least one message whose
// content includes the given substring. Duplicate roots across many matching
// messages collapse to a single thread. Returns an empty slice, never an
// error, when nothing matches.
func (r *Reconstructor) FindByTopic(ctx context.Context, topic string, limit int) ([]*models.Thread, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	// Over-fetch to absorb duplicate roots across matching messages.
	rootIDs, err := r.repo.RootIDsByContent(ctx, topic, limit*2)
	if err != nil {
		return nil, err
	}
	return r.reconstructRoots(ctx, rootIDs, limit)
}

// FindByParticipant returns the threads in which a sender matching the given
// substring (against sender id or display name) took part.
func (r *Reconstructor) FindByParticipant(ctx context.Context, participant string, limit int) ([]*models.Thread, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	rootIDs, err := r.repo.RootIDsBySender(ctx, participant, limit*2)
	if err != nil {
		return nil, err
	}
	return r.reconstructRoots(ctx, rootIDs, limit)
}

// ScanSignificant reconstructs candidate thread roots and keeps those that
// meet the criteria, most active first.
func (r *Reconstructor) ScanSignificant(ctx context.Context, criteria Criteria) ([]*models.Thread, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	// Candidates are over-fetched heavily since most will not pass the
	// thresholds.
	candidates, err := r.repo.CandidateRootIDs(ctx, limit*10)
	if err != nil {
		return nil, err
	}

	significant := []*models.Thread{}
	for _, rootID := range candidates {
		thread, err := r.Reconstruct(ctx, rootID)
		if err != nil {
			if errors.Is(err, db.ErrMessageNotFound) {
				continue
			}
			return nil, err
		}
		if thread.Depth() >= criteria.MinDepth &&
			thread.MessageCount() >= criteria.MinMessages &&
			len(thread.Participants()) >= criteria.MinParticipants {
			significant = append(significant, thread)
			if len(significant) >= limit {
				break
			}
		}
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].MessageCount() > significant[j].MessageCount()
	})
	return significant, nil
}

// FindRelated returns threads that share participants with the given thread,
// excluding the thread itself.
func (r *Reconstructor) FindRelated(ctx context.Context, t *models.Thread, limit int) ([]*models.Thread, error) {
	if limit <= 0 {
		limit = 10
	}

	const participantCap = 3
	participants := t.Participants()
	if len(participants) > participantCap {
		participants = participants[:participantCap]
	}

	related := []*models.Thread{}
	seen := map[int64]struct{}{t.Root.ID: {}}
	for _, participant := range participants {
		threads, err := r.FindByParticipant(ctx, participant, 5)
		if err != nil {
			return nil, err
		}
		for _, candidate := range threads {
			if _, ok := seen[candidate.Root.ID]; ok {
				continue
			}
			seen[candidate.Root.ID] = struct{}{}
			related = append(related, candidate)
			if len(related) >= limit {
				return related, nil
			}
		}
	}
	return related, nil
}

// reconstructRoots rebuilds each distinct root up to limit threads. Roots
// whose message has vanished from the store are skipped.
func (r *Reconstructor) reconstructRoots(ctx context.Context, rootIDs []int64, limit int) ([]*models.Thread, error) {
	threads := []*models.Thread{}
	seen := make(map[int64]struct{}, len(rootIDs))

	for _, rootID := range rootIDs {
		if _, ok := seen[rootID]; ok {
			continue
		}
		seen[rootID] = struct{}{}

		thread, err := r.Reconstruct(ctx, rootID)
		if err != nil {
			if errors.Is(err, db.ErrMessageNotFound) {
				continue
			}
			return nil, err
		}
		threads = append(threads, thread)
		if len(threads) >= limit {
			break
		}
	}
	return threads, nil
}
