package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/interview/pkg/interview"
)

// SessionRepository keeps the history in process memory.
type SessionRepository struct {
	mu      sync.RWMutex
	byOwner map[uuid.UUID][]interview.SessionSummary
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{byOwner: make(map[uuid.UUID][]interview.SessionSummary)}
}

func (r *SessionRepository) Append(ctx context.Context, s interview.SessionSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byOwner[s.OwnerID]
	next := make([]interview.SessionSummary, 0, len(list)+1)
	next = append(next, s)
	for _, it := range list {
		// last writer wins
		if it.ID != s.ID {
			next = append(next, it)
		}
	}
	r.byOwner[s.OwnerID] = next
	return nil
}

func (r *SessionRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]interview.SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]interview.SessionSummary{}, r.byOwner[ownerID]...), nil
}

func (r *SessionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (interview.SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return interview.SessionSummary{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.byOwner[ownerID] {
		if it.ID == id {
			return it, nil
		}
	}
	return interview.SessionSummary{}, interview.ErrNotFound
}
