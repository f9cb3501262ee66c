package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/artem13815/interview/pkg/interview"
)

const keyPrefix = "interview_results"

// SessionRepository keeps each owner's history as a newest-first list of
// session ids plus a hash of the encoded summaries.
type SessionRepository struct {
	client goredis.UniversalClient
}

func NewSessionRepository(client goredis.UniversalClient) *SessionRepository {
	return &SessionRepository{client: client}
}

func listKey(owner uuid.UUID) string { return fmt.Sprintf("%s:%s", keyPrefix, owner) }
func dataKey(owner uuid.UUID) string { return fmt.Sprintf("%s:%s:data", keyPrefix, owner) }

func (r *SessionRepository) Append(ctx context.Context, s interview.SessionSummary) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	id := s.ID.String()
	_, err = r.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, dataKey(s.OwnerID), id, body)
		p.LRem(ctx, listKey(s.OwnerID), 0, id)
		p.LPush(ctx, listKey(s.OwnerID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]interview.SessionSummary, error) {
	ids, err := r.client.LRange(ctx, listKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := []interview.SessionSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	vals, err := r.client.HMGet(ctx, dataKey(ownerID), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// id without body: skip it
			continue
		}
		var s interview.SessionSummary
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", ids[i], err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (interview.SessionSummary, error) {
	raw, err := r.client.HGet(ctx, dataKey(ownerID), id.String()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return interview.SessionSummary{}, interview.ErrNotFound
		}
		return interview.SessionSummary{}, fmt.Errorf("get session: %w", err)
	}
	var s interview.SessionSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return interview.SessionSummary{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}
