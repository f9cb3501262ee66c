package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interview/pkg/interview"
	redisstore "github.com/artem13815/interview/pkg/storage/redis"
)

// Runs against a real server: TEST_REDIS_URL=redis://localhost:6379/15
func newRepo(t *testing.T) *SessionRepository {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := redisstore.Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRepository(client)
}

func TestSessionRepository(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	t.Cleanup(func() { repo.client.Del(context.Background(), listKey(owner), dataKey(owner)) })

	a := interview.SessionSummary{ID: uuid.New(), OwnerID: owner, Score: 30, Status: interview.StatusCompleted}
	b := interview.SessionSummary{ID: uuid.New(), OwnerID: owner, Score: 60, Status: interview.StatusCompleted}
	require.NoError(t, repo.Append(ctx, a))
	require.NoError(t, repo.Append(ctx, b))

	all, err := repo.ListAll(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	a.Score = 45
	require.NoError(t, repo.Append(ctx, a))
	all, err = repo.ListAll(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 45, all[0].Score)

	got, err := repo.GetByID(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Score)

	_, err = repo.GetByID(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, interview.ErrNotFound)
}

func TestKeys(t *testing.T) {
	owner := uuid.MustParse("6f1c1a52-4bd4-4a33-9e52-8b1b1f0f0a01")
	assert.Equal(t, "interview_results:6f1c1a52-4bd4-4a33-9e52-8b1b1f0f0a01", listKey(owner))
	assert.Equal(t, "interview_results:6f1c1a52-4bd4-4a33-9e52-8b1b1f0f0a01:data", dataKey(owner))
}
