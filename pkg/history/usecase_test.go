package history

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/repository/memory"
)

func seed(t *testing.T, owner uuid.UUID, scores ...int) interview.SessionRepository {
	t.Helper()
	repo := memory.NewSessionRepository()
	for _, s := range scores {
		require.NoError(t, repo.Append(context.Background(), interview.SessionSummary{
			ID: uuid.New(), OwnerID: owner, Score: s, Status: interview.StatusCompleted,
		}))
	}
	return repo
}

func TestStats(t *testing.T) {
	owner := uuid.New()
	svc := NewService(seed(t, owner, 70, 85, 90))

	st, err := svc.Stats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Completed: 3, AverageScore: 82}, st)

	empty, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, empty)
}

func TestStatsIgnoresUnfinished(t *testing.T) {
	owner := uuid.New()
	repo := seed(t, owner, 50)
	require.NoError(t, repo.Append(context.Background(), interview.SessionSummary{ID: uuid.New(), OwnerID: owner, Score: 10, Status: "Abandoned"}))

	st, err := NewService(repo).Stats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Completed: 1, AverageScore: 50}, st)
}

func TestList(t *testing.T) {
	owner := uuid.New()
	svc := NewService(seed(t, owner, 10, 20, 30, 40, 50))

	page, err := svc.List(context.Background(), owner, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	// newest first
	assert.Equal(t, 40, page.Items[0].Score)
	assert.Equal(t, 30, page.Items[1].Score)
	assert.Equal(t, 30, page.Stats.AverageScore)

	all, err := svc.List(context.Background(), owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)

	past, err := svc.List(context.Background(), owner, 10, 10)
	require.NoError(t, err)
	assert.NotNil(t, past.Items)
	assert.Empty(t, past.Items)
}

func TestGet(t *testing.T) {
	owner := uuid.New()
	repo := seed(t, owner, 77)
	items, err := repo.ListAll(context.Background(), owner)
	require.NoError(t, err)

	svc := NewService(repo)
	got, err := svc.Get(context.Background(), owner, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 77, got.Score)

	_, err = svc.Get(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, interview.ErrNotFound)
}
