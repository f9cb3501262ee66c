package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/storage/migrations"
	pgstore "github.com/artem13815/interview/pkg/storage/postgres"
)

// Runs against a real database: TEST_DATABASE_URL=postgres://...
func newRepo(t *testing.T) *SessionRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgstore.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = migrations.Up(ctx, pgstore.SQL(pool), migrations.Postgres)
	require.NoError(t, err)
	return NewSessionRepository(pool)
}

func TestSessionRepository(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	t.Cleanup(func() {
		_, _ = repo.pool.Exec(context.Background(), `DELETE FROM interview_sessions WHERE owner_id = $1`, owner)
	})

	at := time.Now().UTC().Truncate(time.Millisecond)
	a := interview.SessionSummary{ID: uuid.New(), OwnerID: owner, Position: "QA", Type: interview.TypeMixed, Score: 30, Status: interview.StatusCompleted, CreatedAt: at}
	b := interview.SessionSummary{ID: uuid.New(), OwnerID: owner, Position: "QA", Type: interview.TypeMixed, Score: 60, Status: interview.StatusCompleted, CreatedAt: at.Add(time.Second)}
	require.NoError(t, repo.Append(ctx, a))
	require.NoError(t, repo.Append(ctx, b))

	all, err := repo.ListAll(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	got, err := repo.GetByID(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Score)
	assert.Equal(t, interview.TypeMixed, got.Type)

	_, err = repo.GetByID(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, interview.ErrNotFound)
}
