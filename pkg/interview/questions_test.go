package interview

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBank(t *testing.T) *QuestionBank {
	t.Helper()
	b, err := NewQuestionBank(DefaultPools(), 0)
	require.NoError(t, err)
	return b
}

func TestQuestionBankMixedAlternates(t *testing.T) {
	b := newBank(t)
	pools := DefaultPools()
	cfg := Configuration{InterviewType: TypeMixed}

	for i := 0; i < 10; i++ {
		q, err := b.NextQuestion(context.Background(), cfg, i, nil)
		require.NoError(t, err)
		if i%2 == 0 {
			assert.Equal(t, CategoryTechnical, q.Category, "slot %d", i)
			assert.Equal(t, pools.Technical[(i/2)%len(pools.Technical)], q.Text)
		} else {
			assert.Equal(t, CategoryBehavioral, q.Category, "slot %d", i)
			assert.Equal(t, pools.Behavioral[(i/2)%len(pools.Behavioral)], q.Text)
		}
	}
}

func TestQuestionBankWrapsAround(t *testing.T) {
	b := newBank(t)
	cfg := Configuration{InterviewType: TypeTechnical}

	first, err := b.NextQuestion(context.Background(), cfg, 0, nil)
	require.NoError(t, err)
	wrapped, err := b.NextQuestion(context.Background(), cfg, 6, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Text, wrapped.Text)
	assert.Equal(t, "q_1", first.ID)
	assert.Equal(t, "q_7", wrapped.ID)
	assert.Equal(t, 120, wrapped.TimeLimitSeconds)

	beh, err := b.NextQuestion(context.Background(), Configuration{InterviewType: TypeBehavioral}, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryBehavioral, beh.Category)
	assert.Equal(t, DefaultPools().Behavioral[3], beh.Text)
}

func TestQuestionBankDifficulty(t *testing.T) {
	b := newBank(t)
	cases := map[string]Difficulty{
		"entry":  DifficultyEasy,
		"Senior": DifficultyHard,
		"mid":    DifficultyMedium,
		"":       DifficultyMedium,
	}
	for level, want := range cases {
		q, err := b.NextQuestion(context.Background(), Configuration{UserProfile: UserProfile{ExperienceLevel: level}}, 0, nil)
		require.NoError(t, err)
		assert.Equal(t, want, q.Difficulty, "level %q", level)
	}
}

func TestQuestionBankErrors(t *testing.T) {
	b := newBank(t)
	_, err := b.NextQuestion(context.Background(), Configuration{}, -1, nil)
	assert.Error(t, err)

	slow, err := NewQuestionBank(DefaultPools(), time.Hour)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = slow.NextQuestion(ctx, Configuration{}, 0, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = NewQuestionBank(Pools{Technical: []string{"x"}}, 0)
	assert.Error(t, err)
}

func TestLoadPools(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "questions.yaml")
	require.NoError(t, os.WriteFile(good, []byte("technical:\n  - What is a goroutine?\nbehavioral:\n  - Tell me about a conflict.\n"), 0o600))

	p, err := LoadPools(good)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a goroutine?"}, p.Technical)
	assert.Equal(t, []string{"Tell me about a conflict."}, p.Behavioral)

	blank := filepath.Join(dir, "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("technical:\n  - \" \"\nbehavioral:\n  - ok\n"), 0o600))
	_, err = LoadPools(blank)
	assert.Error(t, err)

	_, err = LoadPools(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
