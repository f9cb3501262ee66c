package interview

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(scores Scores, sentiment Sentiment, strengths, redFlags []string) ResponseRecord {
	return ResponseRecord{Analysis: AnalysisResult{
		Scores:         scores,
		KeyStrengths:   strengths,
		RedFlags:       redFlags,
		Sentiment:      sentiment,
		StandoutPoints: []string{},
	}}
}

func TestAggregateMeansAndRounding(t *testing.T) {
	cfg := Configuration{Position: "SRE", InterviewType: TypeMixed, DurationMinutes: 15}
	responses := []ResponseRecord{
		record(Scores{Clarity: 20, Relevance: 50, Depth: 20, Confidence: 61}, SentimentNegative, nil, nil),
		record(Scores{Clarity: 25, Relevance: 51, Depth: 21, Confidence: 62}, SentimentPositive, nil, nil),
		{Skipped: true, Analysis: SkippedAnalysis()},
	}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r, err := Aggregate(cfg, responses, at)
	require.NoError(t, err)

	// skipped slots count as zeros
	assert.Equal(t, Scores{Clarity: 15, Relevance: 34, Depth: 14, Confidence: 41}, r.OverallScores)
	assert.Equal(t, 26, r.OverallScore)
	assert.Equal(t, SentimentSummary{Positive: 1, Neutral: 1, Negative: 1}, r.SentimentSummary)
	assert.Equal(t, 3, r.TotalQuestions)
	assert.Equal(t, 15, r.InterviewDuration)
	assert.Equal(t, "SRE", r.Position)
	assert.Equal(t, at, r.CompletedAt)
	assert.Len(t, r.PerQuestion, 3)
}

func TestAggregateHighlights(t *testing.T) {
	var responses []ResponseRecord
	for i := 0; i < 4; i++ {
		responses = append(responses, record(Scores{}, SentimentNeutral,
			[]string{"Clear communication", fmt.Sprintf("strength %d", i), fmt.Sprintf("other %d", i)},
			[]string{fmt.Sprintf("flag %d", i), "Very brief response"},
		))
	}
	r, err := Aggregate(Configuration{}, responses, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"Clear communication", "strength 0", "other 0", "strength 1", "other 1"}, r.Strengths)
	// red flags are deduplicated but never truncated
	assert.Equal(t, []string{"flag 0", "Very brief response", "flag 1", "flag 2", "flag 3"}, r.RedFlags)
	assert.Empty(t, r.Improvements)
	assert.Empty(t, r.Standouts)
}

func TestAggregateRejectsEmpty(t *testing.T) {
	_, err := Aggregate(Configuration{}, nil, time.Now())
	assert.ErrorIs(t, err, ErrNoResponses)
}

func TestMinimalReport(t *testing.T) {
	cfg := Configuration{Position: "QA", InterviewType: TypeBehavioral, DurationMinutes: 45, UserProfile: UserProfile{ExperienceLevel: "entry"}}
	r := MinimalReport(cfg, time.Now())

	assert.Equal(t, 0, r.OverallScore)
	assert.Equal(t, Scores{}, r.OverallScores)
	assert.Equal(t, []string{"Interview ended prematurely"}, r.RedFlags)
	assert.Equal(t, []string{"Complete more interview questions", "Speak clearly into microphone"}, r.Improvements)
	assert.Equal(t, SentimentSummary{Negative: 1}, r.SentimentSummary)
	assert.Equal(t, 0, r.TotalQuestions)
	assert.Equal(t, 45, r.InterviewDuration)
	assert.Equal(t, cfg.UserProfile, r.Interviewee)
	assert.NotNil(t, r.PerQuestion)
}
