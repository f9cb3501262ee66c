package interview

import (
	"math"
	"time"

	"github.com/artem13815/interview/pkg/nlp"
)

const maxHighlights = 5

// Aggregate folds the response sequence into a report. Skipped responses
// count toward every mean.
func Aggregate(cfg Configuration, responses []ResponseRecord, completedAt time.Time) (Report, error) {
	if len(responses) == 0 {
		return Report{}, ErrNoResponses
	}

	var total Scores
	var strengths, improvements, redFlags, standouts []string
	var sentiments SentimentSummary
	for _, r := range responses {
		a := r.Analysis
		total.Clarity += a.Scores.Clarity
		total.Relevance += a.Scores.Relevance
		total.Depth += a.Scores.Depth
		total.Confidence += a.Scores.Confidence

		strengths = append(strengths, a.KeyStrengths...)
		improvements = append(improvements, a.ImprovementAreas...)
		redFlags = append(redFlags, a.RedFlags...)
		standouts = append(standouts, a.StandoutPoints...)
		switch a.Sentiment {
		case SentimentPositive:
			sentiments.Positive++
		case SentimentNeutral:
			sentiments.Neutral++
		case SentimentNegative:
			sentiments.Negative++
		}
	}

	n := float64(len(responses))
	means := Scores{
		Clarity:    math.Round(total.Clarity / n),
		Relevance:  math.Round(total.Relevance / n),
		Depth:      math.Round(total.Depth / n),
		Confidence: math.Round(total.Confidence / n),
	}

	return Report{
		OverallScore:      int(math.Round((means.Clarity + means.Relevance + means.Depth + means.Confidence) / 4)),
		OverallScores:     means,
		Strengths:         truncate(nlp.Dedupe(strengths), maxHighlights),
		Improvements:      truncate(nlp.Dedupe(improvements), maxHighlights),
		RedFlags:          nlp.Dedupe(redFlags),
		Standouts:         nlp.Dedupe(standouts),
		SentimentSummary:  sentiments,
		PerQuestion:       append([]ResponseRecord(nil), responses...),
		CompletedAt:       completedAt.UTC(),
		Interviewee:       cfg.UserProfile,
		Position:          cfg.Position,
		InterviewType:     cfg.InterviewType,
		TotalQuestions:    len(responses),
		InterviewDuration: cfg.DurationMinutes,
	}, nil
}

// MinimalReport is used when a session ends before any response was recorded.
func MinimalReport(cfg Configuration, completedAt time.Time) Report {
	return Report{
		OverallScore:      0,
		OverallScores:     Scores{},
		Strengths:         []string{},
		Improvements:      []string{"Complete more interview questions", "Speak clearly into microphone"},
		RedFlags:          []string{"Interview ended prematurely"},
		Standouts:         []string{},
		SentimentSummary:  SentimentSummary{Negative: 1},
		PerQuestion:       []ResponseRecord{},
		CompletedAt:       completedAt.UTC(),
		Interviewee:       cfg.UserProfile,
		Position:          cfg.Position,
		InterviewType:     cfg.InterviewType,
		TotalQuestions:    0,
		InterviewDuration: cfg.DurationMinutes,
	}
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
