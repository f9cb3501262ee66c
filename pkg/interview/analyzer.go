package interview

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/artem13815/interview/pkg/nlp"
)

// Analyzer scores one response.
type Analyzer interface {
	Analyze(ctx context.Context, q Question, response string) (AnalysisResult, error)
}

// RandSource is the jitter source of the confidence sub-score; values in [0,1).
type RandSource interface {
	Float64() float64
}

var (
	exampleMarkers = []string{"example", "experience", "project", "time when"}
	technicalTerms = []string{"react", "javascript", "database", "api", "framework", "algorithm"}
)

// HeuristicAnalyzer is a deterministic word-count/keyword heuristic with a
// single random jitter on confidence.
type HeuristicAnalyzer struct {
	mu    sync.Mutex
	rnd   RandSource
	delay time.Duration
}

// NewHeuristicAnalyzer returns an analyzer. A nil rnd uses a time seeded PCG.
func NewHeuristicAnalyzer(rnd RandSource, delay time.Duration) *HeuristicAnalyzer {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &HeuristicAnalyzer{rnd: rnd, delay: delay}
}

func (a *HeuristicAnalyzer) Analyze(ctx context.Context, q Question, response string) (AnalysisResult, error) {
	if err := sleep(ctx, a.delay); err != nil {
		return AnalysisResult{}, err
	}
	a.mu.Lock()
	jitter := a.rnd.Float64()
	a.mu.Unlock()
	return analyze(q, response, jitter), nil
}

func analyze(q Question, response string, jitter float64) AnalysisResult {
	wordCount := nlp.WordCount(response)
	hasExamples := nlp.ContainsAnyFold(response, exampleMarkers)
	hasTechnical := nlp.ContainsAnyFold(response, technicalTerms)
	technicalQuestion := q.Category == CategoryTechnical

	clarity := clamp(20, 100, float64(wordCount*2)+bonus(hasExamples, 20))
	relevanceBase := 50.0
	if technicalQuestion && hasTechnical {
		relevanceBase = 80
	}
	relevance := clamp(30, 100, relevanceBase+bonus(hasExamples, 20))
	depth := clamp(20, 100, float64(wordCount)*1.5+bonus(hasExamples, 30))
	confidence := clamp(40, 100, 60+jitter*40)

	res := AnalysisResult{
		Scores: Scores{
			Clarity:    clarity,
			Relevance:  relevance,
			Depth:      depth,
			Confidence: confidence,
		},
		OverallScore:     int(math.Round((clarity + relevance + depth + confidence) / 4)),
		KeyStrengths:     []string{},
		ImprovementAreas: []string{},
		RedFlags:         []string{},
		StandoutPoints:   []string{},
	}

	if hasExamples {
		res.KeyStrengths = append(res.KeyStrengths, "Provided concrete examples")
	}
	if hasTechnical {
		res.KeyStrengths = append(res.KeyStrengths, "Used relevant technical terminology")
	}
	if wordCount > 50 {
		res.KeyStrengths = append(res.KeyStrengths, "Comprehensive response")
	}
	res.KeyStrengths = append(res.KeyStrengths, "Clear communication")

	if wordCount < 30 {
		res.ImprovementAreas = append(res.ImprovementAreas, "Provide more detailed responses")
	}
	if !hasExamples {
		res.ImprovementAreas = append(res.ImprovementAreas, "Include specific examples from experience")
	}
	if !hasTechnical && technicalQuestion {
		res.ImprovementAreas = append(res.ImprovementAreas, "Use more technical terminology")
	}

	switch {
	case wordCount > 40:
		res.Sentiment = SentimentPositive
	case wordCount > 20:
		res.Sentiment = SentimentNeutral
	default:
		res.Sentiment = SentimentNegative
	}

	if wordCount < 10 {
		res.RedFlags = append(res.RedFlags, "Very brief response")
	}
	if hasExamples && wordCount > 60 {
		res.StandoutPoints = append(res.StandoutPoints, "Well-structured response with examples")
	}
	return res
}

// SkippedAnalysis is substituted for a skipped question; the analyzer never sees it.
func SkippedAnalysis() AnalysisResult {
	return AnalysisResult{
		Scores:           Scores{},
		OverallScore:     0,
		KeyStrengths:     []string{},
		ImprovementAreas: []string{"Question was skipped"},
		Sentiment:        SentimentNeutral,
		RedFlags:         []string{"No response provided"},
		StandoutPoints:   []string{},
	}
}

func bonus(ok bool, v float64) float64 {
	if ok {
		return v
	}
	return 0
}

func clamp(lo, hi, v float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
