package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/interview/pkg/resume"
)

// Type is the interview format chosen in the setup wizard.
type Type string

const (
	TypeTechnical  Type = "technical"
	TypeBehavioral Type = "behavioral"
	TypeMixed      Type = "mixed"
)

// Category of a single question.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Defaults used when the setup handoff omits a field.
const (
	DefaultPosition        = "Software Developer"
	DefaultDurationMinutes = 30
	StatusCompleted        = "Completed"
)

// UserProfile is the candidate self-description collected by the wizard.
type UserProfile struct {
	ExperienceLevel   string `json:"experienceLevel"`
	Skills            string `json:"skills"`
	Background        string `json:"background"`
	YearsOfExperience string `json:"yearsOfExperience"`
	Education         string `json:"education"`
}

// Configuration is immutable once a session starts.
type Configuration struct {
	Position        string       `json:"position"`
	InterviewType   Type         `json:"interviewType"`
	DurationMinutes int          `json:"duration"`
	UserProfile     UserProfile  `json:"userProfile"`
	ResumeData      *resume.Data `json:"resumeData,omitempty"`
}

// WithDefaults fills the fields the interview screen falls back on.
func (c Configuration) WithDefaults() Configuration {
	c.Position = strings.TrimSpace(c.Position)
	if c.Position == "" {
		c.Position = DefaultPosition
	}
	if c.InterviewType == "" {
		c.InterviewType = TypeMixed
	}
	if c.DurationMinutes == 0 {
		c.DurationMinutes = DefaultDurationMinutes
	}
	return c
}

// Validate checks a configuration after defaults were applied.
func (c Configuration) Validate() error {
	switch c.InterviewType {
	case TypeTechnical, TypeBehavioral, TypeMixed:
	default:
		return ErrValidation(fmt.Sprintf("unknown interview type %q", c.InterviewType))
	}
	if c.DurationMinutes < 0 {
		return ErrValidation("duration must not be negative")
	}
	return nil
}

// Question is produced on demand and embedded into its response record.
type Question struct {
	ID               string     `json:"id"`
	Text             string     `json:"text"`
	Category         Category   `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimit"`
}

// Scores are the four sub-scores, each in [0,100].
type Scores struct {
	Clarity    float64 `json:"clarity"`
	Relevance  float64 `json:"relevance"`
	Depth      float64 `json:"depth"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the feedback attached to one response.
type AnalysisResult struct {
	Scores           Scores    `json:"scores"`
	OverallScore     int       `json:"overallScore"`
	KeyStrengths     []string  `json:"keyStrengths"`
	ImprovementAreas []string  `json:"improvementAreas"`
	Sentiment        Sentiment `json:"sentiment"`
	RedFlags         []string  `json:"redFlags"`
	StandoutPoints   []string  `json:"standoutPoints"`
}

// ResponseRecord is created exactly once per slot and never mutated.
type ResponseRecord struct {
	QuestionID       string         `json:"questionId"`
	QuestionText     string         `json:"questionText"`
	QuestionIndex    int            `json:"questionIndex"`
	UserResponse     string         `json:"userResponse"`
	Analysis         AnalysisResult `json:"analysis"`
	TimeSpentSeconds int            `json:"timeSpent"`
	RecordingSeconds int            `json:"recordingTime"`
	Skipped          bool           `json:"skipped"`
	Timestamp        time.Time      `json:"timestamp"`
}

// SentimentSummary counts responses per sentiment category.
type SentimentSummary struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Report is the aggregated result of one session.
type Report struct {
	OverallScore      int              `json:"overallScore"`
	OverallScores     Scores           `json:"overallScores"`
	Strengths         []string         `json:"strengths"`
	Improvements      []string         `json:"improvements"`
	RedFlags          []string         `json:"redFlags"`
	Standouts         []string         `json:"standouts"`
	SentimentSummary  SentimentSummary `json:"sentimentSummary"`
	PerQuestion       []ResponseRecord `json:"perQuestion"`
	CompletedAt       time.Time        `json:"completedAt"`
	Interviewee       UserProfile      `json:"interviewee"`
	Position          string           `json:"position"`
	InterviewType     Type             `json:"interviewType"`
	TotalQuestions    int              `json:"totalQuestions"`
	InterviewDuration int              `json:"interviewDuration"`
}

// SessionSummary is the record the dashboard history is built from.
type SessionSummary struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"ownerId"`
	Position       string           `json:"position"`
	Type           Type             `json:"type"`
	Date           string           `json:"date"`
	Duration       int              `json:"duration"`
	Score          int              `json:"score"`
	Status         string           `json:"status"`
	TotalQuestions int              `json:"totalQuestions"`
	Responses      []ResponseRecord `json:"responses"`
	Report         Report           `json:"report"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Handoff is what the results view receives when a session ends.
// Exactly one of Report and Error is set.
type Handoff struct {
	Report        *Report          `json:"report,omitempty"`
	Error         string           `json:"error,omitempty"`
	Responses     []ResponseRecord `json:"responses"`
	InterviewData Configuration    `json:"interviewData"`
	SessionID     uuid.UUID        `json:"sessionId"`
	// Persisted is false for minimal reports and failed saves.
	Persisted bool `json:"persisted"`
}

// SessionRepository is the history store port.
type SessionRepository interface {
	// Append puts s in front of the owner's history.
	Append(ctx context.Context, s SessionSummary) error
	// ListAll returns the owner's history, newest first.
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]SessionSummary, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (SessionSummary, error)
}

var ErrNotFound = errors.New("not found")

// ErrValidation is a simple input validation error.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
