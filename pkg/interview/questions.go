package interview

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// QuestionProvider returns the question for a slot.
type QuestionProvider interface {
	NextQuestion(ctx context.Context, cfg Configuration, index int, prior []ResponseRecord) (Question, error)
}

const questionTimeLimitSeconds = 120

// Pools are the question texts per category.
type Pools struct {
	Technical  []string `yaml:"technical"`
	Behavioral []string `yaml:"behavioral"`
}

// DefaultPools is the built-in question set.
func DefaultPools() Pools {
	return Pools{
		Technical: []string{
			"Walk me through how you would design a scalable web application.",
			"How do you handle state management in React applications?",
			"Explain the difference between SQL and NoSQL databases.",
			"How would you optimize the performance of a slow-loading website?",
			"Describe your approach to testing and debugging code.",
			"What's your experience with cloud services and deployment?",
		},
		Behavioral: []string{
			"Tell me about a challenging project you worked on and how you overcame obstacles.",
			"Describe a time when you had to work with a difficult team member.",
			"How do you prioritize tasks when you have multiple deadlines?",
			"Tell me about a mistake you made and what you learned from it.",
			"Describe a situation where you had to learn something completely new.",
			"How do you handle feedback and criticism?",
		},
	}
}

// LoadPools reads a YAML question file with `technical` and `behavioral` lists.
func LoadPools(filename string) (Pools, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Pools{}, fmt.Errorf("read question file %s: %w", filename, err)
	}
	var p Pools
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pools{}, fmt.Errorf("parse question file: %w", err)
	}
	if err := p.validate(); err != nil {
		return Pools{}, fmt.Errorf("validate question file: %w", err)
	}
	return p, nil
}

func (p Pools) validate() error {
	if len(p.Technical) == 0 {
		return fmt.Errorf("technical pool must not be empty")
	}
	if len(p.Behavioral) == 0 {
		return fmt.Errorf("behavioral pool must not be empty")
	}
	for i, q := range p.Technical {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("technical question %d is empty", i)
		}
	}
	for i, q := range p.Behavioral {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("behavioral question %d is empty", i)
		}
	}
	return nil
}

type poolEntry struct {
	text     string
	category Category
}

// QuestionBank selects questions deterministically by interview type and index.
type QuestionBank struct {
	technical  []poolEntry
	behavioral []poolEntry
	mixed      []poolEntry
	delay      time.Duration
}

// NewQuestionBank builds a provider over pools. delay simulates the
// generation latency and may be zero.
func NewQuestionBank(p Pools, delay time.Duration) (*QuestionBank, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	b := &QuestionBank{delay: delay}
	for _, t := range p.Technical {
		b.technical = append(b.technical, poolEntry{text: t, category: CategoryTechnical})
	}
	for _, t := range p.Behavioral {
		b.behavioral = append(b.behavioral, poolEntry{text: t, category: CategoryBehavioral})
	}
	// even slots technical, odd slots behavioral
	n := max(len(b.technical), len(b.behavioral))
	for i := 0; i < n; i++ {
		b.mixed = append(b.mixed, b.technical[i%len(b.technical)], b.behavioral[i%len(b.behavioral)])
	}
	return b, nil
}

func (b *QuestionBank) NextQuestion(ctx context.Context, cfg Configuration, index int, _ []ResponseRecord) (Question, error) {
	if index < 0 {
		return Question{}, fmt.Errorf("question index %d out of range", index)
	}
	if err := sleep(ctx, b.delay); err != nil {
		return Question{}, err
	}
	var pool []poolEntry
	switch cfg.InterviewType {
	case TypeTechnical:
		pool = b.technical
	case TypeBehavioral:
		pool = b.behavioral
	default:
		pool = b.mixed
	}
	e := pool[index%len(pool)]
	return Question{
		ID:               fmt.Sprintf("q_%d", index+1),
		Text:             e.text,
		Category:         e.category,
		Difficulty:       difficultyFor(cfg.UserProfile.ExperienceLevel),
		TimeLimitSeconds: questionTimeLimitSeconds,
	}, nil
}

func difficultyFor(level string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "entry":
		return DifficultyEasy
	case "senior":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
