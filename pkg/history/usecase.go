package history

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/artem13815/interview/pkg/interview"
)

// Stats are the dashboard counters.
type Stats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	AverageScore int `json:"averageScore"`
}

// Page is one page of the dashboard list.
type Page struct {
	Items []interview.SessionSummary `json:"items"`
	Total int                        `json:"total"`
	Stats Stats                      `json:"stats"`
}

// Service reads the session history. Everything shown comes from the
// repository, nothing is synthesised.
type Service interface {
	List(ctx context.Context, owner uuid.UUID, limit, offset int) (Page, error)
	Get(ctx context.Context, owner, id uuid.UUID) (interview.SessionSummary, error)
	Stats(ctx context.Context, owner uuid.UUID) (Stats, error)
}

type service struct {
	repo interview.SessionRepository
}

func NewService(repo interview.SessionRepository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, owner uuid.UUID, limit, offset int) (Page, error) {
	all, err := s.repo.ListAll(ctx, owner)
	if err != nil {
		return Page{}, err
	}
	page := Page{Total: len(all), Stats: computeStats(all), Items: []interview.SessionSummary{}}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return page, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page.Items = all[offset:end]
	return page, nil
}

func (s *service) Get(ctx context.Context, owner, id uuid.UUID) (interview.SessionSummary, error) {
	return s.repo.GetByID(ctx, owner, id)
}

func (s *service) Stats(ctx context.Context, owner uuid.UUID) (Stats, error) {
	all, err := s.repo.ListAll(ctx, owner)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(all), nil
}

func computeStats(all []interview.SessionSummary) Stats {
	st := Stats{Total: len(all)}
	sum := 0
	for _, it := range all {
		if it.Status != interview.StatusCompleted {
			continue
		}
		st.Completed++
		sum += it.Score
	}
	if st.Completed > 0 {
		st.AverageScore = int(math.Round(float64(sum) / float64(st.Completed)))
	}
	return st
}
