package health

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Report is one pass over every checker.
type Report struct {
	// Checks maps a checker name to "ok" or the error text.
	Checks map[string]string
	// Err is the first failure in name order, nil when everything answered.
	Err error
}

func (r Report) Ready() bool { return r.Err == nil }

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
	Probe(ctx context.Context) Report
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers. Без чекеров (memory) сервис всегда готов.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

func (s *service) Ready(ctx context.Context) error {
	return s.Probe(ctx).Err
}

// Probe runs the checkers concurrently.
func (s *service) Probe(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		failed = map[string]error{}
		checks = make(map[string]string, len(s.checkers))
	)
	var g errgroup.Group
	for _, ch := range s.checkers {
		g.Go(func() error {
			err := ch.Check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[ch.Name()] = err
				checks[ch.Name()] = err.Error()
			} else {
				checks[ch.Name()] = "ok"
			}
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Checks: checks}
	if len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for name := range failed {
			names = append(names, name)
		}
		sort.Strings(names)
		rep.Err = fmt.Errorf("%s: %w", names[0], failed[names[0]])
	}
	return rep
}
