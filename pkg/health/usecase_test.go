package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                  { return s.name }
func (s stubChecker) Check(_ context.Context) error { return s.err }

func TestReadyWithoutCheckers(t *testing.T) {
	svc := NewService()
	assert.NoError(t, svc.Ready(context.Background()))

	rep := svc.Probe(context.Background())
	assert.True(t, rep.Ready())
	assert.Empty(t, rep.Checks)
}

func TestProbe(t *testing.T) {
	refused := errors.New("connection refused")
	svc := NewService(
		stubChecker{name: "sqlite"},
		stubChecker{name: "redis", err: refused},
		stubChecker{name: "postgres", err: errors.New("timeout")},
	)

	rep := svc.Probe(context.Background())
	assert.False(t, rep.Ready())
	assert.Equal(t, map[string]string{
		"sqlite":   "ok",
		"redis":    "connection refused",
		"postgres": "timeout",
	}, rep.Checks)
	// first failure by name
	assert.EqualError(t, rep.Err, "postgres: timeout")

	err := NewService(stubChecker{name: "redis", err: refused}).Ready(context.Background())
	assert.ErrorIs(t, err, refused)
}
