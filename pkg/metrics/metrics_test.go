package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interview/pkg/interview"
)

func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SessionStarted(interview.TypeMixed)
	m.QuestionAsked(interview.CategoryTechnical)
	m.QuestionAsked(interview.CategoryBehavioral)
	m.ResponseRecorded(false)
	m.ResponseRecorded(true)
	m.AnalysisObserved(150*time.Millisecond, nil)
	m.AnalysisObserved(time.Second, errors.New("boom"))
	m.DuplicateTermination()
	m.SessionEnded(interview.ReasonFinish, 72)
	m.MediaTimeout()

	got := gathered(t, reg)
	assert.Equal(t, 1.0, got["interview_sessions_started_total"])
	assert.Equal(t, 2.0, got["interview_questions_asked_total"])
	assert.Equal(t, 2.0, got["interview_responses_recorded_total"])
	assert.Equal(t, 2.0, got["interview_analysis_duration_seconds"])
	assert.Equal(t, 1.0, got["interview_duplicate_terminations_total"])
	assert.Equal(t, 1.0, got["interview_sessions_ended_total"])
	assert.Equal(t, 1.0, got["interview_final_score"])
	assert.Equal(t, 1.0, got["interview_media_timeouts_total"])
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
