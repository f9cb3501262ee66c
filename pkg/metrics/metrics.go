package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artem13815/interview/pkg/interview"
)

// Metrics holds the Prometheus collectors of the interview service.
type Metrics struct {
	SessionsStarted       *prometheus.CounterVec
	SessionsEnded         *prometheus.CounterVec
	QuestionsAsked        *prometheus.CounterVec
	ResponsesRecorded     *prometheus.CounterVec
	DuplicateTerminations prometheus.Counter
	MediaTimeouts         prometheus.Counter
	AnalysisDuration      *prometheus.HistogramVec
	FinalScore            prometheus.Histogram
}

// New registers the collectors on registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_sessions_started_total",
				Help: "Total number of started interview sessions",
			},
			[]string{"type"},
		),
		SessionsEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_sessions_ended_total",
				Help: "Total number of ended interview sessions",
			},
			[]string{"reason"},
		),
		QuestionsAsked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_questions_asked_total",
				Help: "Total number of questions presented",
			},
			[]string{"category"},
		),
		ResponsesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_responses_recorded_total",
				Help: "Total number of recorded responses",
			},
			[]string{"skipped"},
		),
		DuplicateTerminations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "interview_duplicate_terminations_total",
				Help: "Termination requests suppressed by the ended latch",
			},
		),
		MediaTimeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "interview_media_timeouts_total",
				Help: "Sessions redirected to setup because media was not ready",
			},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interview_analysis_duration_seconds",
				Help:    "Response analysis latency in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 3.0, 5.0, 10.0},
			},
			[]string{"success"},
		),
		FinalScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "interview_final_score",
				Help:    "Overall score of ended sessions",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
}

var _ interview.Recorder = (*Metrics)(nil)

func (m *Metrics) SessionStarted(t interview.Type) {
	m.SessionsStarted.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) SessionEnded(reason interview.EndReason, score int) {
	m.SessionsEnded.WithLabelValues(string(reason)).Inc()
	m.FinalScore.Observe(float64(score))
}

func (m *Metrics) QuestionAsked(c interview.Category) {
	m.QuestionsAsked.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) ResponseRecorded(skipped bool) {
	m.ResponsesRecorded.WithLabelValues(strconv.FormatBool(skipped)).Inc()
}

func (m *Metrics) DuplicateTermination() { m.DuplicateTerminations.Inc() }

func (m *Metrics) MediaTimeout() { m.MediaTimeouts.Inc() }

func (m *Metrics) AnalysisObserved(d time.Duration, err error) {
	m.AnalysisDuration.WithLabelValues(strconv.FormatBool(err == nil)).Observe(d.Seconds())
}
