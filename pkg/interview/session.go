package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/interview/pkg/events"
	"github.com/artem13815/interview/pkg/speech"
)

// State of a session.
type State string

const (
	StateAwaitingMedia State = "awaiting_media"
	StateActive        State = "active"
	StateEnded         State = "ended"
	StateRedirected    State = "redirected"
)

// EndReason is what triggered termination.
type EndReason string

const (
	ReasonTimer     EndReason = "timer"
	ReasonFinish    EndReason = "finish"
	ReasonCompleted EndReason = "completed"
)

const (
	defaultMediaTimeout   = 5 * time.Second
	defaultTickInterval   = time.Second
	defaultPersistTimeout = 5 * time.Second

	persistFailedMessage = "Failed to generate report"
)

var errAlreadyEnded = errors.New("already ended")

var maxQuestionsByDuration = map[int]int{15: 4, 30: 6, 45: 8, 60: 10}

// MaxQuestions is the number of slots for a duration; unknown durations get
// the shortest format.
func MaxQuestions(durationMinutes int) int {
	if n, ok := maxQuestionsByDuration[durationMinutes]; ok {
		return n
	}
	return 4
}

// InitialTimeSeconds keeps one minute of the slot in reserve.
func InitialTimeSeconds(durationMinutes int) int {
	return max(durationMinutes*60-60, 0)
}

// ReadinessProbe reports whether usable media is available.
type ReadinessProbe interface {
	IsReady() bool
}

// Recorder receives session metrics.
type Recorder interface {
	SessionStarted(t Type)
	SessionEnded(reason EndReason, score int)
	QuestionAsked(c Category)
	ResponseRecorded(skipped bool)
	DuplicateTermination()
	MediaTimeout()
	AnalysisObserved(d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted(Type)                   {}
func (nopRecorder) SessionEnded(EndReason, int)           {}
func (nopRecorder) QuestionAsked(Category)                {}
func (nopRecorder) ResponseRecorded(bool)                 {}
func (nopRecorder) DuplicateTermination()                 {}
func (nopRecorder) MediaTimeout()                         {}
func (nopRecorder) AnalysisObserved(time.Duration, error) {}

// Deps are the collaborators of a session. Questions, Analyzer and Repo are
// required; a nil Media probe means media is always ready.
type Deps struct {
	Questions QuestionProvider
	Analyzer  Analyzer
	Repo      SessionRepository
	Speech    speech.Service
	Media     ReadinessProbe
	Events    events.Publisher
	Metrics   Recorder
	Logger    *slog.Logger
	Now       func() time.Time
}

// Options tune the timers. A negative TickInterval disables the ticker so
// Tick must be driven by the caller.
type Options struct {
	MediaTimeout   time.Duration
	TickInterval   time.Duration
	PersistTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MediaTimeout <= 0 {
		o.MediaTimeout = defaultMediaTimeout
	}
	if o.TickInterval == 0 {
		o.TickInterval = defaultTickInterval
	}
	if o.PersistTimeout <= 0 {
		o.PersistTimeout = defaultPersistTimeout
	}
	return o
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID            uuid.UUID        `json:"id"`
	OwnerID       uuid.UUID        `json:"ownerId"`
	State         State            `json:"state"`
	TimeRemaining int              `json:"timeRemaining"`
	QuestionIndex int              `json:"questionIndex"`
	MaxQuestions  int              `json:"maxQuestions"`
	Question      *Question        `json:"question,omitempty"`
	Responses     []ResponseRecord `json:"responses"`
	Draft         string           `json:"draft"`
	Interim       string           `json:"interim"`
	Recording     bool             `json:"recording"`
	Analyzing     bool             `json:"analyzing"`
	Ended         bool             `json:"ended"`
	Redirected    bool             `json:"redirected"`
	Configuration Configuration    `json:"interviewData"`
}

// Session drives one interview. All methods are safe for concurrent use.
type Session struct {
	id           uuid.UUID
	owner        uuid.UUID
	cfg          Configuration
	deps         Deps
	opts         Options
	log          *slog.Logger
	maxQuestions int
	done         chan struct{}

	mu            sync.Mutex
	state         State
	ended         bool
	redirected    bool
	closed        bool
	timeRemaining int
	index         int
	responses     []ResponseRecord
	question      *Question
	questionAt    time.Time
	draft         string
	interim       string
	recording     bool
	recordingFrom time.Time
	recordingSecs int
	analyzing     bool
	stop          chan struct{}
	mediaTimer    *time.Timer
	handoff       *Handoff
}

// ending is the work left after the latch was set under the lock.
type ending struct {
	reason  EndReason
	summary *SessionSummary
	handoff Handoff
}

func NewSession(id, owner uuid.UUID, cfg Configuration, deps Deps, opts Options) (*Session, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Questions == nil || deps.Analyzer == nil || deps.Repo == nil {
		return nil, errors.New("session requires a question provider, an analyzer and a repository")
	}
	if deps.Speech == nil {
		deps.Speech = speech.Nop{}
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = nopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Session{
		id:            id,
		owner:         owner,
		cfg:           cfg,
		deps:          deps,
		opts:          opts.withDefaults(),
		log:           deps.Logger.With("session_id", id.String()),
		maxQuestions:  MaxQuestions(cfg.DurationMinutes),
		done:          make(chan struct{}),
		timeRemaining: InitialTimeSeconds(cfg.DurationMinutes),
		responses:     []ResponseRecord{},
	}, nil
}

func (s *Session) ID() uuid.UUID                { return s.id }
func (s *Session) OwnerID() uuid.UUID           { return s.owner }
func (s *Session) Configuration() Configuration { return s.cfg }
func (s *Session) MaxQuestions() int            { return s.maxQuestions }

// Done is closed once the session ended with a handoff or was redirected.
func (s *Session) Done() <-chan struct{} { return s.done }

// Start enters AwaitingMedia. Ready media activates the session at once,
// otherwise the media timeout is armed.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state != "" {
		s.mu.Unlock()
		return nil
	}
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.state = StateAwaitingMedia
	activated := false
	if s.deps.Media == nil || s.deps.Media.IsReady() {
		s.activateLocked()
		activated = true
	} else {
		s.mediaTimer = time.AfterFunc(s.opts.MediaTimeout, s.mediaTimedOut)
	}
	s.mu.Unlock()

	s.deps.Metrics.SessionStarted(s.cfg.InterviewType)
	s.log.Info("session started", "type", s.cfg.InterviewType, "duration", s.cfg.DurationMinutes, "max_questions", s.maxQuestions)
	if activated {
		s.publish(events.TypeSessionActive, s.timeRemainingPayload())
	}
	return nil
}

// MediaReady activates a session waiting for media.
func (s *Session) MediaReady() error {
	s.mu.Lock()
	if err := s.liveLocked(); err != nil && !errors.Is(err, ErrSessionNotActive) {
		s.mu.Unlock()
		return err
	}
	if s.state == StateActive {
		s.mu.Unlock()
		return nil
	}
	if s.state != StateAwaitingMedia {
		s.mu.Unlock()
		return ErrSessionNotActive
	}
	s.activateLocked()
	s.mu.Unlock()

	s.log.Info("media ready, session active")
	s.publish(events.TypeSessionActive, s.timeRemainingPayload())
	return nil
}

func (s *Session) activateLocked() {
	s.state = StateActive
	if s.mediaTimer != nil {
		s.mediaTimer.Stop()
		s.mediaTimer = nil
	}
	if s.opts.TickInterval > 0 && s.stop == nil {
		s.stop = make(chan struct{})
		go s.runTicker(s.stop, s.opts.TickInterval)
	}
}

func (s *Session) runTicker(stop <-chan struct{}, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.Tick(context.Background())
		}
	}
}

func (s *Session) mediaTimedOut() {
	s.mu.Lock()
	if s.state != StateAwaitingMedia || s.closed {
		s.mu.Unlock()
		return
	}
	s.state = StateRedirected
	s.redirected = true
	s.stopTimersLocked()
	s.mu.Unlock()

	close(s.done)
	s.deps.Metrics.MediaTimeout()
	s.log.Warn("media not ready in time, redirecting to setup", "timeout", s.opts.MediaTimeout)
	s.publish(events.TypeSessionRedirected, s.cfg)
}

// stopTimersLocked stops the ticker and the media timer.
func (s *Session) stopTimersLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.mediaTimer != nil {
		s.mediaTimer.Stop()
		s.mediaTimer = nil
	}
}

// liveLocked reports why the session cannot take input, if it cannot.
func (s *Session) liveLocked() error {
	switch {
	case s.ended:
		return ErrSessionEnded
	case s.redirected:
		return ErrRedirectedToSetup
	case s.closed:
		return ErrSessionClosed
	case s.state != StateActive:
		return ErrSessionNotActive
	}
	return nil
}

// Tick advances the countdown by one second. Reaching zero ends the session.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.liveLocked() != nil {
		s.mu.Unlock()
		return
	}
	if s.deps.Media != nil && !s.deps.Media.IsReady() {
		s.mu.Unlock()
		return
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	remaining := s.timeRemaining
	if remaining > 0 {
		s.mu.Unlock()
		s.publish(events.TypeTimerTick, map[string]int{"timeRemaining": remaining})
		return
	}
	e, err := s.beginEndLocked(ReasonTimer, nil)
	s.mu.Unlock()
	if err != nil {
		return
	}
	s.finishEnd(ctx, e)
}

// CurrentQuestion returns the question of the current slot, loading and
// announcing it on first access.
func (s *Session) CurrentQuestion(ctx context.Context) (Question, error) {
	s.mu.Lock()
	if err := s.liveLocked(); err != nil {
		s.mu.Unlock()
		return Question{}, err
	}
	if s.question != nil {
		q := *s.question
		s.mu.Unlock()
		return q, nil
	}
	index := s.index
	prior := append([]ResponseRecord(nil), s.responses...)
	s.mu.Unlock()

	q, err := s.deps.Questions.NextQuestion(ctx, s.cfg, index, prior)
	if err != nil {
		s.log.Warn("question generation failed", "index", index, "error", err)
		return Question{}, fmt.Errorf("%w: %w", ErrQuestionUnavailable, err)
	}

	s.mu.Lock()
	if err := s.liveLocked(); err != nil {
		s.mu.Unlock()
		return Question{}, err
	}
	if s.index != index {
		s.mu.Unlock()
		return Question{}, ErrSessionEnded
	}
	if s.question != nil {
		// a concurrent load committed first
		q = *s.question
		s.mu.Unlock()
		return q, nil
	}
	s.question = &q
	s.questionAt = s.deps.Now()
	s.mu.Unlock()

	s.deps.Metrics.QuestionAsked(q.Category)
	s.deps.Speech.Speak(q.Text)
	s.publish(events.TypeQuestion, map[string]any{"index": index, "question": q})
	return q, nil
}

// SubmitResponse analyzes text for the current slot and records it. An empty
// text falls back to the recognised transcript.
func (s *Session) SubmitResponse(ctx context.Context, text string) (ResponseRecord, error) {
	s.mu.Lock()
	if err := s.liveLocked(); err != nil {
		s.mu.Unlock()
		return ResponseRecord{}, err
	}
	if s.analyzing {
		s.mu.Unlock()
		return ResponseRecord{}, ErrAnalysisInFlight
	}
	if s.question == nil {
		s.mu.Unlock()
		return ResponseRecord{}, ErrNoQuestion
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = strings.TrimSpace(s.draft)
	}
	if text == "" {
		s.mu.Unlock()
		return ResponseRecord{}, ErrEmptyResponse
	}
	s.analyzing = true
	q := *s.question
	index := s.index
	s.mu.Unlock()

	started := time.Now()
	analysis, err := s.deps.Analyzer.Analyze(ctx, q, text)
	s.deps.Metrics.AnalysisObserved(time.Since(started), err)

	s.mu.Lock()
	s.analyzing = false
	if s.ended || s.closed || s.redirected || s.index != index {
		s.mu.Unlock()
		s.log.Info("discarding late analysis result", "index", index)
		if s.redirected {
			return ResponseRecord{}, ErrRedirectedToSetup
		}
		if s.closed && !s.ended {
			return ResponseRecord{}, ErrSessionClosed
		}
		return ResponseRecord{}, ErrSessionEnded
	}
	if err != nil {
		s.draft = text
		s.mu.Unlock()
		s.log.Warn("analysis failed", "index", index, "error", err)
		return ResponseRecord{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	rec := s.recordLocked(q, text, analysis, false)
	return s.commitLocked(ctx, rec)
}

// SkipQuestion records the current slot as skipped.
func (s *Session) SkipQuestion(ctx context.Context) (ResponseRecord, error) {
	s.mu.Lock()
	if err := s.liveLocked(); err != nil {
		s.mu.Unlock()
		return ResponseRecord{}, err
	}
	if s.analyzing {
		s.mu.Unlock()
		return ResponseRecord{}, ErrAnalysisInFlight
	}
	if s.question == nil {
		s.mu.Unlock()
		return ResponseRecord{}, ErrNoQuestion
	}
	rec := s.recordLocked(*s.question, "", SkippedAnalysis(), true)
	return s.commitLocked(ctx, rec)
}

func (s *Session) recordLocked(q Question, text string, a AnalysisResult, skipped bool) ResponseRecord {
	now := s.deps.Now()
	recSecs := s.recordingSecs
	if s.recording {
		recSecs += int(now.Sub(s.recordingFrom).Seconds())
	}
	return ResponseRecord{
		QuestionID:       q.ID,
		QuestionText:     q.Text,
		QuestionIndex:    s.index,
		UserResponse:     text,
		Analysis:         a,
		TimeSpentSeconds: max(int(now.Sub(s.questionAt).Seconds()), 0),
		RecordingSeconds: recSecs,
		Skipped:          skipped,
		Timestamp:        now.UTC(),
	}
}

// commitLocked appends rec and advances, or on the last slot ends the session
// with rec in one step. It releases the lock.
func (s *Session) commitLocked(ctx context.Context, rec ResponseRecord) (ResponseRecord, error) {
	stopRecognition := s.recording
	s.resetSlotLocked()
	if rec.QuestionIndex+1 >= s.maxQuestions {
		e, err := s.beginEndLocked(ReasonCompleted, &rec)
		s.mu.Unlock()
		if stopRecognition {
			s.deps.Speech.StopRecognition()
		}
		if err == nil {
			s.deps.Metrics.ResponseRecorded(rec.Skipped)
			s.log.Info("response recorded", "index", rec.QuestionIndex, "skipped", rec.Skipped, "score", rec.Analysis.OverallScore)
			// последний ответ публикуем до session.ended
			s.publish(events.TypeResponseRecorded, rec)
			s.finishEnd(ctx, e)
		}
		return rec, nil
	}
	s.responses = append(s.responses, rec)
	s.index++
	s.mu.Unlock()

	if stopRecognition {
		s.deps.Speech.StopRecognition()
	}
	s.deps.Metrics.ResponseRecorded(rec.Skipped)
	s.log.Info("response recorded", "index", rec.QuestionIndex, "skipped", rec.Skipped, "score", rec.Analysis.OverallScore)
	s.publish(events.TypeResponseRecorded, rec)
	return rec, nil
}

func (s *Session) resetSlotLocked() {
	s.question = nil
	s.draft = ""
	s.interim = ""
	s.recording = false
	s.recordingSecs = 0
}

// EndSession is the Finish Now action. Later calls return the first result.
func (s *Session) EndSession(ctx context.Context) (Handoff, error) {
	return s.end(ctx, ReasonFinish, nil)
}

// EndSessionWithResponse ends the session with rec appended to the
// responses, for a final record not yet committed.
func (s *Session) EndSessionWithResponse(ctx context.Context, rec ResponseRecord) (Handoff, error) {
	return s.end(ctx, ReasonCompleted, &rec)
}

func (s *Session) end(ctx context.Context, reason EndReason, extra *ResponseRecord) (Handoff, error) {
	s.mu.Lock()
	e, err := s.beginEndLocked(reason, extra)
	s.mu.Unlock()
	if errors.Is(err, errAlreadyEnded) {
		s.deps.Metrics.DuplicateTermination()
		s.log.Info("session already ended, ignoring termination", "reason", reason)
		return s.awaitResult(ctx)
	}
	if err != nil {
		return Handoff{}, err
	}
	return s.finishEnd(ctx, e), nil
}

// beginEndLocked sets the latch and builds the report. Persisting happens in
// finishEnd, after the lock is released.
func (s *Session) beginEndLocked(reason EndReason, extra *ResponseRecord) (*ending, error) {
	if s.ended {
		return nil, errAlreadyEnded
	}
	switch {
	case s.redirected:
		return nil, ErrRedirectedToSetup
	case s.closed:
		return nil, ErrSessionClosed
	case s.state != StateActive:
		return nil, ErrSessionNotActive
	}
	s.ended = true
	s.state = StateEnded
	s.stopTimersLocked()
	if extra != nil {
		if extra.QuestionIndex >= len(s.responses) {
			s.responses = append(s.responses, *extra)
		} else {
			s.log.Warn("dropping final response for an already recorded slot", "index", extra.QuestionIndex)
		}
	}
	s.resetSlotLocked()

	responses := append([]ResponseRecord{}, s.responses...)
	completedAt := s.deps.Now().UTC()
	e := &ending{reason: reason}

	if len(responses) == 0 {
		r := MinimalReport(s.cfg, completedAt)
		e.handoff = Handoff{Report: &r, Responses: responses, InterviewData: s.cfg, SessionID: s.id}
		return e, nil
	}
	report, err := Aggregate(s.cfg, responses, completedAt)
	if err != nil {
		e.handoff = Handoff{Error: persistFailedMessage, Responses: responses, InterviewData: s.cfg, SessionID: s.id}
		return e, nil
	}
	e.handoff = Handoff{Report: &report, Responses: responses, InterviewData: s.cfg, SessionID: s.id}
	e.summary = &SessionSummary{
		ID:             s.id,
		OwnerID:        s.owner,
		Position:       s.cfg.Position,
		Type:           s.cfg.InterviewType,
		Date:           completedAt.Format(time.DateOnly),
		Duration:       s.cfg.DurationMinutes,
		Score:          report.OverallScore,
		Status:         StatusCompleted,
		TotalQuestions: len(responses),
		Responses:      responses,
		Report:         report,
		CreatedAt:      completedAt,
	}
	return e, nil
}

func (s *Session) finishEnd(ctx context.Context, e *ending) Handoff {
	h := e.handoff
	if e.summary != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PersistTimeout)
		err := s.deps.Repo.Append(pctx, *e.summary)
		cancel()
		if err != nil {
			s.log.Error("failed to persist session", "error", err)
			h = Handoff{Error: persistFailedMessage, Responses: h.Responses, InterviewData: h.InterviewData, SessionID: s.id}
		} else {
			h.Persisted = true
		}
	}

	s.mu.Lock()
	s.handoff = &h
	s.mu.Unlock()
	close(s.done)

	s.deps.Speech.Cancel()
	s.deps.Speech.StopRecognition()
	score := 0
	if h.Report != nil {
		score = h.Report.OverallScore
	}
	s.deps.Metrics.SessionEnded(e.reason, score)
	s.log.Info("session ended", "reason", e.reason, "responses", len(h.Responses), "score", score, "persisted", h.Persisted)
	s.publish(events.TypeSessionEnded, h)
	return h
}

func (s *Session) awaitResult(ctx context.Context) (Handoff, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return Handoff{}, ctx.Err()
	}
	return s.Result()
}

// Result is the handoff for the results view.
func (s *Session) Result() (Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redirected {
		return Handoff{}, ErrRedirectedToSetup
	}
	if s.handoff == nil {
		return Handoff{}, ErrNotEnded
	}
	return *s.handoff, nil
}

// StartRecording starts speech recognition for the current slot.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	if err := s.liveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.recording {
		s.mu.Unlock()
		return nil
	}
	s.recording = true
	s.recordingFrom = s.deps.Now()
	s.mu.Unlock()

	err := s.deps.Speech.StartRecognition(s.HandleTranscript, s.recognitionFailed)
	if err != nil && !errors.Is(err, speech.ErrAlreadyListening) {
		s.mu.Lock()
		s.recording = false
		s.mu.Unlock()
		return fmt.Errorf("start recognition: %w", err)
	}
	return nil
}

// StopRecording stops speech recognition and keeps the draft.
func (s *Session) StopRecording() {
	s.mu.Lock()
	was := s.stopRecordingLocked()
	s.mu.Unlock()
	if was {
		s.deps.Speech.StopRecognition()
	}
}

func (s *Session) stopRecordingLocked() bool {
	if !s.recording {
		return false
	}
	s.recording = false
	s.recordingSecs += int(s.deps.Now().Sub(s.recordingFrom).Seconds())
	return true
}

// HandleTranscript merges a recognition result into the draft.
func (s *Session) HandleTranscript(final, interim string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.liveLocked() != nil {
		return
	}
	if f := strings.TrimSpace(final); f != "" {
		if s.draft == "" {
			s.draft = f
		} else {
			s.draft += " " + f
		}
	}
	s.interim = interim
}

func (s *Session) recognitionFailed(err error) {
	s.mu.Lock()
	s.stopRecordingLocked()
	s.mu.Unlock()
	s.log.Warn("speech recognition error", "error", err)
	s.publish(events.TypeRecognitionError, map[string]string{"error": err.Error()})
}

// Close stops timers and speech. It never ends the session; analysis in
// flight completes and its result is dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimersLocked()
	s.stopRecordingLocked()
	s.mu.Unlock()

	s.deps.Speech.Cancel()
	s.deps.Speech.StopRecognition()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:            s.id,
		OwnerID:       s.owner,
		State:         s.state,
		TimeRemaining: s.timeRemaining,
		QuestionIndex: s.index,
		MaxQuestions:  s.maxQuestions,
		Responses:     append([]ResponseRecord{}, s.responses...),
		Draft:         s.draft,
		Interim:       s.interim,
		Recording:     s.recording,
		Analyzing:     s.analyzing,
		Ended:         s.ended,
		Redirected:    s.redirected,
		Configuration: s.cfg,
	}
	if s.question != nil {
		q := *s.question
		snap.Question = &q
	}
	return snap
}

func (s *Session) timeRemainingPayload() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{"timeRemaining": s.timeRemaining, "maxQuestions": s.maxQuestions}
}

func (s *Session) publish(typ string, payload any) {
	s.deps.Events.Publish(s.id, events.Event{Type: typ, Payload: payload})
}
