package interview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/artem13815/interview/pkg/events"
	"github.com/artem13815/interview/pkg/media"
	"github.com/artem13815/interview/pkg/speech"
)

const defaultRetention = 10 * time.Minute

// Live is a running session with the media and speech relays bound to it.
type Live struct {
	Session *Session
	Media   *media.Manager
	Device  *media.ReportedDevice
	Speech  *speech.Relay

	stop     chan struct{}
	stopOnce sync.Once
}

// release закрывает сессию и отпускает горутину удержания.
func (l *Live) release() {
	l.stopOnce.Do(func() { close(l.stop) })
	l.Session.Close()
	l.Media.Release()
}

// Manager owns the live sessions. Ended and redirected sessions are kept
// for the retention period so the results view can still fetch them.
type Manager struct {
	deps      Deps
	opts      Options
	retention time.Duration
	log       *slog.Logger
	quit      chan struct{}
	quitOnce  sync.Once

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Live
}

// NewManager builds a manager. deps.Speech and deps.Media are replaced per
// session; deps.Events is the hub the speech relay publishes to.
func NewManager(deps Deps, opts Options, retention time.Duration) *Manager {
	if retention <= 0 {
		retention = defaultRetention
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	return &Manager{
		deps:      deps,
		opts:      opts,
		retention: retention,
		log:       deps.Logger,
		quit:      make(chan struct{}),
		sessions:  make(map[uuid.UUID]*Live),
	}
}

// Create builds and starts a session for owner.
func (m *Manager) Create(owner uuid.UUID, cfg Configuration) (*Live, error) {
	id := uuid.New()
	device := media.NewReportedDevice()
	l := &Live{
		Device: device,
		Media:  media.NewManager(device, 0, m.log.With("session_id", id.String())),
		Speech: speech.NewRelay(id, m.deps.Events),
		stop:   make(chan struct{}),
	}
	deps := m.deps
	deps.Media = l.Media
	deps.Speech = l.Speech
	s, err := NewSession(id, owner, cfg, deps, m.opts)
	if err != nil {
		return nil, err
	}
	l.Session = s

	m.mu.Lock()
	m.sessions[id] = l
	m.mu.Unlock()

	if err := s.Start(); err != nil {
		m.forget(id)
		return nil, err
	}
	go m.expire(l)
	return l, nil
}

func (m *Manager) expire(l *Live) {
	select {
	case <-l.Session.Done():
	case <-l.stop:
		return
	case <-m.quit:
		return
	}
	t := time.NewTimer(m.retention)
	defer t.Stop()
	select {
	case <-t.C:
		m.log.Debug("session retention elapsed", "session_id", l.Session.ID().String())
		l.release()
		m.forget(l.Session.ID())
	case <-l.stop:
	case <-m.quit:
	}
}

// Get returns the owner's live session.
func (m *Manager) Get(owner, id uuid.UUID) (*Live, error) {
	m.mu.RLock()
	l, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || l.Session.OwnerID() != owner {
		return nil, ErrSessionNotFound
	}
	return l, nil
}

// Remove closes the session and forgets it.
func (m *Manager) Remove(owner, id uuid.UUID) error {
	l, err := m.Get(owner, id)
	if err != nil {
		return err
	}
	l.release()
	m.forget(id)
	return nil
}

func (m *Manager) forget(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len is the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session and waits for ended ones to finish
// persisting.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.quitOnce.Do(func() { close(m.quit) })

	m.mu.Lock()
	live := make([]*Live, 0, len(m.sessions))
	for _, l := range m.sessions {
		live = append(live, l)
	}
	m.sessions = make(map[uuid.UUID]*Live)
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range live {
		g.Go(func() error {
			l.release()
			if !l.Session.Snapshot().Ended {
				return nil
			}
			select {
			case <-l.Session.Done():
				return nil
			case <-gctx.Done():
				return fmt.Errorf("session %s: %w", l.Session.ID(), gctx.Err())
			}
		})
	}
	return g.Wait()
}
