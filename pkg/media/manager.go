package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// Manager implements Service over a Device with the fallback ladder.
type Manager struct {
	device  Device
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	stream *Stream
	last   error
}

func NewManager(device Device, requestTimeout time.Duration, log *slog.Logger) *Manager {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{device: device, timeout: requestTimeout, log: log}
}

// Acquire replaces the current stream. When c fails the fallback rungs are
// tried in order; the error of the first attempt is returned when all fail.
func (m *Manager) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	m.Release()

	attempts := append([]Constraints{c}, Fallbacks(c)...)
	var firstErr error
	for i, rung := range attempts {
		s, err := m.request(ctx, rung)
		if err == nil {
			m.mu.Lock()
			m.stream = &s
			m.last = nil
			m.mu.Unlock()
			m.log.Info("media acquired", "attempt", i+1, "video", s.Video, "audio", s.Audio)
			return s, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		m.log.Warn("media acquisition failed", "attempt", i+1, "video", rung.Video, "audio", rung.Audio, "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	m.mu.Lock()
	m.last = firstErr
	m.mu.Unlock()
	return Stream{}, firstErr
}

func (m *Manager) request(ctx context.Context, c Constraints) (Stream, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	s, err := m.device.GetUserMedia(ctx, c)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Stream{}, &DeviceError{Name: ErrNameTimeout}
		}
		var de *DeviceError
		if errors.As(err, &de) {
			return Stream{}, de
		}
		return Stream{}, &DeviceError{Detail: err.Error()}
	}
	if !s.Active || (!s.Video && !s.Audio) {
		return Stream{}, &DeviceError{Detail: "failed to obtain active media stream"}
	}
	s.VideoEnabled = s.Video
	s.AudioEnabled = s.Audio
	s.Constraints = c
	if s.AcquiredAt.IsZero() {
		s.AcquiredAt = time.Now().UTC()
	}
	return s, nil
}

func (m *Manager) CurrentStream() *Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil
	}
	cp := *m.stream
	return &cp
}

// LastError is the error of the most recent failed Acquire, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Manager) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream != nil && m.stream.Active && (m.stream.VideoEnabled || m.stream.AudioEnabled)
}

func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stream = nil
}

// ToggleTrack flips an existing track; a missing track is acquired.
func (m *Manager) ToggleTrack(ctx context.Context, kind Kind) error {
	m.mu.Lock()
	if m.stream == nil {
		m.mu.Unlock()
		return ErrNoStream
	}
	s := m.stream
	switch kind {
	case KindVideo:
		if s.Video {
			s.VideoEnabled = !s.VideoEnabled
			m.mu.Unlock()
			return nil
		}
	case KindAudio:
		if s.Audio {
			s.AudioEnabled = !s.AudioEnabled
			m.mu.Unlock()
			return nil
		}
	default:
		m.mu.Unlock()
		return fmt.Errorf("unknown track kind %q", kind)
	}
	want := Constraints{Video: s.VideoEnabled || kind == KindVideo, Audio: s.AudioEnabled || kind == KindAudio}
	m.mu.Unlock()

	// the ladder is not used here: the user asked for a specific track
	st, err := m.request(ctx, want)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.stream = &st
	m.mu.Unlock()
	return nil
}
