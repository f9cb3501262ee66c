package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published for a session.
const (
	TypeSessionActive     = "session.active"
	TypeSessionRedirected = "session.redirected"
	TypeSessionEnded      = "session.ended"
	TypeTimerTick         = "timer.tick"
	TypeQuestion          = "question"
	TypeResponseRecorded  = "response.recorded"
	TypeSpeak             = "speech.speak"
	TypeSpeechCancel      = "speech.cancel"
	TypeRecognitionStart  = "recognition.start"
	TypeRecognitionStop   = "recognition.stop"
	TypeRecognitionError  = "recognition.error"
)

// Event is one message of a session's event stream.
type Event struct {
	Type      string    `json:"type"`
	SessionID uuid.UUID `json:"sessionId"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is what producers depend on.
type Publisher interface {
	Publish(sessionID uuid.UUID, e Event)
}

const subscriberBuffer = 32

// Hub fans events out to the subscribers of each session. A subscriber that
// does not keep up loses events rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[uint64]chan Event
	next uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[uint64]chan Event)}
}

// Subscribe registers a listener for sessionID. cancel must be called to
// release it; it closes the channel.
func (h *Hub) Subscribe(sessionID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.next++
	id := h.next
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[uint64]chan Event)
	}
	h.subs[sessionID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionID], id)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(sessionID uuid.UUID, e Event) {
	e.SessionID = sessionID
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[sessionID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of listeners of a session.
func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(uuid.UUID, Event) {}
