package speech

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/interview/pkg/events"
)

// Speaker plays synthesized speech; Speak cancels any prior utterance.
type Speaker interface {
	Speak(text string)
	Cancel()
}

// Recognizer streams recognised speech to onResult; final is the committed
// part, interim the pending one.
type Recognizer interface {
	StartRecognition(onResult func(final, interim string), onError func(error)) error
	StopRecognition()
}

type Service interface {
	Speaker
	Recognizer
}

var ErrAlreadyListening = errors.New("speech recognition already running")

// Utterance settings sent to the browser synthesizer.
type Utterance struct {
	Text   string  `json:"text"`
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// Relay drives the browser's speech APIs through session events and
// receives transcripts back from it.
type Relay struct {
	sessionID uuid.UUID
	pub       events.Publisher

	mu        sync.Mutex
	listening bool
	onResult  func(final, interim string)
	onError   func(error)
}

func NewRelay(sessionID uuid.UUID, pub events.Publisher) *Relay {
	return &Relay{sessionID: sessionID, pub: pub}
}

func (r *Relay) Speak(text string) {
	r.pub.Publish(r.sessionID, events.Event{Type: events.TypeSpeechCancel})
	r.pub.Publish(r.sessionID, events.Event{
		Type:    events.TypeSpeak,
		Payload: Utterance{Text: text, Lang: "en-US", Rate: 0.9, Pitch: 1, Volume: 0.8},
	})
}

func (r *Relay) Cancel() {
	r.pub.Publish(r.sessionID, events.Event{Type: events.TypeSpeechCancel})
}

func (r *Relay) StartRecognition(onResult func(final, interim string), onError func(error)) error {
	r.mu.Lock()
	if r.listening {
		r.mu.Unlock()
		return ErrAlreadyListening
	}
	r.listening = true
	r.onResult = onResult
	r.onError = onError
	r.mu.Unlock()
	r.pub.Publish(r.sessionID, events.Event{Type: events.TypeRecognitionStart, Payload: map[string]any{
		"lang": "en-US", "continuous": true, "interimResults": true,
	}})
	return nil
}

func (r *Relay) StopRecognition() {
	r.mu.Lock()
	was := r.listening
	r.listening = false
	r.onResult = nil
	r.onError = nil
	r.mu.Unlock()
	if was {
		r.pub.Publish(r.sessionID, events.Event{Type: events.TypeRecognitionStop})
	}
}

// Deliver hands a transcript from the browser to the active recognition.
// It reports false when nothing is listening.
func (r *Relay) Deliver(final, interim string) bool {
	r.mu.Lock()
	cb := r.onResult
	r.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(final, interim)
	return true
}

// Fail reports a browser-side recognition error and stops listening.
func (r *Relay) Fail(err error) {
	r.mu.Lock()
	cb := r.onError
	r.listening = false
	r.onResult = nil
	r.onError = nil
	r.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

// Listening reports whether recognition is running.
func (r *Relay) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Nop ignores speech entirely.
type Nop struct{}

func (Nop) Speak(string)     {}
func (Nop) Cancel()          {}
func (Nop) StopRecognition() {}

func (Nop) StartRecognition(func(string, string), func(error)) error { return nil }
