package speech

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interview/pkg/events"
)

func TestRelaySpeak(t *testing.T) {
	hub := events.NewHub()
	id := uuid.New()
	ch, cancel := hub.Subscribe(id)
	defer cancel()

	NewRelay(id, hub).Speak("Tell me about yourself.")

	first := <-ch
	second := <-ch
	assert.Equal(t, events.TypeSpeechCancel, first.Type)
	assert.Equal(t, events.TypeSpeak, second.Type)
	assert.Equal(t, Utterance{Text: "Tell me about yourself.", Lang: "en-US", Rate: 0.9, Pitch: 1, Volume: 0.8}, second.Payload)
	assert.Equal(t, id, second.SessionID)
}

func TestRelayRecognition(t *testing.T) {
	hub := events.NewHub()
	id := uuid.New()
	ch, cancel := hub.Subscribe(id)
	defer cancel()
	r := NewRelay(id, hub)

	assert.False(t, r.Deliver("ignored", ""))

	var finals []string
	require.NoError(t, r.StartRecognition(func(final, _ string) { finals = append(finals, final) }, nil))
	assert.Equal(t, events.TypeRecognitionStart, (<-ch).Type)
	assert.ErrorIs(t, r.StartRecognition(nil, nil), ErrAlreadyListening)
	assert.True(t, r.Listening())

	assert.True(t, r.Deliver("hello", "wor"))
	r.StopRecognition()
	assert.Equal(t, events.TypeRecognitionStop, (<-ch).Type)
	assert.False(t, r.Deliver("late", ""))
	assert.Equal(t, []string{"hello"}, finals)

	// stopping twice publishes once
	r.StopRecognition()
	assert.Len(t, ch, 0)
}

func TestRelayFail(t *testing.T) {
	r := NewRelay(uuid.New(), events.Nop{})
	var got error
	require.NoError(t, r.StartRecognition(func(string, string) {}, func(err error) { got = err }))

	r.Fail(errors.New("no-speech"))
	assert.EqualError(t, got, "no-speech")
	assert.False(t, r.Listening())

	// after a failure recognition can be started again
	require.NoError(t, r.StartRecognition(func(string, string) {}, nil))
	r.Fail(errors.New("again"))
}
