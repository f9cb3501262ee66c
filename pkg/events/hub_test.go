package events

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a, b := uuid.New(), uuid.New()
	chA1, cancelA1 := h.Subscribe(a)
	chA2, cancelA2 := h.Subscribe(a)
	chB, cancelB := h.Subscribe(b)
	defer cancelA2()
	defer cancelB()

	h.Publish(a, Event{Type: TypeTimerTick, Payload: 5})

	e1 := <-chA1
	e2 := <-chA2
	assert.Equal(t, TypeTimerTick, e1.Type)
	assert.Equal(t, a, e1.SessionID)
	assert.False(t, e1.At.IsZero())
	assert.Equal(t, e1, e2)
	assert.Len(t, chB, 0)

	assert.Equal(t, 2, h.Subscribers(a))
	cancelA1()
	cancelA1()
	assert.Equal(t, 1, h.Subscribers(a))
	_, open := <-chA1
	assert.False(t, open)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch, cancel := h.Subscribe(id)
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish(id, Event{Type: TypeTimerTick, Payload: i})
	}
	assert.Len(t, ch, subscriberBuffer)
	assert.Equal(t, 0, (<-ch).Payload)
}

func TestHubConcurrentPublishAndCancel(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		_, cancel := h.Subscribe(id)
		go func() {
			defer wg.Done()
			h.Publish(id, Event{Type: TypeQuestion})
		}()
		go func() {
			defer wg.Done()
			cancel()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Subscribers(id))
}
