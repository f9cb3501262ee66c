package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/artem13815/interview/pkg/events"
	"github.com/artem13815/interview/pkg/interview"
)

const liveKey = "live"

// EventsHandler streams session events over a websocket and accepts
// transcript messages from the browser on the same connection.
type EventsHandler struct {
	sessions *SessionHandler
	hub      *events.Hub
	log      *slog.Logger
}

func NewEventsHandler(sessions *SessionHandler, hub *events.Hub, log *slog.Logger) *EventsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EventsHandler{sessions: sessions, hub: hub, log: log}
}

type inboundMessage struct {
	Type string `json:"type"`
	transcriptRequest
}

// Upgrade проверяет сессию до апгрейда соединения.
// @Summary Поток событий интервью (WebSocket)
// @Description События: session.active, timer.tick, question, response.recorded, session.ended, session.redirected, speech.*, recognition.*. Входящие сообщения: {"type":"transcript","final":"...","interim":"..."}.
// @Tags    Интервью
// @Param   id path string true "ID сессии (UUID)"
// @Param   access_token query string false "JWT, если заголовок недоступен"
// @Security BearerAuth
// @Success 101 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 426 {object} presenter.ErrorResponse
// @Router  /sessions/{id}/ws [get]
func (h *EventsHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	l, err := h.sessions.live(c)
	if err != nil {
		return h.sessions.fail(c, err)
	}
	c.Locals(liveKey, l)
	return c.Next()
}

func (h *EventsHandler) Stream(c *websocket.Conn) {
	defer func() {
		_ = c.Close()
	}()
	l, ok := c.Locals(liveKey).(*interview.Live)
	if !ok {
		return
	}
	id := l.Session.ID()
	ch, cancel := h.hub.Subscribe(id)
	defer cancel()

	// первым сообщением отдаём текущее состояние
	if err := c.WriteJSON(events.Event{Type: "snapshot", SessionID: id, Payload: l.Session.Snapshot()}); err != nil {
		return
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			var msg inboundMessage
			if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "transcript" {
				continue
			}
			if err := deliverTranscript(l, msg.transcriptRequest); err != nil {
				h.log.Debug("transcript dropped", "session_id", id.String(), "error", err)
			}
		}
	}()

	for {
		select {
		case <-readerDone:
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteJSON(e); err != nil {
				return
			}
		}
	}
}
