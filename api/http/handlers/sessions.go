package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interview/api/http/presenter"
	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/media"
)

// SessionHandler drives live interview sessions.
type SessionHandler struct {
	manager *interview.Manager
}

func NewSessionHandler(manager *interview.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

type submitResponseRequest struct {
	Response string `json:"response"`
}

type transcriptRequest struct {
	Final   string `json:"final"`
	Interim string `json:"interim"`
	Error   string `json:"error,omitempty"`
}

type mediaResponse struct {
	Stream  *media.Stream      `json:"stream"`
	Session interview.Snapshot `json:"session"`
}

type recordResponse struct {
	Record  interview.ResponseRecord `json:"record"`
	Session interview.Snapshot       `json:"session"`
}

func (h *SessionHandler) live(c *fiber.Ctx) (*interview.Live, error) {
	owner, ok := currentUser(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	id, ok := parseID(c)
	if !ok {
		return nil, interview.ErrSessionNotFound
	}
	return h.manager.Get(owner, id)
}

func (h *SessionHandler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, fiber.ErrUnauthorized) {
		return unauthorized(c)
	}
	return fail(c, err)
}

// Create запускает интервью по конфигурации из мастера настройки.
// @Summary Начать интервью
// @Tags    Интервью
// @Accept  json
// @Produce json
// @Param   input body interview.Configuration true "Конфигурация интервью"
// @Security BearerAuth
// @Success 201 {object} interview.Snapshot
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var cfg interview.Configuration
	if err := c.BodyParser(&cfg); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid body")
	}
	l, err := h.manager.Create(owner, cfg)
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, l.Session.Snapshot())
}

// Get возвращает текущее состояние интервью.
// @Summary Состояние интервью
// @Tags    Интервью
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 200 {object} interview.Snapshot
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, l.Session.Snapshot())
}

// Delete закрывает экран интервью: таймеры и речь останавливаются, сессия не завершается.
// @Summary Закрыть интервью
// @Tags    Интервью
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c)
	if !ok {
		return fail(c, interview.ErrSessionNotFound)
	}
	if err := h.manager.Remove(owner, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Media принимает результат getUserMedia из браузера и активирует интервью.
// @Summary Сообщить о медиа-устройствах
// @Tags    Интервью
// @Accept  json
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Param   input body media.Report true "Доступные дорожки или имя ошибки"
// @Security BearerAuth
// @Success 200 {object} mediaResponse
// @Failure 410 {object} presenter.ErrorResponse "Таймаут медиа, вернуться к настройке"
// @Failure 422 {object} presenter.ErrorResponse "Устройство недоступно"
// @Router  /sessions/{id}/media [post]
func (h *SessionHandler) Media(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	var report media.Report
	if err := c.BodyParser(&report); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid body")
	}
	l.Device.Report(report)
	if _, err := l.Media.Acquire(c.Context(), media.FullAV); err != nil {
		return fail(c, err)
	}
	if err := l.Session.MediaReady(); err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, mediaResponse{Stream: l.Media.CurrentStream(), Session: l.Session.Snapshot()})
}

// ToggleTrack включает или выключает камеру/микрофон.
// @Summary Переключить дорожку
// @Tags    Интервью
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Param   kind path string true "audio или video"
// @Security BearerAuth
// @Success 200 {object} media.Stream
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /sessions/{id}/media/{kind}/toggle [post]
func (h *SessionHandler) ToggleTrack(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	kind := media.Kind(strings.ToLower(c.Params("kind")))
	if kind != media.KindAudio && kind != media.KindVideo {
		return presenter.Error(c, http.StatusBadRequest, "kind must be audio or video")
	}
	if err := l.Media.ToggleTrack(c.Context(), kind); err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, l.Media.CurrentStream())
}

// Question возвращает вопрос текущего слота (и озвучивает его при первом запросе).
// @Summary Текущий вопрос
// @Tags    Интервью
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 200 {object} interview.Question
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse "Не удалось получить вопрос, можно повторить"
// @Router  /sessions/{id}/question [get]
func (h *SessionHandler) Question(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	q, err := l.Session.CurrentQuestion(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, q)
}

// Submit отправляет ответ на анализ. Пустой ответ заменяется распознанной речью.
// @Summary Ответить на вопрос
// @Tags    Интервью
// @Accept  json
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Param   input body submitResponseRequest true "Текст ответа"
// @Security BearerAuth
// @Success 201 {object} recordResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse "Анализ уже выполняется или интервью завершено"
// @Router  /sessions/{id}/responses [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req submitResponseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid body")
		}
	}
	rec, err := l.Session.SubmitResponse(c.Context(), req.Response)
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, recordResponse{Record: rec, Session: l.Session.Snapshot()})
}

// Skip пропускает текущий вопрос с нулевой оценкой.
// @Summary Пропустить вопрос
// @Tags    Интервью
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 201 {object} recordResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /sessions/{id}/skip [post]
func (h *SessionHandler) Skip(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	rec, err := l.Session.SkipQuestion(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, recordResponse{Record: rec, Session: l.Session.Snapshot()})
}

// Finish завершает интервью досрочно ("Finish Now"). Повторный вызов возвращает тот же результат.
// @Summary Завершить интервью
// @Tags    Интервью
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 200 {object} interview.Handoff
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /sessions/{id}/finish [post]
func (h *SessionHandler) Finish(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	handoff, err := l.Session.EndSession(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, handoff)
}

// StartRecording включает распознавание речи.
// @Summary Начать запись ответа
// @Tags    Интервью
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /sessions/{id}/recording/start [post]
func (h *SessionHandler) StartRecording(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := l.Session.StartRecording(); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// StopRecording выключает распознавание речи, черновик ответа сохраняется.
// @Summary Остановить запись ответа
// @Tags    Интервью
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Router  /sessions/{id}/recording/stop [post]
func (h *SessionHandler) StopRecording(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	l.Session.StopRecording()
	return c.SendStatus(http.StatusNoContent)
}

// Transcript принимает фрагмент распознанной речи из браузера.
// @Summary Фрагмент распознавания
// @Tags    Интервью
// @Accept  json
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Param   input body transcriptRequest true "Финальный и промежуточный текст"
// @Security BearerAuth
// @Success 200 {object} interview.Snapshot
// @Failure 409 {object} presenter.ErrorResponse "Распознавание не запущено"
// @Router  /sessions/{id}/transcript [post]
func (h *SessionHandler) Transcript(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req transcriptRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid body")
	}
	if err := deliverTranscript(l, req); err != nil {
		return presenter.Error(c, http.StatusConflict, err.Error())
	}
	return presenter.JSON(c, http.StatusOK, l.Session.Snapshot())
}

var errNotListening = errors.New("speech recognition is not running")

func deliverTranscript(l *interview.Live, req transcriptRequest) error {
	if req.Error != "" {
		l.Speech.Fail(errors.New(req.Error))
		return nil
	}
	if !l.Speech.Deliver(req.Final, req.Interim) {
		return errNotListening
	}
	return nil
}

// Result возвращает данные для экрана результатов.
// @Summary Результат интервью
// @Tags    Интервью
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 200 {object} interview.Handoff
// @Failure 409 {object} presenter.ErrorResponse "Интервью ещё идёт"
// @Failure 410 {object} presenter.ErrorResponse "Вернуться к настройке"
// @Router  /sessions/{id}/result [get]
func (h *SessionHandler) Result(c *fiber.Ctx) error {
	l, err := h.live(c)
	if err != nil {
		return h.fail(c, err)
	}
	handoff, err := l.Session.Result()
	if err != nil {
		if errors.Is(err, interview.ErrRedirectedToSetup) {
			return presenter.JSON(c, http.StatusGone, fiber.Map{
				"message":       err.Error(),
				"interviewData": l.Session.Configuration(),
			})
		}
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, handoff)
}
