package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interview/api/http/presenter"
	"github.com/artem13815/interview/pkg/history"
	"github.com/artem13815/interview/pkg/interview"
)

// HistoryHandler serves the dashboard.
type HistoryHandler struct {
	svc history.Service
}

func NewHistoryHandler(svc history.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// List возвращает историю интервью пользователя, новые первыми, и статистику.
// @Summary История интервью
// @Tags    История
// @Produce json
// @Param   limit query int false "Размер страницы (по умолчанию 20, максимум 200)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {object} history.Page
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	limit, offset := parseLimitOffset(c, 20)
	page, err := h.svc.List(c.Context(), owner, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, page)
}

// Get возвращает сохранённую сессию для экрана результатов.
// @Summary Сохранённое интервью
// @Tags    История
// @Produce json
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 200 {object} interview.SessionSummary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /history/{id} [get]
func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	s, err := h.summary(c)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return presenter.JSON(c, http.StatusOK, s)
}

// Report отдаёт текстовый отчёт для скачивания.
// @Summary Скачать отчёт
// @Tags    История
// @Produce plain
// @Param   id path string true "ID сессии (UUID)"
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /history/{id}/report.txt [get]
func (h *HistoryHandler) Report(c *fiber.Ctx) error {
	s, err := h.summary(c)
	if err != nil || s == nil {
		return err
	}
	name := fmt.Sprintf("interview-report-%s.txt", s.Report.CompletedAt.Format("2006-01-02"))
	return presenter.Attachment(c, name, interview.RenderText(s.Report))
}

// summary loads the addressed session; a nil result means the error
// response was already written.
func (h *HistoryHandler) summary(c *fiber.Ctx) (*interview.SessionSummary, error) {
	owner, ok := currentUser(c)
	if !ok {
		return nil, unauthorized(c)
	}
	id, ok := parseID(c)
	if !ok {
		return nil, presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	s, err := h.svc.Get(c.Context(), owner, id)
	if err != nil {
		return nil, fail(c, err)
	}
	return &s, nil
}
