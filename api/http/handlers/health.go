package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interview/api/http/presenter"
	"github.com/artem13815/interview/pkg/health"
)

const readyTimeout = 2 * time.Second

// SessionCounter reports how many live sessions the process holds.
type SessionCounter interface {
	Len() int
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	svc      health.ReadinessUseCase
	driver   string
	sessions SessionCounter
}

func NewHealthHandler(svc health.ReadinessUseCase, driver string, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{svc: svc, driver: driver, sessions: sessions}
}

type readinessResponse struct {
	Status         string            `json:"status"`
	Storage        string            `json:"storage"`
	ActiveSessions int               `json:"activeSessions"`
	Details        string            `json:"details,omitempty"`
	Checks         map[string]string `json:"checks"`
}

// Health: basic liveness check.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"status": "ok"})
}

// Ready: проверка хранилища истории и число живых сессий.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readyTimeout)
	defer cancel()

	rep := h.svc.Probe(ctx)
	resp := readinessResponse{Status: "ready", Storage: h.driver, Checks: rep.Checks}
	if h.sessions != nil {
		resp.ActiveSessions = h.sessions.Len()
	}
	if !rep.Ready() {
		resp.Status = "not_ready"
		resp.Details = rep.Err.Error()
		return presenter.JSON(c, http.StatusServiceUnavailable, resp)
	}
	return presenter.JSON(c, http.StatusOK, resp)
}
