package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/artem13815/interview/api/http/handlers"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Health   *handlers.HealthHandler
	Sessions *handlers.SessionHandler
	Events   *handlers.EventsHandler
	History  *handlers.HistoryHandler
	Resume   *handlers.ResumeHandler
	Metrics  fiber.Handler
}

// multipartHeadroom covers form fields and part headers around the resume file.
const multipartHeadroom = 1 << 20

// BodyLimit is the Fiber body limit that lets a resume of maxUpload bytes
// reach the intake check. Never below Fiber's default.
func BodyLimit(maxUpload int64) int {
	return max(int(maxUpload)+multipartHeadroom, fiber.DefaultBodyLimit)
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)
	if h.Metrics != nil {
		v1.Get("/metrics", h.Metrics)
	}

	s := v1.Group("/sessions", authMW)
	s.Post("/", h.Sessions.Create)
	s.Get("/:id", h.Sessions.Get)
	s.Delete("/:id", h.Sessions.Delete)
	s.Post("/:id/media", h.Sessions.Media)
	s.Post("/:id/media/:kind/toggle", h.Sessions.ToggleTrack)
	s.Get("/:id/question", h.Sessions.Question)
	s.Post("/:id/responses", h.Sessions.Submit)
	s.Post("/:id/skip", h.Sessions.Skip)
	s.Post("/:id/finish", h.Sessions.Finish)
	s.Post("/:id/recording/start", h.Sessions.StartRecording)
	s.Post("/:id/recording/stop", h.Sessions.StopRecording)
	s.Post("/:id/transcript", h.Sessions.Transcript)
	s.Get("/:id/result", h.Sessions.Result)
	s.Get("/:id/ws", h.Events.Upgrade, websocket.New(h.Events.Stream))

	hg := v1.Group("/history", authMW)
	hg.Get("/", h.History.List)
	hg.Get("/:id", h.History.Get)
	hg.Get("/:id/report.txt", h.History.Report)

	v1.Post("/resume", authMW, h.Resume.Upload)
}
