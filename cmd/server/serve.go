package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	_ "github.com/artem13815/interview/docs"

	// internal imports
	"github.com/artem13815/interview/api/http"
	"github.com/artem13815/interview/api/http/handlers"
	"github.com/artem13815/interview/pkg/config"
	"github.com/artem13815/interview/pkg/events"
	"github.com/artem13815/interview/pkg/health"
	"github.com/artem13815/interview/pkg/history"
	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/logging"
	"github.com/artem13815/interview/pkg/metrics"
	"github.com/artem13815/interview/pkg/security/jwt"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// Load configuration from env/.env
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	pools := interview.DefaultPools()
	if cfg.QuestionsFile != "" {
		if pools, err = interview.LoadPools(cfg.QuestionsFile); err != nil {
			return err
		}
	}
	questions, err := interview.NewQuestionBank(pools, cfg.QuestionDelay)
	if err != nil {
		return fmt.Errorf("question bank: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	hub := events.NewHub()
	manager := interview.NewManager(interview.Deps{
		Questions: questions,
		Analyzer:  interview.NewHeuristicAnalyzer(nil, cfg.AnalysisDelay),
		Repo:      store.repo,
		Events:    hub,
		Metrics:   m,
		Logger:    log,
	}, interview.Options{MediaTimeout: cfg.MediaTimeout}, cfg.SessionRetention)

	verifier := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	if !verifier.Enabled() {
		log.Warn("AUTH_JWT_SECRET is empty, all requests run as the local user")
	}

	sessions := handlers.NewSessionHandler(manager)
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             http.BodyLimit(cfg.ResumeMaxBytes),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	http.Register(app, http.Handlers{
		Health:   handlers.NewHealthHandler(health.NewService(store.checkers...), cfg.StorageDriver, manager),
		Sessions: sessions,
		Events:   handlers.NewEventsHandler(sessions, hub, log),
		History:  handlers.NewHistoryHandler(history.NewService(store.repo)),
		Resume:   handlers.NewResumeHandler(cfg.ResumeMaxBytes),
		Metrics:  adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	}, jwt.NewAuthMiddleware(verifier))

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", cfg.Port, "storage", cfg.StorageDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := manager.Shutdown(sctx); err != nil {
		log.Error("session shutdown incomplete", "error", err)
	}
	return app.ShutdownWithContext(sctx)
}
