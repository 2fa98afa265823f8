package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sciforge/chemlab/internal/auth"
	"github.com/sciforge/chemlab/internal/session"
	"github.com/sciforge/chemlab/internal/storage"
)

// Server is the chemlab HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	handlers   *Handlers
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServerConfig holds all dependencies and configuration for creating a Server.
// Optional fields (nil-safe): Broker.
type ServerConfig struct {
	// Required dependencies.
	DB       *storage.DB
	Verifier *auth.Verifier
	Sessions *session.Manager
	Logger   *slog.Logger

	// Optional dependencies (nil = disabled).
	Broker *Broker

	// HTTP server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(HandlersDeps{
		DB:                  cfg.DB,
		Verifier:            cfg.Verifier,
		Sessions:            cfg.Sessions,
		Broker:              cfg.Broker,
		Logger:              cfg.Logger,
		Version:             cfg.Version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	})

	mux := http.NewServeMux()

	// Lab session lifecycle.
	mux.HandleFunc("POST /v1/lab/start", h.HandleLabStart)
	mux.HandleFunc("POST /v1/lab/pause", h.HandleLabPause)
	mux.HandleFunc("POST /v1/lab/resume", h.HandleLabResume)
	mux.HandleFunc("POST /v1/lab/complete", h.HandleLabComplete)
	mux.HandleFunc("POST /v1/lab/reset", h.HandleLabReset)
	mux.HandleFunc("GET /v1/lab/state", h.HandleLabState)

	// Workbench operations.
	mux.HandleFunc("POST /v1/lab/equipment", h.HandlePlaceEquipment)
	mux.HandleFunc("POST /v1/lab/equipment/{equipment_id}/chemicals", h.HandleAddChemical)
	mux.HandleFunc("POST /v1/lab/equipment/{equipment_id}/heat", h.HandleToggleHeat)

	// Safety alerts.
	mux.HandleFunc("GET /v1/lab/alerts", h.HandleListAlerts)
	mux.HandleFunc("DELETE /v1/lab/alerts", h.HandleClearAlerts)

	// Persistence and live events.
	mux.HandleFunc("POST /v1/lab/save", h.HandleLabSave)
	mux.HandleFunc("GET /v1/lab/events", h.HandleLabEvents)

	// Experiment records.
	mux.HandleFunc("POST /v1/experiments", h.HandleCreateExperiment)
	mux.HandleFunc("GET /v1/experiments", h.HandleListExperiments)
	mux.HandleFunc("GET /v1/experiments/{experiment_id}", h.HandleGetExperiment)

	// Chemical library (writes are admin only).
	mux.Handle("POST /v1/chemicals", requireAdmin(http.HandlerFunc(h.HandleCreateChemical)))
	mux.HandleFunc("GET /v1/chemicals", h.HandleListChemicals)
	mux.HandleFunc("GET /v1/chemicals/{chemical_id}", h.HandleGetChemical)

	// Lesson library (writes are admin only).
	mux.Handle("POST /v1/lessons", requireAdmin(http.HandlerFunc(h.HandleCreateLesson)))
	mux.HandleFunc("GET /v1/lessons", h.HandleListLessons)
	mux.HandleFunc("GET /v1/lessons/{lesson_id}", h.HandleGetLesson)

	// Health (no auth).
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Middleware chain (outermost executes first):
	// request ID → tracing → logging → auth → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = authMiddleware(cfg.Verifier, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler:  handler,
		handlers: h,
		logger:   cfg.Logger,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
