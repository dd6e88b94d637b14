// Package httpapi exposes the chat pipeline and feedback collection
// over HTTP. Responses use JSON envelopes; streaming chat uses
// server-sent events.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maestro-chat/maestro/internal/core/ports/driving"
	"github.com/maestro-chat/maestro/internal/logger"
)

// APIVersion is reported by the health endpoint.
const APIVersion = "1.0.0"

// apiPrefix is the route prefix for versioned endpoints.
const apiPrefix = "/api/v1"

// Config tunes the HTTP server.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// Server serves the chat and telemetry API.
type Server struct {
	cfg      Config
	chat     driving.ChatService
	feedback driving.FeedbackService
	metrics  *metrics
	httpSrv  *http.Server
}

// NewServer wires handlers and middleware into a configured server.
func NewServer(cfg Config, chat driving.ChatService, feedback driving.FeedbackService) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// Streaming responses hold the connection open for as long as
		// generation runs.
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:      cfg,
		chat:     chat,
		feedback: feedback,
		metrics:  newMetrics(),
	}

	router := s.routes()
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// routes builds the router with all endpoints and middleware.
func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.Use(s.requestIDMiddleware)
	router.Use(s.loggingMiddleware)
	router.Use(s.corsMiddleware)

	// Public operational endpoints.
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix(apiPrefix).Subrouter()
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/telemetry", s.handleTelemetry).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/telemetry/stats", s.handleTelemetryStats).Methods(http.MethodGet)

	return router
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start serves until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down http server")
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
