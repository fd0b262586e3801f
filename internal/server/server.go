// Package server exposes NCD computation and completion-time estimation
// over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/haskel/ncdprime/internal/compressor"
	"github.com/haskel/ncdprime/internal/config"
	"github.com/haskel/ncdprime/internal/monitor"
	"github.com/haskel/ncdprime/internal/server/middleware"
)

type Server struct {
	httpServer *http.Server
	registry   *compressor.Registry
	sampler    *monitor.Sampler
	config     *config.Config
	logger     *slog.Logger
	version    string
}

// New builds the API server. sampler may be nil, which disables GET /host.
func New(cfg *config.Config, registry *compressor.Registry, sampler *monitor.Sampler, logger *slog.Logger, version string) *Server {
	s := &Server{
		registry: registry,
		sampler:  sampler,
		config:   cfg,
		logger:   logger,
		version:  version,
	}

	mux := s.setupRoutes()

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.NoStore(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
		}),
		middleware.Auth(middleware.AuthConfig{
			Enabled:  cfg.Auth.Enabled,
			User:     cfg.Auth.User,
			Password: cfg.Auth.Password,
		}, "/health"), // Exclude /health from auth
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
	)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and blocks until shutdown.
// A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("server starting",
		"addr", s.httpServer.Addr,
		"compressors", s.registry.Names(),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
