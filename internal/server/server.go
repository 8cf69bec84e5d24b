// Package server is the HTTP adapter in front of the prediction core. It
// owns request parsing, validation, the median lap pre-filter, error-to-status
// mapping, and serialization; the modeling itself lives in the degradation
// and strategy packages.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/metrics"
)

// Server is the Pitwall HTTP API server.
type Server struct {
	cfg      *config.Config
	logger   *logrus.Logger
	predLog  *logger.PredictionLogger
	validate *validator.Validate
	version  string
	server   *http.Server
}

// New creates a new API server from the given configuration.
func New(cfg *config.Config, log *logrus.Logger, version string) *Server {
	return &Server{
		cfg:      cfg,
		logger:   log,
		predLog:  logger.NewPredictionLogger(log),
		validate: validator.New(),
		version:  version,
	}
}

// Handler builds the full middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/predict/pitstop", s.handlePredictPitStop)
	mux.HandleFunc("/strategy/impact", s.handleStrategyImpact)
	if s.cfg.Metrics.Enabled {
		mux.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	var h http.Handler = mux
	h = s.metricsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return c.Handler(h)
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.ListenAddr(),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":    s.server.Addr,
			"version": s.version,
		}).Info("Pitwall API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeoutSeconds)*time.Second,
	)
	defer cancel()

	s.logger.Info("Pitwall API server shutting down")
	return s.server.Shutdown(shutdownCtx)
}
