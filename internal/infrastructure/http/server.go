// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
	"github.com/0xcro3dile/makanapa-go/internal/validation"
)

// Recommender is the application surface the handlers call.
type Recommender interface {
	Recommend(ctx context.Context, req entities.RecommendationRequest) (entities.RecommendationResult, error)
	Histories(ctx context.Context) ([]entities.HistoryRecord, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options configure the listener and rendering.
type Options struct {
	Addr            string
	Production      bool
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP server for the recommendation API.
type Server struct {
	recommender Recommender
	health      HealthChecker
	validate    *validation.Validator
	opts        Options
	handler     http.Handler
}

// NewServer creates a new HTTP server. health may be nil.
func NewServer(recommender Recommender, health HealthChecker, opts Options) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		recommender: recommender,
		health:      health,
		validate:    newRequestValidator(),
		opts:        opts,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the HTTP server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
	}

	logging.Info().Str("addr", s.opts.Addr).Msg("HTTP server starting")

	stopped := make(chan struct{})
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("HTTP server shutdown failed")
		}
	}()

	err := server.ListenAndServe()
	close(stopped)
	if errors.Is(err, http.ErrServerClosed) {
		<-shutdownDone
		logging.Info().Msg("HTTP server stopped")
		return nil
	}
	<-shutdownDone
	return err
}
