// Package api provides the HTTP REST API for seaward.
//
// Endpoints:
//
//	Flow-based (via genkit.Handler):
//	  POST /api/answer  →  genkit.Handler(seaward/answer Flow)
//
//	Non-Flow (standard HTTP handlers):
//	  GET    /health                       →  liveness probe
//	  GET    /ready                        →  readiness probe
//	  GET    /api/sessions                 →  list sessions
//	  POST   /api/sessions                 →  create session
//	  GET    /api/sessions/{id}/messages   →  session history with step traces
//	  DELETE /api/sessions/{id}            →  delete session
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (logging, recovery)
//   - ratelimit.go: per-IP token bucket rate limiting
//   - health.go: health check endpoints
//   - session.go: session management endpoints
//   - answer.go: question answering endpoint via Genkit Flow
//   - response.go: JSON response helpers
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/pipeline"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds header reads to stop slow-client attacks.
	ReadHeaderTimeout = 10 * time.Second

	ReadTimeout = 30 * time.Second
	// WriteTimeout is generous because answer generation makes several
	// sequential model calls.
	WriteTimeout = 120 * time.Second
	IdleTimeout  = 120 * time.Second
)

// Server is the HTTP server for the REST API.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger

	health  *HealthHandler
	session *SessionHandler
	answer  *AnswerHandler
}

// NewServer creates an HTTP server with all routes registered. answerFlow
// comes from pipeline.NewFlow; pool is used for readiness checks.
func NewServer(store SessionStore, pool *pgxpool.Pool, answerFlow *pipeline.Flow, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		health:  NewHealthHandler(pool, logger),
		session: NewSessionHandler(store, logger),
		answer:  NewAnswerHandler(answerFlow, logger),
	}

	s.health.RegisterRoutes(mux)
	s.session.RegisterRoutes(mux)
	s.answer.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → rate limit → handler.
func (s *Server) Handler() http.Handler {
	rl := newRateLimiter(rateLimitPerSecond, rateLimitBurst)
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		rateLimitMiddleware(rl, s.logger))
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
