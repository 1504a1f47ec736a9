// Package server exposes the site's lead-capture and page-view
// tracking API behind a chi router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/trustgrid-labs/site-cli/internal/config"
	"github.com/trustgrid-labs/site-cli/internal/leads"
	"github.com/trustgrid-labs/site-cli/internal/tracker"
)

// reportTimeout bounds a fire-and-forget page-view submission after
// the triggering request has already been answered.
const reportTimeout = 10 * time.Second

// Server wires the lead intake and page-view reporter into HTTP
// handlers.
type Server struct {
	cfg      config.ServerConfig
	intake   *leads.Intake
	reporter *tracker.Reporter
	router   http.Handler
	// baseCtx outlives individual requests; in-flight analytics writes
	// run on it so a closed client connection does not cancel them.
	baseCtx context.Context
}

// New creates a Server. baseCtx should be the process lifetime context.
func New(baseCtx context.Context, cfg config.ServerConfig, intake *leads.Intake, reporter *tracker.Reporter) *Server {
	s := &Server{
		cfg:      cfg,
		intake:   intake,
		reporter: reporter,
		baseCtx:  baseCtx,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(newIPRateLimiter(s.cfg.RatePerMin).middleware)
		r.Post("/api/leads", s.handleLead)
		r.Post("/api/track", s.handleTrack)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
