// Package server exposes the frame pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz           liveness and build information
//	GET  /families          families, formulas and default views
//	POST /render            compute (or fetch from cache) a frame
//	GET  /batches/current   progress of the batch in flight (204 when idle)
//	GET  /ws/progress       websocket stream of progress events
//
// The server shares one pipeline.Runner, and therefore one executor, between
// all requests. A render that misses the cache while another batch is running
// is answered with 409 Conflict.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fractalplane/pkg/observability"
	"github.com/matzehuels/fractalplane/pkg/pipeline"
)

// DefaultPollInterval is how often progress is sampled for websocket clients.
const DefaultPollInterval = 250 * time.Millisecond

// maxBodyBytes bounds render request bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP API.
type Server struct {
	Runner       *pipeline.Runner
	Logger       *log.Logger
	PollInterval time.Duration

	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		Runner:       runner,
		Logger:       logger,
		PollInterval: DefaultPollInterval,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/families", s.handleFamilies)
	r.Post("/render", s.handleRender)
	r.Get("/batches/current", s.handleCurrentBatch)
	r.Get("/ws/progress", s.handleProgress)
	return r
}

// instrument logs each request and reports it to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
