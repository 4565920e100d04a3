package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codescope/internal/core/app"
	"codescope/internal/core/config"
	"codescope/internal/data/history"
	"codescope/internal/shared/util"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the analysis pipeline over HTTP: a blocking analyze
// endpoint, an SSE progress stream per session, the stored project list,
// health, the OpenAPI contract, and Prometheus metrics.
type Server struct {
	cfg   *config.Config
	svc   *app.Service
	store *history.Store // nil when history is disabled

	limiter *util.LimiterRegistry
	doc     *openapi3.T
	server  *http.Server
}

func New(cfg *config.Config, svc *app.Service, store *history.Store) *Server {
	return &Server{
		cfg:     cfg,
		svc:     svc,
		store:   store,
		limiter: util.NewLimiterRegistry(cfg.Server.RateLimit, cfg.Server.RateBurst, 10*time.Minute),
		doc:     Document(),
	}
}

// Handler builds the route table. Exported so tests can drive the API
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/analyze", s.instrument("/api/analyze", s.limited(s.handleAnalyze)))
	mux.HandleFunc("GET /api/progress/{id}", s.instrument("/api/progress", s.limited(s.handleProgress)))
	mux.HandleFunc("GET /api/projects", s.instrument("/api/projects", s.limited(s.handleProjects)))
	mux.HandleFunc("GET /api/health", s.instrument("/api/health", s.handleHealth))
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.cfg.Server.Listen,
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", s.cfg.Server.Listen)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop drains in-flight requests and releases the rate limiter.
func (s *Server) Stop() error {
	s.limiter.Close()
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("api server stopping")
	return s.server.Shutdown(ctx)
}
