// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtnitsch/recipe-extractor/models"
	"github.com/dtnitsch/recipe-extractor/pkg/analytics"
	"github.com/dtnitsch/recipe-extractor/pkg/fetcher"
	"github.com/dtnitsch/recipe-extractor/pkg/parser"
)

const ServiceName = "recipe-extractor"

// Fetcher retrieves a page as UTF-8 HTML.
type Fetcher interface {
	GetHtml(ctx context.Context, url string) (string, error)
}

// Store persists extracted recipes and attempts. It is optional.
type Store interface {
	SaveRecipe(r *models.Recipe) (int64, error)
	RecordAttempt(sourceURL string, success bool, errorType, errMessage string) error
}

type Server struct {
	parser    *parser.Parser
	fetcher   Fetcher
	analytics *analytics.Analytics
	store     Store
	logger    *slog.Logger
	metrics   *Metrics
}

type Option func(*Server)

func WithParser(p *parser.Parser) Option {
	return func(s *Server) { s.parser = p }
}

func WithFetcher(f Fetcher) Option {
	return func(s *Server) { s.fetcher = f }
}

// WithStore saves every successful extraction and records every attempt.
func WithStore(st Store) Option {
	return func(s *Server) { s.store = st }
}

func New(logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		parser:    parser.New(),
		fetcher:   fetcher.NewFetcher(),
		analytics: &analytics.Analytics{},
		logger:    logger,
		metrics:   NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	r.Post("/extract", s.handleExtract)
	r.Post("/analyze", s.handleAnalyze)

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// logging records one slog line and the request metrics per request.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		s.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())
		s.logger.Info("HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
