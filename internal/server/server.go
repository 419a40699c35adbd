// Package server exposes the link tree over a local JSON HTTP API, so
// browser start pages can read and edit the same tree as the TUI.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/metrics"
	"github.com/nikbrunner/linkdeck/internal/store"
)

const shutdownTimeout = 5 * time.Second

// DefaultAllowedOrigins lets pages served from localhost call the API.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// Params holds parameters for creating a new Server.
type Params struct {
	Store          *store.Store
	Metrics        *metrics.Persistence // optional, /metrics is not served if nil
	Logger         *zap.Logger          // optional, no-op if nil
	AllowedOrigins []string             // optional, DefaultAllowedOrigins if nil
}

// Server serves the HTTP API over a Store.
type Server struct {
	store    *store.Store
	metrics  *metrics.Persistence
	logger   *zap.Logger
	origins  []string
	validate *validator.Validate
}

// New creates a Server.
func New(params Params) *Server {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := params.AllowedOrigins
	if origins == nil {
		origins = DefaultAllowedOrigins
	}

	return &Server{
		store:    params.Store,
		metrics:  params.Metrics,
		logger:   logger.Named("server"),
		origins:  origins,
		validate: validator.New(),
	}
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	if s.metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.getTree)
		r.Get("/saving", s.getSaving)
		r.Get("/search", s.search)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.addCategory)
			r.Post("/move", s.moveCategory)
			r.Patch("/{id}", s.updateCategory)
			r.Delete("/{id}", s.deleteCategory)

			r.Post("/{id}/subcategories", s.addSubcategory)
			r.Post("/{id}/subcategories/move", s.moveSubcategory)
			r.Patch("/{id}/subcategories/{subID}", s.updateSubcategory)
			r.Delete("/{id}/subcategories/{subID}", s.deleteSubcategory)
		})

		// kind is "category" or "subcategory"
		r.Route("/{kind}/{parentID}/links", func(r chi.Router) {
			r.Post("/", s.addLink)
			r.Post("/move", s.moveLink)
			r.Put("/{linkID}", s.updateLink)
			r.Delete("/{linkID}", s.deleteLink)
		})
	})

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("stopped")
	return nil
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
