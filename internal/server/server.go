// Package server exposes the storefront as a JSON HTTP API.
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
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/storefront"
)

const shutdownTimeout = 5 * time.Second

// Server serves the storefront API.
type Server struct {
	svc      *storefront.Service
	log      zerolog.Logger
	strategy recommend.Strategy
	limit    int
	origins  []string
	perMin   int
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the strategy and limit used when a recommendation
// request omits them.
func WithDefaults(strategy recommend.Strategy, limit int) Option {
	return func(s *Server) {
		if strategy != "" {
			s.strategy = strategy
		}
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithCORS allows browser requests from origins.
func WithCORS(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithRateLimit limits each client IP to perMinute API requests. Zero
// disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		s.perMin = perMinute
	}
}

// New creates a new Server.
func New(svc *storefront.Service, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		log:      log,
		strategy: recommend.ForYou,
		limit:    recommend.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.accessLog)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(countRequests)
		if s.perMin > 0 {
			r.Use(httprate.Limit(s.perMin, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(s.tooManyRequests),
			))
		}

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/recommendations", s.recommendations)
		r.Get("/convert", s.convert)

		r.Route("/history", func(r chi.Router) {
			r.Get("/searches", s.listSearches)
			r.Post("/searches", s.addSearch)
			r.Delete("/searches", s.clearSearches)

			r.Get("/viewed", s.listViewed)
			r.Post("/viewed", s.addViewed)
			r.Delete("/viewed", s.clearViewed)
		})
	})

	return r
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
		s.log.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
