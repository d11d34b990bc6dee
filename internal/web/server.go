// Package web exposes the PRO codec over HTTP: read a PRO document into a
// JSON table, write a JSON table back out as PRO, export to XLSX, import into
// PostgreSQL and translate Excel date patterns.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/procodec/internal/config"
	"github.com/JonMunkholm/procodec/internal/pro"
	"github.com/JonMunkholm/procodec/internal/store"
	"github.com/JonMunkholm/procodec/internal/web/middleware"
)

// Server is the HTTP server for the codec service.
type Server struct {
	cfg      *config.Config
	importer *store.Importer
	readOpts pro.ReadOptions
	writeOpt pro.WriteOptions
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a server from validated configuration. importer may be
// nil or disabled; the import endpoint then answers 503.
func NewServer(cfg *config.Config, importer *store.Importer) (*Server, error) {
	readOpts, err := cfg.Codec.ReadOptions()
	if err != nil {
		return nil, fmt.Errorf("codec read options: %w", err)
	}
	writeOpts, err := cfg.Codec.WriteOptions()
	if err != nil {
		return nil, fmt.Errorf("codec write options: %w", err)
	}
	if importer == nil {
		importer = store.NewImporter(nil, cfg.Database.Schema, nil, 0)
	}

	s := &Server{
		cfg:      cfg,
		importer: importer,
		readOpts: readOpts,
		writeOpt: writeOpts,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys))

		r.Get("/translate", s.handleTranslate)

		// Document endpoints carry whole files and get a tighter limit.
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(s.newRateLimiter(s.cfg.Rate.UploadLimit).middleware)
			}
			r.Post("/read", s.handleRead)
			r.Post("/write", s.handleWrite)
			r.Post("/export/xlsx", s.handleExportXLSX)
			r.Post("/import/{table}", s.handleImport)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown waits for in-flight imports, then stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}

	if limiter := s.importer.Limiter(); limiter != nil {
		if active := limiter.ActiveCount(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := limiter.WaitForDrain(ctx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			}
		}
	}

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) newRateLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// writeError writes a plain JSON error for failures that have no UserMessage.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
