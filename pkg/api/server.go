// Package api serves the samplers, validators, and flip sessions over HTTP.
//
// # Routes
//
//	GET    /v1/paths/random?arity=&length=     random Dyck path
//	POST   /v1/paths/decode                    {"path": "..."} -> tree
//	GET    /v1/dissections/random?sides=       random triangulation
//	POST   /v1/dissections/validate            {"sides": n, "diagonals": [...]}
//	POST   /v1/dissections/next                following triangulation
//	POST   /v1/sessions                        start a flip session
//	GET    /v1/sessions/{id}                   current triangulation
//	POST   /v1/sessions/{id}/flip/{index}      flip one diagonal
//	GET    /v1/sessions/{id}/plot              plot data file
//	GET    /v1/sessions/{id}/svg               rendered polygon
//	DELETE /v1/sessions/{id}                   end a session
//
// Errors are returned as {"code": "...", "error": "..."} with a status
// derived from the error code.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dissect/pkg/cache"
	"github.com/matzehuels/dissect/pkg/session"
)

// Options bounds what a single request may ask for.
type Options struct {
	MaxLength  int           // longest random path
	MaxSides   int           // largest polygon
	SessionTTL time.Duration // idle time before a flip session is dropped

	// Cache holds rendered session drawings. Nil disables caching.
	Cache cache.Cache
}

// DefaultOptions returns limits suitable for a public server.
func DefaultOptions() Options {
	return Options{
		MaxLength:  1_000_000,
		MaxSides:   100_000,
		SessionTTL: session.DefaultTTL,
	}
}

// Server holds the router and the flip sessions.
type Server struct {
	opts     Options
	sessions session.Store
	logger   *log.Logger
	router   chi.Router
}

// New returns a server. A nil store gets a fresh [session.MemoryStore]; a
// nil logger gets the default logger.
func New(opts Options, store session.Store, logger *log.Logger) *Server {
	if store == nil {
		store = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	s := &Server{opts: opts, sessions: store, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/paths/random", s.handleRandomPath)
		r.Post("/paths/decode", s.handleDecodePath)

		r.Get("/dissections/random", s.handleRandomDissection)
		r.Post("/dissections/validate", s.handleValidateDissection)
		r.Post("/dissections/next", s.handleNextDissection)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/flip/{index}", s.handleFlip)
				r.Get("/plot", s.handlePlot)
				r.Get("/svg", s.handleSVG)
			})
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept once a minute.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
