// Package server exposes a diagram store over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /diagrams
//	GET    /diagrams/{name}                  records as JSON, or YAML with ?format=yaml
//	PUT    /diagrams/{name}                  body is a JSON or YAML record array
//	DELETE /diagrams/{name}
//	GET    /diagrams/{name}/render/{format}  svg, png, dot, json or yaml
//
// Render accepts the query parameters grid, scale, highlight and auto.
// Errors are written as {"error": "...", "code": "..."}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/structboard/pkg/observability"
	"github.com/matzehuels/structboard/pkg/pipeline"
	"github.com/matzehuels/structboard/pkg/store"
)

// maxBodyBytes bounds PUT request bodies.
const maxBodyBytes = 8 << 20

// Server serves one store.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New builds the router. A nil runner renders without caching.
func New(s store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	srv := &Server{store: s, runner: runner, logger: logger}
	srv.router = srv.routes()
	return srv
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Get("/render/{format}", s.handleRender)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports each request to the HTTP hooks with its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}
