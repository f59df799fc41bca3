// Package server exposes a loaded composition over HTTP.
//
// The server holds one composition, loaded at startup and on POST
// /api/reload, and answers read-only queries about it:
//
//	GET  /healthz        build info and the composition name
//	GET  /metrics        Prometheus metrics
//	GET  /api/outline    the description (outline, skills, patterns, depth)
//	GET  /api/layout     the positioned graph as JSON (?selected=<id>)
//	GET  /api/diagram    the diagram (?format=text|ansi|dot|svg|json, ?selected, ?detailed)
//	POST /api/reload     reload the document and re-resolve its skills
package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/skillweave/pkg/buildinfo"
	"github.com/matzehuels/skillweave/pkg/describe"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Runner   *pipeline.Runner
	Path     string              // composition document
	Theme    layout.Theme        // diagram colors
	Gatherer prometheus.Gatherer // nil means prometheus.DefaultGatherer
	Logger   *log.Logger
}

// Server serves one composition.
type Server struct {
	runner   *pipeline.Runner
	path     string
	theme    layout.Theme
	gatherer prometheus.Gatherer
	logger   *log.Logger

	mu   sync.RWMutex
	comp *pipeline.Composition
}

// New loads the composition at opts.Path and returns a server for it.
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server: runner is required")
	}
	s := &Server{
		runner:   opts.Runner,
		path:     opts.Path,
		theme:    opts.Theme,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the composition document. The previous composition keeps
// serving if loading fails.
func (s *Server) Reload(ctx context.Context) error {
	c, err := s.runner.Load(ctx, s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.comp = c
	s.mu.Unlock()
	return nil
}

func (s *Server) composition() *pipeline.Composition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comp
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/outline", s.handleOutline)
		r.Get("/layout", s.handleLayout)
		r.Get("/diagram", s.handleDiagram)
		r.Post("/reload", s.handleReload)
	})
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
		s.logger.Info("serving composition", "addr", addr, "path", s.path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status      string         `json:"status"`
	Build       buildinfo.Info `json:"build"`
	Composition string         `json:"composition"`
	Skills      int            `json:"skills"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.composition()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Build:       buildinfo.Get(),
		Composition: c.Name(),
		Skills:      c.Stats.SkillCount,
	})
}

type outlineResponse struct {
	Name    string `json:"name"`
	Summary string `json:"description,omitempty"`
	*describe.Description
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	c := s.composition()
	resp := outlineResponse{Name: c.Name(), Description: s.runner.Describe(r.Context(), c)}
	if c.Document != nil {
		resp.Summary = c.Document.Description
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, pipeline.FormatJSON)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatText
	}
	s.serveDiagram(w, r, format)
}

func (s *Server) serveDiagram(w http.ResponseWriter, r *http.Request, format string) {
	q := r.URL.Query()
	opts := pipeline.RenderOptions{
		Format:   format,
		Selected: q.Get("selected"),
		Theme:    s.theme,
		Profile:  termenv.TrueColor,
	}
	if v := q.Get("detailed"); v != "" {
		detailed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "detailed: %q is not a boolean", v))
			return
		}
		opts.Detailed = detailed
	}

	c := s.composition()
	if opts.Selected != "" {
		if err := checkSelected(s.runner.Layout(r.Context(), c, layout.Options{}), opts.Selected); err != nil {
			writeError(w, err)
			return
		}
	}
	data, err := s.runner.Render(r.Context(), c, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		s.logger.Error("reload failed", "path", s.path, "err", err)
		writeError(w, err)
		return
	}
	s.handleHealth(w, r)
}

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatANSI: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

func checkSelected(g *layout.Graph, id string) error {
	if _, ok := g.Find(id); !ok {
		return errors.New(errors.ErrCodeNotFound, "no node with id %q", id)
	}
	return nil
}
