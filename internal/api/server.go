// Package api serves the card pipeline over HTTP.
//
// Routes:
//
//	GET  /api/health                  liveness and version
//	POST /api/cards                   card spec (JSON) -> card PNG
//	POST /api/grid                    page config (JSON) -> grid geometry
//	POST /api/sheets                  specs and page config -> sheet summary
//	GET  /api/sheets/{id}/pages/{n}   page n of a sheet as PNG
//	GET  /api/sheets/{id}/pdf         all pages of a sheet as PDF
//
// Generated sheets are kept in a cache for cache.TTLSheet so that clients can
// download pages after the request that created them. With a Redis cache the
// downloads work across server instances.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/page"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	Runner   *pipeline.Runner  // runs the pipeline; its Cache also stores sheets
	Composer pipeline.Composer // renders cards with the server's card config
	Page     page.Config       // defaults for /api/grid and /api/sheets
	Logger   *log.Logger
	SheetTTL time.Duration // zero means cache.TTLSheet
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	composer pipeline.Composer
	page     page.Config
	logger   *log.Logger
	sheetTTL time.Duration
	router   chi.Router
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(cache.NewMemoryCache(), nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = opts.Runner.Logger
	}
	if opts.SheetTTL <= 0 {
		opts.SheetTTL = cache.TTLSheet
	}

	s := &Server{
		runner:   opts.Runner,
		composer: opts.Composer,
		page:     opts.Page,
		logger:   opts.Logger,
		sheetTTL: opts.SheetTTL,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/cards", s.handleCard)
		r.Post("/grid", s.handleGrid)
		r.Post("/sheets", s.handleCreateSheet)
		r.Get("/sheets/{id}/pages/{n}", s.handleSheetPage)
		r.Get("/sheets/{id}/pdf", s.handleSheetPDF)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe logs each request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))

		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
