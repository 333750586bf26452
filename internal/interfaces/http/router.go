package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patentlens/internal/interfaces/http/handlers"
)

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// RouterConfig aggregates the handler and middleware dependencies required to
// construct the route tree. Nil entries are skipped.
type RouterConfig struct {
	// Handlers
	PageHandler   *handlers.PageHandler
	APIHandler    *handlers.APIHandler
	HealthHandler *handlers.HealthHandler
	CardHandler   *handlers.CardHandler

	// Middleware
	LoggingMiddleware   Middleware
	MetricsMiddleware   Middleware
	SessionMiddleware   Middleware
	CORSMiddleware      Middleware
	RateLimitMiddleware Middleware

	// Infrastructure
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the HTTP route tree.
//
//	GET  /healthz, /readyz, /metrics       probes and exposition
//	GET  /card                             card component preview
//	GET  /            POST /analyze        HTML page (session-bound)
//	GET  /api/v1/form POST /api/v1/analyze JSON API (session-bound, CORS)
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware)
	}
	r.Use(chimw.Recoverer)
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware)
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}
	if cfg.CardHandler != nil {
		r.Get("/card", cfg.CardHandler.Preview)
	}

	r.Group(func(pg chi.Router) {
		use(pg, cfg.SessionMiddleware, cfg.RateLimitMiddleware)
		if h := cfg.PageHandler; h != nil {
			pg.Get("/", h.Index)
			pg.Post("/analyze", h.Analyze)
		}
	})

	r.Route("/api/v1", func(api chi.Router) {
		use(api, cfg.CORSMiddleware, cfg.SessionMiddleware, cfg.RateLimitMiddleware)
		if h := cfg.APIHandler; h != nil {
			api.Get("/form", h.GetForm)
			api.Post("/analyze", h.Analyze)
		}
	})

	return r
}

func use(r chi.Router, mws ...Middleware) {
	for _, mw := range mws {
		if mw != nil {
			r.Use(mw)
		}
	}
}
