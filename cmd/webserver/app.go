package main

import (
	"context"
	"net/http"

	"github.com/turtacn/patentlens/internal/config"
	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/patentlens/internal/interfaces/http"
	"github.com/turtacn/patentlens/internal/interfaces/http/handlers"
	"github.com/turtacn/patentlens/internal/interfaces/http/middleware"
	"github.com/turtacn/patentlens/internal/session"
	"github.com/turtacn/patentlens/internal/ui/card"
	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/client"
)

// application holds the long-lived components of the web server.
type application struct {
	server  *httpserver.Server
	handler http.Handler
	store   *session.Store
	limiter *middleware.TokenBucketLimiter
	logger  logging.Logger
}

// newApplication wires every component from cfg.
func newApplication(cfg *config.Config, logger logging.Logger, version string) (*application, error) {
	app := &application{logger: logger}

	api, err := client.NewClient(cfg.Analysis.BaseURL,
		client.WithEndpoint(cfg.Analysis.Endpoint),
		client.WithTimeout(cfg.Analysis.Timeout),
		client.WithUserAgent(userAgent(cfg, version)),
		client.WithLogger(logging.NewPrintf(logger.Named("client"))),
	)
	if err != nil {
		return nil, err
	}

	rc := httpserver.RouterConfig{
		PageHandler:       handlers.NewPageHandler(logger, cfg.Server.MaxBodySize),
		APIHandler:        handlers.NewAPIHandler(logger, cfg.Server.MaxBodySize),
		HealthHandler:     handlers.NewHealthHandler(version, handlers.UpstreamChecker{Pinger: api}),
		CardHandler:       handlers.NewCardHandler(card.NewRenderer(logger)),
		LoggingMiddleware: middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()),
		CORSMiddleware: middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
	}

	formOpts := []form.Option{form.WithLogger(logger)}
	storeOpts := []session.Option{session.WithLogger(logger)}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		metrics := prometheus.NewFrontendMetrics(collector)
		formOpts = append(formOpts, form.WithObserver(metrics))
		storeOpts = append(storeOpts, session.WithSizeObserver(metrics.SetActiveSessions))
		rc.MetricsMiddleware = middleware.Metrics(metrics)
		rc.MetricsCollector = collector
		rc.MetricsPath = cfg.Metrics.Path
	}

	app.store = session.NewStore(session.Config{
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
	}, func() *form.Form {
		return form.New(api, formOpts...)
	}, storeOpts...)
	rc.SessionMiddleware = middleware.Session(app.store, middleware.SessionConfig{Secure: cfg.Session.CookieSecure})

	if cfg.RateLimit.Enabled {
		app.limiter = middleware.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.CleanupInterval)
		rc.RateLimitMiddleware = middleware.RateLimit(app.limiter, middleware.RateLimitConfig{
			Methods: []string{http.MethodPost},
		})
	}

	app.handler = httpserver.NewRouter(rc)
	app.server = httpserver.NewServer(cfg.Server, app.handler, logger)
	app.server.OnShutdown(app.store.Close)
	return app, nil
}

func userAgent(cfg *config.Config, version string) string {
	if cfg.Analysis.UserAgent != "" {
		return cfg.Analysis.UserAgent
	}
	return "patentlens-web/" + version
}

// Shutdown stops accepting requests and waits for the open ones. Sessions are
// torn down as soon as the server starts shutting down, so an analysis still
// in flight is cancelled instead of holding the drain until ctx expires.
func (a *application) Shutdown(ctx context.Context) error {
	err := a.server.Stop(ctx)
	a.store.Close()
	if a.limiter != nil {
		a.limiter.Stop()
	}
	return err
}
