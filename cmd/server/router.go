package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"udyam/internal/platform/health"
	"udyam/internal/platform/metrics"
	"udyam/pkg/platform/middleware/request"
	"udyam/pkg/platform/middleware/requesttime"
)

const maxBodyBytes = 1 << 20

// routeRegistrar is implemented by every feature handler.
type routeRegistrar interface {
	Register(r chi.Router)
}

type routerConfig struct {
	FrontendURL    string
	RequestTimeout time.Duration
}

// newRouter assembles the middleware chain and mounts feature handlers under /api.
func newRouter(
	cfg routerConfig,
	logger *slog.Logger,
	httpMetrics *metrics.Metrics,
	gatherer prometheus.Gatherer,
	healthHandler *health.Handler,
	api ...routeRegistrar,
) chi.Router {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(request.CORS(cfg.FrontendURL))
	r.Use(httpMetrics.Middleware)

	r.Get("/", handleBanner)
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(request.Timeout(cfg.RequestTimeout))
		r.Use(request.BodyLimit(maxBodyBytes))
		r.Use(request.ContentTypeJSON)
		for _, h := range api {
			h.Register(r)
		}
	})

	return r
}

func handleBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Udyam Registration API"))
}
