// Package httpapi assembles the public router: the shared middleware chain
// followed by every module's routes.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"newsdesk/internal/activity"
	activityhandler "newsdesk/internal/activity/handler"
	"newsdesk/internal/content"
	"newsdesk/internal/permissions"
	permissionshandler "newsdesk/internal/permissions/handler"
	"newsdesk/internal/platform/health"
	"newsdesk/internal/platform/metrics"
	"newsdesk/internal/platform/middleware"
)

// Deps are the modules the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Health         *health.Checker
	Content        *content.Module
	Permissions    *permissions.Registry
	Catalog        *activity.Catalog
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	d.Content.Register(r)
	permissionshandler.New(d.Permissions, logger).Register(r)
	activityhandler.New(d.Catalog).Register(r)
	if d.Health != nil {
		r.Get("/health", d.Health.Handler())
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	return r
}
