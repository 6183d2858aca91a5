// Package content assembles item resolution: the collection service, the
// opened-set aggregator and the HTTP handler serving the catalog's
// activities.
package content

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"newsdesk/internal/activity"
	"newsdesk/internal/content/criteria"
	"newsdesk/internal/content/handler"
	"newsdesk/internal/content/metrics"
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/service"
)

// Deps are the collaborators of the content module.
type Deps struct {
	Ingest  service.Repository
	Archive service.Repository
	Opened  service.OpenedSetStore
	Catalog *activity.Catalog
	Auditor handler.Auditor
	Logger  *slog.Logger
	// Registerer receives the content metrics; nil uses the default registry.
	Registerer prometheus.Registerer
	// FetchConcurrency bounds opened-set fetches; 0 is unbounded.
	FetchConcurrency int
	CriteriaTTL      time.Duration
	// DetailMiddleware wraps the article routes.
	DetailMiddleware []func(http.Handler) http.Handler
}

// Module is the wired content module.
type Module struct {
	Service    *service.Service
	Aggregator *service.Aggregator
	Handler    *handler.Handler
}

// New wires the content module.
func New(d Deps) *Module {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := metrics.NewWith(reg)

	svc := service.New(map[models.Collection]service.Repository{
		models.Ingest:  d.Ingest,
		models.Archive: d.Archive,
	},
		service.WithLogger(logger),
		service.WithMetrics(m),
	)
	agg := service.NewAggregator(svc, d.Opened, service.AggregatorConfig{
		Concurrency: d.FetchConcurrency,
		Logger:      logger,
		Metrics:     m,
	})

	opts := []handler.Option{
		handler.WithLogger(logger),
		handler.WithDetailMiddleware(d.DetailMiddleware...),
	}
	if d.Auditor != nil {
		opts = append(opts, handler.WithAuditor(d.Auditor))
	}
	h := handler.New(d.Catalog, svc, agg, criteria.NewBuilder(criteria.NewLocationParams(d.CriteriaTTL)), opts...)

	return &Module{Service: svc, Aggregator: agg, Handler: h}
}

// Register mounts the content routes.
func (m *Module) Register(r chi.Router) {
	m.Handler.Register(r)
}
