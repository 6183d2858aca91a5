package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process level Prometheus metrics.
type Metrics struct {
	registry     *prometheus.Registry
	BuildInfo    *prometheus.GaugeVec
	HTTPRequests *prometheus.CounterVec
}

// New creates the process level metrics on their own registry. The default
// registry still carries the Go and process collectors and package level
// metrics; Handler serves both.
func New(version string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		BuildInfo: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "newsdesk_build_info",
			Help: "Build information of the running newsdesk server",
		}, []string{"version"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_http_requests_total",
			Help: "HTTP requests served by route pattern and status class",
		}, []string{"route", "class"}),
	}
	m.BuildInfo.WithLabelValues(version).Set(1)
	return m
}

// Registerer exposes the registry so domain metrics register alongside.
func (m *Metrics) Registerer() prometheus.Registerer {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, m.registry}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// IncrementRequest counts one served request.
func (m *Metrics) IncrementRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
