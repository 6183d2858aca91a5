package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for content resolution.
// Tracks query and fetch latency per collection and opened-set outcomes.
type Metrics struct {
	QueryDuration     *prometheus.HistogramVec
	FetchDuration     *prometheus.HistogramVec
	FetchFailures     *prometheus.CounterVec
	OpenedSetSize     prometheus.Histogram
	AggregateFailures prometheus.Counter
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a Metrics instance registered with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newsdesk_content_query_duration_seconds",
			Help:    "Duration of collection queries",
			Buckets: latencyBuckets,
		}, []string{"collection"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newsdesk_content_fetch_duration_seconds",
			Help:    "Duration of single item fetches",
			Buckets: latencyBuckets,
		}, []string{"collection"}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_content_fetch_failures_total",
			Help: "Single item fetches that failed, by collection and reason",
		}, []string{"collection", "reason"}),
		OpenedSetSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsdesk_opened_set_size",
			Help:    "Number of references in resolved opened sets",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		AggregateFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_opened_set_failures_total",
			Help: "Opened-set resolutions with at least one failed reference",
		}),
	}
}

// ObserveQuery records the duration of a collection query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveQuery(collection string, start time.Time) {
	m.QueryDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
}

// ObserveFetch records the duration of a single item fetch.
func (m *Metrics) ObserveFetch(collection string, start time.Time) {
	m.FetchDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
}

// IncrementFetchFailure counts a failed fetch; reason is "not_found" or "error".
func (m *Metrics) IncrementFetchFailure(collection, reason string) {
	m.FetchFailures.WithLabelValues(collection, reason).Inc()
}

// ObserveOpenedSet records the size of a resolved opened set and whether it failed.
func (m *Metrics) ObserveOpenedSet(size int, failed bool) {
	m.OpenedSetSize.Observe(float64(size))
	if failed {
		m.AggregateFailures.Inc()
	}
}
