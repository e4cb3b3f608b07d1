package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "antioquia"

// Metrics holds the Prometheus collectors for dataset loading and the HTTP API.
type Metrics struct {
	DatasetRows         prometheus.Gauge
	DatasetLoadDuration prometheus.Histogram
	DatasetLoadErrors   prometheus.Counter

	HTTPRequests        *prometheus.CounterVec   // labels: route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: route
	NotComputable       *prometheus.CounterVec   // labels: statistic
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	return m, reg
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the loaded dataset.",
		}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to read and parse the dataset file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		DatasetLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_load_errors_total",
			Help:      "Dataset loads that failed.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		NotComputable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "not_computable_total",
			Help:      "Statistics requested over a view too small to compute them.",
		}, []string{"statistic"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DatasetRows,
		m.DatasetLoadDuration,
		m.DatasetLoadErrors,
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.NotComputable,
	}
}

// ObserveLoad records one dataset load.
func (m *Metrics) ObserveLoad(elapsed time.Duration, rows int, err error) {
	m.DatasetLoadDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.DatasetLoadErrors.Inc()
		return
	}
	m.DatasetRows.Set(float64(rows))
}
