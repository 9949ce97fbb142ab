package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the counters the service reports on /metrics.
type Collector struct {
	registry *prometheus.Registry

	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
	GeocodeCacheTotal     *prometheus.CounterVec
	BatchCitiesTotal      *prometheus.CounterVec
	HTTPRequestsTotal     *prometheus.CounterVec
}

var (
	defaultCollector *Collector
	once             sync.Once
)

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Upstream provider requests by provider, endpoint and outcome",
			},
			[]string{"provider", "endpoint", "outcome"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream provider request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"provider"},
		),
		GeocodeCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "geocode_cache_total",
				Help:      "Geocode cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
		BatchCitiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_cities_total",
				Help:      "Per-city outcomes of batch lookups",
			},
			[]string{"status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "API requests by route and status code",
			},
			[]string{"route", "status"},
		),
	}
	c.registry.MustRegister(
		c.UpstreamRequestsTotal,
		c.UpstreamDuration,
		c.GeocodeCacheTotal,
		c.BatchCitiesTotal,
		c.HTTPRequestsTotal,
	)
	return c
}

// Default returns the process-wide collector.
func Default() *Collector {
	once.Do(func() {
		defaultCollector = NewCollector("city_weather")
	})
	return defaultCollector
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
