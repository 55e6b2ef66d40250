package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comag_lookups_total",
		Help: "Total number of table lookups by quantity",
	}, []string{"quantity"})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comag_http_requests_total",
		Help: "Total number of API requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comag_http_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
	}, []string{"route"})
	ReferenceDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "comag_reference_duration_ms",
		Help:    "Full model evaluation duration in milliseconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comag_reference_cache_hits_total",
		Help: "Reference cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comag_reference_cache_misses_total",
		Help: "Reference cache misses",
	})
	WebSocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "comag_websocket_clients",
		Help: "Connected WebSocket clients",
	})
	SitesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "comag_sites",
		Help: "Number of stored sites",
	})
)

func init() {
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(ReferenceDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(WebSocketClients)
	prometheus.MustRegister(SitesTotal)
}

func Handler() http.Handler { return promhttp.Handler() }
