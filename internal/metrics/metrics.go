package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Chart metrics
	derivationsTotal   *prometheus.CounterVec
	derivationDuration prometheus.Histogram
	cacheLookups       *prometheus.CounterVec
	unresolvedTrades   prometheus.Counter

	// Engine metrics
	engineRequestsTotal   *prometheus.CounterVec
	engineRequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.derivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btview_chart_derivations_total",
			Help: "Total number of chart derivations by outcome",
		},
		[]string{"status"},
	)
	r.derivationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "btview_chart_derivation_duration_seconds",
			Help:    "Chart derivation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
	r.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btview_chart_cache_lookups_total",
			Help: "Chart cache lookups by result",
		},
		[]string{"result"},
	)
	r.unresolvedTrades = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "btview_unresolved_trades_total",
			Help: "Trades whose dates did not resolve against the candle series",
		},
	)
	r.engineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btview_engine_requests_total",
			Help: "Total number of backtest engine requests",
		},
		[]string{"operation", "status"},
	)
	r.engineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btview_engine_request_duration_seconds",
			Help:    "Backtest engine request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	reg.MustRegister(r.derivationsTotal)
	reg.MustRegister(r.derivationDuration)
	reg.MustRegister(r.cacheLookups)
	reg.MustRegister(r.unresolvedTrades)
	reg.MustRegister(r.engineRequestsTotal)
	reg.MustRegister(r.engineRequestDuration)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordDerivation records a finished chart derivation.
func (r *Registry) RecordDerivation(status string, duration float64) {
	r.derivationsTotal.WithLabelValues(status).Inc()
	r.derivationDuration.Observe(duration)
}

// RecordCacheLookup records a chart cache hit or miss.
func (r *Registry) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// AddUnresolvedTrades counts trades left off the chart overlay.
func (r *Registry) AddUnresolvedTrades(n int) {
	if n > 0 {
		r.unresolvedTrades.Add(float64(n))
	}
}

// RecordEngineRequest records a call to the backtest engine.
func (r *Registry) RecordEngineRequest(operation, status string, duration float64) {
	r.engineRequestsTotal.WithLabelValues(operation, status).Inc()
	r.engineRequestDuration.WithLabelValues(operation).Observe(duration)
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
