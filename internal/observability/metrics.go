package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the gateway's Prometheus collectors.
type Metrics struct {
	requests        *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	refreshAttempts prometheus.Counter
	refreshFailures prometheus.Counter
	refreshShared   prometheus.Counter
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics builds and registers collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Requests served, by route, method and status.",
		}, []string{"route", "method", "status"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_errors_total",
			Help: "Request failures, by route, method and error code.",
		}, []string{"route", "method", "code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_upstream_duration_seconds",
			Help:    "Latency of calls to the backend API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		refreshAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_token_refresh_attempts_total",
			Help: "Token refresh calls started.",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_token_refresh_failures_total",
			Help: "Token refresh calls that failed and forced logout.",
		}),
		refreshShared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_token_refresh_shared_total",
			Help: "Requests that awaited an already in-flight refresh.",
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_store_cache_hits_total",
			Help: "Resource store reads answered from cache.",
		}, []string{"store"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_store_cache_misses_total",
			Help: "Resource store reads that went upstream.",
		}, []string{"store"}),
	}

	reg.MustRegister(
		m.requests, m.errorsTotal, m.upstreamLatency,
		m.refreshAttempts, m.refreshFailures, m.refreshShared,
		m.cacheHits, m.cacheMisses,
	)
	return m
}

// RecordRequest counts a served request.
func (m *Metrics) RecordRequest(route, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// RecordError counts a request that resolved to an error code.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(route, method, code).Inc()
}

// ObserveUpstream records one backend call.
func (m *Metrics) ObserveUpstream(operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RefreshStarted counts a refresh call actually issued.
func (m *Metrics) RefreshStarted() {
	if m == nil {
		return
	}
	m.refreshAttempts.Inc()
}

// RefreshFailed counts a refresh that ended in forced logout.
func (m *Metrics) RefreshFailed() {
	if m == nil {
		return
	}
	m.refreshFailures.Inc()
}

// RefreshCoalesced counts a caller that piggybacked on an in-flight refresh.
func (m *Metrics) RefreshCoalesced() {
	if m == nil {
		return
	}
	m.refreshShared.Inc()
}

// CacheHit counts a store read served from cache.
func (m *Metrics) CacheHit(store string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(store).Inc()
}

// CacheMiss counts a store read that refetched.
func (m *Metrics) CacheMiss(store string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(store).Inc()
}
