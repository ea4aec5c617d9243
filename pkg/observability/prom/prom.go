// Package prom implements the observability hooks with Prometheus metrics.
//
// A single Hooks value satisfies LayoutHooks, CacheHooks and HTTPHooks, so
// one registration covers the whole process:
//
//	reg := prometheus.NewRegistry()
//	h := prom.New(reg)
//	observability.SetLayoutHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/kklayout/pkg/observability"
)

// Result label values for kklayout_layouts_total.
const (
	ResultConverged = "converged"
	ResultExhausted = "exhausted"
	ResultError     = "error"
)

// Cache event label values for kklayout_cache_events_total.
const (
	EventHit  = "hit"
	EventMiss = "miss"
	EventSet  = "set"
)

// Hooks records observability events as Prometheus metrics.
type Hooks struct {
	registry prometheus.Registerer

	LayoutsTotal     *prometheus.CounterVec
	LayoutsInFlight  prometheus.Gauge
	LayoutDuration   prometheus.Histogram
	LayoutIterations prometheus.Histogram
	LayoutNodes      prometheus.Histogram

	CacheEventsTotal *prometheus.CounterVec
	CacheBytesTotal  *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

var (
	_ observability.LayoutHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.HTTPHooks   = (*Hooks)(nil)
)

// New creates the metric set and registers it with reg. It panics if a
// metric with the same name is already registered, as promauto does.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{registry: reg}
	h.initLayoutMetrics()
	h.initCacheMetrics()
	h.initHTTPMetrics()
	return h
}

func (h *Hooks) initLayoutMetrics() {
	h.LayoutsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kklayout_layouts_total",
			Help: "Total number of layout runs",
		},
		[]string{"result"}, // converged, exhausted, error
	)

	h.LayoutsInFlight = promauto.With(h.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kklayout_layouts_in_flight",
			Help: "Number of layout runs currently executing",
		},
	)

	h.LayoutDuration = promauto.With(h.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kklayout_layout_duration_seconds",
			Help:    "Duration of layout runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	h.LayoutIterations = promauto.With(h.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kklayout_layout_iterations",
			Help:    "Optimizer iterations performed per layout run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	h.LayoutNodes = promauto.With(h.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kklayout_layout_nodes",
			Help:    "Number of vertices per layout run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)
}

func (h *Hooks) initCacheMetrics() {
	h.CacheEventsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kklayout_cache_events_total",
			Help: "Total number of cache lookups and writes",
		},
		[]string{"key_type", "event"}, // event: hit, miss, set
	)

	h.CacheBytesTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kklayout_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		},
		[]string{"key_type"},
	)
}

func (h *Hooks) initHTTPMetrics() {
	h.HTTPRequestsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kklayout_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	h.HTTPRequestDuration = promauto.With(h.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kklayout_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	h.HTTPInFlight = promauto.With(h.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kklayout_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
}

// OnLayoutStart implements observability.LayoutHooks.
func (h *Hooks) OnLayoutStart(_ context.Context, nodes, _ int) {
	h.LayoutsInFlight.Inc()
	h.LayoutNodes.Observe(float64(nodes))
}

// OnLayoutComplete implements observability.LayoutHooks.
func (h *Hooks) OnLayoutComplete(_ context.Context, ev observability.LayoutEvent) {
	h.LayoutsInFlight.Dec()
	h.LayoutDuration.Observe(ev.Duration.Seconds())

	switch {
	case ev.Err != nil:
		h.LayoutsTotal.WithLabelValues(ResultError).Inc()
		return
	case ev.Converged:
		h.LayoutsTotal.WithLabelValues(ResultConverged).Inc()
	default:
		h.LayoutsTotal.WithLabelValues(ResultExhausted).Inc()
	}
	h.LayoutIterations.Observe(float64(ev.Iterations))
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheEventsTotal.WithLabelValues(keyType, EventHit).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheEventsTotal.WithLabelValues(keyType, EventMiss).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheEventsTotal.WithLabelValues(keyType, EventSet).Inc()
	h.CacheBytesTotal.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (h *Hooks) OnRequest(context.Context, string, string) {
	h.HTTPInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.HTTPInFlight.Dec()
	h.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
