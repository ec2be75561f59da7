package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes and snapshot persistence health.
type CartMetrics struct {
	operations   *prometheus.CounterVec
	persistFails prometheus.Counter
	lineCount    prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	persistFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Snapshot writes that failed and were dropped.",
	})
	lineCount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_lines",
		Help:    "Line count observed after each mutation.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
	reg.MustRegister(operations, persistFails, lineCount)
	return &CartMetrics{
		operations:   operations,
		persistFails: persistFails,
		lineCount:    lineCount,
	}
}

// IncOperation counts a completed cart mutation.
func (c *CartMetrics) IncOperation(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure counts a dropped snapshot write.
func (c *CartMetrics) IncPersistFailure() {
	if c == nil || c.persistFails == nil {
		return
	}
	c.persistFails.Inc()
}

// ObserveLineCount records the cart size after a mutation.
func (c *CartMetrics) ObserveLineCount(lines int) {
	if c == nil || c.lineCount == nil {
		return
	}
	c.lineCount.Observe(float64(lines))
}

// HTTPMetrics records request durations by route and status class.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	reg.MustRegister(duration)
	return &HTTPMetrics{duration: duration}
}

// ObserveRequest records one served request.
func (h *HTTPMetrics) ObserveRequest(method, status string, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(status)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
