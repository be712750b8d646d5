// Package metrics owns the Prometheus collectors of a service.
//
// Each service builds its own registry instead of using the global default,
// so several can coexist in one process (tests).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deppfellow/shop-microservices/internal/config"
)

// Metrics holds the collectors of one service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDurations       *prometheus.HistogramVec
	ordersPlaced        prometheus.Counter
	productsCreated     prometheus.Counter
	orderEvents         *prometheus.CounterVec
	rateLimitHits       prometheus.Counter
	healthCheckFailures *prometheus.CounterVec
}

// New registers the collectors of service under a fresh registry. service is
// attached to every series as a constant label. Business counters are only
// registered for the service that owns them.
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Number of HTTP requests handled, by method, route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency in seconds.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "orders_placed_total",
			Help:        "Number of orders persisted.",
			ConstLabels: constLabels,
		}),
		productsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "products_created_total",
			Help:        "Number of products persisted.",
			ConstLabels: constLabels,
		}),
		orderEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "order_events_published_total",
			Help:        "Order placed events handled by the worker, by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		rateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rate_limit_hits_total",
			Help:        "Requests rejected by the rate limiter.",
			ConstLabels: constLabels,
		}),
		healthCheckFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "health_check_failures_total",
			Help:        "Failed dependency checks, by check name.",
			ConstLabels: constLabels,
		}, []string{"check"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDurations,
		m.rateLimitHits,
		m.healthCheckFailures,
	)

	switch config.Service(service) {
	case config.OrderService:
		reg.MustRegister(m.ordersPlaced, m.orderEvents)
	case config.ProductService:
		reg.MustRegister(m.productsCreated)
	}

	return m
}

// ObserveHTTP records one finished request. route is the matched route
// pattern, not the raw path, to keep cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderPlaced counts a persisted order.
func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// ProductCreated counts a persisted product.
func (m *Metrics) ProductCreated() {
	if m == nil {
		return
	}
	m.productsCreated.Inc()
}

// OrderEvent counts a worker outcome: "published", "logged" or "failed".
func (m *Metrics) OrderEvent(result string) {
	if m == nil {
		return
	}
	m.orderEvents.WithLabelValues(result).Inc()
}

// RateLimitHit counts a request rejected with 429.
func (m *Metrics) RateLimitHit() {
	if m == nil {
		return
	}
	m.rateLimitHits.Inc()
}

// HealthCheckFailed counts a failed ping of the named dependency.
func (m *Metrics) HealthCheckFailed(check string) {
	if m == nil {
		return
	}
	m.healthCheckFailures.WithLabelValues(check).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
