// Package metrics holds the Prometheus instruments of the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Limiter label values.
const (
	LimiterRoute      = "route"
	LimiterGlobalLike = "global_like"
)

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
	likesAdded      prometheus.Counter
	visitsRecorded  prometheus.Counter
}

// New registers every instrument on a private registry so tests and
// multiple servers in one process do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_rate_limited_total",
			Help: "Requests rejected by an admission limiter.",
		}, []string{"limiter", "route"}),
		likesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_likes_added_total",
			Help: "Successful like increments.",
		}),
		visitsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_visits_recorded_total",
			Help: "Visit log rows written.",
		}),
	}

	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.rateLimited,
		m.likesAdded,
		m.visitsRecorded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) RateLimited(limiter, route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(limiter, route).Inc()
}

func (m *Metrics) LikeAdded() {
	if m == nil {
		return
	}
	m.likesAdded.Inc()
}

func (m *Metrics) VisitRecorded() {
	if m == nil {
		return
	}
	m.visitsRecorded.Inc()
}
