package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mechshop",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mechshop",
			Name:      "cache_requests_total",
			Help:      "Response cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, cacheRequests)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint string, status int) {
	httpRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// IncCacheHit and IncCacheMiss count lookaside cache outcomes.
func IncCacheHit()  { cacheRequests.WithLabelValues("hit").Inc() }
func IncCacheMiss() { cacheRequests.WithLabelValues("miss").Inc() }
