// Package metrics defines the Prometheus metrics exported by gophauth.
//
// Metric naming follows Prometheus conventions:
//   - gophauth_ prefix for all metrics
//   - _total suffix for counters
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache request results.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultStore  = "store"
	ResultDelete = "delete"
	ResultError  = "error"
	ResultStale  = "stale"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// Registry holds every gophauth collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

var (
	// CacheRequestsTotal counts cache operations by cache name and result.
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophauth_cache_requests_total",
			Help: "Cache operations by cache and result.",
		},
		[]string{"cache", "result"},
	)

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gophauth_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		CacheRequestsTotal,
		LoginsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordCache records one cache operation.
func RecordCache(cache, result string) {
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// RecordLogin records one login attempt.
func RecordLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
