package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// ProviderCalls counts routing provider calls by operation and outcome
	// (ok, error, timeout, no_trip).
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_provider_calls_total", Help: "Routing provider calls by operation and outcome."},
		[]string{"op", "outcome"},
	)
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_provider_latency_ms", Help: "Routing provider latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000}},
		[]string{"op"},
	)
	TravelCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "travel_cache_lookups_total", Help: "Travel cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)

	// Batches counts planned batches by outcome (evaluated, dropped, skipped).
	Batches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "assignment_batches_total", Help: "Batches by outcome."},
		[]string{"outcome"},
	)
	Assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "assignments_total", Help: "Assignment records by SLA status."},
		[]string{"sla_status"},
	)
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "assignment_runs_total", Help: "Assignment runs by result (ok, empty, error)."},
		[]string{"result"},
	)
)

// RegisterDefault registers collectors to Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(ProviderCalls)
		Registry.MustRegister(ProviderLatency)
		Registry.MustRegister(TravelCacheLookups)
		Registry.MustRegister(Batches)
		Registry.MustRegister(Assignments)
		Registry.MustRegister(Runs)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
