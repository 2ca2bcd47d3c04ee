package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Point operations
	PointOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "point_operations_total",
			Help: "Point service calls by operation and outcome",
		},
		[]string{"operation", "result"}, // charge|use|get_point|get_history
	)

	// Per-user locks
	LockRegistryEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "point_lock_registry_entries",
			Help: "User locks currently held or awaited",
		},
	)
	LockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "point_lock_wait_seconds",
			Help:    "Time spent waiting for a user lock",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	initOnce sync.Once
)

// Handler serves the default registry at /metrics.
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Register(prometheus.DefaultRegisterer)
	})
}

func Register(reg prometheus.Registerer) {
	reg.MustRegister(RequestLatency, PointOperations, LockRegistryEntries, LockWait)
}
