package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteCallLatency records remote store call latency by service and operation.
	RemoteCallLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glimpse_remote_call_latency_seconds",
		Help:    "Remote store call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "operation"})

	// RemoteCallErrors counts failed remote store calls by service and operation.
	RemoteCallErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_remote_call_errors_total",
		Help: "Total number of failed remote store calls",
	}, []string{"service", "operation"})

	// SagaCompensations counts compensating actions run after a step failure.
	SagaCompensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_saga_compensations_total",
		Help: "Total number of saga compensations by operation and step",
	}, []string{"operation", "step"})

	// OrphanedBlobs counts blobs left behind by orchestrations that could not
	// delete them.
	OrphanedBlobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_orphaned_blobs_total",
		Help: "Total number of blobs orphaned by incomplete orchestrations",
	}, []string{"operation"})

	// RateLimitDrops counts requests rejected by the gateway rate limiter.
	RateLimitDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_rate_limit_drops_total",
		Help: "Total number of rate limited requests by resource",
	}, []string{"resource"})
)

// TrackRemoteCall returns a function that records call latency when called
// (e.g. defer).
func TrackRemoteCall(service, operation string) func() {
	start := time.Now()
	return func() {
		RemoteCallLatency.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
	}
}

// InitHTTPMetrics creates the Prometheus middleware for the gateway.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
