// Package metrics defines the Prometheus collectors shared by the services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

const namespace = "rewear"

// SwapOperations counts swap manager calls by operation and outcome.
// Outcome is "ok" or the error kind.
var SwapOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "swap",
	Name:      "operations_total",
	Help:      "Total swap operations by operation and outcome.",
}, []string{"operation", "outcome"})

// HTTPRequests tracks request latency by route and status.
var HTTPRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method, route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// OutboxPublished counts outbox messages by publish result.
var OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "outbox",
	Name:      "messages_total",
	Help:      "Outbox messages handled by the poller, by result.",
}, []string{"result"})

// EventsProjected counts swap events consumed by the projector, by result.
var EventsProjected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "projector",
	Name:      "events_total",
	Help:      "Swap events handled by the projector, by result.",
}, []string{"result"})

// Outcome labels an operation result
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(shared.KindOf(err))
}

// ObserveSwapOperation records one swap manager call
func ObserveSwapOperation(operation string, err error) {
	SwapOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveHTTPRequest records one served request
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
