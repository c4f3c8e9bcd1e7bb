package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mapache"

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "REST API requests by resource, method and status.",
		},
		[]string{"resource", "method", "status"},
	)

	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "REST API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	)

	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Booking and catalog operations by outcome.",
		},
		[]string{"operation", "result"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Domain events published on the bus.",
		},
		[]string{"type"},
	)

	updateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bot_update_duration_seconds",
			Help:      "Time spent handling a Telegram update.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendRequests, backendLatency, operations, domainEvents, updateDuration)
	})
}

// ObserveBackend records one REST call. status 0 means the request never got a response.
func ObserveBackend(resource, method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendRequests.WithLabelValues(resource, method, label).Inc()
	backendLatency.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// IncOperation counts an operation outcome, e.g. ("create_appointment", "ok").
func IncOperation(operation, result string) {
	operations.WithLabelValues(operation, result).Inc()
}

// IncEvent counts a published domain event.
func IncEvent(eventType string) {
	domainEvents.WithLabelValues(eventType).Inc()
}

// ObserveUpdate records the handling time of a bot update.
func ObserveUpdate(elapsed time.Duration) {
	updateDuration.Observe(elapsed.Seconds())
}
