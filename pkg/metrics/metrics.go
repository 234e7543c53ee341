package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registry served on /api/metrics. A dedicated registry keeps
// tests free of duplicate-registration panics on the default one.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Custom histogram buckets for API response times and outbound calls (10s timeout ceiling)
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Counter store (rate limiting)
	CounterStoreDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "counter_store_operation_duration_seconds",
			Help:    "Rate-limit counter store round-trip duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	RateLimitDecisions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_decisions_total",
			Help: "Rate limit decisions by limiter and result",
		},
		[]string{"limiter", "result"}, // result: allowed, denied, degraded
	)

	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)

	// Storage Client Metrics
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"backend", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"backend", "status"},
	)

	// Business Metrics
	BookingSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_booking_submissions_total",
			Help: "Total number of booking form submissions",
		},
		[]string{"status"},
	)

	BookingPackages = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_booking_packages_total",
			Help: "Accepted bookings by selected package",
		},
		[]string{"package"},
	)

	ReceiptUploads = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_receipt_uploads_total",
			Help: "Total number of receipt uploads",
		},
		[]string{"storage", "status"},
	)

	serviceInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_service_info",
			Help: "Static service information",
		},
		[]string{"service_name"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Init records the service name as an info metric
func Init(serviceName string) {
	serviceInfo.WithLabelValues(serviceName).Set(1)
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
