package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"rule", "backend"},
	)

	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_bookings_created_total",
			Help: "Bookings created, by origin",
		},
		[]string{"origin"},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_booking_transitions_total",
			Help: "Booking status transitions",
		},
		[]string{"from", "to"},
	)

	PaymentGatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_payment_gateway_calls_total",
			Help: "Payment gateway calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	PaymentGatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourbook_payment_gateway_duration_seconds",
			Help:    "Payment gateway call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tourbook_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	RecommendationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourbook_webhook_events_total",
			Help: "Payment webhook events by type and outcome",
		},
		[]string{"type", "outcome"},
	)
)

// RecordHTTPRequest records a finished request against its route pattern.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRateLimitRejection(rule, backend string) {
	RateLimitRejections.WithLabelValues(rule, backend).Inc()
}

func RecordBookingCreated(origin string) {
	BookingsCreated.WithLabelValues(origin).Inc()
}

func RecordBookingTransition(from, to string) {
	BookingTransitions.WithLabelValues(from, to).Inc()
}

// RecordGatewayCall records one payment gateway operation.
func RecordGatewayCall(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}

	PaymentGatewayCalls.WithLabelValues(operation, result).Inc()
	PaymentGatewayDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func RecordRecommendationCache(hit bool) {
	if hit {
		RecommendationCache.WithLabelValues("hit").Inc()

		return
	}

	RecommendationCache.WithLabelValues("miss").Inc()
}

func RecordWebhookEvent(eventType, outcome string) {
	WebhookEvents.WithLabelValues(eventType, outcome).Inc()
}
