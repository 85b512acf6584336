package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	seatOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbooker_seat_operations_total",
			Help: "Seat inventory operations by outcome",
		},
		[]string{"operation", "result"},
	)

	seatsTransitioned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbooker_seats_transitioned_total",
			Help: "Individual seats moved by each inventory operation",
		},
		[]string{"operation"},
	)

	bookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbooker_booking_transitions_total",
			Help: "Booking status transitions",
		},
		[]string{"status"},
	)

	paymentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbooker_payment_transitions_total",
			Help: "Payment status transitions",
		},
		[]string{"status"},
	)

	availableCounterDrift = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbooker_available_seats_clamped_total",
			Help: "Event available-seat counter adjustments that fell outside [0, total]",
		},
		[]string{"bound"},
	)

	reconcilerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbooker_reconciler_runs_total",
			Help: "Expiry reconciler passes by outcome",
		},
		[]string{"result"},
	)

	reconcilerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticketbooker_reconciler_duration_seconds",
			Help:    "Duration of one expiry reconciler pass",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	httpRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketbooker_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// SeatOperation records one seat inventory call and how many seats it moved
func SeatOperation(operation string, seats int, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	seatOperations.WithLabelValues(operation, result).Inc()
	if err == nil && seats > 0 {
		seatsTransitioned.WithLabelValues(operation).Add(float64(seats))
	}
}

// BookingTransition records a booking reaching status
func BookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// PaymentTransition records a payment reaching status
func PaymentTransition(status string) {
	paymentTransitions.WithLabelValues(status).Inc()
}

// AvailableCounterClamped records an event counter pushed past bound ("floor" or "ceiling")
func AvailableCounterClamped(bound string) {
	availableCounterDrift.WithLabelValues(bound).Inc()
}

// ReconcilerPass records one sweep
func ReconcilerPass(duration time.Duration, failures int) {
	result := "clean"
	if failures > 0 {
		result = "partial"
	}
	reconcilerRuns.WithLabelValues(result).Inc()
	reconcilerDuration.Observe(duration.Seconds())
}

// GinMiddleware records request latency by matched route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
