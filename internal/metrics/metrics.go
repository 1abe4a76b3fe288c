package metrics

import (
	"strings"

	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pointsAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_points_adjustments_total",
		Help: "Point balance mutations attempted, labeled by ledger type and outcome",
	}, []string{"type", "result"})

	pointsAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_points_amount_total",
		Help: "Absolute number of points moved by committed ledger entries",
	}, []string{"type"})

	checkInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_checkins_total",
		Help: "Booking check-in attempts, labeled by outcome",
	}, []string{"result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})
)

// Result turns an operation error into a low-cardinality label value.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	code := errors.CodeOf(err)
	if code == "" {
		return "error"
	}
	return strings.ToLower(code)
}

// ObserveAdjustment records one balance mutation attempt.
func ObserveAdjustment(txType string, amount int64, err error) {
	pointsAdjustmentsTotal.WithLabelValues(txType, Result(err)).Inc()
	if err != nil {
		return
	}
	if amount < 0 {
		amount = -amount
	}
	pointsAmountTotal.WithLabelValues(txType).Add(float64(amount))
}

func ObserveCheckIn(err error) {
	checkInsTotal.WithLabelValues(Result(err)).Inc()
}
