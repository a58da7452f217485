// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests processed, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	DonationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "donations_created_total",
		Help: "Donations persisted, by payment method.",
	}, []string{"payment_method"})

	DonationAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donation_amount_total",
		Help: "Sum of donated amounts.",
	})

	ReceiptsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_sent_total",
		Help: "Receipt emails attempted, by result.",
	}, []string{"result"})

	AggregatesCorrected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "charity_aggregates_corrected_total",
		Help: "Charity aggregates rewritten by reconciliation.",
	})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// ObserveDonation records a persisted donation.
func ObserveDonation(paymentMethod string, amount decimal.Decimal) {
	DonationsCreated.WithLabelValues(paymentMethod).Inc()
	DonationAmount.Add(amount.InexactFloat64())
}
