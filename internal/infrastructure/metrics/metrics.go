// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loan_ledger"

var (
	LoansOriginated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_originated_total",
		Help:      "Loans created.",
	})

	PrincipalOriginated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principal_originated_total",
		Help:      "Sum of principal across created loans.",
	})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_recorded_total",
		Help:      "Payments recorded, by payment type.",
	}, []string{"type"})

	PaymentAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_amount_total",
		Help:      "Sum of recorded payment amounts, by payment type.",
	}, []string{"type"})

	LoansClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_closed_total",
		Help:      "Loans fully repaid.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
