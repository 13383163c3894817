package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess           = "success"
	OutcomeFailed            = "failed"
	OutcomeRejected          = "rejected"
	OutcomeSettled           = "settled"
	OutcomeAlreadyProcessed  = "already_processed"
	OutcomeIgnored           = "ignored"
	OutcomeInsufficientFunds = "insufficient_funds"
)

var (
	TopUpsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "topups_created_total",
		Help:      "Checkout sessions requested for wallet top-ups, by outcome.",
	}, []string{"outcome"})

	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "settlements_total",
		Help:      "Stripe webhook deliveries processed, by outcome.",
	}, []string{"outcome"})

	Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "withdrawals_total",
		Help:      "Withdrawal requests, by outcome.",
	}, []string{"outcome"})

	ExpiredTopUps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "expired_topups_total",
		Help:      "Pending top-ups marked FAILED by the expiry job.",
	})

	LedgerDrift = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallet",
		Name:      "ledger_drift_wallets",
		Help:      "Wallets whose stored balance disagreed with the ledger in the last reconciliation.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wallet",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method, route template and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
