package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	AccountsCreated   prometheus.Counter
	AccountConflicts  prometheus.Counter
	TransactionWrites *prometheus.CounterVec

	// API metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPInFlight      prometheus.Gauge
	IdempotentReplays prometheus.Counter
	RateLimitRejected prometheus.Counter
	StorageRetries    prometheus.Counter

	// Outbox metrics
	OutboxPublished *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts provisioned",
		}),
		AccountConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_account_conflicts_total",
			Help: "Concurrent account inserts that lost the race and were retried",
		}),
		TransactionWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transaction_writes_total",
				Help: "Committed transaction writes by operation",
			},
			[]string{"operation"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_idempotent_replays_total",
			Help: "Write requests answered from the idempotency store",
		}),
		RateLimitRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_rate_limit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		}),
		StorageRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_storage_retries_total",
			Help: "Read attempts retried after a transient storage error",
		}),

		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_outbox_events_total",
				Help: "Outbox events handled by the publisher, by result",
			},
			[]string{"result"},
		),
	}
}

// AccountCreated implements usecase.Metrics.
func (m *Metrics) AccountCreated() {
	m.AccountsCreated.Inc()
}

// AccountConflict implements usecase.Metrics.
func (m *Metrics) AccountConflict() {
	m.AccountConflicts.Inc()
}

// TransactionWritten implements usecase.Metrics.
func (m *Metrics) TransactionWritten(operation string) {
	m.TransactionWrites.WithLabelValues(operation).Inc()
}
