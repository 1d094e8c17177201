package checkout

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records checkout outcomes. A nil *Metrics records nothing.
type Metrics struct {
	attempts       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	compensations  *prometheus.CounterVec
	partialCommits prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartpos_checkout_attempts_total",
				Help: "Checkout attempts by outcome and the state they failed in",
			},
			[]string{"outcome", "failed_in"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartpos_checkout_duration_seconds",
				Help:    "Checkout duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		compensations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartpos_checkout_compensations_total",
				Help: "Compensating stock increments by result",
			},
			[]string{"result"},
		),
		partialCommits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "smartpos_checkout_partial_commits_total",
				Help: "Checkouts that left stock decremented without a sale",
			},
		),
	}
}

func (m *Metrics) observeAttempt(a *attempt, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := string(a.state)
	failedIn := "none"
	if a.state == StateFailed {
		failedIn = string(a.failedIn)
	}

	m.attempts.WithLabelValues(outcome, failedIn).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCompensation(ok bool) {
	if m == nil {
		return
	}

	result := "ok"
	if !ok {
		result = "error"
	}
	m.compensations.WithLabelValues(result).Inc()
}

func (m *Metrics) observePartialCommit() {
	if m == nil {
		return
	}
	m.partialCommits.Inc()
}
