package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for consent operations.
type Metrics struct {
	ConsentsGranted *prometheus.CounterVec
	ConsentsRevoked *prometheus.CounterVec
	ChecksPassed    prometheus.Counter
	ChecksFailed    prometheus.Counter
	WaitersPending  prometheus.Gauge
	WaitersFired    prometheus.Counter
}

// New registers and returns consent metrics collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		ConsentsGranted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cookie_consent_granted_total",
			Help: "Total number of consent grants, labeled by cookie type",
		}, []string{"cookie_type"}),
		ConsentsRevoked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cookie_consent_revoked_total",
			Help: "Total number of consent revocations, labeled by cookie type",
		}, []string{"cookie_type"}),
		ChecksPassed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cookie_consent_checks_passed_total",
			Help: "Total number of consent checks that found consent granted",
		}),
		ChecksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cookie_consent_checks_failed_total",
			Help: "Total number of consent checks that found consent absent or revoked",
		}),
		WaitersPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cookie_consent_waiters_pending",
			Help: "Current number of callbacks waiting for a future grant",
		}),
		WaitersFired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cookie_consent_waiters_fired_total",
			Help: "Total number of deferred callbacks fired by a grant",
		}),
	}
}

func (m *Metrics) IncrementGranted(cookieType string) {
	m.ConsentsGranted.WithLabelValues(cookieType).Inc()
}

func (m *Metrics) IncrementRevoked(cookieType string) {
	m.ConsentsRevoked.WithLabelValues(cookieType).Inc()
}

func (m *Metrics) IncrementCheck(passed bool) {
	if passed {
		m.ChecksPassed.Inc()
		return
	}
	m.ChecksFailed.Inc()
}

// AddWaitersPending adjusts the pending-waiter gauge; negative values record a drain.
func (m *Metrics) AddWaitersPending(delta float64) {
	m.WaitersPending.Add(delta)
}

func (m *Metrics) AddWaitersFired(count float64) {
	m.WaitersFired.Add(count)
}
