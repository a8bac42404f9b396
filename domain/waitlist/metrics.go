package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the waitlist collectors. All record methods are safe on a
// nil receiver, so callers that run without metrics skip the guards.
type Metrics struct {
	signupsTotal            prometheus.Counter
	duplicatesTotal         prometheus.Counter
	validationFailuresTotal prometheus.Counter
	throttledTotal          prometheus.Counter
	persistFailuresTotal    prometheus.Counter
	loadDegradationsTotal   prometheus.Counter
	entriesCount            prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Total number of new signups recorded.",
		}),
		duplicatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_duplicate_signups_total",
			Help: "Total number of signups resolved as already registered.",
		}),
		validationFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_validation_failures_total",
			Help: "Total number of signup requests rejected by validation.",
		}),
		throttledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_throttled_requests_total",
			Help: "Total number of signup requests rejected by throttling.",
		}),
		persistFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_persist_failures_total",
			Help: "Total number of failed writes to the storage medium.",
		}),
		loadDegradationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_load_degradations_total",
			Help: "Total number of loads that fell back to an empty collection.",
		}),
		entriesCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_entries",
			Help: "Number of signups currently held in memory.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.signupsTotal,
			m.duplicatesTotal,
			m.validationFailuresTotal,
			m.throttledTotal,
			m.persistFailuresTotal,
			m.loadDegradationsTotal,
			m.entriesCount,
		)
	}
	return m
}

func (m *Metrics) RecordSignup() {
	if m == nil {
		return
	}
	m.signupsTotal.Inc()
}

func (m *Metrics) RecordDuplicate() {
	if m == nil {
		return
	}
	m.duplicatesTotal.Inc()
}

func (m *Metrics) RecordValidationFailure() {
	if m == nil {
		return
	}
	m.validationFailuresTotal.Inc()
}

func (m *Metrics) RecordThrottled() {
	if m == nil {
		return
	}
	m.throttledTotal.Inc()
}

func (m *Metrics) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.persistFailuresTotal.Inc()
}

func (m *Metrics) RecordLoadDegradation() {
	if m == nil {
		return
	}
	m.loadDegradationsTotal.Inc()
}

func (m *Metrics) SetEntriesCount(n int) {
	if m == nil {
		return
	}
	m.entriesCount.Set(float64(n))
}
