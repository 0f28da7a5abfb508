package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts analyses by kind ("user", "group") and resulting persona.
type Metrics struct {
	analyses *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the analysis metrics with reg. A nil reg yields
// unregistered collectors, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "personas_analyses_total",
			Help: "Persona analyses performed, by kind and resulting persona.",
		}, []string{"kind", "persona"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "personas_analysis_duration_seconds",
			Help:    "Time spent loading records and analyzing them.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.analyses, m.duration)
	}
	return m
}

func (m *Metrics) observe(kind, personaKey string, start time.Time) {
	m.analyses.WithLabelValues(kind, personaKey).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
