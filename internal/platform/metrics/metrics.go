package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics agrupa los collectors del servicio. Cada router crea su propio registry
// para que los tests puedan levantar varios routers sin colisiones de registro.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cascada de resolución de follow-ups.
	CascadeOutcomes *prometheus.CounterVec
	ResolvedRecords prometheus.Counter

	AutoHealthRecords prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dairy",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dairy",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		CascadeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dairy",
			Name:      "follow_up_cascade_total",
			Help:      "Follow-up resolution cascades by outcome (resolved, unresolved, rolled_back, partial).",
		}, []string{"outcome"}),
		ResolvedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dairy",
			Name:      "health_records_resolved_total",
			Help:      "Health records marked resolved by follow-up cascades.",
		}),
		AutoHealthRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dairy",
			Name:      "auto_health_records_total",
			Help:      "Health records auto-generated on animal registration.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.CascadeOutcomes,
		m.ResolvedRecords,
		m.AutoHealthRecords,
	)

	return m
}

// Cascade outcomes.
const (
	OutcomeResolved   = "resolved"
	OutcomeUnresolved = "unresolved"
	OutcomePartial    = "partial"
	OutcomeRolledBack = "rolled_back"
)

// ObserveCascade acepta receptor nil (servicios sin métricas en tests).
func (m *Metrics) ObserveCascade(outcome string, resolved int) {
	if m == nil {
		return
	}
	m.CascadeOutcomes.WithLabelValues(outcome).Inc()
	if resolved > 0 {
		m.ResolvedRecords.Add(float64(resolved))
	}
}

func (m *Metrics) ObserveAutoHealthRecord() {
	if m == nil {
		return
	}
	m.AutoHealthRecords.Inc()
}
