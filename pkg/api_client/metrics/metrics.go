package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors of the service. Every method is nil-safe so tests
// can pass a nil *Metrics.
type Metrics struct {
	cacheLookups       *prometheus.CounterVec
	remoteFetches      *prometheus.CounterVec
	renders            *prometheus.CounterVec
	validations        *prometheus.CounterVec
	workflowTransition *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cursos",
			Name:      "cache_lookups_total",
			Help:      "Course cache lookups by result (hit, miss).",
		}, []string{"result"}),
		remoteFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cursos",
			Name:      "remote_fetches_total",
			Help:      "Requests to the remote content API by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cursos",
			Name:      "renders_total",
			Help:      "Rendered fragments by outcome.",
		}, []string{"outcome"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cursos",
			Name:      "endpoint_validations_total",
			Help:      "Endpoint capability validations by reason (empty reason means valid).",
		}, []string{"reason"}),
		workflowTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cursos",
			Name:      "workflow_transitions_total",
			Help:      "Configuration workflow state entries.",
		}, []string{"state"}),
	}
	if reg != nil {
		reg.MustRegister(m.cacheLookups, m.remoteFetches, m.renders, m.validations, m.workflowTransition)
	}
	return m
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RemoteFetch(purpose string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.remoteFetches.WithLabelValues(purpose, outcome).Inc()
}

func (m *Metrics) Render(outcome string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Validation(reason string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(reason).Inc()
}

func (m *Metrics) WorkflowState(state string) {
	if m == nil {
		return
	}
	m.workflowTransition.WithLabelValues(state).Inc()
}
