// Package metrics holds the Prometheus collectors for the persistence layer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Fallback reasons for LoadFallbacks.
const (
	ReasonAbsent    = "absent"
	ReasonCorrupt   = "corrupt"
	ReasonInvalid   = "invalid"
	ReasonReadError = "read_error"
)

// Persistence holds persistence metrics on a private registry, so several
// pipelines (tests, multiple stores) never collide on registration.
type Persistence struct {
	registry *prometheus.Registry

	Writes        prometheus.Counter
	WriteFailures prometheus.Counter
	Coalesced     prometheus.Counter
	LoadFallbacks *prometheus.CounterVec
	Saving        prometheus.Gauge
}

// NewPersistence creates and registers the persistence collectors.
func NewPersistence(namespace string) *Persistence {
	m := &Persistence{
		registry: prometheus.NewRegistry(),
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_writes_total",
			Help:      "Successful writes of the link tree to storage.",
		}),
		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_write_failures_total",
			Help:      "Failed writes of the link tree to storage.",
		}),
		Coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_coalesced_changes_total",
			Help:      "Tree changes dropped because a newer change replaced them before the quiet period ended.",
		}),
		LoadFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_load_fallbacks_total",
			Help:      "Loads that fell back to the default tree, by reason.",
		}, []string{"reason"}),
		Saving: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_saving",
			Help:      "1 while the saving indicator is shown.",
		}),
	}

	m.registry.MustRegister(m.Writes, m.WriteFailures, m.Coalesced, m.LoadFallbacks, m.Saving)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Persistence) Registry() *prometheus.Registry {
	return m.registry
}
