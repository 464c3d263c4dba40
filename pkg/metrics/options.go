package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace replaces the "wodboard" name prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "scoring" name segment.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets of the compute, worker
// and HTTP latency histograms. Buckets are sorted.
func WithLatencyBuckets(ms []float64) Option {
	return func(m *Manager) {
		if len(ms) == 0 {
			return
		}
		m.histogramBuckets = slices.Clone(ms)
		slices.Sort(m.histogramBuckets)
	}
}

// WithRegistry registers the collectors on r instead of the default
// registerer.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
