// Package metrics exports resolver measurements as Prometheus collectors.
//
// Collector implements resolver.Observer; pass it with resolver.WithObserver
// (directly or through particlelist.List.ProcessDecays).
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/feeddown/resolver"
)

// DefaultNamespace prefixes every metric name when New is given "".
const DefaultNamespace = "feeddown"

var _ resolver.Observer = (*Collector)(nil)

// Collector holds the resolver metrics.
type Collector struct {
	resolveSeconds   prometheus.Histogram
	species          prometheus.Gauge
	cycleTruncations prometheus.Counter
	truncatedSpecies prometheus.Counter
	droppedMass      prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		resolveSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Wall time of one decay resolution.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		species: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "species",
			Help:      "Number of species in the last resolved list.",
		}),
		cycleTruncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_truncations_total",
			Help:      "Decay walks cut short by re-entering an active ancestor.",
		}),
		truncatedSpecies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "final_state_truncations_total",
			Help:      "Final-state distributions cut to the outcome cap.",
		}),
		droppedMass: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "final_state_dropped_probability_total",
			Help:      "Probability discarded by final-state truncation, summed over species.",
		}),
	}

	var errs []error
	for _, col := range []prometheus.Collector{
		c.resolveSeconds, c.species, c.cycleTruncations, c.truncatedSpecies, c.droppedMass,
	} {
		if err := reg.Register(col); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveResolve records the duration and list size of one resolution.
func (c *Collector) ObserveResolve(species int, elapsed time.Duration) {
	c.resolveSeconds.Observe(elapsed.Seconds())
	c.species.Set(float64(species))
}

// ObserveCycleTruncations adds n cycle truncations.
func (c *Collector) ObserveCycleTruncations(n int) {
	c.cycleTruncations.Add(float64(n))
}

// ObserveFinalStateTruncation counts one truncated species and its
// discarded probability.
func (c *Collector) ObserveFinalStateTruncation(_ int, dropped float64) {
	c.truncatedSpecies.Inc()
	c.droppedMass.Add(dropped)
}
