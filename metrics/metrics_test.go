package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/feeddown/metrics"
	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/particlelist"
	"github.com/katalvlaran/feeddown/resolver"
)

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg, "")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// histogram and gauge are exported right away, counters too
	assert.Equal(t, 5, n)

	_, err = metrics.New(reg, "")
	assert.Error(t, err, "duplicate registration")
}

func TestCollector_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg, "")
	require.NoError(t, err)

	c.ObserveResolve(12, 3*time.Millisecond)
	c.ObserveCycleTruncations(4)
	c.ObserveFinalStateTruncation(2, 0.25)
	c.ObserveFinalStateTruncation(3, 0.5)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP feeddown_cycle_truncations_total Decay walks cut short by re-entering an active ancestor.
# TYPE feeddown_cycle_truncations_total counter
feeddown_cycle_truncations_total 4
# HELP feeddown_final_state_dropped_probability_total Probability discarded by final-state truncation, summed over species.
# TYPE feeddown_final_state_dropped_probability_total counter
feeddown_final_state_dropped_probability_total 0.75
# HELP feeddown_final_state_truncations_total Final-state distributions cut to the outcome cap.
# TYPE feeddown_final_state_truncations_total counter
feeddown_final_state_truncations_total 2
# HELP feeddown_species Number of species in the last resolved list.
# TYPE feeddown_species gauge
feeddown_species 12
`),
		"feeddown_cycle_truncations_total",
		"feeddown_final_state_dropped_probability_total",
		"feeddown_final_state_truncations_total",
		"feeddown_species",
	))
}

func TestNew_Namespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg, "hrg")
	require.NoError(t, err)
	c.ObserveCycleTruncations(1)

	n, err := testutil.GatherAndCount(reg, "hrg_cycle_truncations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestCollector_CyclicList wires the collector through ProcessDecays.
func TestCollector_CyclicList(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg, "")
	require.NoError(t, err)

	cfg := particlelist.DefaultConfig()
	cfg.GenerateAntiparticles = false
	l := particlelist.New(cfg)
	require.NoError(t, l.Load(
		[]particle.Species{
			{ID: 9301, Name: "A", Mass: 1},
			{ID: 9302, Name: "B", Mass: 2},
		},
		[]particlelist.DecayRecord{
			{ParentID: 9301, Channel: particle.NewDecayChannel(1, 9302)},
			{ParentID: 9302, Channel: particle.NewDecayChannel(1, 9301)},
		},
	))
	require.NoError(t, l.ProcessDecays(context.Background(), resolver.WithObserver(c)))

	tab, err := l.Tables()
	require.NoError(t, err)
	assert.Positive(t, tab.CycleHits)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64, len(mfs))
	for _, mf := range mfs {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetHistogram() != nil:
			values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
		}
	}
	assert.Equal(t, float64(tab.CycleHits), values["feeddown_cycle_truncations_total"])
	assert.Equal(t, 2.0, values["feeddown_species"])
	assert.Equal(t, 1.0, values["feeddown_resolve_duration_seconds"])
}
