// SPDX-License-Identifier: MIT

package resolver

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/feeddown/particle"
)

// Tables holds every output family of Resolve. All slices are indexed by
// species position and must be treated as read-only.
type Tables struct {
	// Contributions follows decays by stability flag.
	Contributions Contributions

	// ByFeeddown holds one table per feeddown level; level f includes
	// every contribution of level f-1.
	ByFeeddown [particle.NumFeeddown]Contributions

	// Probabilities[target] lists the number distributions for every
	// source in Contributions[target], in the same order.
	Probabilities [][]ProbabilityContribution

	// Cumulants[target] lists the first four cumulants, same order.
	Cumulants [][]CumulantContribution

	// FinalStates[i] is the final-state distribution of species i.
	FinalStates []FinalStates

	// Truncated[i] is the probability discarded by the final-state cap
	// while enumerating species i.
	Truncated []float64

	// Exact[i] reports that no truncation and no cycle affected
	// FinalStates[i].
	Exact []bool

	// Cycles lists the decay cycles found, closed and canonically rotated.
	Cycles [][]int

	// CycleHits counts re-entries into an active ancestor during the
	// mean walks.
	CycleHits int

	charges  []int
	terminal []bool
}

// newTables allocates per-species slices for m.
func newTables(m *model) *Tables {
	n := len(m.nodes)
	t := &Tables{
		FinalStates: make([]FinalStates, n),
		Truncated:   make([]float64, n),
		Exact:       make([]bool, n),
		charges:     make([]int, n),
		terminal:    make([]bool, n),
	}
	for i := range m.nodes {
		t.charges[i] = m.nodes[i].charge
		t.terminal[i] = !m.nodes[i].expands()
	}

	return t
}

// Len returns the number of species covered.
func (t *Tables) Len() int {
	return len(t.FinalStates)
}

// Mean returns the mean number of target particles from the cascade of
// source at feeddown level f.
func (t *Tables) Mean(f particle.Feeddown, target, source int) float64 {
	if f < particle.FeeddownNone || f > particle.FeeddownStrong {
		return 0
	}

	return t.ByFeeddown[f].Mean(target, source)
}

// Probability returns the number distribution of target particles from
// source, or nil if source does not feed target.
func (t *Tables) Probability(target, source int) []float64 {
	if target < 0 || target >= len(t.Probabilities) {
		return nil
	}
	row := t.Probabilities[target]
	i := sort.Search(len(row), func(k int) bool { return row[k].Source >= source })
	if i < len(row) && row[i].Source == source {
		return row[i].P
	}

	return nil
}

// Cumulant returns the cumulants of target particles from source and
// whether source feeds target at all.
func (t *Tables) Cumulant(target, source int) ([4]float64, bool) {
	if target < 0 || target >= len(t.Cumulants) {
		return [4]float64{}, false
	}
	row := t.Cumulants[target]
	i := sort.Search(len(row), func(k int) bool { return row[k].Source >= source })
	if i < len(row) && row[i].Source == source {
		return row[i].K, true
	}

	return [4]float64{}, false
}

// FinalStateMean returns Σ P·count(target) over the final states of source.
func (t *Tables) FinalStateMean(source, target int) float64 {
	if source < 0 || source >= len(t.FinalStates) {
		return 0
	}
	mean := 0.0
	for _, o := range t.FinalStates[source] {
		mean += o.P * float64(o.State.Count(target))
	}

	return mean
}

// ChargedMultiplicity returns the distribution of the number of charged
// final particles selected by sel in the cascade of source.
func (t *Tables) ChargedMultiplicity(source int, sel ChargeSelector) []float64 {
	if source < 0 || source >= len(t.FinalStates) {
		return nil
	}
	var dist []float64
	for _, o := range t.FinalStates[source] {
		n := 0
		for _, m := range o.State {
			if sel.matches(t.charges[m.Species]) {
				n += m.Count
			}
		}
		for len(dist) <= n {
			dist = append(dist, 0)
		}
		dist[n] += o.P
	}

	return dist
}

// CheckConsistency verifies that the table families agree within tol
// (relative to max(1, |value|)):
//
//   - the first cumulant equals the mean contribution;
//   - cumulants composed directly equal those of the distribution;
//   - for every exact final-state set, the mean recovered from the final
//     states equals the mean contribution for every terminal species.
//
// Returns the first disagreement wrapped in ErrInconsistent.
func (t *Tables) CheckConsistency(tol float64) error {
	for target, row := range t.Contributions {
		for k, c := range row {
			kd := CumulantsOf(t.Probabilities[target][k].P)
			kc := t.Cumulants[target][k].K
			if !approxEqual(kc[0], c.Mean, tol) {
				return fmt.Errorf("%w: cumulant mean %g, contribution %g (target %d, source %d)",
					ErrInconsistent, kc[0], c.Mean, target, c.Source)
			}
			for i := range kc {
				if !approxEqual(kc[i], kd[i], tol) {
					return fmt.Errorf("%w: cumulant %d composed %g, from distribution %g (target %d, source %d)",
						ErrInconsistent, i+1, kc[i], kd[i], target, c.Source)
				}
			}
		}
	}

	for source, fs := range t.FinalStates {
		if t.terminal[source] || !t.Exact[source] || len(fs) == 0 {
			continue
		}
		for target := range t.FinalStates {
			if !t.terminal[target] {
				continue
			}
			got := t.FinalStateMean(source, target)
			want := t.Contributions.Mean(target, source)
			if !approxEqual(got, want, tol) {
				return fmt.Errorf("%w: final-state mean %g, contribution %g (target %d, source %d)",
					ErrInconsistent, got, want, target, source)
			}
		}
	}

	return nil
}

// approxEqual reports |a-b| <= tol·max(1, |a|, |b|).
func approxEqual(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))

	return math.Abs(a-b) <= tol*scale
}
