// SPDX-License-Identifier: MIT

package resolver

import (
	"errors"
	"sort"
	"time"

	"github.com/katalvlaran/feeddown/particle"
)

var (
	// ErrSourceNil is returned when Resolve is given a nil Source.
	ErrSourceNil = errors.New("resolver: source is nil")

	// ErrUnknownProduct indicates a decay product whose identifier does not
	// resolve to a species of the Source.
	ErrUnknownProduct = errors.New("resolver: unknown decay product")

	// ErrInconsistent is returned by Tables.CheckConsistency when two table
	// families disagree beyond the tolerance.
	ErrInconsistent = errors.New("resolver: inconsistent tables")
)

// Source is the read-only view of a particle list that the resolver needs.
// Positions are 0-based and stable for the duration of Resolve.
type Source interface {
	// Len returns the number of species.
	Len() int

	// Species returns the species at position i.
	Species(i int) *particle.Species

	// DecayType returns the derived decay classification at position i.
	DecayType(i int) particle.DecayType

	// IDToPosition maps an identifier to its position, or -1.
	IDToPosition(id int64) int
}

// Observer receives resolver measurements. Implementations must be safe for
// use by the goroutine calling Resolve; Resolve never calls them concurrently.
type Observer interface {
	// ObserveResolve reports a completed resolution.
	ObserveResolve(species int, elapsed time.Duration)

	// ObserveCycleTruncations reports how many times a walk re-entered an
	// active ancestor.
	ObserveCycleTruncations(n int)

	// ObserveFinalStateTruncation reports probability discarded by the
	// final-state cap for one species.
	ObserveFinalStateTruncation(species int, dropped float64)
}

// nopObserver discards all measurements.
type nopObserver struct{}

func (nopObserver) ObserveResolve(int, time.Duration)        {}
func (nopObserver) ObserveCycleTruncations(int)              {}
func (nopObserver) ObserveFinalStateTruncation(int, float64) {}

// Contribution is the mean number of particles of one target species
// produced in the decay cascade of Source.
type Contribution struct {
	Source int
	Mean   float64
}

// Contributions is a target-major sparse table: element j lists the
// sources feeding species j, sorted by source position.
type Contributions [][]Contribution

// Mean returns the mean contribution of source to target, 0 if none.
func (c Contributions) Mean(target, source int) float64 {
	if target < 0 || target >= len(c) {
		return 0
	}
	row := c[target]
	i := sort.Search(len(row), func(k int) bool { return row[k].Source >= source })
	if i < len(row) && row[i].Source == source {
		return row[i].Mean
	}

	return 0
}

// ProbabilityContribution is the distribution of the number of target
// particles produced in the cascade of Source: P[n] is the probability of
// exactly n.
type ProbabilityContribution struct {
	Source int
	P      []float64
}

// CumulantContribution holds the first four cumulants (mean, variance,
// third and fourth cumulant) of the same number distribution.
type CumulantContribution struct {
	Source int
	K      [4]float64
}

// Multiplicity is one non-zero entry of a final-state vector.
type Multiplicity struct {
	Species int
	Count   int
}

// FinalState is a sparse final-state multiplicity vector sorted by species
// position. Absent species have count zero.
type FinalState []Multiplicity

// Count returns the multiplicity of species in s.
func (s FinalState) Count(species int) int {
	i := sort.Search(len(s), func(k int) bool { return s[k].Species >= species })
	if i < len(s) && s[i].Species == species {
		return s[i].Count
	}

	return 0
}

// Outcome is one distinct final state with its probability.
type Outcome struct {
	P     float64
	State FinalState
}

// FinalStates is the enumerated outcome set of one cascade, sorted by
// probability descending with lexicographic tie-break on State.
type FinalStates []Outcome

// ChargeSelector picks which charged final particles are counted.
type ChargeSelector int

const (
	ChargedAll      ChargeSelector = iota // any non-zero electric charge
	ChargedPositive                       // positive electric charge
	ChargedNegative                       // negative electric charge
)

// matches reports whether a particle with electric charge q is counted.
func (c ChargeSelector) matches(q int) bool {
	switch c {
	case ChargedPositive:
		return q > 0
	case ChargedNegative:
		return q < 0
	default:
		return q != 0
	}
}
