package resolver_test

import (
	"time"

	"github.com/katalvlaran/feeddown/particle"
)

// Identifiers of synthetic species; chosen outside every classification
// table so that the stability flag alone decides the decay type.
const (
	idC = 9001
	idB = 9002
	idA = 9003
	idD = 9004
)

// sliceSource is a minimal resolver.Source over a slice in insertion order.
type sliceSource struct {
	species []particle.Species
	index   map[int64]int
}

// newSource builds a source; positions follow argument order.
func newSource(sp ...particle.Species) *sliceSource {
	s := &sliceSource{species: sp, index: make(map[int64]int, len(sp))}
	for i := range sp {
		s.index[sp[i].ID] = i
	}

	return s
}

func (s *sliceSource) Len() int                        { return len(s.species) }
func (s *sliceSource) Species(i int) *particle.Species { return &s.species[i] }
func (s *sliceSource) DecayType(i int) particle.DecayType {
	return particle.Classify(&s.species[i])
}

func (s *sliceSource) IDToPosition(id int64) int {
	if i, ok := s.index[id]; ok {
		return i
	}

	return -1
}

// stable returns a stable species without decays.
func stable(id int64, name string, charge int) particle.Species {
	return particle.Species{ID: id, Name: name, Charge: charge, Stable: true}
}

// resonance returns an unstable species with the given channels.
func resonance(id int64, name string, channels ...particle.DecayChannel) particle.Species {
	return particle.Species{ID: id, Name: name, Channels: channels}
}

// ch is shorthand for particle.NewDecayChannel.
func ch(br float64, products ...int64) particle.DecayChannel {
	return particle.NewDecayChannel(br, products...)
}

// piRho is the two-species list {pi (stable), rho → pi pi}.
func piRho() *sliceSource {
	return newSource(
		stable(211, "pi", 1),
		resonance(113, "rho", ch(1, 211, 211)),
	)
}

// chain is the three-generation cascade A → B B, B → C.
func chain() *sliceSource {
	return newSource(
		stable(idC, "C", 0),
		resonance(idB, "B", ch(1, idC)),
		resonance(idA, "A", ch(1, idB, idB)),
	)
}

// branching is A → B C (0.5) | C C (0.5), B → C (0.4) | D (0.6).
func branching() *sliceSource {
	return newSource(
		stable(idC, "C", 0),
		stable(idD, "D", 0),
		resonance(idB, "B", ch(0.4, idC), ch(0.6, idD)),
		resonance(idA, "A", ch(0.5, idB, idC), ch(0.5, idC, idC)),
	)
}

// hyperons mixes weak, electromagnetic and strong decays:
// Lambda → p pi- (weak), Sigma0 → Lambda gamma (EM),
// Sigma*+ → Lambda pi+ | Sigma0 pi+ (strong).
func hyperons() *sliceSource {
	return newSource(
		particle.Species{ID: 22, Name: "gamma", Stable: true},
		particle.Species{ID: 211, Name: "pi+", Charge: 1, Stable: true},
		particle.Species{ID: -211, Name: "pi-", Charge: -1, Stable: true},
		particle.Species{ID: 2212, Name: "p", Baryon: 1, Charge: 1, Stable: true},
		particle.Species{ID: 3122, Name: "Lambda", Baryon: 1, Strangeness: -1, Stable: true,
			Channels: []particle.DecayChannel{ch(0.64, 2212, -211)}},
		particle.Species{ID: 3212, Name: "Sigma0", Baryon: 1, Strangeness: -1, Stable: true,
			Channels: []particle.DecayChannel{ch(1, 3122, 22)}},
		particle.Species{ID: 3224, Name: "Sigma*+", Baryon: 1, Charge: 1, Strangeness: -1,
			Channels: []particle.DecayChannel{ch(0.87, 3122, 211), ch(0.13, 3212, 211)}},
	)
}

// recordingObserver captures observer calls.
type recordingObserver struct {
	resolves   int
	species    int
	cycleHits  int
	truncated  map[int]float64
	lastLength time.Duration
}

func (r *recordingObserver) ObserveResolve(species int, elapsed time.Duration) {
	r.resolves++
	r.species = species
	r.lastLength = elapsed
}

func (r *recordingObserver) ObserveCycleTruncations(n int) { r.cycleHits += n }

func (r *recordingObserver) ObserveFinalStateTruncation(species int, dropped float64) {
	if r.truncated == nil {
		r.truncated = make(map[int]float64)
	}
	r.truncated[species] = dropped
}
