// SPDX-License-Identifier: MIT

package particlelist

import (
	"fmt"

	"github.com/katalvlaran/feeddown/particle"
)

// appendAntiparticles synthesizes the charge conjugate of every particle
// (positive identifier, not self-conjugate) whose negated identifier is
// absent, and returns the positions of the new species. Channels are
// mirrored later by the caller. Caller holds mu.
func (l *List) appendAntiparticles() []int {
	var added []int
	n := len(l.species)
	for i := 0; i < n; i++ {
		sp := &l.species[i]
		if sp.ID < 0 || sp.IsSelfConjugate() {
			continue
		}
		if _, ok := l.index[-sp.ID]; ok {
			continue
		}
		anti := particle.Antiparticle(sp)
		l.index[anti.ID] = len(l.species)
		added = append(added, len(l.species))
		l.species = append(l.species, anti)
	}

	return added
}

// AntiparticleDecays mirrors channels into the decay channels of the
// antiparticle: self-conjugate products stay, every other product is
// replaced by its antiparticle. lookup resolves an identifier.
// Returns ErrUnknownProduct for a product lookup cannot resolve and
// ErrMissingAntiparticle for a product whose antiparticle is absent.
func AntiparticleDecays(channels []particle.DecayChannel, lookup func(id int64) (*particle.Species, bool)) ([]particle.DecayChannel, error) {
	out := make([]particle.DecayChannel, len(channels))
	for i, ch := range channels {
		mirrored := ch.Clone()
		for k, p := range ch.Products {
			sp, ok := lookup(p)
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrUnknownProduct, p)
			}
			if sp.IsSelfConjugate() {
				continue
			}
			if _, ok = lookup(-p); !ok {
				return nil, fmt.Errorf("%w: %d", ErrMissingAntiparticle, p)
			}
			mirrored.Products[k] = -p
		}
		out[i] = mirrored
	}

	return out, nil
}

// NormalizeBranchingRatios rescales the effective branching ratios of every
// species to sum to one. The result depends only on the original values,
// so Restore followed by Normalize reproduces it exactly. Species whose
// original ratios sum to zero are left untouched.
func (l *List) NormalizeBranchingRatios() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.species {
		chs := l.species[i].Channels
		sum := 0.0
		for _, ch := range chs {
			sum += ch.OriginalBranchingRatio
		}
		if sum <= 0 {
			continue
		}
		for k := range chs {
			chs[k].BranchingRatio = chs[k].OriginalBranchingRatio / sum
		}
	}
	l.stale = true
}

// RestoreBranchingRatios resets every effective branching ratio to the
// value as loaded.
func (l *List) RestoreBranchingRatios() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.species {
		chs := l.species[i].Channels
		for k := range chs {
			chs[k].BranchingRatio = chs[k].OriginalBranchingRatio
		}
	}
	l.stale = true
}

// CheckChargeConservation reports whether every decay channel of the
// species at position i conserves baryon number, electric charge,
// strangeness and charm. Unresolvable products count as a violation; an
// out-of-range position returns false.
func (l *List) CheckChargeConservation(i int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.species) {
		return false
	}

	return l.conservesLocked(i)
}

// conservesLocked implements CheckChargeConservation. Caller holds mu.
func (l *List) conservesLocked(i int) bool {
	sp := &l.species[i]
	want := sp.Charges()
	for _, ch := range sp.Channels {
		var got particle.Charges
		for _, p := range ch.Products {
			q, ok := l.lookup(p)
			if !ok {
				return false
			}
			got = got.Add(q.Charges())
		}
		if got != want {
			return false
		}
	}

	return true
}

// ChargeViolations returns the positions of species with at least one
// channel failing CheckChargeConservation.
func (l *List) ChargeViolations() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chargeViolationsLocked()
}

// chargeViolationsLocked implements ChargeViolations. Caller holds mu.
func (l *List) chargeViolationsLocked() []int {
	var bad []int
	for i := range l.species {
		if !l.conservesLocked(i) {
			bad = append(bad, i)
		}
	}

	return bad
}

// FillDecayThresholds sets each channel threshold to the sum of its
// product masses. Unresolvable products contribute nothing.
func (l *List) FillDecayThresholds() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.species {
		chs := l.species[i].Channels
		for k := range chs {
			m := 0.0
			for _, p := range chs[k].Products {
				if q, ok := l.lookup(p); ok {
					m += q.Mass
				}
			}
			chs[k].Threshold = m
		}
	}
}

// HasBaryons reports whether any species carries baryon number.
func (l *List) HasBaryons() bool {
	return l.anySpecies(func(sp *particle.Species) bool { return sp.Baryon != 0 })
}

// HasCharged reports whether any species carries electric charge.
func (l *List) HasCharged() bool {
	return l.anySpecies(func(sp *particle.Species) bool { return sp.Charge != 0 })
}

// HasStrange reports whether any species carries strangeness, net or hidden.
func (l *List) HasStrange() bool {
	return l.anySpecies(func(sp *particle.Species) bool { return sp.Strangeness != 0 || sp.AbsStrangeContent != 0 })
}

// HasCharmed reports whether any species carries charm, net or hidden.
func (l *List) HasCharmed() bool {
	return l.anySpecies(func(sp *particle.Species) bool { return sp.Charm != 0 || sp.AbsCharmContent != 0 })
}

// anySpecies reports whether pred holds for some species.
func (l *List) anySpecies(pred func(*particle.Species) bool) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.species {
		if pred(&l.species[i]) {
			return true
		}
	}

	return false
}

// Equal reports whether l and other hold the same species identifiers in
// the same order with structurally equal decay channels.
func (l *List) Equal(other *List) bool {
	if l == other {
		return true
	}
	if other == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if len(l.species) != len(other.species) {
		return false
	}
	for i := range l.species {
		a, b := &l.species[i], &other.species[i]
		if a.ID != b.ID || len(a.Channels) != len(b.Channels) {
			return false
		}
		for k := range a.Channels {
			if !a.Channels[k].Equal(b.Channels[k]) {
				return false
			}
		}
	}

	return true
}
