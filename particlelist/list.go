// SPDX-License-Identifier: MIT

package particlelist

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/feeddown/particle"
)

// unknownName is returned by NameByID for identifiers not in the list.
const unknownName = "???"

// Load replaces the contents of the list with species and attaches decays
// to them, then finalizes the list.
//
// Steps:
//  1. Drop species heavier than MassCutoff; reject zero and duplicate IDs.
//  2. Synthesize missing antiparticles when configured.
//  3. Attach decay records by parent identifier; records of species dropped
//     by the cutoff are skipped, other unknown parents are errors. Channels
//     whose products were dropped by the cutoff are discarded.
//  4. Mirror the decays of synthesized antiparticles.
//  5. FinalizeList.
//
// All configuration errors are joined; the list remains usable with the
// offending entries left out.
func (l *List) Load(species []particle.Species, decays []DecayRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	l.species = l.species[:0]
	l.index = make(map[int64]int, 2*len(species))
	cut := make(map[int64]struct{})

	// 1) Species
	for i := range species {
		sp := &species[i]
		switch {
		case sp.ID == 0:
			errs = append(errs, fmt.Errorf("%w (name %q)", particle.ErrZeroID, sp.Name))
			continue
		case sp.Mass > l.cfg.MassCutoff:
			cut[sp.ID] = struct{}{}
			continue
		}
		if _, dup := l.index[sp.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateID, sp.ID))
			continue
		}
		l.index[sp.ID] = len(l.species)
		l.species = append(l.species, seeded(sp))
	}

	// 2) Antiparticles, channels follow in step 4
	var generated []int
	if l.cfg.GenerateAntiparticles {
		generated = l.appendAntiparticles()
	}
	explicit := make(map[int64]bool)

	// 3) Decay records
	for _, rec := range decays {
		pos, ok := l.index[rec.ParentID]
		if !ok {
			if _, dropped := cut[rec.ParentID]; !dropped {
				errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownParent, rec.ParentID))
			}
			continue
		}
		ch := rec.Channel.Seeded()
		if err := ch.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("decay of %d: %w", rec.ParentID, err))
			continue
		}
		if dropsCut(ch, cut) {
			l.logger.Debug("decay channel dropped by mass cutoff",
				"parent", rec.ParentID,
				"products", ch.Products,
			)
			continue
		}
		l.species[pos].Channels = append(l.species[pos].Channels, ch.Clone())
		explicit[rec.ParentID] = true
	}

	// 4) Mirrored decays for antiparticles without explicit records
	for _, pos := range generated {
		anti := &l.species[pos]
		if explicit[anti.ID] {
			continue
		}
		parent := &l.species[l.index[-anti.ID]]
		chs, err := AntiparticleDecays(parent.Channels, l.lookup)
		if err != nil {
			errs = append(errs, fmt.Errorf("antiparticle of %d: %w", parent.ID, err))
			continue
		}
		anti.Channels = chs
	}

	// 5) Sort, index, classify, validate
	if err := l.finalizeLocked(); err != nil {
		errs = append(errs, err)
	}
	if bad := l.chargeViolationsLocked(); len(bad) > 0 {
		l.logger.Warn("decay channels violate charge conservation",
			"species", l.identifiersLocked(bad),
		)
	}
	l.logger.Info("particle list loaded",
		"species", len(l.species),
		"antiparticles", len(generated),
		"cut", len(cut),
	)

	return errors.Join(errs...)
}

// seeded clones sp, seeding the original branching ratio of channels that
// carry only the effective one.
func seeded(sp *particle.Species) particle.Species {
	c := sp.Clone()
	for i := range c.Channels {
		c.Channels[i] = c.Channels[i].Seeded()
	}

	return c
}

// dropsCut reports whether ch has a product removed by the mass cutoff.
func dropsCut(ch particle.DecayChannel, cut map[int64]struct{}) bool {
	for _, p := range ch.Products {
		if _, ok := cut[p]; ok {
			return true
		}
	}

	return false
}

// lookup resolves an identifier through the index. Caller holds mu.
func (l *List) lookup(id int64) (*particle.Species, bool) {
	pos := l.position(id)
	if pos < 0 {
		return nil, false
	}

	return &l.species[pos], true
}

// position returns the index entry for id or -1. Caller holds mu.
func (l *List) position(id int64) int {
	if pos, ok := l.index[id]; ok {
		return pos
	}

	return -1
}

// invalidateLocked marks derived state stale after a mutation.
func (l *List) invalidateLocked() {
	l.finalized = false
	l.stale = true
}

// AddParticle appends sp without synthesizing an antiparticle. The
// identifier index is not updated: call FinalizeList before looking sp up.
// Complexity: O(len(sp.Channels)).
func (l *List) AddParticle(sp particle.Species) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.species = append(l.species, seeded(&sp))
	l.invalidateLocked()
}

// RemoveParticleAt removes the species at position i. The identifier index
// and the decay tables are invalid until FinalizeList and ProcessDecays run
// again. Returns ErrIndexOutOfRange.
// Complexity: O(Len()).
func (l *List) RemoveParticleAt(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.species) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	l.species = append(l.species[:i], l.species[i+1:]...)
	if len(l.types) > i {
		l.types = append(l.types[:i], l.types[i+1:]...)
	}
	l.index = nil
	l.invalidateLocked()

	return nil
}

// Len returns the number of species.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.species)
}

// Particle returns a copy of the species at position i.
func (l *List) Particle(i int) (particle.Species, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.species) {
		return particle.Species{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	return l.species[i].Clone(), nil
}

// Particles returns a copy of all species in list order.
func (l *List) Particles() []particle.Species {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]particle.Species, len(l.species))
	for i := range l.species {
		out[i] = l.species[i].Clone()
	}

	return out
}

// ParticleByID returns a copy of the species with identifier id.
// The identifier must be known: a miss returns ErrPrecondition wrapping
// ErrUnknownSpecies. Use IDToPosition for lookups that may fail.
func (l *List) ParticleByID(id int64) (*particle.Species, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sp, ok := l.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %w %d", ErrPrecondition, ErrUnknownSpecies, id)
	}
	out := sp.Clone()

	return &out, nil
}

// IDToPosition returns the position of id, or -1 if it is not indexed.
func (l *List) IDToPosition(id int64) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.position(id)
}

// PositionToID returns the identifier at position i, or 0 if i is out of
// range.
func (l *List) PositionToID(i int) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.species) {
		return 0
	}

	return l.species[i].ID
}

// NameByID returns the name of id, or "???" if it is not indexed.
func (l *List) NameByID(id int64) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if sp, ok := l.lookup(id); ok {
		return sp.Name
	}

	return unknownName
}

// DecayType returns the classification of the species at position i as of
// the last FinalizeList, or DecayStable if unknown.
func (l *List) DecayType(i int) particle.DecayType {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.types) {
		return particle.DecayStable
	}

	return l.types[i]
}

// identifiersLocked maps positions to identifiers for log output.
func (l *List) identifiersLocked(positions []int) []int64 {
	ids := make([]int64, len(positions))
	for k, i := range positions {
		ids[k] = l.species[i].ID
	}

	return ids
}
