// SPDX-License-Identifier: MIT

package particlelist

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/resolver"
)

// FinalizeList sorts the species by the active SortMode, rebuilds the
// identifier index, reclassifies decay types and validates that every
// decay product resolves (ErrUnknownProduct, joined per product).
//
// The sort is stable, so calling FinalizeList twice without mutation yields
// the same order and index. Finalizing reorders positions, which makes
// existing decay tables stale.
// Complexity: O(N log N + total products).
func (l *List) FinalizeList() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.finalizeLocked()
}

// finalizeLocked implements FinalizeList. Caller holds mu.
func (l *List) finalizeLocked() error {
	// 1) Order
	slices.SortStableFunc(l.species, compareFunc(l.cfg.SortMode))

	// 2) Index; duplicates introduced by AddParticle are reported
	var errs []error
	l.index = make(map[int64]int, len(l.species))
	for i := range l.species {
		id := l.species[i].ID
		if _, dup := l.index[id]; dup {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateID, id))
			continue
		}
		l.index[id] = i
	}

	// 3) Derived classification
	l.types = make([]particle.DecayType, len(l.species))
	for i := range l.species {
		l.types[i] = particle.Classify(&l.species[i])
	}

	// 4) Referential integrity of decay products
	for i := range l.species {
		sp := &l.species[i]
		for _, ch := range sp.Channels {
			for _, p := range ch.Products {
				if l.position(p) < 0 {
					errs = append(errs, fmt.Errorf("%w: %d in decay of %d", ErrUnknownProduct, p, sp.ID))
				}
			}
		}
	}

	l.finalized = true
	l.stale = true
	l.finalizeErr = errors.Join(errs...)

	return l.finalizeErr
}

// compareFunc returns the species ordering of mode.
func compareFunc(mode SortMode) func(a, b particle.Species) int {
	switch mode {
	case ByMassAndID:
		return func(a, b particle.Species) int {
			return cmp.Or(cmp.Compare(a.Mass, b.Mass), cmp.Compare(a.ID, b.ID))
		}
	case ByBaryonMassID:
		return func(a, b particle.Species) int {
			return cmp.Or(
				cmp.Compare(a.Baryon, b.Baryon),
				cmp.Compare(a.Mass, b.Mass),
				cmp.Compare(a.ID, b.ID),
			)
		}
	default:
		return func(a, b particle.Species) int {
			return cmp.Compare(a.Mass, b.Mass)
		}
	}
}

// SetSortMode switches the ordering policy, finalizes the list and
// re-resolves its decays with opts. A configuration error from finalizing
// is returned without processing.
func (l *List) SetSortMode(ctx context.Context, mode SortMode, opts ...resolver.Option) error {
	if mode < ByMass || mode > ByBaryonMassID {
		return fmt.Errorf("%w: %d", ErrBadSortMode, int(mode))
	}

	l.mu.Lock()
	l.cfg.SortMode = mode
	err := l.finalizeLocked()
	l.mu.Unlock()
	if err != nil {
		return err
	}

	return l.ProcessDecays(ctx, opts...)
}
