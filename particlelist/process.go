// SPDX-License-Identifier: MIT

package particlelist

import (
	"context"
	"fmt"

	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/resolver"
)

// listView exposes a locked List as a resolver.Source without re-locking.
type listView struct {
	l *List
}

func (v listView) Len() int                           { return len(v.l.species) }
func (v listView) Species(i int) *particle.Species    { return &v.l.species[i] }
func (v listView) DecayType(i int) particle.DecayType { return v.l.types[i] }
func (v listView) IDToPosition(id int64) int          { return v.l.position(id) }

// ProcessDecays resolves the decay graph of the list and takes ownership
// of the resulting tables, replacing any previous ones. The list must be
// finalized (ErrNotFinalized) and free of configuration errors. opts are
// passed to resolver.Resolve. The list is write-locked for the duration.
func (l *List) ProcessDecays(ctx context.Context, opts ...resolver.Option) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.finalized {
		return ErrNotFinalized
	}
	if l.finalizeErr != nil {
		return fmt.Errorf("process decays: %w", l.finalizeErr)
	}

	t, err := resolver.Resolve(ctx, listView{l: l}, opts...)
	if err != nil {
		return fmt.Errorf("process decays: %w", err)
	}
	l.tables = t
	l.stale = false

	return nil
}

// Tables returns the decay tables of the last ProcessDecays. After any
// mutation, and before the first ProcessDecays, it returns ErrStaleTables.
// The tables are shared and must not be modified.
func (l *List) Tables() (*resolver.Tables, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.tables == nil || l.stale {
		return nil, ErrStaleTables
	}

	return l.tables, nil
}

// Snapshot returns the current tables together with the identifier of
// every position they are indexed by, taken under one lock.
func (l *List) Snapshot() ([]int64, *resolver.Tables, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.tables == nil || l.stale {
		return nil, nil, ErrStaleTables
	}
	ids := make([]int64, len(l.species))
	for i := range l.species {
		ids[i] = l.species[i].ID
	}

	return ids, l.tables, nil
}
