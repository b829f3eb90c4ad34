// Package particlelist owns an ordered particle list, its identifier index
// and the decay tables resolved from it.
//
// What:
//
//   - Load: species and decay records from an external loader, with a mass
//     cutoff, duplicate and referential checks, and optional antiparticle
//     synthesis (charges and identifier negated, decays mirrored).
//   - FinalizeList: stable sort by SortMode, index rebuild, decay-type
//     classification, product validation. Idempotent.
//   - Lookups: by position, by identifier with a -1 / 0 / "???" sentinel,
//     and ParticleByID for identifiers the caller knows to exist.
//   - Branching ratios: Normalize and Restore, both pure functions of the
//     ratios as loaded.
//   - Charge conservation per species; decay thresholds.
//   - ProcessDecays: runs package resolver over the list and keeps the tables
//     until the next mutation.
//
// Lifecycle:
//
//	Load (or AddParticle...) → FinalizeList → ProcessDecays → Tables
//
// AddParticle and RemoveParticleAt leave the index and tables stale; Tables
// returns ErrStaleTables until the list is finalized and processed again.
//
// Errors:
//
//	ErrDuplicateID, ErrUnknownParent, ErrUnknownProduct,
//	ErrMissingAntiparticle   - configuration errors, joined by Load.
//	ErrPrecondition          - ParticleByID on an unknown identifier.
//	ErrIndexOutOfRange       - position outside the list.
//	ErrNotFinalized          - ProcessDecays before FinalizeList.
//	ErrStaleTables           - tables missing or out of date.
//	ErrBadSortMode           - unknown sort mode.
//
// Concurrency:
//
// All methods are safe for concurrent use; a sync.RWMutex guards the list.
// ProcessDecays holds the write lock while the resolver runs.
package particlelist
