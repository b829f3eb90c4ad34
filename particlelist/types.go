// SPDX-License-Identifier: MIT

package particlelist

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/resolver"
)

// Sentinel errors for list operations.
var (
	// ErrPrecondition marks a lookup whose success the caller has already
	// established; failing it is a programming error, not bad input.
	ErrPrecondition = errors.New("particlelist: precondition violated")

	// ErrUnknownSpecies indicates an identifier absent from the list.
	ErrUnknownSpecies = errors.New("particlelist: unknown species")

	// ErrDuplicateID indicates two species sharing one identifier.
	ErrDuplicateID = errors.New("particlelist: duplicate species identifier")

	// ErrUnknownParent indicates a decay record whose parent is not loaded.
	ErrUnknownParent = errors.New("particlelist: decay parent not in list")

	// ErrUnknownProduct indicates a decay product that does not resolve.
	ErrUnknownProduct = errors.New("particlelist: unknown decay product")

	// ErrMissingAntiparticle indicates a decay product without the
	// antiparticle needed to mirror a decay channel.
	ErrMissingAntiparticle = errors.New("particlelist: missing antiparticle of decay product")

	// ErrIndexOutOfRange indicates a position outside [0, Len()).
	ErrIndexOutOfRange = errors.New("particlelist: position out of range")

	// ErrNotFinalized indicates an operation that needs FinalizeList first.
	ErrNotFinalized = errors.New("particlelist: list not finalized")

	// ErrStaleTables indicates that no decay tables match the current list.
	ErrStaleTables = errors.New("particlelist: decay tables are stale")

	// ErrBadSortMode indicates an unrecognized sort mode.
	ErrBadSortMode = errors.New("particlelist: unknown sort mode")
)

// SortMode is the ordering policy applied by FinalizeList.
type SortMode int

const (
	// ByMass orders by mass ascending.
	ByMass SortMode = iota

	// ByMassAndID orders by mass, then identifier.
	ByMassAndID

	// ByBaryonMassID orders by baryon number, then mass, then identifier.
	ByBaryonMassID
)

var sortModeNames = [...]string{
	ByMass:         "mass",
	ByMassAndID:    "mass-id",
	ByBaryonMassID: "baryon-mass-id",
}

// String returns the configuration name of m.
func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return "unknown"
	}

	return sortModeNames[m]
}

// ParseSortMode is the inverse of SortMode.String.
func ParseSortMode(s string) (SortMode, error) {
	for i, name := range sortModeNames {
		if s == name {
			return SortMode(i), nil
		}
	}

	return ByMass, fmt.Errorf("%w: %q", ErrBadSortMode, s)
}

// Config holds the construction-time policies of a List.
type Config struct {
	// GenerateAntiparticles synthesizes the charge conjugate of every
	// loaded particle that lacks one.
	GenerateAntiparticles bool

	// MassCutoff discards species heavier than this (GeV) on Load.
	MassCutoff float64

	// SortMode is the ordering policy of FinalizeList.
	SortMode SortMode
}

// DefaultConfig returns {GenerateAntiparticles: true, MassCutoff: 1e9,
// SortMode: ByMass}.
func DefaultConfig() Config {
	return Config{
		GenerateAntiparticles: true,
		MassCutoff:            1e9,
		SortMode:              ByMass,
	}
}

// DecayRecord attaches one decay channel to the species ParentID. It is
// the shape in which an external loader hands over decay tables.
type DecayRecord struct {
	ParentID int64
	Channel  particle.DecayChannel
}

// Option configures a List.
type Option func(*List)

// WithLogger installs a structured logger. A nil logger has no effect.
func WithLogger(l *slog.Logger) Option {
	return func(pl *List) {
		if l != nil {
			pl.logger = l
		}
	}
}

// List is an ordered particle list with an identifier index and the decay
// tables resolved from it.
//
// mu guards every field. Mutations invalidate the tables; lookups by
// identifier are valid only after FinalizeList.
type List struct {
	mu sync.RWMutex

	cfg    Config
	logger *slog.Logger

	species []particle.Species
	types   []particle.DecayType // derived by FinalizeList
	index   map[int64]int        // nil while invalid

	finalized   bool
	finalizeErr error // configuration errors of the last FinalizeList

	tables *resolver.Tables
	stale  bool
}

// New returns an empty list with the given policies.
// Complexity: O(1).
func New(cfg Config, opts ...Option) *List {
	l := &List{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
		index:  make(map[int64]int),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Config returns the policies the list was built with, with the current
// sort mode.
func (l *List) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.cfg
}
