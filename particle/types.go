// SPDX-License-Identifier: MIT

package particle

import (
	"errors"
	"slices"
)

// Sentinel errors for species-level validation.
var (
	// ErrBadBranchingRatio indicates a branching ratio outside [0,1] or NaN.
	ErrBadBranchingRatio = errors.New("particle: branching ratio outside [0,1]")

	// ErrEmptyChannel indicates a decay channel without products.
	ErrEmptyChannel = errors.New("particle: decay channel has no products")

	// ErrZeroID indicates a species with identifier 0, which is reserved as
	// the "no species" sentinel.
	ErrZeroID = errors.New("particle: species identifier is zero")
)

// Charges groups the four conserved quantum numbers of a species.
type Charges struct {
	Baryon      int
	Charge      int
	Strangeness int
	Charm       int
}

// Add returns the component-wise sum of c and o.
func (c Charges) Add(o Charges) Charges {
	return Charges{
		Baryon:      c.Baryon + o.Baryon,
		Charge:      c.Charge + o.Charge,
		Strangeness: c.Strangeness + o.Strangeness,
		Charm:       c.Charm + o.Charm,
	}
}

// Negate returns the charges of the charge-conjugate state.
func (c Charges) Negate() Charges {
	return Charges{-c.Baryon, -c.Charge, -c.Strangeness, -c.Charm}
}

// IsZero reports whether all four charges vanish.
func (c Charges) IsZero() bool {
	return c == Charges{}
}

// DecayChannel is one decay mode of a species.
//
// BranchingRatio is the effective value used by the resolver;
// OriginalBranchingRatio keeps the value as loaded so that normalization
// can be reverted. Products is an ordered multiset of product identifiers:
// a product appearing twice is produced twice.
type DecayChannel struct {
	// BranchingRatio is the effective branching ratio in [0,1].
	BranchingRatio float64

	// OriginalBranchingRatio is the branching ratio as loaded.
	OriginalBranchingRatio float64

	// Products lists the identifiers of the decay products.
	Products []int64

	// L is the orbital angular momentum released in the decay.
	L int

	// Threshold is the sum of product masses; filled by the owning list.
	Threshold float64
}

// NewDecayChannel returns a channel whose effective and original branching
// ratios are both br.
func NewDecayChannel(br float64, products ...int64) DecayChannel {
	return DecayChannel{
		BranchingRatio:         br,
		OriginalBranchingRatio: br,
		Products:               append([]int64(nil), products...),
	}
}

// Multiplicity returns how many times id appears among the products.
func (d DecayChannel) Multiplicity(id int64) int {
	n := 0
	for _, p := range d.Products {
		if p == id {
			n++
		}
	}

	return n
}

// Seeded returns d with OriginalBranchingRatio taken from BranchingRatio
// when the record carried only the effective ratio.
func (d DecayChannel) Seeded() DecayChannel {
	if d.OriginalBranchingRatio == 0 {
		d.OriginalBranchingRatio = d.BranchingRatio
	}

	return d
}

// Validate checks the range of both branching ratios and that products
// exist.
func (d DecayChannel) Validate() error {
	// NaN fails both comparisons, so it is rejected too
	if !(d.BranchingRatio >= 0 && d.BranchingRatio <= 1) {
		return ErrBadBranchingRatio
	}
	if !(d.OriginalBranchingRatio >= 0 && d.OriginalBranchingRatio <= 1) {
		return ErrBadBranchingRatio
	}
	if len(d.Products) == 0 {
		return ErrEmptyChannel
	}

	return nil
}

// Equal reports structural equality of two channels: same branching ratios
// and the same ordered products. Threshold and L are metadata and ignored.
func (d DecayChannel) Equal(o DecayChannel) bool {
	return d.BranchingRatio == o.BranchingRatio &&
		d.OriginalBranchingRatio == o.OriginalBranchingRatio &&
		slices.Equal(d.Products, o.Products)
}

// Clone returns a deep copy of d.
func (d DecayChannel) Clone() DecayChannel {
	d.Products = append([]int64(nil), d.Products...)

	return d
}

// Species describes one particle species of the list.
//
// The decay type is derived (see Classify) and is deliberately not a field:
// the owning list recomputes it whenever the list is finalized.
type Species struct {
	// ID is the PDG-like identifier; unique within a list, never zero.
	ID int64

	// Name is a human-readable label.
	Name string

	// Mass in GeV.
	Mass float64

	// Width is the resonance width in GeV; opaque to the decay resolution.
	Width float64

	// Degeneracy is the spin-isospin degeneracy factor; opaque here.
	Degeneracy float64

	// Conserved charges.
	Baryon      int
	Charge      int
	Strangeness int
	Charm       int

	// AbsStrangeContent is the number of s and s-bar valence quarks.
	AbsStrangeContent float64

	// AbsCharmContent is the number of c and c-bar valence quarks.
	AbsCharmContent float64

	// Stable marks species whose decays are not followed by default.
	Stable bool

	// Channels lists the decay modes in load order.
	Channels []DecayChannel
}

// Charges returns the four conserved charges of s.
func (s *Species) Charges() Charges {
	return Charges{
		Baryon:      s.Baryon,
		Charge:      s.Charge,
		Strangeness: s.Strangeness,
		Charm:       s.Charm,
	}
}

// IsSelfConjugate reports whether s is its own antiparticle, i.e. all
// conserved charges are zero.
func (s *Species) IsSelfConjugate() bool {
	return s.Charges().IsZero()
}

// HasStrangeOrCharm reports whether s carries strange or charm content,
// either as a net charge or as hidden quark content.
func (s *Species) HasStrangeOrCharm() bool {
	return s.Strangeness != 0 || s.Charm != 0 ||
		s.AbsStrangeContent != 0 || s.AbsCharmContent != 0
}

// BranchingRatioSum returns the sum of effective branching ratios.
func (s *Species) BranchingRatioSum() float64 {
	sum := 0.0
	for _, ch := range s.Channels {
		sum += ch.BranchingRatio
	}

	return sum
}

// Clone returns a deep copy of s, including its channels.
func (s *Species) Clone() Species {
	out := *s
	out.Channels = make([]DecayChannel, len(s.Channels))
	for i, ch := range s.Channels {
		out.Channels[i] = ch.Clone()
	}

	return out
}

// Equal reports structural equality: identifier, properties and channels.
func (s *Species) Equal(o *Species) bool {
	if s.ID != o.ID || s.Name != o.Name || s.Mass != o.Mass ||
		s.Charges() != o.Charges() || s.Stable != o.Stable ||
		len(s.Channels) != len(o.Channels) {
		return false
	}
	for i := range s.Channels {
		if !s.Channels[i].Equal(o.Channels[i]) {
			return false
		}
	}

	return true
}
