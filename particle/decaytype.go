// SPDX-License-Identifier: MIT

package particle

// DecayType classifies how a species decays. The order matters: a decay is
// followed at feeddown level f only if its type is not Stable and is at or
// below f (see Feeddown.Follows).
type DecayType int

const (
	DecayStable          DecayType = iota // does not decay
	DecayWeak                             // weak decay
	DecayElectromagnetic                  // electromagnetic decay
	DecayStrong                           // strong decay
)

// String returns a lowercase label.
func (t DecayType) String() string {
	switch t {
	case DecayStable:
		return "stable"
	case DecayWeak:
		return "weak"
	case DecayElectromagnetic:
		return "electromagnetic"
	case DecayStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Feeddown is the inclusiveness level used when counting decay products.
// Each level strictly includes the previous one.
type Feeddown int

const (
	FeeddownNone            Feeddown = iota // primordial only
	FeeddownWeak                            // weak decays
	FeeddownElectromagnetic                 // weak and electromagnetic decays
	FeeddownStrong                          // weak, electromagnetic and strong decays
)

// NumFeeddown is the number of feeddown levels.
const NumFeeddown = 4

// Feeddowns lists all levels in increasing inclusiveness.
var Feeddowns = [NumFeeddown]Feeddown{FeeddownNone, FeeddownWeak, FeeddownElectromagnetic, FeeddownStrong}

// String returns a lowercase label.
func (f Feeddown) String() string {
	switch f {
	case FeeddownNone:
		return "none"
	case FeeddownWeak:
		return "weak"
	case FeeddownElectromagnetic:
		return "electromagnetic"
	case FeeddownStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Follows reports whether decays of a particle with type t are traversed at
// level f.
func (f Feeddown) Follows(t DecayType) bool {
	return t != DecayStable && int(t) <= int(f)
}

// Known identifiers (absolute values) whose decay type does not follow from
// the stability flag. Light nuclei are included among the stable ones.
var (
	knownStable = map[int64]struct{}{
		11: {}, 13: {}, 22: {}, // e, mu, gamma
		211: {}, 321: {}, // pi+, K+
		2212: {}, 2112: {}, // p, n
		1000010020: {}, 1000010030: {}, 1000020030: {}, 1000020040: {}, // d, t, He3, He4
	}

	knownWeak = map[int64]struct{}{
		310: {}, 130: {}, // K0S, K0L
		3122: {}, 3222: {}, 3112: {}, // Lambda, Sigma+, Sigma-
		3312: {}, 3322: {}, 3334: {}, // Xi-, Xi0, Omega-
		411: {}, 421: {}, 431: {}, 4122: {}, // D+, D0, Ds+, Lambda_c+
		1010010030: {}, // hypertriton
	}

	knownElectromagnetic = map[int64]struct{}{
		111: {}, 221: {}, // pi0, eta
		3212: {}, // Sigma0
	}
)

// Classify returns the decay type of s:
//
//  1. Known stable, weak or electromagnetic identifiers (sign ignored).
//  2. Stability flag false → DecayStrong.
//  3. Strange or charm content → DecayWeak, otherwise DecayStable.
func Classify(s *Species) DecayType {
	id := s.ID
	if id < 0 {
		id = -id
	}

	if _, ok := knownStable[id]; ok {
		return DecayStable
	}
	if _, ok := knownWeak[id]; ok {
		return DecayWeak
	}
	if _, ok := knownElectromagnetic[id]; ok {
		return DecayElectromagnetic
	}

	if !s.Stable {
		return DecayStrong
	}
	if s.HasStrangeOrCharm() {
		return DecayWeak
	}

	return DecayStable
}
