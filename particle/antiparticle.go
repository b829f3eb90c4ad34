// SPDX-License-Identifier: MIT

package particle

import "strings"

// antiPrefix is prepended to a particle name to name its antiparticle.
const antiPrefix = "anti-"

// AntiparticleName derives the antiparticle name from a particle name:
// "p" becomes "anti-p" and "anti-p" becomes "p".
func AntiparticleName(name string) string {
	if rest, ok := strings.CutPrefix(name, antiPrefix); ok {
		return rest
	}

	return antiPrefix + name
}

// Antiparticle returns the charge conjugate of s: identifier and all four
// charges negated, name derived by AntiparticleName. Decay channels are not
// copied because mirroring them needs the product lookup of the owning list.
func Antiparticle(s *Species) Species {
	anti := *s
	anti.ID = -s.ID
	anti.Name = AntiparticleName(s.Name)
	anti.Baryon = -s.Baryon
	anti.Charge = -s.Charge
	anti.Strangeness = -s.Strangeness
	anti.Charm = -s.Charm
	anti.Channels = nil

	return anti
}
