// SPDX-License-Identifier: MIT

package resolver

// goalSolver computes, for one fixed target species (the goal), the number
// distribution and the cumulants of goal particles produced in the cascade
// of any source. Results for intermediate species are memoized per
// memoKey, so a cached value is reused only under the same active members
// of its cycle.
type goalSolver struct {
	m      *model
	goal   int
	onPath []bool

	probs map[memoKey][]float64
	cums  map[memoKey][4]float64
}

// newGoalSolver prepares a solver for goal.
func newGoalSolver(m *model, goal int) *goalSolver {
	return &goalSolver{
		m:      m,
		goal:   goal,
		onPath: make([]bool, len(m.nodes)),
		probs:  make(map[memoKey][]float64),
		cums:   make(map[memoKey][4]float64),
	}
}

// distribution returns P(n goal particles) for the cascade of v.
// first marks the source call: the source is always expanded even when it
// is the goal itself. Reaching the goal counts one and, like the mean walk,
// keeps following its own cascade unless it is already on the active path.
func (s *goalSolver) distribution(v int, first bool) []float64 {
	nd := &s.m.nodes[v]
	// 1) The goal counts one on top of its own cascade
	if v == s.goal && !first {
		if !nd.expands() || s.onPath[v] {
			return []float64{0, 1}
		}
		return convolve([]float64{0, 1}, s.expandDistribution(v))
	}
	// 2) Terminal species and re-entries into an active ancestor add nothing
	if !nd.expands() || s.onPath[v] {
		return []float64{1}
	}
	if v == s.goal {
		return s.expandDistribution(v)
	}

	key := s.m.comps.key(v, s.onPath)
	if p, ok := s.probs[key]; ok {
		return p
	}
	ret := s.expandDistribution(v)
	s.probs[key] = ret

	return ret
}

// expandDistribution convolves products within each channel of v and mixes
// channels by BR, with v marked active for the duration.
func (s *goalSolver) expandDistribution(v int) []float64 {
	nd := &s.m.nodes[v]
	s.onPath[v] = true

	var ret []float64
	for _, ch := range nd.channels {
		tmp := []float64{1}
		for _, q := range ch.products {
			tmp = convolve(tmp, s.distribution(q, false))
		}
		ret = addScaled(ret, tmp, ch.br)
	}
	if r := nd.brResidual(); r > 0 {
		ret = addScaled(ret, []float64{1}, r)
	}

	s.onPath[v] = false

	return ret
}

// cumulants returns the first four cumulants of the number of goal
// particles in the cascade of v, without building the distribution:
// cumulants of independent products add, and channels mix through raw
// moments weighted by branching ratio.
func (s *goalSolver) cumulants(v int, first bool) [4]float64 {
	nd := &s.m.nodes[v]
	if v == s.goal && !first {
		if !nd.expands() || s.onPath[v] {
			return [4]float64{1, 0, 0, 0}
		}
		// a constant shifts the mean only
		k := s.expandCumulants(v)
		k[0]++
		return k
	}
	if !nd.expands() || s.onPath[v] {
		return [4]float64{}
	}
	if v == s.goal {
		return s.expandCumulants(v)
	}

	key := s.m.comps.key(v, s.onPath)
	if k, ok := s.cums[key]; ok {
		return k
	}
	ret := s.expandCumulants(v)
	s.cums[key] = ret

	return ret
}

// expandCumulants composes the cumulants of the channels of v.
func (s *goalSolver) expandCumulants(v int) [4]float64 {
	nd := &s.m.nodes[v]
	s.onPath[v] = true

	var mix [4]float64
	for _, ch := range nd.channels {
		var k [4]float64
		for _, q := range ch.products {
			kq := s.cumulants(q, false)
			for i := range k {
				k[i] += kq[i]
			}
		}
		m := momentsFromCumulants(k)
		for i := range mix {
			mix[i] += ch.br * m[i]
		}
	}
	// the residual branch produces nothing: its raw moments are all zero

	s.onPath[v] = false

	return cumulantsFromMoments(mix)
}

// convolve returns the distribution of the sum of two independent counts.
func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, pa := range a {
		if pa == 0 {
			continue
		}
		for j, pb := range b {
			out[i+j] += pa * pb
		}
	}

	return out
}

// addScaled returns dst + w·src, growing dst as needed.
func addScaled(dst, src []float64, w float64) []float64 {
	if len(dst) < len(src) {
		dst = append(dst, make([]float64, len(src)-len(dst))...)
	}
	for i, p := range src {
		dst[i] += w * p
	}

	return dst
}

// momentsFromCumulants converts cumulants κ1..κ4 to raw moments m1..m4.
func momentsFromCumulants(k [4]float64) [4]float64 {
	k1, k2, k3, k4 := k[0], k[1], k[2], k[3]
	return [4]float64{
		k1,
		k2 + k1*k1,
		k3 + 3*k2*k1 + k1*k1*k1,
		k4 + 4*k3*k1 + 3*k2*k2 + 6*k2*k1*k1 + k1*k1*k1*k1,
	}
}

// cumulantsFromMoments converts raw moments m1..m4 to cumulants κ1..κ4.
func cumulantsFromMoments(m [4]float64) [4]float64 {
	m1, m2, m3, m4 := m[0], m[1], m[2], m[3]
	return [4]float64{
		m1,
		m2 - m1*m1,
		m3 - 3*m2*m1 + 2*m1*m1*m1,
		m4 - 4*m3*m1 - 3*m2*m2 + 12*m2*m1*m1 - 6*m1*m1*m1*m1,
	}
}

// CumulantsOf returns the first four cumulants of a number distribution
// P[n], n = 0, 1, ...
func CumulantsOf(p []float64) [4]float64 {
	var m [4]float64
	for n, pn := range p {
		x := float64(n)
		m[0] += pn * x
		m[1] += pn * x * x
		m[2] += pn * x * x * x
		m[3] += pn * x * x * x * x
	}

	return cumulantsFromMoments(m)
}
