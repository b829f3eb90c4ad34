// SPDX-License-Identifier: MIT

package resolver

import (
	"slices"
	"strconv"
)

// stateSolver enumerates final states. Memoized results are shared by all
// sources, so the solver runs on a single goroutine.
type stateSolver struct {
	m      *model
	limit  int
	onPath []bool
	memo   map[memoKey]cascade
}

// cascade is the final-state distribution of one species.
type cascade struct {
	states  FinalStates
	dropped float64 // probability missing from states, including products' losses
	exact   bool    // no truncation and no cycle anywhere below
}

// newStateSolver prepares a solver keeping at most limit outcomes.
func newStateSolver(m *model, limit int) *stateSolver {
	return &stateSolver{
		m:      m,
		limit:  limit,
		onPath: make([]bool, len(m.nodes)),
		memo:   make(map[memoKey]cascade),
	}
}

// single is the outcome set of a species that does not decay further.
func single(v int) FinalStates {
	return FinalStates{{P: 1, State: FinalState{{Species: v, Count: 1}}}}
}

// states returns the final-state distribution of the cascade of v.
func (s *stateSolver) states(v int) cascade {
	nd := &s.m.nodes[v]
	// 1) Terminal species stay as themselves
	if !nd.expands() {
		return cascade{states: single(v), exact: true}
	}
	// 2) Re-entry into an active ancestor: the species is left undecayed
	if s.onPath[v] {
		return cascade{states: single(v)}
	}
	key := s.m.comps.key(v, s.onPath)
	if c, ok := s.memo[key]; ok {
		return c
	}

	s.onPath[v] = true
	exact := true
	dropped := 0.0

	// 3) Combine products per channel, scale by BR, pool all channels.
	// Mass a product lost to its own cap is lost from the channel as well.
	var all FinalStates
	for _, ch := range nd.channels {
		cur := FinalStates{{P: 1}}
		chDropped := 0.0
		for _, q := range ch.products {
			sub := s.states(q)
			exact = exact && sub.exact
			if sub.dropped > 0 {
				chDropped += totalP(cur) * sub.dropped
			}
			var d float64
			cur, d = cutOutcomes(combine(cur, sub.states), s.limit)
			chDropped += d
		}
		for i := range cur {
			cur[i].P *= ch.br
		}
		dropped += ch.br * chDropped
		all = append(all, cur...)
	}
	if r := nd.brResidual(); r > 0 {
		all = append(all, Outcome{P: r})
	}

	// 4) Merge identical vectors across channels and apply the cap
	var d float64
	all, d = cutOutcomes(mergeOutcomes(all), s.limit)
	dropped += d
	s.onPath[v] = false

	c := cascade{states: all, dropped: dropped, exact: exact && dropped == 0}
	s.memo[key] = c

	return c
}

// totalP sums the probabilities of s.
func totalP(s FinalStates) float64 {
	sum := 0.0
	for _, o := range s {
		sum += o.P
	}

	return sum
}

// combine forms every pairing of an outcome of a with an outcome of b,
// multiplying probabilities and adding multiplicity vectors, then merges
// identical vectors.
func combine(a, b FinalStates) FinalStates {
	out := make(FinalStates, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, Outcome{P: x.P * y.P, State: addStates(x.State, y.State)})
		}
	}

	return mergeOutcomes(out)
}

// addStates returns the component-wise sum of two sparse vectors.
func addStates(a, b FinalState) FinalState {
	out := make(FinalState, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i].Species < b[j].Species):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j].Species < a[i].Species:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Multiplicity{Species: a[i].Species, Count: a[i].Count + b[j].Count})
			i++
			j++
		}
	}

	return out
}

// stateKey encodes a sparse vector as a map key.
func stateKey(buf []byte, s FinalState) []byte {
	buf = buf[:0]
	for _, m := range s {
		buf = strconv.AppendInt(buf, int64(m.Species), 10)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(m.Count), 10)
		buf = append(buf, ',')
	}

	return buf
}

// mergeOutcomes sums the probabilities of identical vectors, drops
// zero-probability outcomes and sorts the result canonically.
func mergeOutcomes(in FinalStates) FinalStates {
	idx := make(map[string]int, len(in))
	out := make(FinalStates, 0, len(in))
	var buf []byte
	for _, o := range in {
		if o.P == 0 {
			continue
		}
		buf = stateKey(buf, o.State)
		if k, ok := idx[string(buf)]; ok {
			out[k].P += o.P
			continue
		}
		idx[string(buf)] = len(out)
		out = append(out, o)
	}
	sortOutcomes(out)

	return out
}

// sortOutcomes orders by probability descending, ties broken by ascending
// lexicographic order of the dense final-state vector.
func sortOutcomes(s FinalStates) {
	slices.SortStableFunc(s, func(a, b Outcome) int {
		switch {
		case a.P > b.P:
			return -1
		case a.P < b.P:
			return 1
		default:
			return CompareStates(a.State, b.State)
		}
	})
}

// cutOutcomes keeps the limit most probable outcomes of a sorted set and
// returns the discarded probability.
func cutOutcomes(s FinalStates, limit int) (FinalStates, float64) {
	if len(s) <= limit {
		return s, 0
	}
	dropped := 0.0
	for _, o := range s[limit:] {
		dropped += o.P
	}

	return s[:limit:limit], dropped
}

// CompareStates compares two sparse vectors as if they were dense vectors
// over all species positions, lexicographically. Returns -1, 0 or +1.
func CompareStates(a, b FinalState) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b):
			// a has a positive count where b has zero
			return 1
		case i == len(a):
			return -1
		case a[i].Species < b[j].Species:
			return 1
		case b[j].Species < a[i].Species:
			return -1
		case a[i].Count != b[j].Count:
			if a[i].Count < b[j].Count {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	return 0
}
