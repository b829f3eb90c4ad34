package decaygraph

import (
	"fmt"
	"slices"
)

// DetectCycles inspects g for directed cycles closed by back edges.
// Returns (true, cycles, nil) if any are found, (false, nil, nil) otherwise.
// Each cycle is closed ([v0, v1, ..., v0]) and rotated so that its smallest
// vertex comes first; the list is sorted lexicographically.
// A nil graph is treated as cycle-free.
func DetectCycles(g *Graph, opts ...Option) (bool, [][]int, error) {
	// 1) Nil graph is treated as cycle-free
	if g == nil {
		return false, nil, nil
	}

	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 2) Prepare visitation state and the active path stack
	n := g.Len()
	state := make([]int, n)
	path := make([]int, 0, n)
	seen := make(map[string]struct{})
	var cycles [][]int

	// 3) Launch DFS from each unvisited vertex
	for v := 0; v < n; v++ {
		if state[v] != White {
			continue
		}
		if err := o.cancelled(); err != nil {
			return false, nil, err
		}
		visit(g, v, state, &path, seen, &cycles)
	}

	// 4) Deterministic output order
	slices.SortFunc(cycles, slices.Compare[[]int])

	if len(cycles) == 0 {
		return false, nil, nil
	}

	return true, cycles, nil
}

// visit performs recursive DFS from v. Recursion depth is bounded by the
// number of vertices because a Gray vertex is never re-entered.
func visit(g *Graph, v int, state []int, path *[]int, seen map[string]struct{}, cycles *[][]int) {
	// 1) Mark Gray and push onto the path
	state[v] = Gray
	*path = append(*path, v)

	// 2) Explore successors
	for _, w := range g.Successors(v) {
		switch state[w] {
		case White:
			visit(g, w, state, path, seen, cycles)
		case Gray:
			// back-edge: the path segment from w to v closes a cycle
			recordCycle(w, *path, seen, cycles)
		}
	}

	// 3) Backtrack
	*path = (*path)[:len(*path)-1]
	state[v] = Black
}

// recordCycle extracts the cycle ending at start from path, canonicalizes it
// and appends it to cycles unless an identical cycle was seen before.
func recordCycle(start int, path []int, seen map[string]struct{}, cycles *[][]int) {
	idx := IndexOf(path, start)
	base := append([]int(nil), path[idx:]...)

	rot := MinimalRotation(base)
	closed := append(rot, rot[0])
	sig := fmt.Sprint(closed)
	if _, ok := seen[sig]; ok {
		return
	}
	seen[sig] = struct{}{}
	*cycles = append(*cycles, closed)
}
