package decaygraph

// topoSorter encapsulates state for a topological sort traversal.
type topoSorter struct {
	graph *Graph
	opts  options
	state []int // White, Gray, Black
	order []int // recorded post-order sequence
}

// TopologicalSort returns an ordering in which every decaying parent comes
// before all of its products. Vertices without edges keep ascending order
// relative to their roots.
// If g is nil, returns ErrGraphNil; if a cycle exists, ErrCycleDetected.
func TopologicalSort(g *Graph, opts ...Option) ([]int, error) {
	// 1. Validate graph pointer
	if g == nil {
		return nil, ErrGraphNil
	}

	// 2. Apply optional settings
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 3. Initialize sorter state
	n := g.Len()
	t := &topoSorter{
		graph: g,
		opts:  o,
		state: make([]int, n),
		order: make([]int, 0, n),
	}

	// 4. Drive DFS from every unvisited vertex
	for v := 0; v < n; v++ {
		if t.state[v] == White {
			if err := t.visit(v); err != nil {
				return nil, err
			}
		}
	}

	// 5. Reverse post-order to produce topological order
	for i, j := 0, len(t.order)-1; i < j; i, j = i+1, j-1 {
		t.order[i], t.order[j] = t.order[j], t.order[i]
	}

	return t.order, nil
}

// visit performs a DFS from v, marking states and detecting cycles.
func (t *topoSorter) visit(v int) error {
	// 1. Cancellation check at entry
	if err := t.opts.cancelled(); err != nil {
		return err
	}
	// 2. Gray re-entry is a back-edge
	if t.state[v] == Gray {
		return ErrCycleDetected
	}
	if t.state[v] == Black {
		return nil
	}
	t.state[v] = Gray

	// 3. Explore successors
	for _, w := range t.graph.Successors(v) {
		if err := t.visit(w); err != nil {
			return err
		}
	}

	// 4. Done: record in post-order
	t.state[v] = Black
	t.order = append(t.order, v)

	return nil
}
