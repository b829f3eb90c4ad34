package decaygraph

import "slices"

// Components returns the strongly connected components of g. Each
// component is sorted ascending and the list is ordered by smallest vertex.
// A vertex outside every cycle forms a component of its own.
// A nil graph has no components.
func Components(g *Graph) [][]int {
	if g == nil {
		return nil
	}

	// 1) Tarjan bookkeeping: discovery index, low-link and the open stack
	n := g.Len()
	t := &tarjan{
		g:       g,
		index:   make([]int, n),
		low:     make([]int, n),
		onStack: make([]bool, n),
	}
	for v := range t.index {
		t.index[v] = -1
	}

	// 2) Visit every undiscovered vertex
	for v := 0; v < n; v++ {
		if t.index[v] < 0 {
			t.visit(v)
		}
	}

	// 3) Deterministic output order
	for _, c := range t.comps {
		slices.Sort(c)
	}
	slices.SortFunc(t.comps, func(a, b []int) int { return a[0] - b[0] })

	return t.comps
}

type tarjan struct {
	g       *Graph
	next    int
	index   []int
	low     []int
	onStack []bool
	stack   []int
	comps   [][]int
}

// visit is the recursive step; depth is bounded by the number of vertices.
func (t *tarjan) visit(v int) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.Successors(v) {
		switch {
		case t.index[w] < 0:
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		case t.onStack[w]:
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	// v is the root of a component: pop it off
	if t.low[v] != t.index[v] {
		return
	}
	var comp []int
	for {
		top := len(t.stack) - 1
		w := t.stack[top]
		t.stack = t.stack[:top]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.comps = append(t.comps, comp)
}
