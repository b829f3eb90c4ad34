package decaygraph

import (
	"context"
	"errors"
	"slices"
)

// Vertex visitation states.
const (
	White = iota // White: the vertex has not been visited yet.
	Gray         // Gray: the vertex is on the active DFS path.
	Black        // Black: the vertex and all its descendants are done.
)

var (
	// ErrGraphNil is returned when a nil *Graph is passed in.
	ErrGraphNil = errors.New("decaygraph: graph is nil")

	// ErrVertexOutOfRange indicates an edge endpoint outside [0, n).
	ErrVertexOutOfRange = errors.New("decaygraph: vertex out of range")

	// ErrCycleDetected indicates that a cycle was encountered during
	// TopologicalSort.
	ErrCycleDetected = errors.New("decaygraph: cycle detected")
)

// Graph is a directed graph over species positions 0..n-1.
// Successor lists are kept sorted and free of duplicates, so traversal
// order, and therefore every result, is deterministic.
type Graph struct {
	succ [][]int
}

// New returns an edgeless graph with n vertices.
func New(n int) *Graph {
	return &Graph{succ: make([][]int, n)}
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.succ)
}

// AddEdge inserts from → to. Repeated edges collapse into one; self-loops
// are kept because a species may list itself among its products.
func (g *Graph) AddEdge(from, to int) error {
	if from < 0 || from >= len(g.succ) || to < 0 || to >= len(g.succ) {
		return ErrVertexOutOfRange
	}
	// keep successors sorted for deterministic traversal
	s := g.succ[from]
	i, found := slices.BinarySearch(s, to)
	if found {
		return nil
	}
	g.succ[from] = slices.Insert(s, i, to)

	return nil
}

// Successors returns the sorted successors of v. The slice must not be
// modified.
func (g *Graph) Successors(v int) []int {
	return g.succ[v]
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, s := range g.succ {
		n += len(s)
	}

	return n
}

// Option configures optional traversal behavior.
type Option func(*options)

// options holds settings shared by DetectCycles and TopologicalSort,
// currently only cancellation.
type options struct {
	ctx context.Context // allows cancellation; defaults to Background
}

// defaultOptions returns the default options (Background context).
func defaultOptions() options {
	return options{ctx: context.Background()}
}

// WithContext returns an Option that sets the cancellation context.
// Passing a nil context has no effect.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// cancelled reports the context error, if any, without blocking.
func (o *options) cancelled() error {
	select {
	case <-o.ctx.Done():
		return o.ctx.Err()
	default:
		return nil
	}
}
