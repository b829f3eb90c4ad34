// SPDX-License-Identifier: MIT

package resolver

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/feeddown/decaygraph"
	"github.com/katalvlaran/feeddown/particle"
)

// channel is a decay channel with products resolved to positions.
type channel struct {
	br       float64
	products []int
}

// node is the compiled view of one species.
type node struct {
	stable    bool
	decayType particle.DecayType
	charge    int
	channels  []channel
}

// expands reports whether the cascade continues through n when decays are
// followed by stability flag.
func (n *node) expands() bool {
	return !n.stable && len(n.channels) > 0
}

// brResidual returns 1 - ΣBR when it exceeds DefaultEpsilon, otherwise 0.
func (n *node) brResidual() float64 {
	sum := 0.0
	for _, ch := range n.channels {
		sum += ch.br
	}
	if r := 1 - sum; r > DefaultEpsilon {
		return r
	}

	return 0
}

// model is an immutable snapshot of the Source, safe for concurrent reads.
// comps is filled once from the decay graph before any traversal starts.
type model struct {
	nodes []node
	comps components
}

// compile snapshots src, resolving every product identifier. All unknown
// products are reported together.
func compile(src Source) (*model, error) {
	n := src.Len()
	m := &model{nodes: make([]node, n)}

	var errs []error
	for i := 0; i < n; i++ {
		sp := src.Species(i)
		nd := node{
			stable:    sp.Stable,
			decayType: src.DecayType(i),
			charge:    sp.Charge,
			channels:  make([]channel, 0, len(sp.Channels)),
		}
		for _, ch := range sp.Channels {
			c := channel{br: ch.BranchingRatio, products: make([]int, 0, len(ch.Products))}
			for _, pid := range ch.Products {
				pos := src.IDToPosition(pid)
				if pos < 0 {
					errs = append(errs, fmt.Errorf("%w: %d in decay of %d", ErrUnknownProduct, pid, sp.ID))
					continue
				}
				c.products = append(c.products, pos)
			}
			nd.channels = append(nd.channels, c)
		}
		m.nodes[i] = nd
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return m, nil
}

// graph returns the decay graph containing every edge that any traversal
// may follow: parent → product for species that decay by stability flag or
// by classification.
func (m *model) graph() *decaygraph.Graph {
	g := decaygraph.New(len(m.nodes))
	for v := range m.nodes {
		nd := &m.nodes[v]
		if nd.stable && nd.decayType == particle.DecayStable {
			continue
		}
		for _, ch := range nd.channels {
			for _, q := range ch.products {
				// positions come from compile, always in range
				_ = g.AddEdge(v, q)
			}
		}
	}

	return g
}

// followFunc decides whether the walk expands the species at position v.
type followFunc func(v int) bool

// followStability expands species by stability flag.
func (m *model) followStability() followFunc {
	return func(v int) bool { return m.nodes[v].expands() }
}

// followFeeddown expands species whose decay type is included at level f.
func (m *model) followFeeddown(f particle.Feeddown) followFunc {
	return func(v int) bool {
		nd := &m.nodes[v]
		return len(nd.channels) > 0 && f.Follows(nd.decayType)
	}
}
