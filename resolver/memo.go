// SPDX-License-Identifier: MIT

package resolver

import (
	"strconv"

	"github.com/katalvlaran/feeddown/decaygraph"
)

// memoKey identifies a cascade result. A cascade below v can only re-enter
// active species of v's own strongly connected component, so the result is
// fully determined by v and the members of that component on the active
// path. Outside cycles path is always empty.
type memoKey struct {
	v    int
	path string
}

// components records the strongly connected components of the decay graph
// and the component of every species.
type components struct {
	of      []int
	members [][]int
}

// newComponents indexes the components of g.
func newComponents(g *decaygraph.Graph) components {
	c := components{of: make([]int, g.Len()), members: decaygraph.Components(g)}
	for i, comp := range c.members {
		for _, v := range comp {
			c.of[v] = i
		}
	}

	return c
}

// key builds the memo key of v for the current active path.
func (c components) key(v int, onPath []bool) memoKey {
	comp := c.members[c.of[v]]
	if len(comp) == 1 {
		return memoKey{v: v}
	}
	var buf []byte
	for _, u := range comp {
		if onPath[u] {
			buf = strconv.AppendInt(buf, int64(u), 10)
			buf = append(buf, ',')
		}
	}

	return memoKey{v: v, path: string(buf)}
}
