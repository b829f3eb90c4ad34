package decaygraph_test

import (
	"fmt"

	"github.com/katalvlaran/feeddown/decaygraph"
)

// ExampleDetectCycles reports a two-species loop next to a clean chain.
// Graph structure:
//
//	0 → 1 → 2      (chain)
//	3 ⇄ 4          (loop)
func ExampleDetectCycles() {
	g := decaygraph.New(5)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {4, 3}, {3, 4}} {
		_ = g.AddEdge(e[0], e[1])
	}

	has, cycles, err := decaygraph.DetectCycles(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(has, cycles)

	// Output:
	// true [[3 4 3]]
}

// ExampleTopologicalSort orders a small cascade parents first.
func ExampleTopologicalSort() {
	// 2 → 1 → 0
	g := decaygraph.New(3)
	_ = g.AddEdge(2, 1)
	_ = g.AddEdge(1, 0)

	order, err := decaygraph.TopologicalSort(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(order)

	// Output:
	// [2 1 0]
}
