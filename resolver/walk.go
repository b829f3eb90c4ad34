// SPDX-License-Identifier: MIT

package resolver

// frame is one level of the explicit walk stack: the species being
// expanded, the accumulated branching weight of the path leading to it and
// the iteration cursor over its channels and products.
type frame struct {
	v    int
	w    float64
	ch   int
	prod int
}

// walker performs mean-multiplicity walks. It owns scratch buffers and is
// not safe for concurrent use; use one walker per goroutine.
type walker struct {
	m      *model
	acc    []float64
	onPath []bool
	stack  []frame
}

// newWalker allocates scratch space for a model of n species.
func newWalker(m *model) *walker {
	n := len(m.nodes)
	return &walker{
		m:      m,
		acc:    make([]float64, n),
		onPath: make([]bool, n),
		stack:  make([]frame, 0, 16),
	}
}

// walk accumulates into w.acc the mean number of every species produced in
// the cascade of src, expanding the species accepted by follow.
// Re-entering a species already on the active path counts it but does not
// expand it again. Returns the number of such truncations.
func (w *walker) walk(src int, follow followFunc) int {
	hits := 0

	// 1) The source itself is the root of the active path
	w.stack = append(w.stack[:0], frame{v: src, w: 1})
	w.onPath[src] = true

	for len(w.stack) > 0 {
		top := len(w.stack) - 1
		f := &w.stack[top]
		chs := w.m.nodes[f.v].channels

		// 2) All channels done: backtrack
		if f.ch >= len(chs) {
			w.onPath[f.v] = false
			w.stack = w.stack[:top]
			continue
		}

		// 3) Current channel exhausted: advance to the next one
		ch := &chs[f.ch]
		if f.prod >= len(ch.products) {
			f.ch++
			f.prod = 0
			continue
		}

		// 4) Count the next product with the path weight times BR
		q := ch.products[f.prod]
		f.prod++
		weight := f.w * ch.br
		w.acc[q] += weight

		// 5) Descend into unstable products, unless it closes a cycle
		if !follow(q) {
			continue
		}
		if w.onPath[q] {
			hits++
			continue
		}
		w.onPath[q] = true
		w.stack = append(w.stack, frame{v: q, w: weight})
	}

	return hits
}

// drain moves the non-zero accumulated values into a sparse row and resets
// the accumulator. Entry Source holds the target position here; the caller
// transposes rows into a target-major table.
func (w *walker) drain() []Contribution {
	var row []Contribution
	for j, v := range w.acc {
		if v != 0 {
			row = append(row, Contribution{Source: j, Mean: v})
			w.acc[j] = 0
		}
	}

	return row
}

// transpose turns source-major rows (row[i] lists targets fed by source i)
// into a target-major Contributions table sorted by source.
func transpose(n int, rows [][]Contribution) Contributions {
	out := make(Contributions, n)
	for src, row := range rows {
		for _, c := range row {
			out[c.Source] = append(out[c.Source], Contribution{Source: src, Mean: c.Mean})
		}
	}

	return out
}
