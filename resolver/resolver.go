// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/feeddown/decaygraph"
	"github.com/katalvlaran/feeddown/particle"
)

// Resolve walks the decay graph of every species of src and returns the
// fully populated tables. src must not change while Resolve runs; Resolve
// copies what it needs before fanning out.
//
// Steps:
//  1. Compile the source (unknown products → ErrUnknownProduct, joined).
//  2. Detect cycles and log them as a warning.
//  3. Mean walks per source: stability-flag table and four feeddown tables.
//  4. Probability distributions and cumulants per target.
//  5. Final-state distributions, products before parents when acyclic.
//
// Memoized cascade results are keyed by species and by the active members
// of its strongly connected component, so ancestors of a cycle are
// resolved once and reused.
func Resolve(ctx context.Context, src Source, opts ...Option) (*Tables, error) {
	if src == nil {
		return nil, ErrSourceNil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	start := time.Now()

	// 1. Snapshot the list
	m, err := compile(src)
	if err != nil {
		return nil, err
	}
	t := newTables(m)

	// 2. Cycle report
	g := m.graph()
	m.comps = newComponents(g)
	cyclic, cycles, err := decaygraph.DetectCycles(g, decaygraph.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if cyclic {
		t.Cycles = cycles
		o.logger.Warn("decay graph contains cycles; cascades are truncated at re-entry",
			"cycles", len(cycles),
			"first", identifiers(src, cycles[0]),
		)
	}

	// 3-5. Table families
	if err = t.resolveMeans(ctx, m, o); err != nil {
		return nil, err
	}
	if err = t.resolveDistributions(ctx, m, o); err != nil {
		return nil, err
	}
	if err = t.resolveFinalStates(ctx, m, o, g, cyclic); err != nil {
		return nil, err
	}

	if t.CycleHits > 0 {
		o.observer.ObserveCycleTruncations(t.CycleHits)
	}
	elapsed := time.Since(start)
	o.observer.ObserveResolve(len(m.nodes), elapsed)
	o.logger.Debug("decays resolved", "species", len(m.nodes), "elapsed", elapsed)

	return t, nil
}

// resolveMeans fills Contributions and ByFeeddown. Each source writes only
// its own row slots.
func (t *Tables) resolveMeans(ctx context.Context, m *model, o options) error {
	n := len(m.nodes)
	mainRows := make([][]Contribution, n)
	var classRows [particle.NumFeeddown][][]Contribution
	var follow [particle.NumFeeddown]followFunc
	for _, f := range particle.Feeddowns {
		classRows[f] = make([][]Contribution, n)
		follow[f] = m.followFeeddown(f)
	}
	followMain := m.followStability()
	hits := make([]int, n)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for src := 0; src < n; src++ {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			w := newWalker(m)
			if followMain(src) {
				hits[src] += w.walk(src, followMain)
				mainRows[src] = w.drain()
			}
			for _, f := range particle.Feeddowns {
				if follow[f](src) {
					hits[src] += w.walk(src, follow[f])
					classRows[f][src] = w.drain()
				}
			}

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	t.Contributions = transpose(n, mainRows)
	for _, f := range particle.Feeddowns {
		t.ByFeeddown[f] = transpose(n, classRows[f])
	}
	for _, h := range hits {
		t.CycleHits += h
	}

	return nil
}

// resolveDistributions fills Probabilities and Cumulants for every pair
// present in Contributions. Each target has its own solver and memo.
func (t *Tables) resolveDistributions(ctx context.Context, m *model, o options) error {
	n := len(m.nodes)
	t.Probabilities = make([][]ProbabilityContribution, n)
	t.Cumulants = make([][]CumulantContribution, n)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for goal := 0; goal < n; goal++ {
		row := t.Contributions[goal]
		if len(row) == 0 {
			continue
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			s := newGoalSolver(m, goal)
			probs := make([]ProbabilityContribution, len(row))
			cums := make([]CumulantContribution, len(row))
			for k, c := range row {
				probs[k] = ProbabilityContribution{Source: c.Source, P: s.distribution(c.Source, true)}
				cums[k] = CumulantContribution{Source: c.Source, K: s.cumulants(c.Source, true)}
			}
			t.Probabilities[goal] = probs
			t.Cumulants[goal] = cums

			return nil
		})
	}

	return eg.Wait()
}

// resolveFinalStates fills FinalStates, Truncated and Exact. The memo is
// shared across sources, so this step is sequential; on an acyclic graph
// products are resolved before their parents, which keeps recursion shallow.
func (t *Tables) resolveFinalStates(ctx context.Context, m *model, o options, g *decaygraph.Graph, cyclic bool) error {
	n := len(m.nodes)
	order := make([]int, 0, n)
	if !cyclic {
		topo, err := decaygraph.TopologicalSort(g, decaygraph.WithContext(ctx))
		if err != nil {
			return err
		}
		for i := len(topo) - 1; i >= 0; i-- {
			order = append(order, topo[i])
		}
	} else {
		for v := 0; v < n; v++ {
			order = append(order, v)
		}
	}

	s := newStateSolver(m, o.maxFinalStates)
	truncated := 0
	for _, v := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := s.states(v)
		t.FinalStates[v], t.Truncated[v], t.Exact[v] = c.states, c.dropped, c.exact
		if t.Truncated[v] > 0 {
			truncated++
			o.observer.ObserveFinalStateTruncation(v, t.Truncated[v])
		}
	}
	if truncated > 0 {
		o.logger.Warn("final-state distributions truncated",
			"species", truncated,
			"limit", o.maxFinalStates,
		)
	}

	return nil
}

// identifiers maps positions to species identifiers for log output.
func identifiers(src Source, positions []int) []int64 {
	ids := make([]int64, len(positions))
	for i, p := range positions {
		ids[i] = src.Species(p).ID
	}

	return ids
}
