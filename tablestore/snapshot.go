package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// Pair identifies a (target, source) entry by species identifiers.
type Pair struct {
	Target int64
	Source int64
}

// Outcome is one stored final state: multiplicity by species identifier.
type Outcome struct {
	P     float64
	State map[int64]int
}

// Snapshot is a stored run read back into memory.
type Snapshot struct {
	Run         string
	Means       map[string]map[Pair]float64 // level → pair → mean
	Cumulants     map[Pair][4]float64
	Probabilities map[Pair][]float64  // P(n) for n = 0, 1, ...
	FinalStates   map[int64][]Outcome // source → outcomes in stored order
	Truncated     map[int64]float64   // source → probability missing from FinalStates
	Exact         map[int64]bool
}

// Mean returns the mean contribution at level, 0 if absent.
func (s *Snapshot) Mean(level string, target, source int64) float64 {
	return s.Means[level][Pair{Target: target, Source: source}]
}

// Sources lists the identifiers with stored final states, ascending.
func (s *Snapshot) Sources() []int64 {
	ids := make([]int64, 0, len(s.FinalStates))
	for id := range s.FinalStates {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Load reads run back. Returns ErrRunNotFound if nothing is stored.
func (s *Store) Load(ctx context.Context, run string) (*Snapshot, error) {
	snap := &Snapshot{
		Run:         run,
		Means:       make(map[string]map[Pair]float64),
		Cumulants:     make(map[Pair][4]float64),
		Probabilities: make(map[Pair][]float64),
		FinalStates:   make(map[int64][]Outcome),
		Truncated:     make(map[int64]float64),
		Exact:         make(map[int64]bool),
	}

	// 1) Means
	rows, err := s.db.QueryContext(ctx, `SELECT level, target_id, source_id, mean FROM contributions WHERE run = ?`, run)
	if err != nil {
		return nil, fmt.Errorf("select contributions: %w", err)
	}
	for rows.Next() {
		var level string
		var p Pair
		var mean float64
		if err = rows.Scan(&level, &p.Target, &p.Source, &mean); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan contributions: %w", err)
		}
		if snap.Means[level] == nil {
			snap.Means[level] = make(map[Pair]float64)
		}
		snap.Means[level][p] = mean
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	// 2) Cumulants
	rows, err = s.db.QueryContext(ctx, `SELECT target_id, source_id, k1, k2, k3, k4 FROM cumulants WHERE run = ?`, run)
	if err != nil {
		return nil, fmt.Errorf("select cumulants: %w", err)
	}
	for rows.Next() {
		var p Pair
		var k [4]float64
		if err = rows.Scan(&p.Target, &p.Source, &k[0], &k[1], &k[2], &k[3]); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan cumulants: %w", err)
		}
		snap.Cumulants[p] = k
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	// 3) Number distributions
	rows, err = s.db.QueryContext(ctx, `SELECT target_id, source_id, distribution FROM probabilities WHERE run = ?`, run)
	if err != nil {
		return nil, fmt.Errorf("select probabilities: %w", err)
	}
	for rows.Next() {
		var p Pair
		var data string
		if err = rows.Scan(&p.Target, &p.Source, &data); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan probabilities: %w", err)
		}
		var dist []float64
		if err = json.Unmarshal([]byte(data), &dist); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode distribution: %w", err)
		}
		snap.Probabilities[p] = dist
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	// 4) Final states
	rows, err = s.db.QueryContext(ctx, `SELECT source_id, probability, state FROM final_states WHERE run = ? ORDER BY source_id, outcome`, run)
	if err != nil {
		return nil, fmt.Errorf("select final states: %w", err)
	}
	for rows.Next() {
		var src int64
		var o Outcome
		var data string
		if err = rows.Scan(&src, &o.P, &data); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan final states: %w", err)
		}
		var pairs [][2]int64
		if err = json.Unmarshal([]byte(data), &pairs); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode final state: %w", err)
		}
		o.State = make(map[int64]int, len(pairs))
		for _, pr := range pairs {
			o.State[pr[0]] = int(pr[1])
		}
		snap.FinalStates[src] = append(snap.FinalStates[src], o)
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	// 5) Totals
	rows, err = s.db.QueryContext(ctx, `SELECT source_id, truncated, exact FROM final_state_totals WHERE run = ?`, run)
	if err != nil {
		return nil, fmt.Errorf("select final state totals: %w", err)
	}
	for rows.Next() {
		var src int64
		var truncated float64
		var exact bool
		if err = rows.Scan(&src, &truncated, &exact); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan final state totals: %w", err)
		}
		snap.Truncated[src] = truncated
		snap.Exact[src] = exact
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	if len(snap.FinalStates) == 0 && len(snap.Means) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, run)
	}

	return snap, nil
}

// closeRows reports iteration errors and closes rows.
func closeRows(rows interface {
	Err() error
	Close() error
}) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate: %w", err)
	}

	return rows.Close()
}
