// Package tablestore keeps resolved decay tables in a SQLite database so
// that downstream thermal-yield calculations can read them without
// resolving the decay graph again.
//
// Tables are stored per named run and keyed by species identifiers, not
// positions, so a snapshot stays meaningful when the list is re-sorted.
package tablestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/resolver"
)

// Stability is the level name of the table that follows decays by
// stability flag; the other levels use particle.Feeddown.String().
const Stability = "stability"

var (
	// ErrRunNotFound is returned by Load for a run without rows.
	ErrRunNotFound = errors.New("tablestore: run not found")

	// ErrShape indicates that the identifiers do not match the tables.
	ErrShape = errors.New("tablestore: identifiers do not match tables")
)

const schema = `
CREATE TABLE IF NOT EXISTS contributions (
	run       TEXT    NOT NULL,
	level     TEXT    NOT NULL,
	target_id INTEGER NOT NULL,
	source_id INTEGER NOT NULL,
	mean      REAL    NOT NULL,
	PRIMARY KEY (run, level, target_id, source_id)
);
CREATE TABLE IF NOT EXISTS cumulants (
	run       TEXT    NOT NULL,
	target_id INTEGER NOT NULL,
	source_id INTEGER NOT NULL,
	k1 REAL NOT NULL, k2 REAL NOT NULL, k3 REAL NOT NULL, k4 REAL NOT NULL,
	PRIMARY KEY (run, target_id, source_id)
);
CREATE TABLE IF NOT EXISTS probabilities (
	run          TEXT    NOT NULL,
	target_id    INTEGER NOT NULL,
	source_id    INTEGER NOT NULL,
	distribution TEXT    NOT NULL,
	PRIMARY KEY (run, target_id, source_id)
);
CREATE TABLE IF NOT EXISTS final_state_totals (
	run       TEXT    NOT NULL,
	source_id INTEGER NOT NULL,
	truncated REAL    NOT NULL,
	exact     INTEGER NOT NULL,
	PRIMARY KEY (run, source_id)
);
CREATE TABLE IF NOT EXISTS final_states (
	run         TEXT    NOT NULL,
	source_id   INTEGER NOT NULL,
	outcome     INTEGER NOT NULL,
	probability REAL    NOT NULL,
	state       TEXT    NOT NULL,
	PRIMARY KEY (run, source_id, outcome)
);`

// Store is a SQLite-backed table archive.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "feeddown.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Save replaces run with t. ids[i] is the identifier of position i.
func (s *Store) Save(ctx context.Context, run string, ids []int64, t *resolver.Tables) (retErr error) {
	if t == nil || len(ids) != t.Len() {
		return ErrShape
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	// 1) Drop the previous version of the run
	for _, table := range []string{"contributions", "cumulants", "probabilities", "final_states", "final_state_totals"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run = ?`, run); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// 2) Mean tables, one level per row group
	if err = insertContributions(ctx, tx, run, Stability, ids, t.Contributions); err != nil {
		return err
	}
	for _, f := range particle.Feeddowns {
		if err = insertContributions(ctx, tx, run, f.String(), ids, t.ByFeeddown[f]); err != nil {
			return err
		}
	}

	// 3) Cumulants
	cum, err := tx.PrepareContext(ctx, `INSERT INTO cumulants(run,target_id,source_id,k1,k2,k3,k4) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare cumulants: %w", err)
	}
	defer func() { _ = cum.Close() }()
	for target, row := range t.Cumulants {
		for _, c := range row {
			if _, err = cum.ExecContext(ctx, run, ids[target], ids[c.Source], c.K[0], c.K[1], c.K[2], c.K[3]); err != nil {
				return fmt.Errorf("insert cumulants: %w", err)
			}
		}
	}

	// 4) Number distributions as JSON [P(0), P(1), ...]
	pr, err := tx.PrepareContext(ctx, `INSERT INTO probabilities(run,target_id,source_id,distribution) VALUES(?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare probabilities: %w", err)
	}
	defer func() { _ = pr.Close() }()
	for target, row := range t.Probabilities {
		for _, c := range row {
			data, err := json.Marshal(c.P)
			if err != nil {
				return fmt.Errorf("encode distribution: %w", err)
			}
			if _, err = pr.ExecContext(ctx, run, ids[target], ids[c.Source], string(data)); err != nil {
				return fmt.Errorf("insert probabilities: %w", err)
			}
		}
	}

	// 5) Final states, vectors as JSON [[id, count], ...]
	fs, err := tx.PrepareContext(ctx, `INSERT INTO final_states(run,source_id,outcome,probability,state) VALUES(?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare final states: %w", err)
	}
	defer func() { _ = fs.Close() }()
	for source, outcomes := range t.FinalStates {
		for k, o := range outcomes {
			pairs := make([][2]int64, len(o.State))
			for i, m := range o.State {
				pairs[i] = [2]int64{ids[m.Species], int64(m.Count)}
			}
			data, err := json.Marshal(pairs)
			if err != nil {
				return fmt.Errorf("encode final state: %w", err)
			}
			if _, err = fs.ExecContext(ctx, run, ids[source], k, o.P, string(data)); err != nil {
				return fmt.Errorf("insert final states: %w", err)
			}
		}
	}

	// 6) Truncated mass and exactness per source
	tot, err := tx.PrepareContext(ctx, `INSERT INTO final_state_totals(run,source_id,truncated,exact) VALUES(?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare final state totals: %w", err)
	}
	defer func() { _ = tot.Close() }()
	for source := range t.FinalStates {
		if _, err = tot.ExecContext(ctx, run, ids[source], t.Truncated[source], t.Exact[source]); err != nil {
			return fmt.Errorf("insert final state totals: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// insertContributions writes one mean table.
func insertContributions(ctx context.Context, tx *sql.Tx, run, level string, ids []int64, c resolver.Contributions) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO contributions(run,level,target_id,source_id,mean) VALUES(?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare contributions: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for target, row := range c {
		for _, e := range row {
			if _, err = stmt.ExecContext(ctx, run, level, ids[target], ids[e.Source], e.Mean); err != nil {
				return fmt.Errorf("insert contributions %s: %w", level, err)
			}
		}
	}

	return nil
}

// Runs lists the stored run names in ascending order.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT run FROM final_states ORDER BY run`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []string
	for rows.Next() {
		var r string
		if err = rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
