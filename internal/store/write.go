package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mjziebarth/etascatgen/internal/etas"
)

// SaveRun inserts a completed simulation run and its catalog atomically.
// Returns the stored run record, including the generated run ID (UUIDv7,
// so run IDs sort by creation time).
//
// The catalog's two sequences must already be equal-length and time-ordered;
// the store records them verbatim, keyed by emission index.
//
// Note: the seed is stored as a signed 64-bit integer (SQLite has no
// unsigned type); the cast round-trips exactly on read.
func (s *Store) SaveRun(ctx context.Context, par etas.Params, seed uint64, burnIn int, cat etas.Catalog) (Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Run{}, fmt.Errorf("save run: generate id: %w", err)
	}

	run := Run{
		ID:        id.String(),
		CreatedAt: s.now().UTC(),
		Params:    par,
		Seed:      seed,
		BurnIn:    burnIn,
		Events:    cat.Len(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, background_rate, m_min, m_max, beta, p, c, m_ref,
		 offspring_fraction, seed, burn_in, events)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		par.Mu0,
		par.MMin,
		par.MMax,
		par.Beta,
		par.P,
		par.C,
		par.MRef,
		par.OffspringFraction,
		int64(seed),
		burnIn,
		cat.Len(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("save run: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (run_id, idx, t, magnitude)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("save run: prepare events: %w", err)
	}
	defer stmt.Close()

	for i := range cat.Times {
		if _, err := stmt.ExecContext(ctx, run.ID, i, cat.Times[i], cat.Magnitudes[i]); err != nil {
			return Run{}, fmt.Errorf("save run: insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("save run: commit: %w", err)
	}

	return run, nil
}
