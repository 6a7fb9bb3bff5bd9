package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mjziebarth/etascatgen/internal/etas"
)

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is the stored record of one simulation run. Together with the
// deterministic simulation core it fully determines the stored catalog.
type Run struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Params    etas.Params `json:"params"`
	Seed      uint64      `json:"seed"`
	BurnIn    int         `json:"burn_in"`
	Events    int         `json:"events"`
}

// GetRun returns the run record for the given ID.
// Returns ErrRunNotFound if no such run exists.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, background_rate, m_min, m_max, beta, p, c,
		       m_ref, offspring_fraction, seed, burn_in, events
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all stored runs, oldest first. Run IDs are UUIDv7, so
// the ID order matches creation order.
//
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, background_rate, m_min, m_max, beta, p, c,
		       m_ref, offspring_fraction, seed, burn_in, events
		FROM runs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}

	return runs, nil
}

// ReadCatalog returns the stored catalog of a run, in emission order.
// Returns ErrRunNotFound if no such run exists.
func (s *Store) ReadCatalog(ctx context.Context, id string) (etas.Catalog, error) {
	// Check existence first so an empty result is distinguishable from a
	// missing run.
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return etas.Catalog{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t, magnitude
		FROM events
		WHERE run_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return etas.Catalog{}, fmt.Errorf("read catalog %s: %w", id, err)
	}
	defer rows.Close()

	cat := etas.Catalog{
		Times:      make([]float64, 0, run.Events),
		Magnitudes: make([]float64, 0, run.Events),
	}
	for rows.Next() {
		var t, m float64
		if err := rows.Scan(&t, &m); err != nil {
			return etas.Catalog{}, fmt.Errorf("read catalog %s: scan: %w", id, err)
		}
		cat.Times = append(cat.Times, t)
		cat.Magnitudes = append(cat.Magnitudes, m)
	}

	if err := rows.Err(); err != nil {
		return etas.Catalog{}, fmt.Errorf("read catalog %s: iterate: %w", id, err)
	}

	return cat, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun reads one run row.
func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		createdAt string
		seed      int64
	)
	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.Params.Mu0,
		&run.Params.MMin,
		&run.Params.MMax,
		&run.Params.Beta,
		&run.Params.P,
		&run.Params.C,
		&run.Params.MRef,
		&run.Params.OffspringFraction,
		&seed,
		&run.BurnIn,
		&run.Events,
	)
	if err != nil {
		return Run{}, err
	}

	run.Seed = uint64(seed)
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	return run, nil
}
