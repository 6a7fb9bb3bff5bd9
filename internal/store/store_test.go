package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjziebarth/etascatgen/internal/etas"
	"github.com/mjziebarth/etascatgen/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "catalogs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testParams() etas.Params {
	return etas.Params{
		Mu0:               1.0,
		MMin:              3.0,
		MMax:              8.0,
		Beta:              math.Log(10),
		P:                 1.2,
		C:                 0.01,
		MRef:              3.0,
		OffspringFraction: 0.3,
	}
}

func TestOpen_CreatesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogs.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// Opening an existing database is idempotent.
	st, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, st.Close())
}

func TestSaveRun_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	cat := etas.Catalog{
		Times:      []float64{0.5, 1.25, 3.75},
		Magnitudes: []float64{3.1, 5.9, 4.2},
	}

	run, err := st.SaveRun(ctx, testParams(), 42, 100, cat)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 3, run.Events)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, testParams(), got.Params)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, 100, got.BurnIn)
	assert.Equal(t, 3, got.Events)
	assert.False(t, got.CreatedAt.IsZero())

	gotCat, err := st.ReadCatalog(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, cat, gotCat, "catalog must round-trip bit-for-bit")
}

func TestSaveRun_LargeSeedRoundTrips(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// Seeds above MaxInt64 survive the signed storage cast.
	const seed = uint64(math.MaxUint64 - 17)
	run, err := st.SaveRun(ctx, testParams(), seed, 0, etas.Catalog{})
	require.NoError(t, err)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, seed, got.Seed)
}

func TestGetRun_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadCatalog_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ReadCatalog(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_Empty(t *testing.T) {
	st := openTestStore(t)

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestListRuns_ReturnsAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	a, err := st.SaveRun(ctx, testParams(), 1, 0, etas.Catalog{Times: []float64{1}, Magnitudes: []float64{4}})
	require.NoError(t, err)
	b, err := st.SaveRun(ctx, testParams(), 2, 10, etas.Catalog{Times: []float64{2}, Magnitudes: []float64{5}})
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
}

func TestSaveRun_UsesInjectedClock(t *testing.T) {
	st := openTestStore(t)

	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := testutil.NewFixedClock(when)
	st.now = clock.Now

	run, err := st.SaveRun(context.Background(), testParams(), 1, 0, etas.Catalog{})
	require.NoError(t, err)
	assert.True(t, run.CreatedAt.Equal(when))

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(when))
}

// TestSaveRun_SimulatedCatalogRederivable stores a real simulated catalog
// and checks that re-running the simulation from the stored run record
// reproduces it exactly - the property the replay command relies on.
func TestSaveRun_SimulatedCatalogRederivable(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	cat, err := etas.Simulate(testParams(), 200, 50, 7)
	require.NoError(t, err)

	run, err := st.SaveRun(ctx, testParams(), 7, 50, cat)
	require.NoError(t, err)

	stored, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)

	rerun, err := etas.Simulate(stored.Params, stored.Events, stored.BurnIn, stored.Seed)
	require.NoError(t, err)

	storedCat, err := st.ReadCatalog(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, rerun, storedCat)
}
