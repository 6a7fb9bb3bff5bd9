package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuns_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := executeCommand("runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found")
}

func TestRuns_EmptyDatabaseJSONGolden(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := executeCommand("runs", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "runs-empty", []byte(out))
}

func TestRuns_ListsPersistedRuns(t *testing.T) {
	dbPath := seedRunDatabase(t)

	out, _, err := executeCommand("runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Events: 50 (burn-in 10), seed 42")
	assert.Contains(t, out, "1 run(s)")
}

func TestRuns_VerboseShowsParameters(t *testing.T) {
	dbPath := seedRunDatabase(t)

	out, _, err := executeCommand("--verbose", "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Process: mu0=1")
	assert.Contains(t, out, "m=[3,8]")
}

func TestRuns_JSONOutput(t *testing.T) {
	dbPath := seedRunDatabase(t)

	out, _, err := executeCommand("runs", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   RunsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, uint64(42), resp.Data.Runs[0].Seed)
}
