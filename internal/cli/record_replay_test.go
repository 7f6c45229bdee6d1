package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoql/tempoql/internal/corpus"
)

func TestRecordThenReplayClean(t *testing.T) {
	scenario := writeScenarioFile(t, "utc.yaml", passingScenario)
	db := filepath.Join(t.TempDir(), "corpus.db")

	out, err := execute(t, "record", scenario, "--db", db, "--token", "run-1")
	require.NoError(t, err)
	assert.Contains(t, out, "recorded utc_normalization: 2 entries as run run-1")

	store, err := corpus.Open(db)
	require.NoError(t, err)
	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, entries, 2)
	assert.Equal(t, "string", entries[0].InputKind)

	out, err = execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "2 entries from 1 run(s), 0 drifted")
}

func TestRecordGeneratesRunToken(t *testing.T) {
	scenario := writeScenarioFile(t, "utc.yaml", passingScenario)
	db := filepath.Join(t.TempDir(), "corpus.db")

	_, err := execute(t, "record", scenario, "--db", db)
	require.NoError(t, err)

	store, err := corpus.Open(db)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Token, 36)
}

func TestReplayDetectsRuleChange(t *testing.T) {
	scenario := writeScenarioFile(t, "utc.yaml", passingScenario)
	db := filepath.Join(t.TempDir(), "corpus.db")

	_, err := execute(t, "record", scenario, "--db", db, "--token", "run-1")
	require.NoError(t, err)

	// Replay against a scalar set where DateTimeUtc keeps the offset:
	// the recorded normalized wire form no longer matches.
	specs := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(specs, "scalars.cue"),
		[]byte(`
scalar: DateTimeUtc: {kind: "OffsetDateTime"}
scalar: NaiveDate: {kind: "CalendarDate"}
`),
		0o644))

	out, err := execute(t, "replay", "--db", db, "--specs", specs)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "DRIFT  run-1/0 (DateTimeUtc)")
	assert.Contains(t, out, "2014-11-28T21:00:09+09:00")
}

func TestReplayMissingDatabase(t *testing.T) {
	_, err := execute(t, "replay", "--db", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecordMissingScenario(t *testing.T) {
	db := filepath.Join(t.TempDir(), "corpus.db")
	_, err := execute(t, "record", filepath.Join(t.TempDir(), "absent.yaml"), "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
