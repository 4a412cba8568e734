package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/db"
	"github.com/fieldsense/perception/internal/report"
	"github.com/fieldsense/perception/internal/testutil"
)

func TestRenderWritesBothArtifacts(t *testing.T) {
	store, err := db.OpenDB(testutil.TempDBPath(t, "report.db"))
	testutil.AssertNoError(t, err)
	defer store.Close()

	run, err := store.StartRun("l", 7, false, "")
	testutil.AssertNoError(t, err)
	for i := 1; i <= 3; i++ {
		testutil.AssertNoError(t, store.RecordCycle(run.ID, db.CycleSummary{
			Cycle: i, SelfX: float64(i), BallX: float64(2 * i), SelfReach: 4 - i,
		}))
	}

	dir := filepath.Join(t.TempDir(), "out")
	html, png, err := render(store, run.ID, dir, report.DefaultOptions())
	require.NoError(t, err)

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(page), run.ID)

	img, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(img[:4]))
}

func TestRenderUnknownRun(t *testing.T) {
	store, err := db.OpenDB(testutil.TempDBPath(t, "report.db"))
	testutil.AssertNoError(t, err)
	defer store.Close()

	_, _, err = render(store, "missing", t.TempDir(), report.DefaultOptions())
	testutil.AssertError(t, err)
}

func TestRenderEmptyRun(t *testing.T) {
	store, err := db.OpenDB(testutil.TempDBPath(t, "report.db"))
	testutil.AssertNoError(t, err)
	defer store.Close()

	run, err := store.StartRun("r", 1, true, "")
	testutil.AssertNoError(t, err)

	_, _, err = render(store, run.ID, t.TempDir(), report.DefaultOptions())
	assert.ErrorIs(t, err, report.ErrNoCycles)
}
