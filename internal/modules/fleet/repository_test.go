package fleet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elysia/ecocycle/internal/database"
	"github.com/elysia/ecocycle/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewRepository(db.Conn(), zerolog.Nop())
}

func auditedFleet(t *testing.T) ([]DeviceAnalysis, Summary) {
	t.Helper()
	a := newAnalyzer(t)
	analyses, err := a.Analyze(context.Background(), testFleet(), evenWeights())
	require.NoError(t, err)
	return analyses, a.Summarize(analyses)
}

func TestSaveAndGetRun(t *testing.T) {
	repo := newTestRepo(t)
	analyses, summary := auditedFleet(t)

	runID, err := repo.SaveRun("FR", analyses, summary)
	require.NoError(t, err)
	require.Greater(t, runID, int64(0))

	run, err := repo.GetRun(runID)
	require.NoError(t, err)

	assert.Equal(t, "FR", run.Run.Geography)
	assert.Equal(t, len(analyses), run.Run.DeviceCount)
	assert.Equal(t, summary.KeepCount, run.Summary.KeepCount)
	assert.Equal(t, summary.TotalSavingsEUR, run.Summary.TotalSavingsEUR)
	require.Len(t, run.Devices, len(analyses))
	assert.Equal(t, analyses[0].Device.Class, run.Devices[0].DeviceClass)
	assert.Equal(t, string(analyses[0].Result.Recommendation), run.Devices[0].Recommendation)
}

func TestGetRunNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRun(999)
	require.Error(t, err)
	assert.True(t, domain.IsReferenceNotFound(err))
}

func TestListRunsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	analyses, summary := auditedFleet(t)

	first, err := repo.SaveRun("FR", analyses, summary)
	require.NoError(t, err)
	second, err := repo.SaveRun("EU-West", analyses, summary)
	require.NoError(t, err)

	runs, err := repo.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].Run.ID)
	assert.Equal(t, first, runs[1].Run.ID)
	assert.Empty(t, runs[0].Devices)
}

func TestLatestRunDevices(t *testing.T) {
	repo := newTestRepo(t)

	id, devices, err := repo.LatestRunDevices()
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Nil(t, devices)

	analyses, summary := auditedFleet(t)
	runID, err := repo.SaveRun("FR", analyses, summary)
	require.NoError(t, err)

	id, devices, err = repo.LatestRunDevices()
	require.NoError(t, err)
	assert.Equal(t, runID, id)
	require.Len(t, devices, len(analyses))
	assert.Equal(t, analyses[0].Device.Class, devices[0].Class)
	assert.Equal(t, analyses[0].Device.PersonaID, devices[0].PersonaID)
}
