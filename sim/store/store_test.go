package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantfloor/floorsim/sim"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func sampleSummary() *sim.Summary {
	return &sim.Summary{
		Policy:              sim.PolicyPriority,
		Jobs:                3,
		CompletedJobs:       2,
		TotalProductionTime: 25,
		Operations: []sim.UsageRow{
			{Name: "ANODIZE", BusyTime: 0, UsagePercent: 0},
			{Name: "POLISH", BusyTime: 15, Executions: 1, AverageTime: 15, UsagePercent: 60},
			{Name: "CUT", BusyTime: 20, Executions: 2, AverageTime: 10, UsagePercent: 80},
		},
		Resources: []sim.UsageRow{{Name: "ws1", BusyTime: 20, UsagePercent: 80}},
		Flow:      map[string]map[string]int{"ws1": {"1": 1, "2": 1}},
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	_, path := openTestStore(t)

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestSaveRun_StoresRunAndAverages(t *testing.T) {
	// GIVEN a store and a finished run summary
	s, _ := openTestStore(t)
	ctx := context.Background()

	// WHEN the run is saved
	rec, err := s.SaveRun(ctx, sampleSummary())
	require.NoError(t, err)

	// THEN the run gets a v7 id and only executed operations get an average
	id, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	avgs, err := s.AverageTimes(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []OperationAverage{
		{Operation: "CUT", AverageTime: 10, Executions: 2},
		{Operation: "POLISH", AverageTime: 15, Executions: 1},
	}, avgs)
}

func TestLoadSummary_RoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	want := sampleSummary()

	rec, err := s.SaveRun(ctx, want)
	require.NoError(t, err)

	got, err := s.LoadSummary(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	// GIVEN three runs saved one minute apart
	s, _ := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		sum := sampleSummary()
		sum.TotalProductionTime = int64(100 + i)
		rec, err := s.SaveRun(ctx, sum)
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	// WHEN listed with a limit
	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)

	// THEN the newest runs come first
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Equal(t, int64(102), runs[0].TotalProductionTime)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUnknownRun_ErrRunNotFound(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.AverageTimes(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = s.LoadSummary(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveRun_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s1, err := Open(path)
	require.NoError(t, err)
	rec, err := s1.SaveRun(context.Background(), sampleSummary())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()
	runs, err := s2.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec.ID, runs[0].ID)
	assert.Equal(t, "priority", runs[0].Policy)
}
