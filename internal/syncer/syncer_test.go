package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncerFixture struct {
	feed        *repository.ChangeFeed
	demands     *repository.SQLiteDemandRepo
	assignments *repository.SQLiteAssignmentRepo
	absences    *repository.SQLiteAbsenceRepo
	sync        *Syncer
}

func newSyncerFixture(t *testing.T) *syncerFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	feed := repository.NewChangeFeed(nil)

	f := &syncerFixture{
		feed:        feed,
		demands:     repository.NewSQLiteDemandRepo(database, feed),
		assignments: repository.NewSQLiteAssignmentRepo(database, feed),
		absences:    repository.NewSQLiteAbsenceRepo(database, feed),
	}
	// A wide window keeps the timer out of these tests; flushes are explicit.
	f.sync = New(feed, f.demands, f.assignments, f.absences, 250*time.Millisecond, nil)

	// Test writers persist straight through the repositories: create when the
	// record is unknown, update otherwise.
	f.sync.SetWriters(Writers{
		SaveDemand: func(ctx context.Context, d *domain.DemandPeriod) error {
			if _, err := f.demands.GetByID(ctx, d.ID); err != nil {
				return f.demands.Create(ctx, d)
			}
			return f.demands.Update(ctx, d)
		},
		SaveAssignment: func(ctx context.Context, a *domain.AssignmentPeriod) error {
			if _, err := f.assignments.GetByID(ctx, a.ID); err != nil {
				return f.assignments.Create(ctx, a)
			}
			return f.assignments.Update(ctx, a)
		},
		DeleteDemand:     f.demands.Delete,
		DeleteAssignment: f.assignments.Delete,
	})
	return f
}

func TestSyncer_StartLoadsExistingRecords(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.demands.Create(ctx, testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)))
	require.NoError(t, f.assignments.Create(ctx, testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-10")))

	require.NoError(t, f.sync.Start(ctx))
	defer f.sync.Stop(ctx)

	assert.Equal(t, StateReady, f.sync.Demands().State())
	assert.Equal(t, 1, f.sync.Demands().Len())
	assert.Equal(t, 1, f.sync.Assignments().Len())
	assert.Equal(t, StateReady, f.sync.Absences().State())
}

func TestSyncer_StageDemandIsVisibleBeforeFlush(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.Start(ctx))
	defer f.sync.Stop(ctx)

	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	f.sync.StageDemand(d)

	// Optimistic view: the edit is readable before any write happened.
	got, ok := f.sync.Demands().Get(d.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.RequiredHeadcount)

	_, err := f.demands.GetByID(ctx, d.ID)
	assert.Error(t, err, "store write is still debounced")

	f.sync.Flush(ctx)
	stored, err := f.demands.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.RequiredHeadcount)
}

func TestSyncer_RapidEditsPersistOnce(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.Start(ctx))
	defer f.sync.Stop(ctx)

	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 1)
	for i := 2; i <= 5; i++ {
		edited := *d
		edited.RequiredHeadcount = i
		f.sync.StageDemand(&edited)
	}

	f.sync.Flush(ctx)
	stored, err := f.demands.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.RequiredHeadcount, "only the last staged value reaches the store")
}

func TestSyncer_ForeignWritesMergeViaFeed(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.Start(ctx))
	defer f.sync.Stop(ctx)

	// Another writer inserts directly through the repository.
	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 3)
	require.NoError(t, f.demands.Create(ctx, d))

	assert.Eventually(t, func() bool {
		got, ok := f.sync.Demands().Get(d.ID)
		return ok && got.RequiredHeadcount == 3
	}, time.Second, 5*time.Millisecond)
}

func TestSyncer_StageDeleteRemovesAndPersists(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()

	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	require.NoError(t, f.demands.Create(ctx, d))
	require.NoError(t, f.sync.Start(ctx))
	defer f.sync.Stop(ctx)

	f.sync.StageDemandDelete(d.ID)

	_, ok := f.sync.Demands().Get(d.ID)
	assert.False(t, ok, "delete is visible immediately")

	f.sync.Flush(ctx)
	_, err := f.demands.GetByID(ctx, d.ID)
	assert.Error(t, err)
}

func TestSyncer_ReloadGroupSwapsWholeKey(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()

	a := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-08", 2)
	b := testutil.NewTestDemand("P1", "2025-01-09", "2025-01-10", 2)
	require.NoError(t, f.demands.Create(ctx, a))
	require.NoError(t, f.demands.Create(ctx, b))
	require.NoError(t, f.sync.Start(ctx))
	defer f.sync.Stop(ctx)

	// A consolidation pass elsewhere rewrote the group as one row.
	merged := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	require.NoError(t, f.demands.Delete(ctx, a.ID))
	require.NoError(t, f.demands.Delete(ctx, b.ID))
	require.NoError(t, f.demands.Create(ctx, merged))

	key := domain.GroupKey{ProjectID: "P1", Site: "LYO", Skill: "welder"}
	f.sync.ReloadGroup(ctx, repository.TableDemands, key)

	assert.Equal(t, 1, f.sync.Demands().Len())
	_, ok := f.sync.Demands().Get(merged.ID)
	assert.True(t, ok)
}

func TestSyncer_StopFlushesStagedWrites(t *testing.T) {
	f := newSyncerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.Start(ctx))

	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	f.sync.StageDemand(d)
	f.sync.Stop(ctx)

	stored, err := f.demands.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.RequiredHeadcount)
}
