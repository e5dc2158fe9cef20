package syncer

import (
	"testing"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemandCache() *Cache[*domain.DemandPeriod] {
	return NewCache(func(d *domain.DemandPeriod) string { return d.ID })
}

func TestCache_LoadMovesToReady(t *testing.T) {
	c := newDemandCache()
	assert.Equal(t, StateLoading, c.State())

	c.Load([]*domain.DemandPeriod{
		testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2),
	})

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ApplyLocalWinsOverLateUpdate(t *testing.T) {
	c := newDemandCache()
	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	c.Load([]*domain.DemandPeriod{d})

	// Local edit raises the headcount, then the record is deleted locally
	// before the store confirms the earlier update.
	edited := *d
	edited.RequiredHeadcount = 5
	c.ApplyLocal(&edited)
	c.RemoveLocal(d.ID)

	stale := *d
	stale.RequiredHeadcount = 5
	c.Merge(repository.OpUpdate, d.ID, &stale, true)

	// The late confirmation must not resurrect the deleted record.
	_, ok := c.Get(d.ID)
	assert.False(t, ok)
}

func TestCache_MergeInsertAddsOnlyIfAbsent(t *testing.T) {
	c := newDemandCache()
	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	c.Load(nil)

	// Optimistic local copy is already present when the insert confirms.
	local := *d
	local.RequiredHeadcount = 9
	c.ApplyLocal(&local)
	c.Merge(repository.OpInsert, d.ID, d, true)

	got, ok := c.Get(d.ID)
	require.True(t, ok)
	assert.Equal(t, 9, got.RequiredHeadcount, "local copy survives the echo of its own insert")

	// A genuinely new record inserts normally.
	other := testutil.NewTestDemand("P2", "2025-01-06", "2025-01-10", 1)
	c.Merge(repository.OpInsert, other.ID, other, true)
	_, ok = c.Get(other.ID)
	assert.True(t, ok)
}

func TestCache_MergeUpdateReplacesExisting(t *testing.T) {
	c := newDemandCache()
	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	c.Load([]*domain.DemandPeriod{d})

	updated := *d
	updated.RequiredHeadcount = 4
	c.Merge(repository.OpUpdate, d.ID, &updated, true)

	got, ok := c.Get(d.ID)
	require.True(t, ok)
	assert.Equal(t, 4, got.RequiredHeadcount)
}

func TestCache_MergeDeleteRemoves(t *testing.T) {
	c := newDemandCache()
	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	c.Load([]*domain.DemandPeriod{d})

	c.Merge(repository.OpDelete, d.ID, nil, false)

	_, ok := c.Get(d.ID)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCache_ReplaceWhereSwapsGroup(t *testing.T) {
	c := newDemandCache()
	keep := testutil.NewTestDemand("P2", "2025-01-06", "2025-01-10", 1)
	c.Load([]*domain.DemandPeriod{
		testutil.NewTestDemand("P1", "2025-01-06", "2025-01-08", 2),
		testutil.NewTestDemand("P1", "2025-01-09", "2025-01-10", 2),
		keep,
	})

	key := domain.GroupKey{ProjectID: "P1", Site: "LYO", Skill: "welder"}
	replacement := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	c.ReplaceWhere(
		func(d *domain.DemandPeriod) bool { return d.GroupKey() == key },
		[]*domain.DemandPeriod{replacement},
	)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(replacement.ID)
	assert.True(t, ok)
	_, ok = c.Get(keep.ID)
	assert.True(t, ok)
}
