package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResource(t *testing.T, f *fixture, opts ...testutil.ResourceOption) *domain.Resource {
	t.Helper()
	res := testutil.NewTestResource("Ana", append([]testutil.ResourceOption{
		testutil.WithSkill("welder", true),
	}, opts...)...)
	require.NoError(t, f.resources.Create(context.Background(), res))
	return res
}

func TestAssignmentSave_DefaultsLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10")
	a.Load = decimal.Decimal{}
	require.NoError(t, f.assignSvc.Save(ctx, a))

	stored, err := f.assignSvc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Load.Equal(domain.DefaultLoad))
}

func TestAssignmentSave_UnknownResource(t *testing.T) {
	f := newFixture(t)

	a := testutil.NewTestAssignment("P1", "ghost", "2025-01-06", "2025-01-10")
	err := f.assignSvc.Save(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignmentSave_CrossProjectConflictBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	existing := testutil.NewTestAssignment("P2", res.ID, "2025-01-08", "2025-01-10")
	require.NoError(t, f.assignments.Create(ctx, existing))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10")
	err := f.assignSvc.Save(ctx, a)
	require.Error(t, err)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, res.ID, conflict.ResourceID)
	assert.Equal(t, existing.ID, conflict.ConflictingID)
	assert.Equal(t, domain.Day(testutil.MustDate("2025-01-08")), conflict.Day)

	// Nothing was written, but the blocked attempt left an audit trail.
	_, getErr := f.assignments.GetByID(ctx, a.ID)
	assert.ErrorIs(t, getErr, domain.ErrNotFound)

	alerts, err := f.alerts.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertConflictBlocked, alerts[0].Kind)
	assert.Equal(t, existing.ID, alerts[0].RecordID)
}

func TestAssignmentSave_WeekendOnlyOverlapAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	// The other project holds Sat-Sun only; no business day collides.
	weekend := testutil.NewTestAssignment("P2", res.ID, "2025-01-11", "2025-01-12")
	require.NoError(t, f.assignments.Create(ctx, weekend))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-12")
	assert.NoError(t, f.assignSvc.Save(ctx, a))
}

func TestAssignmentSave_SameProjectNeverConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10")))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-08", "2025-01-10")
	assert.NoError(t, f.assignSvc.Save(ctx, a))
}

func TestAssignmentSave_AbsenceBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	require.NoError(t, f.absences.Create(ctx,
		testutil.NewTestAbsence(res.ID, "2025-01-08", "2025-01-08")))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10")
	err := f.assignSvc.Save(ctx, a)
	require.Error(t, err)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "resource is absent", conflict.Reason)
}

func TestAssignmentSave_WeekendAbsenceDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	require.NoError(t, f.absences.Create(ctx,
		testutil.NewTestAbsence(res.ID, "2025-01-11", "2025-01-12")))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-12")
	assert.NoError(t, f.assignSvc.Save(ctx, a))
}

func TestAssignmentSave_ForcedBypassesRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P2", res.ID, "2025-01-06", "2025-01-10")))
	require.NoError(t, f.absences.Create(ctx,
		testutil.NewTestAbsence(res.ID, "2025-01-06", "2025-01-10")))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10",
		testutil.WithAssignmentForced())
	require.NoError(t, f.assignSvc.Save(ctx, a))

	stored, err := f.assignSvc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Forced)
}

func TestAssignmentSave_CrossSiteOpensTransferWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f, testutil.WithHomeSite("NTS"))

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10",
		testutil.WithAssignmentSite("LYO"))
	require.NoError(t, f.assignSvc.Save(ctx, a))

	windows, err := f.transfers.ListByTriple(ctx, res.ID, "NTS", "LYO")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, domain.TransferPlanned, windows[0].Status)
	assert.Equal(t, domain.Day(testutil.MustDate("2025-01-06")), windows[0].DateStart)
	assert.Equal(t, domain.Day(testutil.MustDate("2025-01-10")), windows[0].DateEnd)

	// A second overlapping commitment grows the same window instead of
	// opening another one.
	b := testutil.NewTestAssignment("P3", res.ID, "2025-01-11", "2025-01-17",
		testutil.WithAssignmentSite("LYO"), testutil.WithAssignmentForced())
	require.NoError(t, f.assignSvc.Save(ctx, b))

	windows, err = f.transfers.ListByTriple(ctx, res.ID, "NTS", "LYO")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, domain.Day(testutil.MustDate("2025-01-17")), windows[0].DateEnd)
}

func TestAssignmentSave_HomeSiteNeedsNoTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := createResource(t, f)

	a := testutil.NewTestAssignment("P1", res.ID, "2025-01-06", "2025-01-10")
	require.NoError(t, f.assignSvc.Save(ctx, a))

	windows, err := f.transfers.ListByResource(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestAssignmentCandidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	free := createResource(t, f)
	busy := testutil.NewTestResource("Bob", testutil.WithSkill("welder", false))
	require.NoError(t, f.resources.Create(ctx, busy))
	unskilled := testutil.NewTestResource("Eve", testutil.WithSkill("crane", true))
	require.NoError(t, f.resources.Create(ctx, unskilled))

	d := testutil.NewTestDemand("P1", "2025-01-06", "2025-01-10", 2)
	require.NoError(t, f.demands.Create(ctx, d))

	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P2", busy.ID, "2025-01-06", "2025-01-10")))

	candidates, err := f.assignSvc.Candidates(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "unskilled resources are not evaluated")

	byID := map[string]bool{}
	for _, c := range candidates {
		byID[c.ResourceID] = c.Selectable
	}
	assert.True(t, byID[free.ID])
	assert.False(t, byID[busy.ID], "fully committed elsewhere")
}

func TestAssignmentConsolidate_MergesAndKeepsForced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-07")))
	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", "R1", "2025-01-08", "2025-01-10")))
	forced := testutil.NewTestAssignment("P1", "R1", "2025-01-11", "2025-01-11",
		testutil.WithAssignmentForced())
	require.NoError(t, f.assignments.Create(ctx, forced))

	stats, err := f.assignSvc.Consolidate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 2, stats.Deleted)
	assert.Equal(t, 1, stats.Inserted)

	key := domain.GroupKey{ProjectID: "P1", Site: "LYO", Skill: "welder", ResourceID: "R1"}
	rows, err := f.assignments.ListByGroup(ctx, key)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.Day(testutil.MustDate("2025-01-10")), rows[0].DateEnd)
	assert.Equal(t, forced.ID, rows[1].ID, "the Saturday override keeps its identity")
}

func TestAssignmentConsolidate_ResourceScopedKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-07")))
	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", "R1", "2025-01-08", "2025-01-10")))
	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", "R2", "2025-01-06", "2025-01-07")))
	require.NoError(t, f.assignments.Create(ctx,
		testutil.NewTestAssignment("P1", "R2", "2025-01-08", "2025-01-10")))

	key := domain.GroupKey{ProjectID: "P1", Site: "LYO", Skill: "welder", ResourceID: "R1"}
	stats, err := f.assignSvc.Consolidate(ctx, &key)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Groups)

	// R2's rows were out of scope and are untouched.
	otherKey := key
	otherKey.ResourceID = "R2"
	rows, err := f.assignments.ListByGroup(ctx, otherKey)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
