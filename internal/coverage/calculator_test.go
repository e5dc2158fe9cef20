package coverage

import (
	"testing"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func demand(headcount int, from, to string) *domain.DemandPeriod {
	d := testutil.NewTestDemand("P1", from, to, headcount)
	return d
}

func TestCompute_DistinctResourcesCountOnce(t *testing.T) {
	d := demand(2, "2025-01-06", "2025-01-17")

	// R1 holds two back-to-back records for the same group; R2 holds one.
	assignments := []*domain.AssignmentPeriod{
		testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-10"),
		testutil.NewTestAssignment("P1", "R1", "2025-01-13", "2025-01-17"),
		testutil.NewTestAssignment("P1", "R2", "2025-01-06", "2025-01-17"),
	}

	rep := Compute(d, assignments, nil)
	assert.Equal(t, 2, rep.Assigned)
	assert.Equal(t, domain.CoverageBalanced, rep.Status)
	assert.Zero(t, rep.Shortfall)
	assert.Zero(t, rep.Surplus)
}

func TestCompute_UnderCovered(t *testing.T) {
	d := demand(3, "2025-01-06", "2025-01-10")

	rep := Compute(d, []*domain.AssignmentPeriod{
		testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-10"),
	}, nil)

	assert.Equal(t, 1, rep.Assigned)
	assert.Equal(t, 2, rep.Shortfall)
	assert.Equal(t, domain.CoverageUnderCovered, rep.Status)
}

func TestCompute_OverCovered(t *testing.T) {
	d := demand(1, "2025-01-06", "2025-01-10")

	rep := Compute(d, []*domain.AssignmentPeriod{
		testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-10"),
		testutil.NewTestAssignment("P1", "R2", "2025-01-06", "2025-01-10"),
	}, nil)

	assert.Equal(t, 2, rep.Assigned)
	assert.Equal(t, 1, rep.Surplus)
	assert.Equal(t, domain.CoverageOverCovered, rep.Status)
}

func TestCompute_IgnoresOtherGroups(t *testing.T) {
	d := demand(1, "2025-01-06", "2025-01-10")

	rep := Compute(d, []*domain.AssignmentPeriod{
		testutil.NewTestAssignment("P2", "R1", "2025-01-06", "2025-01-10"),
		testutil.NewTestAssignment("P1", "R2", "2025-01-06", "2025-01-10",
			testutil.WithAssignmentSkill("crane")),
		testutil.NewTestAssignment("P1", "R3", "2025-01-06", "2025-01-10",
			testutil.WithAssignmentSite("NTS")),
	}, nil)

	assert.Zero(t, rep.Assigned)
	assert.Equal(t, domain.CoverageUnderCovered, rep.Status)
}

func TestCompute_IgnoresNonIntersectingRanges(t *testing.T) {
	d := demand(1, "2025-01-06", "2025-01-10")

	rep := Compute(d, []*domain.AssignmentPeriod{
		testutil.NewTestAssignment("P1", "R1", "2025-02-03", "2025-02-07"),
	}, nil)

	assert.Zero(t, rep.Assigned)
}

func TestCompute_WindowNarrows(t *testing.T) {
	d := demand(1, "2025-01-06", "2025-01-31")

	assignments := []*domain.AssignmentPeriod{
		testutil.NewTestAssignment("P1", "R1", "2025-01-06", "2025-01-10"),
		testutil.NewTestAssignment("P1", "R2", "2025-01-20", "2025-01-24"),
	}

	window := domain.DateRange{
		Start: mustDate("2025-01-20"),
		End:   mustDate("2025-01-24"),
	}
	rep := Compute(d, assignments, &window)

	assert.Equal(t, 1, rep.Assigned)
}

func TestCompute_ZeroHeadcountWithNoAssignmentsIsBalanced(t *testing.T) {
	d := demand(0, "2025-01-06", "2025-01-10")

	rep := Compute(d, nil, nil)
	assert.Equal(t, domain.CoverageBalanced, rep.Status)
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
