// Package consolidate implements the unfold-then-run-length-encode
// normalization of date-ranged records. Given every period stored for one
// grouping key it produces a plan: which stored rows to delete and which
// minimal set of maximal runs to insert in their place. The package is pure;
// the consolidation service applies plans transactionally.
package consolidate

import (
	"sort"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/calendar"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

// Period is the shape consolidation operates on, common to demand and
// assignment records. Value is headcount for demands and load for
// assignments; decimal comparison keeps run encoding exact.
type Period struct {
	ID     string
	Range  domain.DateRange
	Value  decimal.Decimal
	Forced bool
}

// Run is one maximal contiguous same-value span of the re-encoded day map.
type Run struct {
	Range domain.DateRange
	Value decimal.Decimal
}

// Plan is the outcome of consolidating one grouping key. DeleteIDs lists
// every stored non-forced row (all are replaced, whether or not they changed);
// Runs are the replacement rows; Forced are the untouched override rows,
// listed so a storage pass that wiped the key can re-insert them verbatim.
type Plan struct {
	DeleteIDs []string
	Runs      []Run
	Forced    []Period
}

// Empty reports whether the key ends up with no records at all: nothing to
// keep, so every stored row for the key should be removed.
func (p Plan) Empty() bool {
	return len(p.Runs) == 0 && len(p.Forced) == 0
}

// Build consolidates all periods of one grouping key.
//
// Forced periods are partitioned out first and survive verbatim; they are
// never unfolded, merged, or re-encoded. Normal periods unfold to a
// day-by-day map over business days only, keeping the maximum value seen per
// day (overlapping records do not sum: the larger stated need wins). Days
// with value <= 0 are dropped. The map is then re-encoded into maximal runs:
// a run extends while the next day is date-consecutive (calendar adjacency,
// weekends included) and carries an identical value.
//
// Build is idempotent: feeding its output back in yields the same runs.
func Build(cal *calendar.Calendar, periods []Period) Plan {
	var plan Plan
	days := make(map[time.Time]decimal.Decimal)

	for _, p := range periods {
		if p.Forced {
			plan.Forced = append(plan.Forced, p)
			continue
		}
		plan.DeleteIDs = append(plan.DeleteIDs, p.ID)
		if p.Value.Sign() <= 0 {
			continue
		}
		for _, d := range cal.BusinessDaysIn(p.Range) {
			if cur, ok := days[d]; !ok || p.Value.GreaterThan(cur) {
				days[d] = p.Value
			}
		}
	}

	plan.Runs = encodeRuns(days)
	return plan
}

// encodeRuns turns a day-value map into maximal date-consecutive same-value
// runs, ascending by date.
func encodeRuns(days map[time.Time]decimal.Decimal) []Run {
	if len(days) == 0 {
		return nil
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var runs []Run
	cur := Run{
		Range: domain.DateRange{Start: sorted[0], End: sorted[0]},
		Value: days[sorted[0]],
	}
	for _, d := range sorted[1:] {
		v := days[d]
		if d.Equal(cur.Range.End.AddDate(0, 0, 1)) && v.Equal(cur.Value) {
			cur.Range.End = d
			continue
		}
		runs = append(runs, cur)
		cur = Run{Range: domain.DateRange{Start: d, End: d}, Value: v}
	}
	return append(runs, cur)
}

// DemandPeriods converts demand records into consolidation input.
func DemandPeriods(demands []*domain.DemandPeriod) []Period {
	out := make([]Period, 0, len(demands))
	for _, d := range demands {
		out = append(out, Period{
			ID:     d.ID,
			Range:  d.Range(),
			Value:  decimal.NewFromInt(int64(d.RequiredHeadcount)),
			Forced: d.Forced,
		})
	}
	return out
}

// AssignmentPeriods converts assignment records into consolidation input.
func AssignmentPeriods(assignments []*domain.AssignmentPeriod) []Period {
	out := make([]Period, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, Period{
			ID:     a.ID,
			Range:  a.Range(),
			Value:  a.Load,
			Forced: a.Forced,
		})
	}
	return out
}
