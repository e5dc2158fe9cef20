package domain

import "time"

// Day truncates t to its civil date (midnight UTC). All range arithmetic in
// the engine operates on normalized days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive span of civil dates: End >= Start.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both endpoints to civil dates.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Valid reports whether the range is well-formed (End not before Start).
func (r DateRange) Valid() bool {
	return !r.End.Before(r.Start)
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Covers reports whether r fully contains other.
func (r DateRange) Covers(other DateRange) bool {
	return !r.Start.After(other.Start) && !r.End.Before(other.End)
}

// Intersect returns the overlapping sub-range, or ok=false when disjoint.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	out := r
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	if !out.Valid() {
		return DateRange{}, false
	}
	return out, true
}

// Union returns the smallest range containing both r and other. Callers are
// responsible for checking adjacency first; Union will happily bridge a gap.
func (r DateRange) Union(other DateRange) DateRange {
	out := r
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.End.After(out.End) {
		out.End = other.End
	}
	return out
}

// GapDays returns the number of whole days separating two disjoint ranges,
// and 0 when they overlap or touch. Adjacent ranges (Monday..Tuesday then
// Wednesday..) have a gap of 1.
func (r DateRange) GapDays(other DateRange) int {
	if r.Overlaps(other) {
		return 0
	}
	if r.End.Before(other.Start) {
		return int(other.Start.Sub(r.End).Hours() / 24)
	}
	return int(r.Start.Sub(other.End).Hours() / 24)
}

// Days returns every civil date in the range, ascending.
func (r DateRange) Days() []time.Time {
	if !r.Valid() {
		return nil
	}
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// LenDays returns the inclusive day count of the range.
func (r DateRange) LenDays() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}
