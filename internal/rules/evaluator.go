// Package rules implements the availability rule evaluator: pure functions
// over in-memory assignment and absence sets deciding, per day, whether a
// resource can cover a demand. No I/O happens here; callers supply the
// collections and a calendar.
package rules

import (
	"sort"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/calendar"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// DaySet is a set of normalized civil dates.
type DaySet map[time.Time]struct{}

func (s DaySet) Contains(t time.Time) bool {
	_, ok := s[domain.Day(t)]
	return ok
}

// Sorted returns the set's days in ascending order.
func (s DaySet) Sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// DaysInConflict returns every business day in r where the resource already
// holds a non-forced assignment for a project other than excludeProjectID.
// With excludeProjectID empty, any project counts.
func DaysInConflict(cal *calendar.Calendar, resourceID string, r domain.DateRange, assignments []*domain.AssignmentPeriod, excludeProjectID string) DaySet {
	conflicts := make(DaySet)
	for _, a := range assignments {
		if a.ResourceID != resourceID || a.Forced {
			continue
		}
		if excludeProjectID != "" && a.ProjectID == excludeProjectID {
			continue
		}
		overlap, ok := r.Intersect(a.Range())
		if !ok {
			continue
		}
		for _, d := range overlap.Days() {
			if cal.IsBusinessDay(d) {
				conflicts[d] = struct{}{}
			}
		}
	}
	return conflicts
}

// DaysAbsent returns every day in r overlapped by a non-rejected absence,
// independent of business-day status.
func DaysAbsent(resourceID string, r domain.DateRange, absences []*domain.AbsencePeriod) DaySet {
	absent := make(DaySet)
	for _, ab := range absences {
		if ab.ResourceID != resourceID || ab.Status == domain.AbsenceRejected {
			continue
		}
		overlap, ok := r.Intersect(ab.Range())
		if !ok {
			continue
		}
		for _, d := range overlap.Days() {
			absent[d] = struct{}{}
		}
	}
	return absent
}

// AvailableDays returns the business days of r on which the resource is
// neither absent nor committed to another project.
func AvailableDays(cal *calendar.Calendar, resourceID string, r domain.DateRange, assignments []*domain.AssignmentPeriod, absences []*domain.AbsencePeriod, excludeProjectID string) DaySet {
	conflicts := DaysInConflict(cal, resourceID, r, assignments, excludeProjectID)
	absent := DaysAbsent(resourceID, r, absences)
	available := make(DaySet)
	for _, d := range r.Days() {
		if !cal.IsBusinessDay(d) {
			continue
		}
		if _, ok := conflicts[d]; ok {
			continue
		}
		if _, ok := absent[d]; ok {
			continue
		}
		available[d] = struct{}{}
	}
	return available
}

// IsFullyAvailable reports whether every business day of r is available.
func IsFullyAvailable(cal *calendar.Calendar, resourceID string, r domain.DateRange, assignments []*domain.AssignmentPeriod, absences []*domain.AbsencePeriod, excludeProjectID string) bool {
	available := AvailableDays(cal, resourceID, r, assignments, absences, excludeProjectID)
	return len(available) == cal.CountBusinessDays(r)
}

// IsAbsent reports whether the resource has any absence overlapping r.
func IsAbsent(resourceID string, r domain.DateRange, absences []*domain.AbsencePeriod) bool {
	return len(DaysAbsent(resourceID, r, absences)) > 0
}

// HasAnyConflict reports whether the resource holds any overlapping
// cross-project assignment in r.
func HasAnyConflict(cal *calendar.Calendar, resourceID string, r domain.DateRange, assignments []*domain.AssignmentPeriod, excludeProjectID string) bool {
	return len(DaysInConflict(cal, resourceID, r, assignments, excludeProjectID)) > 0
}

// Candidate is the evaluated suitability of one resource for one demand.
type Candidate struct {
	ResourceID         string
	IsPrimarySkill     bool
	IsAbsent           bool
	HasConflict        bool
	HasPartialConflict bool
	AvailableDays      []time.Time
	NeedsTransfer      bool
	Selectable         bool
}

// EvaluateCandidate scores one resource against a demand. A resource is
// selectable iff it holds the demand's skill and has at least one available
// business day; partial availability is allowed, the caller assigns only the
// available sub-range. A resource whose home site differs from the demand's
// site stays selectable but needs a transfer.
func EvaluateCandidate(cal *calendar.Calendar, res *domain.Resource, demand *domain.DemandPeriod, assignments []*domain.AssignmentPeriod, absences []*domain.AbsencePeriod) Candidate {
	r := demand.Range()
	conflicts := DaysInConflict(cal, res.ID, r, assignments, demand.ProjectID)
	available := AvailableDays(cal, res.ID, r, assignments, absences, demand.ProjectID)

	c := Candidate{
		ResourceID:     res.ID,
		IsPrimarySkill: res.IsPrimarySkill(demand.Skill),
		IsAbsent:       IsAbsent(res.ID, r, absences),
		HasConflict:    len(conflicts) > 0,
		AvailableDays:  available.Sorted(),
		NeedsTransfer:  res.HomeSite != demand.Site,
	}
	c.HasPartialConflict = c.HasConflict && len(available) > 0
	c.Selectable = res.HasSkill(demand.Skill) && len(available) > 0
	return c
}

// SelectableCandidates evaluates every active resource against the demand and
// returns those holding the required skill, selectable or not, so the caller
// can display why a resource is blocked.
func SelectableCandidates(cal *calendar.Calendar, resources []*domain.Resource, demand *domain.DemandPeriod, assignments []*domain.AssignmentPeriod, absences []*domain.AbsencePeriod) []Candidate {
	var out []Candidate
	for _, res := range resources {
		if !res.Active || !res.HasSkill(demand.Skill) {
			continue
		}
		out = append(out, EvaluateCandidate(cal, res, demand, assignments, absences))
	}
	return out
}
