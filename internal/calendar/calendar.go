// Package calendar provides the business-day predicate and date arithmetic
// used by the rule evaluator and the consolidation engine. A Calendar is
// immutable once built; every function is pure and deterministic for a given
// holiday set.
package calendar

import (
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
)

type Calendar struct {
	holidays map[time.Time]struct{}
}

// New builds a calendar from a list of holiday dates. Times are normalized to
// civil dates, so callers may pass dates in any location.
func New(holidays []time.Time) *Calendar {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[domain.Day(h)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// IsBusinessDay reports whether t is a working day: not a Saturday, not a
// Sunday, and not in the holiday set.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	d := domain.Day(t)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

// BusinessDaysIn returns the business days of r, ascending.
func (c *Calendar) BusinessDaysIn(r domain.DateRange) []time.Time {
	var days []time.Time
	for _, d := range r.Days() {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// CountBusinessDays returns the number of business days in r.
func (c *Calendar) CountBusinessDays(r domain.DateRange) int {
	n := 0
	for _, d := range r.Days() {
		if c.IsBusinessDay(d) {
			n++
		}
	}
	return n
}

// NextBusinessDay returns the first business day strictly after t.
func (c *Calendar) NextBusinessDay(t time.Time) time.Time {
	d := domain.Day(t).AddDate(0, 0, 1)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
