// Package coverage derives, for a demand period, how many distinct resources
// currently cover it and whether the demand is balanced, under-covered or
// over-covered.
package coverage

import (
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// Report is the coverage of one demand period.
type Report struct {
	Assigned  int
	Shortfall int
	Surplus   int
	Status    domain.CoverageStatus
}

// Compute filters assignments to the demand's (project, site, skill) group
// and to those intersecting the demand's range (and window, when given), then
// counts distinct resource IDs. A resource holding several contiguous records
// for the same group counts once.
func Compute(demand *domain.DemandPeriod, assignments []*domain.AssignmentPeriod, window *domain.DateRange) Report {
	r := demand.Range()
	resources := make(map[string]struct{})
	for _, a := range assignments {
		if a.ProjectID != demand.ProjectID || a.Site != demand.Site || a.Skill != demand.Skill {
			continue
		}
		if !r.Overlaps(a.Range()) {
			continue
		}
		if window != nil && !window.Overlaps(a.Range()) {
			continue
		}
		resources[a.ResourceID] = struct{}{}
	}

	rep := Report{Assigned: len(resources)}
	if demand.RequiredHeadcount > rep.Assigned {
		rep.Shortfall = demand.RequiredHeadcount - rep.Assigned
	}
	if rep.Assigned > demand.RequiredHeadcount {
		rep.Surplus = rep.Assigned - demand.RequiredHeadcount
	}
	switch {
	case rep.Surplus > 0:
		rep.Status = domain.CoverageOverCovered
	case rep.Shortfall > 0:
		rep.Status = domain.CoverageUnderCovered
	default:
		rep.Status = domain.CoverageBalanced
	}
	return rep
}
