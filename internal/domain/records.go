package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandPeriod ("besoin") states that a project needs RequiredHeadcount
// people with Skill on Site across an inclusive date span.
type DemandPeriod struct {
	ID                string
	ProjectID         string
	Site              string
	Skill             string
	DateStart         time.Time
	DateEnd           time.Time
	RequiredHeadcount int
	Forced            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (d *DemandPeriod) Range() DateRange {
	return DateRange{Start: Day(d.DateStart), End: Day(d.DateEnd)}
}

// GroupKey identifies the consolidation group a demand belongs to.
func (d *DemandPeriod) GroupKey() GroupKey {
	return GroupKey{ProjectID: d.ProjectID, Site: d.Site, Skill: d.Skill}
}

func (d *DemandPeriod) Validate() error {
	if d.ProjectID == "" {
		return &ValidationError{Field: "projectId", Reason: "required"}
	}
	if d.Site == "" {
		return &ValidationError{Field: "site", Reason: "required"}
	}
	if d.Skill == "" {
		return &ValidationError{Field: "skill", Reason: "required"}
	}
	if !d.Range().Valid() {
		return &ValidationError{Field: "dateEnd", Reason: "end date before start date"}
	}
	if d.RequiredHeadcount < 0 {
		return &ValidationError{Field: "requiredHeadcount", Reason: "must be >= 0"}
	}
	return nil
}

// AssignmentPeriod ("affectation") is a resource's committed coverage of a
// skill on a project/site. Forced marks a deliberate override (such as a
// weekend entry) that consolidation must preserve verbatim.
type AssignmentPeriod struct {
	ID         string
	ProjectID  string
	Site       string
	ResourceID string
	Skill      string
	DateStart  time.Time
	DateEnd    time.Time
	Load       decimal.Decimal
	Forced     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a *AssignmentPeriod) Range() DateRange {
	return DateRange{Start: Day(a.DateStart), End: Day(a.DateEnd)}
}

// GroupKey identifies the consolidation group an assignment belongs to: one
// resource covering one skill on one project/site.
func (a *AssignmentPeriod) GroupKey() GroupKey {
	return GroupKey{
		ProjectID:  a.ProjectID,
		Site:       a.Site,
		Skill:      a.Skill,
		ResourceID: a.ResourceID,
	}
}

func (a *AssignmentPeriod) Validate() error {
	if a.ProjectID == "" {
		return &ValidationError{Field: "projectId", Reason: "required"}
	}
	if a.Site == "" {
		return &ValidationError{Field: "site", Reason: "required"}
	}
	if a.ResourceID == "" {
		return &ValidationError{Field: "resourceId", Reason: "required"}
	}
	if a.Skill == "" {
		return &ValidationError{Field: "skill", Reason: "required"}
	}
	if !a.Range().Valid() {
		return &ValidationError{Field: "dateEnd", Reason: "end date before start date"}
	}
	if a.Load.IsNegative() {
		return &ValidationError{Field: "load", Reason: "must be >= 0"}
	}
	return nil
}

// DefaultLoad is the load applied when a saved assignment carries none.
var DefaultLoad = decimal.NewFromInt(1)

// AbsencePeriod is read-only input to the rule evaluator; the engine never
// mutates absences.
type AbsencePeriod struct {
	ID         string
	ResourceID string
	Site       string
	DateStart  time.Time
	DateEnd    time.Time
	Type       AbsenceType
	Status     AbsenceStatus
}

func (a *AbsencePeriod) Range() DateRange {
	return DateRange{Start: Day(a.DateStart), End: Day(a.DateEnd)}
}

type ResourceSkill struct {
	Skill     string
	IsPrimary bool
}

type Resource struct {
	ID       string
	Name     string
	HomeSite string
	Active   bool
	Skills   []ResourceSkill
}

// HasSkill reports whether the resource holds the given skill at all.
func (r *Resource) HasSkill(skill string) bool {
	for _, s := range r.Skills {
		if s.Skill == skill {
			return true
		}
	}
	return false
}

// IsPrimarySkill reports whether skill is one of the resource's primary skills.
func (r *Resource) IsPrimarySkill(skill string) bool {
	for _, s := range r.Skills {
		if s.Skill == skill && s.IsPrimary {
			return true
		}
	}
	return false
}

// PrimarySkills returns the resource's primary skills in declaration order.
func (r *Resource) PrimarySkills() []string {
	var out []string
	for _, s := range r.Skills {
		if s.IsPrimary {
			out = append(out, s.Skill)
		}
	}
	return out
}

// TransferRecord is a cross-site relocation window. For one
// (resource, origin, destination) triple at most one open window exists;
// extensions only ever grow the interval.
type TransferRecord struct {
	ID              string
	ResourceID      string
	OriginSite      string
	DestinationSite string
	DateStart       time.Time
	DateEnd         time.Time
	Status          TransferStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *TransferRecord) Range() DateRange {
	return DateRange{Start: Day(t.DateStart), End: Day(t.DateEnd)}
}

// Alert is an audit entry: a blocked conflicting assignment or an applied
// transfer.
type Alert struct {
	ID        string
	Kind      AlertKind
	Message   string
	RecordID  string
	CreatedAt time.Time
}

// GroupKey identifies one consolidation grouping: (project, site, skill) for
// demands, plus the resource for assignments. ResourceID is empty for demand
// groups.
type GroupKey struct {
	ProjectID  string
	Site       string
	Skill      string
	ResourceID string
}

func (k GroupKey) String() string {
	if k.ResourceID == "" {
		return k.ProjectID + "/" + k.Site + "/" + k.Skill
	}
	return k.ProjectID + "/" + k.Site + "/" + k.Skill + "/" + k.ResourceID
}
