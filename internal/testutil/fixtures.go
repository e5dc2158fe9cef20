package testutil

import (
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MustDate parses a YYYY-MM-DD string. Panics on bad input since fixtures are
// always literal.
func MustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Resource options
type ResourceOption func(*domain.Resource)

func WithHomeSite(site string) ResourceOption {
	return func(r *domain.Resource) {
		r.HomeSite = site
	}
}

func WithInactive() ResourceOption {
	return func(r *domain.Resource) {
		r.Active = false
	}
}

func WithSkill(skill string, primary bool) ResourceOption {
	return func(r *domain.Resource) {
		r.Skills = append(r.Skills, domain.ResourceSkill{Skill: skill, IsPrimary: primary})
	}
}

func NewTestResource(name string, opts ...ResourceOption) *domain.Resource {
	r := &domain.Resource{
		ID:       uuid.New().String(),
		Name:     name,
		HomeSite: "LYO",
		Active:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DemandPeriod options
type DemandOption func(*domain.DemandPeriod)

func WithDemandForced() DemandOption {
	return func(d *domain.DemandPeriod) {
		d.Forced = true
	}
}

func WithDemandSite(site string) DemandOption {
	return func(d *domain.DemandPeriod) {
		d.Site = site
	}
}

func WithDemandSkill(skill string) DemandOption {
	return func(d *domain.DemandPeriod) {
		d.Skill = skill
	}
}

func NewTestDemand(projectID, from, to string, headcount int, opts ...DemandOption) *domain.DemandPeriod {
	now := time.Now().UTC()
	d := &domain.DemandPeriod{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		Site:              "LYO",
		Skill:             "welder",
		DateStart:         MustDate(from),
		DateEnd:           MustDate(to),
		RequiredHeadcount: headcount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AssignmentPeriod options
type AssignmentOption func(*domain.AssignmentPeriod)

func WithAssignmentForced() AssignmentOption {
	return func(a *domain.AssignmentPeriod) {
		a.Forced = true
	}
}

func WithAssignmentSite(site string) AssignmentOption {
	return func(a *domain.AssignmentPeriod) {
		a.Site = site
	}
}

func WithAssignmentSkill(skill string) AssignmentOption {
	return func(a *domain.AssignmentPeriod) {
		a.Skill = skill
	}
}

func WithLoad(load string) AssignmentOption {
	return func(a *domain.AssignmentPeriod) {
		a.Load = decimal.RequireFromString(load)
	}
}

func NewTestAssignment(projectID, resourceID, from, to string, opts ...AssignmentOption) *domain.AssignmentPeriod {
	now := time.Now().UTC()
	a := &domain.AssignmentPeriod{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Site:       "LYO",
		ResourceID: resourceID,
		Skill:      "welder",
		DateStart:  MustDate(from),
		DateEnd:    MustDate(to),
		Load:       domain.DefaultLoad,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AbsencePeriod options
type AbsenceOption func(*domain.AbsencePeriod)

func WithAbsenceStatus(s domain.AbsenceStatus) AbsenceOption {
	return func(a *domain.AbsencePeriod) {
		a.Status = s
	}
}

func WithAbsenceType(t domain.AbsenceType) AbsenceOption {
	return func(a *domain.AbsencePeriod) {
		a.Type = t
	}
}

func NewTestAbsence(resourceID, from, to string, opts ...AbsenceOption) *domain.AbsencePeriod {
	a := &domain.AbsencePeriod{
		ID:         uuid.New().String(),
		ResourceID: resourceID,
		Site:       "LYO",
		DateStart:  MustDate(from),
		DateEnd:    MustDate(to),
		Type:       domain.AbsenceVacation,
		Status:     domain.AbsenceApproved,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TransferRecord options
type TransferOption func(*domain.TransferRecord)

func WithTransferStatus(s domain.TransferStatus) TransferOption {
	return func(t *domain.TransferRecord) {
		t.Status = s
	}
}

func NewTestTransfer(resourceID, origin, destination, from, to string, opts ...TransferOption) *domain.TransferRecord {
	now := time.Now().UTC()
	tr := &domain.TransferRecord{
		ID:              uuid.New().String(),
		ResourceID:      resourceID,
		OriginSite:      origin,
		DestinationSite: destination,
		DateStart:       MustDate(from),
		DateEnd:         MustDate(to),
		Status:          domain.TransferPlanned,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}
