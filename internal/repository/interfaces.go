package repository

import (
	"context"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
)

type DemandRepo interface {
	Create(ctx context.Context, d *domain.DemandPeriod) error
	GetByID(ctx context.Context, id string) (*domain.DemandPeriod, error)
	Update(ctx context.Context, d *domain.DemandPeriod) error
	Delete(ctx context.Context, id string) error
	ListByGroup(ctx context.Context, key domain.GroupKey) ([]*domain.DemandPeriod, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.DemandPeriod, error)
	ListAll(ctx context.Context) ([]*domain.DemandPeriod, error)
	ListGroups(ctx context.Context) ([]domain.GroupKey, error)
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.AssignmentPeriod) error
	GetByID(ctx context.Context, id string) (*domain.AssignmentPeriod, error)
	Update(ctx context.Context, a *domain.AssignmentPeriod) error
	Delete(ctx context.Context, id string) error
	ListByGroup(ctx context.Context, key domain.GroupKey) ([]*domain.AssignmentPeriod, error)
	// ListMatching returns every assignment in the (project, site, skill)
	// group regardless of resource, for coverage computation.
	ListMatching(ctx context.Context, projectID, site, skill string) ([]*domain.AssignmentPeriod, error)
	// ListByResource returns the resource's assignments overlapping r,
	// across all projects, for conflict detection.
	ListByResource(ctx context.Context, resourceID string, r domain.DateRange) ([]*domain.AssignmentPeriod, error)
	ListAll(ctx context.Context) ([]*domain.AssignmentPeriod, error)
	ListGroups(ctx context.Context) ([]domain.GroupKey, error)
}

type AbsenceRepo interface {
	Create(ctx context.Context, a *domain.AbsencePeriod) error
	ListByResource(ctx context.Context, resourceID string, r domain.DateRange) ([]*domain.AbsencePeriod, error)
	ListAll(ctx context.Context) ([]*domain.AbsencePeriod, error)
}

type ResourceRepo interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error)
}

type TransferRepo interface {
	Create(ctx context.Context, t *domain.TransferRecord) error
	GetByID(ctx context.Context, id string) (*domain.TransferRecord, error)
	Update(ctx context.Context, t *domain.TransferRecord) error
	// ListByTriple returns every window for one
	// (resource, origin, destination) move, ascending by start date.
	ListByTriple(ctx context.Context, resourceID, originSite, destinationSite string) ([]*domain.TransferRecord, error)
	ListByResource(ctx context.Context, resourceID string) ([]*domain.TransferRecord, error)
	// ListPlannedDue returns planned transfers whose start date has been
	// reached as of the given day.
	ListPlannedDue(ctx context.Context, asOf time.Time) ([]*domain.TransferRecord, error)
}

type AlertRepo interface {
	Create(ctx context.Context, a *domain.Alert) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error)
}
