package service

import (
	"context"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/coverage"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/rules"
)

// ConsolidationStats summarizes one consolidation pass.
type ConsolidationStats struct {
	Groups   int
	Deleted  int
	Inserted int
}

type DemandService interface {
	// Save validates and upserts a demand period: records with an unknown
	// ID are created, existing ones replaced.
	Save(ctx context.Context, d *domain.DemandPeriod) error
	GetByID(ctx context.Context, id string) (*domain.DemandPeriod, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.DemandPeriod, error)
	Delete(ctx context.Context, id string) error
	// Coverage reports how many distinct resources cover the demand,
	// optionally narrowed to a display window.
	Coverage(ctx context.Context, demandID string, window *domain.DateRange) (coverage.Report, error)
	// Consolidate normalizes one demand group, or every group when key is
	// nil. Idempotent; safe to re-run after a partial failure.
	Consolidate(ctx context.Context, key *domain.GroupKey) (ConsolidationStats, error)
}

type AssignmentService interface {
	// Save validates and upserts an assignment. It fails with a
	// ConflictError when the resource is absent or committed to another
	// project on an overlapping business day, unless Forced is set.
	// Saving onto a site other than the resource's home site ensures a
	// covering transfer window as a side effect.
	Save(ctx context.Context, a *domain.AssignmentPeriod) error
	GetByID(ctx context.Context, id string) (*domain.AssignmentPeriod, error)
	Delete(ctx context.Context, id string) error
	// Candidates evaluates every active resource holding the demand's
	// skill against the demand.
	Candidates(ctx context.Context, demandID string) ([]rules.Candidate, error)
	Consolidate(ctx context.Context, key *domain.GroupKey) (ConsolidationStats, error)
}

type TransferService interface {
	// EnsureWindow guarantees a transfer window covering r exists for the
	// move, growing an existing window when one overlaps or sits within a
	// one-day gap. Windows never shrink.
	EnsureWindow(ctx context.Context, resourceID, originSite, destinationSite string, r domain.DateRange) (*domain.TransferRecord, error)
	// Apply transitions a planned transfer to applied (one-way) and
	// materializes assignments for the resource's primary skills on the
	// destination site under the synthetic transfer project.
	Apply(ctx context.Context, id string) error
	// ApplyDue applies every planned transfer whose start date has been
	// reached as of the given day, returning how many were applied.
	ApplyDue(ctx context.Context, asOf time.Time) (int, error)
	ListByResource(ctx context.Context, resourceID string) ([]*domain.TransferRecord, error)
}

// Reloader is notified after a bulk consolidation so that caches re-read the
// whole grouping key from the store instead of merging the delete/insert
// trickle one event at a time.
type Reloader interface {
	ReloadGroup(ctx context.Context, table repository.Table, key domain.GroupKey)
}

// NoopReloader is used when no synchronization layer is attached.
type NoopReloader struct{}

func (NoopReloader) ReloadGroup(context.Context, repository.Table, domain.GroupKey) {}
