package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/transfer"
	"github.com/google/uuid"
)

type transferService struct {
	transfers   repository.TransferRepo
	assignments repository.AssignmentRepo
	resources   repository.ResourceRepo
	alerts      repository.AlertRepo
	obs         UseCaseObserver
}

func NewTransferService(
	transfers repository.TransferRepo,
	assignments repository.AssignmentRepo,
	resources repository.ResourceRepo,
	alerts repository.AlertRepo,
	obs UseCaseObserver,
) TransferService {
	return &transferService{
		transfers:   transfers,
		assignments: assignments,
		resources:   resources,
		alerts:      alerts,
		obs:         obs,
	}
}

func (s *transferService) EnsureWindow(ctx context.Context, resourceID, originSite, destinationSite string, r domain.DateRange) (rec *domain.TransferRecord, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "transfer.ensure_window", started, err, map[string]any{
			"resource": resourceID, "origin": originSite, "destination": destinationSite,
		})
	}()

	if !r.Valid() {
		return nil, &domain.ValidationError{Field: "dateEnd", Reason: "end date before start date"}
	}

	existing, err := s.transfers.ListByTriple(ctx, resourceID, originSite, destinationSite)
	if err != nil {
		return nil, err
	}
	// Only planned windows are open for extension; applied transfers stay as
	// they were when materialized.
	var open []*domain.TransferRecord
	for _, t := range existing {
		if t.Status == domain.TransferPlanned {
			open = append(open, t)
		}
	}

	decision := transfer.Resolve(open, r)
	switch decision.Action {
	case transfer.ActionNone:
		return s.transfers.GetByID(ctx, decision.WindowID)

	case transfer.ActionExtend:
		rec, err = s.transfers.GetByID(ctx, decision.WindowID)
		if err != nil {
			return nil, err
		}
		rec.DateStart = decision.Range.Start
		rec.DateEnd = decision.Range.End
		rec.UpdatedAt = time.Now().UTC()
		if err = s.transfers.Update(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil

	default:
		now := time.Now().UTC()
		rec = &domain.TransferRecord{
			ID:              uuid.New().String(),
			ResourceID:      resourceID,
			OriginSite:      originSite,
			DestinationSite: destinationSite,
			DateStart:       decision.Range.Start,
			DateEnd:         decision.Range.End,
			Status:          domain.TransferPlanned,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err = s.transfers.Create(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
}

func (s *transferService) Apply(ctx context.Context, id string) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "transfer.apply", started, err, map[string]any{"transfer": id})
	}()

	rec, err := s.transfers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status == domain.TransferApplied {
		// One-way transition; applying twice is a no-op.
		return nil
	}

	res, err := s.resources.GetByID(ctx, rec.ResourceID)
	if err != nil {
		return err
	}

	rec.Status = domain.TransferApplied
	rec.UpdatedAt = time.Now().UTC()
	if err = s.transfers.Update(ctx, rec); err != nil {
		return err
	}

	// Materialize the relocated capacity: one assignment per primary skill
	// on the destination site, carried by the synthetic transfer project.
	now := time.Now().UTC()
	for _, skill := range res.PrimarySkills() {
		a := &domain.AssignmentPeriod{
			ID:         uuid.New().String(),
			ProjectID:  domain.TransferProjectID,
			Site:       rec.DestinationSite,
			ResourceID: rec.ResourceID,
			Skill:      skill,
			DateStart:  rec.DateStart,
			DateEnd:    rec.DateEnd,
			Load:       domain.DefaultLoad,
			Forced:     false,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err = s.assignments.Create(ctx, a); err != nil {
			return err
		}
	}

	_ = s.alerts.Create(ctx, &domain.Alert{
		ID:   uuid.New().String(),
		Kind: domain.AlertTransferApplied,
		Message: fmt.Sprintf("transfer applied: %s %s -> %s (%s..%s)",
			rec.ResourceID, rec.OriginSite, rec.DestinationSite,
			domain.Day(rec.DateStart).Format("2006-01-02"),
			domain.Day(rec.DateEnd).Format("2006-01-02")),
		RecordID:  rec.ID,
		CreatedAt: now,
	})
	return nil
}

func (s *transferService) ApplyDue(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.transfers.ListPlannedDue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, rec := range due {
		if err := s.Apply(ctx, rec.ID); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (s *transferService) ListByResource(ctx context.Context, resourceID string) ([]*domain.TransferRecord, error) {
	return s.transfers.ListByResource(ctx, resourceID)
}
