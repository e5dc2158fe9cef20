package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/calendar"
	"github.com/Fred49680/PDC-sub001/internal/consolidate"
	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/rules"
	"github.com/google/uuid"
)

type assignmentService struct {
	uow         db.UnitOfWork
	assignments repository.AssignmentRepo
	demands     repository.DemandRepo
	absences    repository.AbsenceRepo
	resources   repository.ResourceRepo
	alerts      repository.AlertRepo
	transfers   TransferService
	cal         *calendar.Calendar
	sites       map[string]bool
	reloader    Reloader
	obs         UseCaseObserver
}

// NewAssignmentService creates the assignment surface. transfers handles the
// cross-site side effect; reloader and obs may be nil.
func NewAssignmentService(
	uow db.UnitOfWork,
	assignments repository.AssignmentRepo,
	demands repository.DemandRepo,
	absences repository.AbsenceRepo,
	resources repository.ResourceRepo,
	alerts repository.AlertRepo,
	transfers TransferService,
	cal *calendar.Calendar,
	knownSites []string,
	reloader Reloader,
	obs UseCaseObserver,
) AssignmentService {
	if reloader == nil {
		reloader = NoopReloader{}
	}
	sites := make(map[string]bool, len(knownSites))
	for _, s := range knownSites {
		sites[s] = true
	}
	return &assignmentService{
		uow:         uow,
		assignments: assignments,
		demands:     demands,
		absences:    absences,
		resources:   resources,
		alerts:      alerts,
		transfers:   transfers,
		cal:         cal,
		sites:       sites,
		reloader:    reloader,
		obs:         obs,
	}
}

func (s *assignmentService) Save(ctx context.Context, a *domain.AssignmentPeriod) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "assignment.save", started, err, map[string]any{
			"group": a.GroupKey().String(), "forced": a.Forced,
		})
	}()

	if err = a.Validate(); err != nil {
		return err
	}
	if a.Load.IsZero() {
		a.Load = domain.DefaultLoad
	}
	if len(s.sites) > 0 && !s.sites[a.Site] {
		return &domain.NotFoundError{Kind: "site", ID: a.Site}
	}

	res, err := s.resources.GetByID(ctx, a.ResourceID)
	if err != nil {
		return err
	}

	if !a.Forced {
		if err = s.checkRules(ctx, a); err != nil {
			return err
		}
	}

	// A resource committed away from home needs a covering transfer window.
	if res.HomeSite != a.Site {
		if _, err = s.transfers.EnsureWindow(ctx, res.ID, res.HomeSite, a.Site, a.Range()); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	a.UpdatedAt = now
	if a.ID == "" {
		a.ID = uuid.New().String()
		a.CreatedAt = now
		return s.assignments.Create(ctx, a)
	}
	if _, getErr := s.assignments.GetByID(ctx, a.ID); getErr != nil {
		a.CreatedAt = now
		return s.assignments.Create(ctx, a)
	}
	return s.assignments.Update(ctx, a)
}

// checkRules blocks the save when the resource is absent or committed to
// another project on an overlapping business day. A blocked attempt leaves
// an audit alert behind; no record is written.
func (s *assignmentService) checkRules(ctx context.Context, a *domain.AssignmentPeriod) error {
	r := a.Range()

	absences, err := s.absences.ListByResource(ctx, a.ResourceID, r)
	if err != nil {
		return err
	}
	for _, d := range rules.DaysAbsent(a.ResourceID, r, absences).Sorted() {
		if !s.cal.IsBusinessDay(d) {
			continue
		}
		conflictErr := &domain.ConflictError{
			ResourceID: a.ResourceID,
			Day:        d,
			Reason:     "resource is absent",
		}
		s.audit(ctx, conflictErr, a)
		return conflictErr
	}

	existing, err := s.assignments.ListByResource(ctx, a.ResourceID, r)
	if err != nil {
		return err
	}
	// Exclude the record being updated from its own conflict check.
	others := existing[:0:0]
	for _, e := range existing {
		if e.ID != a.ID {
			others = append(others, e)
		}
	}
	conflicts := rules.DaysInConflict(s.cal, a.ResourceID, r, others, a.ProjectID)
	if len(conflicts) == 0 {
		return nil
	}

	day := conflicts.Sorted()[0]
	conflictErr := &domain.ConflictError{
		ResourceID: a.ResourceID,
		Day:        day,
		Reason:     "resource already committed to another project",
	}
	for _, e := range others {
		if !e.Forced && e.ProjectID != a.ProjectID && e.Range().Contains(day) {
			conflictErr.ConflictingID = e.ID
			conflictErr.Reason = fmt.Sprintf("resource already committed to project %s", e.ProjectID)
			break
		}
	}
	s.audit(ctx, conflictErr, a)
	return conflictErr
}

// audit records a blocked attempt. Failures to write the alert are swallowed:
// the block itself is what matters to the caller.
func (s *assignmentService) audit(ctx context.Context, conflictErr *domain.ConflictError, a *domain.AssignmentPeriod) {
	_ = s.alerts.Create(ctx, &domain.Alert{
		ID:   uuid.New().String(),
		Kind: domain.AlertConflictBlocked,
		Message: fmt.Sprintf("blocked assignment of %s to %s/%s/%s (%s..%s): %s",
			a.ResourceID, a.ProjectID, a.Site, a.Skill,
			domain.Day(a.DateStart).Format("2006-01-02"),
			domain.Day(a.DateEnd).Format("2006-01-02"),
			conflictErr.Reason),
		RecordID:  conflictErr.ConflictingID,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *assignmentService) GetByID(ctx context.Context, id string) (*domain.AssignmentPeriod, error) {
	return s.assignments.GetByID(ctx, id)
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	return s.assignments.Delete(ctx, id)
}

func (s *assignmentService) Candidates(ctx context.Context, demandID string) ([]rules.Candidate, error) {
	demand, err := s.demands.GetByID(ctx, demandID)
	if err != nil {
		return nil, err
	}
	resources, err := s.resources.List(ctx, true)
	if err != nil {
		return nil, err
	}

	r := demand.Range()
	var out []rules.Candidate
	for _, res := range resources {
		if !res.HasSkill(demand.Skill) {
			continue
		}
		assignments, err := s.assignments.ListByResource(ctx, res.ID, r)
		if err != nil {
			return nil, err
		}
		absences, err := s.absences.ListByResource(ctx, res.ID, r)
		if err != nil {
			return nil, err
		}
		out = append(out, rules.EvaluateCandidate(s.cal, res, demand, assignments, absences))
	}
	return out, nil
}

func (s *assignmentService) Consolidate(ctx context.Context, key *domain.GroupKey) (stats ConsolidationStats, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "assignment.consolidate", started, err, map[string]any{
			"groups": stats.Groups, "deleted": stats.Deleted, "inserted": stats.Inserted,
		})
	}()

	var keys []domain.GroupKey
	if key != nil {
		keys = []domain.GroupKey{*key}
	} else if keys, err = s.assignments.ListGroups(ctx); err != nil {
		return stats, err
	}

	for _, k := range keys {
		periods, listErr := s.assignments.ListByGroup(ctx, k)
		if listErr != nil {
			return stats, listErr
		}
		if len(periods) == 0 {
			continue
		}
		plan := consolidate.Build(s.cal, consolidate.AssignmentPeriods(periods))

		txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteAssignmentRepo(tx, nil)
			for _, id := range plan.DeleteIDs {
				if err := repo.Delete(ctx, id); err != nil {
					return err
				}
			}
			now := time.Now().UTC()
			for _, run := range plan.Runs {
				a := &domain.AssignmentPeriod{
					ID:         uuid.New().String(),
					ProjectID:  k.ProjectID,
					Site:       k.Site,
					ResourceID: k.ResourceID,
					Skill:      k.Skill,
					DateStart:  run.Range.Start,
					DateEnd:    run.Range.End,
					Load:       run.Value,
					Forced:     false,
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				if err := repo.Create(ctx, a); err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			return stats, txErr
		}

		stats.Groups++
		stats.Deleted += len(plan.DeleteIDs)
		stats.Inserted += len(plan.Runs)
		s.reloader.ReloadGroup(ctx, repository.TableAssignments, k)
	}
	return stats, nil
}
