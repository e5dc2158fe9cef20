package service

import (
	"context"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/calendar"
	"github.com/Fred49680/PDC-sub001/internal/consolidate"
	"github.com/Fred49680/PDC-sub001/internal/coverage"
	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/google/uuid"
)

type demandService struct {
	uow         db.UnitOfWork
	demands     repository.DemandRepo
	assignments repository.AssignmentRepo
	cal         *calendar.Calendar
	sites       map[string]bool
	reloader    Reloader
	obs         UseCaseObserver
}

// NewDemandService creates the demand surface. knownSites may be empty to
// accept any site. reloader and obs may be nil.
func NewDemandService(
	uow db.UnitOfWork,
	demands repository.DemandRepo,
	assignments repository.AssignmentRepo,
	cal *calendar.Calendar,
	knownSites []string,
	reloader Reloader,
	obs UseCaseObserver,
) DemandService {
	if reloader == nil {
		reloader = NoopReloader{}
	}
	sites := make(map[string]bool, len(knownSites))
	for _, s := range knownSites {
		sites[s] = true
	}
	return &demandService{
		uow:         uow,
		demands:     demands,
		assignments: assignments,
		cal:         cal,
		sites:       sites,
		reloader:    reloader,
		obs:         obs,
	}
}

func (s *demandService) Save(ctx context.Context, d *domain.DemandPeriod) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "demand.save", started, err, map[string]any{"group": d.GroupKey().String()})
	}()

	if err = d.Validate(); err != nil {
		return err
	}
	if len(s.sites) > 0 && !s.sites[d.Site] {
		return &domain.NotFoundError{Kind: "site", ID: d.Site}
	}

	now := time.Now().UTC()
	d.UpdatedAt = now
	if d.ID == "" {
		d.ID = uuid.New().String()
		d.CreatedAt = now
		return s.demands.Create(ctx, d)
	}
	if _, getErr := s.demands.GetByID(ctx, d.ID); getErr != nil {
		d.CreatedAt = now
		return s.demands.Create(ctx, d)
	}
	return s.demands.Update(ctx, d)
}

func (s *demandService) GetByID(ctx context.Context, id string) (*domain.DemandPeriod, error) {
	return s.demands.GetByID(ctx, id)
}

func (s *demandService) ListByProject(ctx context.Context, projectID string) ([]*domain.DemandPeriod, error) {
	return s.demands.ListByProject(ctx, projectID)
}

func (s *demandService) Delete(ctx context.Context, id string) error {
	return s.demands.Delete(ctx, id)
}

func (s *demandService) Coverage(ctx context.Context, demandID string, window *domain.DateRange) (coverage.Report, error) {
	demand, err := s.demands.GetByID(ctx, demandID)
	if err != nil {
		return coverage.Report{}, err
	}
	assignments, err := s.assignments.ListMatching(ctx, demand.ProjectID, demand.Site, demand.Skill)
	if err != nil {
		return coverage.Report{}, err
	}
	return coverage.Compute(demand, assignments, window), nil
}

func (s *demandService) Consolidate(ctx context.Context, key *domain.GroupKey) (stats ConsolidationStats, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "demand.consolidate", started, err, map[string]any{
			"groups": stats.Groups, "deleted": stats.Deleted, "inserted": stats.Inserted,
		})
	}()

	var keys []domain.GroupKey
	if key != nil {
		keys = []domain.GroupKey{*key}
	} else if keys, err = s.demands.ListGroups(ctx); err != nil {
		return stats, err
	}

	for _, k := range keys {
		periods, listErr := s.demands.ListByGroup(ctx, k)
		if listErr != nil {
			return stats, listErr
		}
		if len(periods) == 0 {
			continue
		}
		plan := consolidate.Build(s.cal, consolidate.DemandPeriods(periods))

		// Delete-all-then-reinsert inside one transaction. The tx-scoped
		// repository carries no change feed: consolidation signals a full
		// group reload instead of trickling row events.
		txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteDemandRepo(tx, nil)
			for _, id := range plan.DeleteIDs {
				if err := repo.Delete(ctx, id); err != nil {
					return err
				}
			}
			now := time.Now().UTC()
			for _, run := range plan.Runs {
				d := &domain.DemandPeriod{
					ID:                uuid.New().String(),
					ProjectID:         k.ProjectID,
					Site:              k.Site,
					Skill:             k.Skill,
					DateStart:         run.Range.Start,
					DateEnd:           run.Range.End,
					RequiredHeadcount: int(run.Value.IntPart()),
					Forced:            false,
					CreatedAt:         now,
					UpdatedAt:         now,
				}
				if err := repo.Create(ctx, d); err != nil {
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
		s.reloader.ReloadGroup(ctx, repository.TableDemands, k)
	}
	return stats, nil
}
