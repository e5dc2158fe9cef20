// Package syncer reconciles optimistic local state against the store's
// change-notification feed. Each logical data set (demands, assignments,
// absences) lives in a Cache; rapid edits batch through a debounced
// WriteQueue; confirmed row events merge back in by primary key.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/repository"
)

// Writers are the engine operations the queue flushes staged edits through.
type Writers struct {
	SaveDemand       func(ctx context.Context, d *domain.DemandPeriod) error
	SaveAssignment   func(ctx context.Context, a *domain.AssignmentPeriod) error
	DeleteDemand     func(ctx context.Context, id string) error
	DeleteAssignment func(ctx context.Context, id string) error
}

// Syncer owns the per-dataset caches and the subscription to the change feed.
type Syncer struct {
	feed        *repository.ChangeFeed
	demandRepo  repository.DemandRepo
	assignRepo  repository.AssignmentRepo
	absenceRepo repository.AbsenceRepo

	demands     *Cache[*domain.DemandPeriod]
	assignments *Cache[*domain.AssignmentPeriod]
	absences    *Cache[*domain.AbsencePeriod]

	queue   *WriteQueue
	writers Writers
	logger  *slog.Logger

	cancelSub func()
	done      chan struct{}
}

// New creates a syncer. Writers may be set later with SetWriters (services
// need the syncer as their consolidation Reloader, so wiring is two-phase).
func New(
	feed *repository.ChangeFeed,
	demandRepo repository.DemandRepo,
	assignRepo repository.AssignmentRepo,
	absenceRepo repository.AbsenceRepo,
	debounce time.Duration,
	logger *slog.Logger,
) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		feed:        feed,
		demandRepo:  demandRepo,
		assignRepo:  assignRepo,
		absenceRepo: absenceRepo,
		demands:     NewCache(func(d *domain.DemandPeriod) string { return d.ID }),
		assignments: NewCache(func(a *domain.AssignmentPeriod) string { return a.ID }),
		absences:    NewCache(func(a *domain.AbsencePeriod) string { return a.ID }),
		queue:       NewWriteQueue(debounce, logger, nil),
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// SetWriters attaches the engine operations staged edits flush through.
func (s *Syncer) SetWriters(w Writers) {
	s.writers = w
}

// Start performs the initial load of every data set and subscribes to the
// change feed. Caches move Loading → Ready here.
func (s *Syncer) Start(ctx context.Context) error {
	demands, err := s.demandRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	assignments, err := s.assignRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	absences, err := s.absenceRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	s.demands.Load(demands)
	s.assignments.Load(assignments)
	s.absences.Load(absences)

	ch, cancel := s.feed.Subscribe(256)
	s.cancelSub = cancel
	go s.run(ch)
	return nil
}

// Stop flushes staged writes, unsubscribes and waits for the event loop.
func (s *Syncer) Stop(ctx context.Context) {
	s.queue.Close(ctx)
	if s.cancelSub != nil {
		s.cancelSub()
		<-s.done
	}
}

// run merges confirmed change events until the subscription closes. A bad
// event never stops the loop: log and continue, the next consolidation
// reload restores consistency.
func (s *Syncer) run(ch <-chan repository.Event) {
	defer close(s.done)
	for e := range ch {
		s.handle(e)
	}
}

func (s *Syncer) handle(e repository.Event) {
	switch e.Table {
	case repository.TableDemands:
		rec, ok := e.Record.(*domain.DemandPeriod)
		if e.Op != repository.OpDelete && !ok {
			s.logger.Warn("change event with unexpected record type", "table", string(e.Table), "id", e.ID)
			return
		}
		s.demands.Merge(e.Op, e.ID, rec, ok)
	case repository.TableAssignments:
		rec, ok := e.Record.(*domain.AssignmentPeriod)
		if e.Op != repository.OpDelete && !ok {
			s.logger.Warn("change event with unexpected record type", "table", string(e.Table), "id", e.ID)
			return
		}
		s.assignments.Merge(e.Op, e.ID, rec, ok)
	case repository.TableAbsences:
		rec, ok := e.Record.(*domain.AbsencePeriod)
		if e.Op != repository.OpDelete && !ok {
			s.logger.Warn("change event with unexpected record type", "table", string(e.Table), "id", e.ID)
			return
		}
		s.absences.Merge(e.Op, e.ID, rec, ok)
	default:
		s.logger.Debug("ignoring change event for unsynchronized table", "table", string(e.Table))
	}
}

// StageDemand applies the edit optimistically and schedules the debounced
// write. Edits to the same record coalesce; only the last value is persisted.
func (s *Syncer) StageDemand(d *domain.DemandPeriod) {
	s.demands.ApplyLocal(d)
	staged := d
	s.queue.Enqueue("demand/"+d.ID, func(ctx context.Context) error {
		return s.writers.SaveDemand(ctx, staged)
	})
}

// StageAssignment applies the edit optimistically and schedules the write.
func (s *Syncer) StageAssignment(a *domain.AssignmentPeriod) {
	s.assignments.ApplyLocal(a)
	staged := a
	s.queue.Enqueue("assignment/"+a.ID, func(ctx context.Context) error {
		return s.writers.SaveAssignment(ctx, staged)
	})
}

// StageDemandDelete removes the record locally and schedules the delete.
func (s *Syncer) StageDemandDelete(id string) {
	s.demands.RemoveLocal(id)
	s.queue.Enqueue("demand/"+id, func(ctx context.Context) error {
		return s.writers.DeleteDemand(ctx, id)
	})
}

// StageAssignmentDelete removes the record locally and schedules the delete.
func (s *Syncer) StageAssignmentDelete(id string) {
	s.assignments.RemoveLocal(id)
	s.queue.Enqueue("assignment/"+id, func(ctx context.Context) error {
		return s.writers.DeleteAssignment(ctx, id)
	})
}

// Flush persists staged writes immediately, bypassing the debounce window.
func (s *Syncer) Flush(ctx context.Context) {
	s.queue.Flush(ctx)
}

// ReloadGroup re-reads a whole grouping key from the store and swaps it into
// the cache, replacing the incremental merge path. Consolidation calls this:
// one pass emits too many deletes and inserts to merge event by event.
// Implements service.Reloader.
func (s *Syncer) ReloadGroup(ctx context.Context, table repository.Table, key domain.GroupKey) {
	switch table {
	case repository.TableDemands:
		records, err := s.demandRepo.ListByGroup(ctx, key)
		if err != nil {
			s.logger.Warn("group reload failed", "table", string(table), "group", key.String(), "error", err)
			return
		}
		s.demands.ReplaceWhere(func(d *domain.DemandPeriod) bool { return d.GroupKey() == key }, records)
	case repository.TableAssignments:
		records, err := s.assignRepo.ListByGroup(ctx, key)
		if err != nil {
			s.logger.Warn("group reload failed", "table", string(table), "group", key.String(), "error", err)
			return
		}
		s.assignments.ReplaceWhere(func(a *domain.AssignmentPeriod) bool { return a.GroupKey() == key }, records)
	}
}

// Demands returns the demand cache.
func (s *Syncer) Demands() *Cache[*domain.DemandPeriod] { return s.demands }

// Assignments returns the assignment cache.
func (s *Syncer) Assignments() *Cache[*domain.AssignmentPeriod] { return s.assignments }

// Absences returns the absence cache.
func (s *Syncer) Absences() *Cache[*domain.AbsencePeriod] { return s.absences }
