package service

import (
	"database/sql"
	"testing"

	"github.com/Fred49680/PDC-sub001/internal/calendar"
	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/testutil"
)

// fixture wires every service against one in-memory database, the way main
// does, minus the change feed and syncer.
type fixture struct {
	db          *sql.DB
	uow         db.UnitOfWork
	cal         *calendar.Calendar
	demands     *repository.SQLiteDemandRepo
	assignments *repository.SQLiteAssignmentRepo
	absences    *repository.SQLiteAbsenceRepo
	resources   *repository.SQLiteResourceRepo
	transfers   *repository.SQLiteTransferRepo
	alerts      *repository.SQLiteAlertRepo

	demandSvc   DemandService
	assignSvc   AssignmentService
	transferSvc TransferService
}

func newFixture(t *testing.T, sites ...string) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)

	f := &fixture{
		db:          database,
		uow:         testutil.NewTestUoW(database),
		cal:         calendar.New(nil),
		demands:     repository.NewSQLiteDemandRepo(database, nil),
		assignments: repository.NewSQLiteAssignmentRepo(database, nil),
		absences:    repository.NewSQLiteAbsenceRepo(database, nil),
		resources:   repository.NewSQLiteResourceRepo(database),
		transfers:   repository.NewSQLiteTransferRepo(database, nil),
		alerts:      repository.NewSQLiteAlertRepo(database),
	}
	f.transferSvc = NewTransferService(f.transfers, f.assignments, f.resources, f.alerts, nil)
	f.demandSvc = NewDemandService(f.uow, f.demands, f.assignments, f.cal, sites, nil, nil)
	f.assignSvc = NewAssignmentService(
		f.uow, f.assignments, f.demands, f.absences, f.resources, f.alerts,
		f.transferSvc, f.cal, sites, nil, nil)
	return f
}
