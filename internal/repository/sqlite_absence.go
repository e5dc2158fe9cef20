package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// SQLiteAbsenceRepo implements AbsenceRepo. Absences are read-only input for
// the engine; Create exists for the absence feed and test fixtures.
type SQLiteAbsenceRepo struct {
	db   db.DBTX
	feed *ChangeFeed
}

func NewSQLiteAbsenceRepo(dbtx db.DBTX, feed *ChangeFeed) *SQLiteAbsenceRepo {
	return &SQLiteAbsenceRepo{db: dbtx, feed: feed}
}

var _ AbsenceRepo = (*SQLiteAbsenceRepo)(nil)

const absenceColumns = `id, resource_id, site, date_start, date_end, type, status`

func (r *SQLiteAbsenceRepo) Create(ctx context.Context, a *domain.AbsencePeriod) error {
	query := `INSERT INTO absence_periods (` + absenceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ResourceID,
		a.Site,
		domain.Day(a.DateStart).Format(dateLayout),
		domain.Day(a.DateEnd).Format(dateLayout),
		string(a.Type),
		string(a.Status),
	)
	if err != nil {
		return &domain.StoreError{Op: "inserting absence period", Err: err}
	}
	publish(r.feed, Event{Table: TableAbsences, Op: OpInsert, ID: a.ID, Record: a})
	return nil
}

func (r *SQLiteAbsenceRepo) ListByResource(ctx context.Context, resourceID string, rng domain.DateRange) ([]*domain.AbsencePeriod, error) {
	query := `SELECT ` + absenceColumns + ` FROM absence_periods
		WHERE resource_id = ? AND date_start <= ? AND date_end >= ?
		ORDER BY date_start`
	rows, err := r.db.QueryContext(ctx, query,
		resourceID,
		rng.End.Format(dateLayout),
		rng.Start.Format(dateLayout),
	)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing absences", Err: err}
	}
	return collectAbsences(rows)
}

func (r *SQLiteAbsenceRepo) ListAll(ctx context.Context) ([]*domain.AbsencePeriod, error) {
	query := `SELECT ` + absenceColumns + ` FROM absence_periods ORDER BY resource_id, date_start`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing absences", Err: err}
	}
	return collectAbsences(rows)
}

func collectAbsences(rows *sql.Rows) ([]*domain.AbsencePeriod, error) {
	defer rows.Close()
	var out []*domain.AbsencePeriod
	for rows.Next() {
		var a domain.AbsencePeriod
		var start, end, typ, status string
		if err := rows.Scan(&a.ID, &a.ResourceID, &a.Site, &start, &end, &typ, &status); err != nil {
			return nil, fmt.Errorf("scanning absence period: %w", err)
		}
		a.DateStart = parseDate(start)
		a.DateEnd = parseDate(end)
		a.Type = domain.AbsenceType(typ)
		a.Status = domain.AbsenceStatus(status)
		out = append(out, &a)
	}
	return out, rows.Err()
}
