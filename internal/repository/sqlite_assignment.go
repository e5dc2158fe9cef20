package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db   db.DBTX
	feed *ChangeFeed
}

// NewSQLiteAssignmentRepo creates an assignment repository. feed may be nil
// to suppress change events.
func NewSQLiteAssignmentRepo(dbtx db.DBTX, feed *ChangeFeed) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: dbtx, feed: feed}
}

var _ AssignmentRepo = (*SQLiteAssignmentRepo)(nil)

const assignmentColumns = `id, project_id, site, resource_id, skill, date_start, date_end, load, forced, created_at, updated_at`

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.AssignmentPeriod) error {
	query := `INSERT INTO assignment_periods (` + assignmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		a.Site,
		a.ResourceID,
		a.Skill,
		domain.Day(a.DateStart).Format(dateLayout),
		domain.Day(a.DateEnd).Format(dateLayout),
		a.Load.String(),
		boolToInt(a.Forced),
		a.CreatedAt.UTC().Format(timestampLayout),
		a.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return &domain.StoreError{Op: "inserting assignment period", Err: err}
	}
	publish(r.feed, Event{Table: TableAssignments, Op: OpInsert, ID: a.ID, Record: a})
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.AssignmentPeriod, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment_periods WHERE id = ?`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "assignment period", ID: id}
		}
		return nil, &domain.StoreError{Op: "getting assignment period", Err: err}
	}
	return a, nil
}

func (r *SQLiteAssignmentRepo) Update(ctx context.Context, a *domain.AssignmentPeriod) error {
	query := `UPDATE assignment_periods
		SET project_id = ?, site = ?, resource_id = ?, skill = ?, date_start = ?,
			date_end = ?, load = ?, forced = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.ProjectID,
		a.Site,
		a.ResourceID,
		a.Skill,
		domain.Day(a.DateStart).Format(dateLayout),
		domain.Day(a.DateEnd).Format(dateLayout),
		a.Load.String(),
		boolToInt(a.Forced),
		a.UpdatedAt.UTC().Format(timestampLayout),
		a.ID,
	)
	if err != nil {
		return &domain.StoreError{Op: "updating assignment period", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Kind: "assignment period", ID: a.ID}
	}
	publish(r.feed, Event{Table: TableAssignments, Op: OpUpdate, ID: a.ID, Record: a})
	return nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignment_periods WHERE id = ?`, id)
	if err != nil {
		return &domain.StoreError{Op: "deleting assignment period", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Kind: "assignment period", ID: id}
	}
	publish(r.feed, Event{Table: TableAssignments, Op: OpDelete, ID: id})
	return nil
}

func (r *SQLiteAssignmentRepo) ListByGroup(ctx context.Context, key domain.GroupKey) ([]*domain.AssignmentPeriod, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment_periods
		WHERE project_id = ? AND site = ? AND skill = ? AND resource_id = ?
		ORDER BY date_start, id`
	rows, err := r.db.QueryContext(ctx, query, key.ProjectID, key.Site, key.Skill, key.ResourceID)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing assignment group", Err: err}
	}
	return collectAssignments(rows)
}

func (r *SQLiteAssignmentRepo) ListMatching(ctx context.Context, projectID, site, skill string) ([]*domain.AssignmentPeriod, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment_periods
		WHERE project_id = ? AND site = ? AND skill = ?
		ORDER BY resource_id, date_start`
	rows, err := r.db.QueryContext(ctx, query, projectID, site, skill)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing matching assignments", Err: err}
	}
	return collectAssignments(rows)
}

func (r *SQLiteAssignmentRepo) ListByResource(ctx context.Context, resourceID string, rng domain.DateRange) ([]*domain.AssignmentPeriod, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment_periods
		WHERE resource_id = ? AND date_start <= ? AND date_end >= ?
		ORDER BY date_start, id`
	rows, err := r.db.QueryContext(ctx, query,
		resourceID,
		rng.End.Format(dateLayout),
		rng.Start.Format(dateLayout),
	)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing resource assignments", Err: err}
	}
	return collectAssignments(rows)
}

func (r *SQLiteAssignmentRepo) ListAll(ctx context.Context) ([]*domain.AssignmentPeriod, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment_periods ORDER BY project_id, site, skill, resource_id, date_start`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing assignment periods", Err: err}
	}
	return collectAssignments(rows)
}

func (r *SQLiteAssignmentRepo) ListGroups(ctx context.Context) ([]domain.GroupKey, error) {
	query := `SELECT DISTINCT project_id, site, skill, resource_id FROM assignment_periods
		ORDER BY project_id, site, skill, resource_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing assignment groups", Err: err}
	}
	defer rows.Close()

	var keys []domain.GroupKey
	for rows.Next() {
		var k domain.GroupKey
		if err := rows.Scan(&k.ProjectID, &k.Site, &k.Skill, &k.ResourceID); err != nil {
			return nil, &domain.StoreError{Op: "scanning assignment group", Err: err}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func scanAssignment(row rowScanner) (*domain.AssignmentPeriod, error) {
	var a domain.AssignmentPeriod
	var start, end, load, createdAt, updatedAt string
	var forced int
	if err := row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.Site,
		&a.ResourceID,
		&a.Skill,
		&start,
		&end,
		&load,
		&forced,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	a.DateStart = parseDate(start)
	a.DateEnd = parseDate(end)
	a.Load = parseLoad(load)
	a.Forced = intToBool(forced)
	a.CreatedAt = parseTimestamp(createdAt)
	a.UpdatedAt = parseTimestamp(updatedAt)
	return &a, nil
}

func collectAssignments(rows *sql.Rows) ([]*domain.AssignmentPeriod, error) {
	defer rows.Close()
	var out []*domain.AssignmentPeriod
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment period: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
