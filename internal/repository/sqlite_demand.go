package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// SQLiteDemandRepo implements DemandRepo using a SQLite database. Writes are
// published on the change feed when one is attached.
type SQLiteDemandRepo struct {
	db   db.DBTX
	feed *ChangeFeed
}

// NewSQLiteDemandRepo creates a demand repository. feed may be nil to
// suppress change events (bulk consolidation passes do this).
func NewSQLiteDemandRepo(dbtx db.DBTX, feed *ChangeFeed) *SQLiteDemandRepo {
	return &SQLiteDemandRepo{db: dbtx, feed: feed}
}

var _ DemandRepo = (*SQLiteDemandRepo)(nil)

const demandColumns = `id, project_id, site, skill, date_start, date_end, required_headcount, forced, created_at, updated_at`

func (r *SQLiteDemandRepo) Create(ctx context.Context, d *domain.DemandPeriod) error {
	query := `INSERT INTO demand_periods (` + demandColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ProjectID,
		d.Site,
		d.Skill,
		domain.Day(d.DateStart).Format(dateLayout),
		domain.Day(d.DateEnd).Format(dateLayout),
		d.RequiredHeadcount,
		boolToInt(d.Forced),
		d.CreatedAt.UTC().Format(timestampLayout),
		d.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return &domain.StoreError{Op: "inserting demand period", Err: err}
	}
	publish(r.feed, Event{Table: TableDemands, Op: OpInsert, ID: d.ID, Record: d})
	return nil
}

func (r *SQLiteDemandRepo) GetByID(ctx context.Context, id string) (*domain.DemandPeriod, error) {
	query := `SELECT ` + demandColumns + ` FROM demand_periods WHERE id = ?`
	d, err := scanDemand(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "demand period", ID: id}
		}
		return nil, &domain.StoreError{Op: "getting demand period", Err: err}
	}
	return d, nil
}

func (r *SQLiteDemandRepo) Update(ctx context.Context, d *domain.DemandPeriod) error {
	query := `UPDATE demand_periods
		SET project_id = ?, site = ?, skill = ?, date_start = ?, date_end = ?,
			required_headcount = ?, forced = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		d.ProjectID,
		d.Site,
		d.Skill,
		domain.Day(d.DateStart).Format(dateLayout),
		domain.Day(d.DateEnd).Format(dateLayout),
		d.RequiredHeadcount,
		boolToInt(d.Forced),
		d.UpdatedAt.UTC().Format(timestampLayout),
		d.ID,
	)
	if err != nil {
		return &domain.StoreError{Op: "updating demand period", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Kind: "demand period", ID: d.ID}
	}
	publish(r.feed, Event{Table: TableDemands, Op: OpUpdate, ID: d.ID, Record: d})
	return nil
}

func (r *SQLiteDemandRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM demand_periods WHERE id = ?`, id)
	if err != nil {
		return &domain.StoreError{Op: "deleting demand period", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Kind: "demand period", ID: id}
	}
	publish(r.feed, Event{Table: TableDemands, Op: OpDelete, ID: id})
	return nil
}

func (r *SQLiteDemandRepo) ListByGroup(ctx context.Context, key domain.GroupKey) ([]*domain.DemandPeriod, error) {
	query := `SELECT ` + demandColumns + ` FROM demand_periods
		WHERE project_id = ? AND site = ? AND skill = ?
		ORDER BY date_start, id`
	rows, err := r.db.QueryContext(ctx, query, key.ProjectID, key.Site, key.Skill)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing demand group", Err: err}
	}
	return collectDemands(rows)
}

func (r *SQLiteDemandRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.DemandPeriod, error) {
	query := `SELECT ` + demandColumns + ` FROM demand_periods
		WHERE project_id = ?
		ORDER BY site, skill, date_start`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing project demands", Err: err}
	}
	return collectDemands(rows)
}

func (r *SQLiteDemandRepo) ListAll(ctx context.Context) ([]*domain.DemandPeriod, error) {
	query := `SELECT ` + demandColumns + ` FROM demand_periods ORDER BY project_id, site, skill, date_start`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing demand periods", Err: err}
	}
	return collectDemands(rows)
}

func (r *SQLiteDemandRepo) ListGroups(ctx context.Context) ([]domain.GroupKey, error) {
	query := `SELECT DISTINCT project_id, site, skill FROM demand_periods
		ORDER BY project_id, site, skill`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing demand groups", Err: err}
	}
	defer rows.Close()

	var keys []domain.GroupKey
	for rows.Next() {
		var k domain.GroupKey
		if err := rows.Scan(&k.ProjectID, &k.Site, &k.Skill); err != nil {
			return nil, &domain.StoreError{Op: "scanning demand group", Err: err}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDemand(row rowScanner) (*domain.DemandPeriod, error) {
	var d domain.DemandPeriod
	var start, end, createdAt, updatedAt string
	var forced int
	if err := row.Scan(
		&d.ID,
		&d.ProjectID,
		&d.Site,
		&d.Skill,
		&start,
		&end,
		&d.RequiredHeadcount,
		&forced,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	d.DateStart = parseDate(start)
	d.DateEnd = parseDate(end)
	d.Forced = intToBool(forced)
	d.CreatedAt = parseTimestamp(createdAt)
	d.UpdatedAt = parseTimestamp(updatedAt)
	return &d, nil
}

func collectDemands(rows *sql.Rows) ([]*domain.DemandPeriod, error) {
	defer rows.Close()
	var out []*domain.DemandPeriod
	for rows.Next() {
		d, err := scanDemand(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning demand period: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
