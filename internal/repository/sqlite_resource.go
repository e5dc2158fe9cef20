package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// SQLiteResourceRepo implements ResourceRepo. Skills live in a child table
// and are loaded with every resource.
type SQLiteResourceRepo struct {
	db db.DBTX
}

func NewSQLiteResourceRepo(dbtx db.DBTX) *SQLiteResourceRepo {
	return &SQLiteResourceRepo{db: dbtx}
}

var _ ResourceRepo = (*SQLiteResourceRepo)(nil)

func (r *SQLiteResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	query := `INSERT INTO resources (id, name, home_site, active) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, res.ID, res.Name, res.HomeSite, boolToInt(res.Active)); err != nil {
		return &domain.StoreError{Op: "inserting resource", Err: err}
	}
	for _, s := range res.Skills {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO resource_skills (resource_id, skill, is_primary) VALUES (?, ?, ?)`,
			res.ID, s.Skill, boolToInt(s.IsPrimary),
		); err != nil {
			return &domain.StoreError{Op: "inserting resource skill", Err: err}
		}
	}
	return nil
}

func (r *SQLiteResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	query := `SELECT id, name, home_site, active FROM resources WHERE id = ?`
	var res domain.Resource
	var active int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&res.ID, &res.Name, &res.HomeSite, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "resource", ID: id}
		}
		return nil, &domain.StoreError{Op: "getting resource", Err: err}
	}
	res.Active = intToBool(active)
	if res.Skills, err = r.loadSkills(ctx, id); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *SQLiteResourceRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error) {
	query := `SELECT id, name, home_site, active FROM resources`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing resources", Err: err}
	}
	defer rows.Close()

	var out []*domain.Resource
	for rows.Next() {
		var res domain.Resource
		var active int
		if err := rows.Scan(&res.ID, &res.Name, &res.HomeSite, &active); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		res.Active = intToBool(active)
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, res := range out {
		if res.Skills, err = r.loadSkills(ctx, res.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteResourceRepo) loadSkills(ctx context.Context, resourceID string) ([]domain.ResourceSkill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill, is_primary FROM resource_skills WHERE resource_id = ? ORDER BY skill`,
		resourceID,
	)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing resource skills", Err: err}
	}
	defer rows.Close()

	var skills []domain.ResourceSkill
	for rows.Next() {
		var s domain.ResourceSkill
		var primary int
		if err := rows.Scan(&s.Skill, &primary); err != nil {
			return nil, fmt.Errorf("scanning resource skill: %w", err)
		}
		s.IsPrimary = intToBool(primary)
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
