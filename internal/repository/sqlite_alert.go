package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// SQLiteAlertRepo implements AlertRepo. Alerts are append-only audit entries.
type SQLiteAlertRepo struct {
	db db.DBTX
}

func NewSQLiteAlertRepo(dbtx db.DBTX) *SQLiteAlertRepo {
	return &SQLiteAlertRepo{db: dbtx}
}

var _ AlertRepo = (*SQLiteAlertRepo)(nil)

func (r *SQLiteAlertRepo) Create(ctx context.Context, a *domain.Alert) error {
	query := `INSERT INTO alerts (id, kind, message, record_id, created_at)
		VALUES (?, ?, ?, ?, ?)`
	recordID := sql.NullString{String: a.RecordID, Valid: a.RecordID != ""}
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		string(a.Kind),
		a.Message,
		recordID,
		a.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return &domain.StoreError{Op: "inserting alert", Err: err}
	}
	return nil
}

func (r *SQLiteAlertRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, kind, message, record_id, created_at FROM alerts
		ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing alerts", Err: err}
	}
	defer rows.Close()

	var out []*domain.Alert
	for rows.Next() {
		var a domain.Alert
		var recordID sql.NullString
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Kind, &a.Message, &recordID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		if recordID.Valid {
			a.RecordID = recordID.String
		}
		a.CreatedAt = parseTimestamp(createdAt)
		out = append(out, &a)
	}
	return out, rows.Err()
}
