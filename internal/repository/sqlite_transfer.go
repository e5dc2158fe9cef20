package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// SQLiteTransferRepo implements TransferRepo.
type SQLiteTransferRepo struct {
	db   db.DBTX
	feed *ChangeFeed
}

func NewSQLiteTransferRepo(dbtx db.DBTX, feed *ChangeFeed) *SQLiteTransferRepo {
	return &SQLiteTransferRepo{db: dbtx, feed: feed}
}

var _ TransferRepo = (*SQLiteTransferRepo)(nil)

const transferColumns = `id, resource_id, origin_site, destination_site, date_start, date_end, status, created_at, updated_at`

func (r *SQLiteTransferRepo) Create(ctx context.Context, t *domain.TransferRecord) error {
	query := `INSERT INTO transfer_records (` + transferColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ResourceID,
		t.OriginSite,
		t.DestinationSite,
		domain.Day(t.DateStart).Format(dateLayout),
		domain.Day(t.DateEnd).Format(dateLayout),
		string(t.Status),
		t.CreatedAt.UTC().Format(timestampLayout),
		t.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return &domain.StoreError{Op: "inserting transfer record", Err: err}
	}
	publish(r.feed, Event{Table: TableTransfers, Op: OpInsert, ID: t.ID, Record: t})
	return nil
}

func (r *SQLiteTransferRepo) GetByID(ctx context.Context, id string) (*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_records WHERE id = ?`
	t, err := scanTransfer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "transfer record", ID: id}
		}
		return nil, &domain.StoreError{Op: "getting transfer record", Err: err}
	}
	return t, nil
}

func (r *SQLiteTransferRepo) Update(ctx context.Context, t *domain.TransferRecord) error {
	query := `UPDATE transfer_records
		SET date_start = ?, date_end = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		domain.Day(t.DateStart).Format(dateLayout),
		domain.Day(t.DateEnd).Format(dateLayout),
		string(t.Status),
		t.UpdatedAt.UTC().Format(timestampLayout),
		t.ID,
	)
	if err != nil {
		return &domain.StoreError{Op: "updating transfer record", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Kind: "transfer record", ID: t.ID}
	}
	publish(r.feed, Event{Table: TableTransfers, Op: OpUpdate, ID: t.ID, Record: t})
	return nil
}

func (r *SQLiteTransferRepo) ListByTriple(ctx context.Context, resourceID, originSite, destinationSite string) ([]*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_records
		WHERE resource_id = ? AND origin_site = ? AND destination_site = ?
		ORDER BY date_start`
	rows, err := r.db.QueryContext(ctx, query, resourceID, originSite, destinationSite)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing transfer windows", Err: err}
	}
	return collectTransfers(rows)
}

func (r *SQLiteTransferRepo) ListByResource(ctx context.Context, resourceID string) ([]*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_records
		WHERE resource_id = ?
		ORDER BY date_start`
	rows, err := r.db.QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing resource transfers", Err: err}
	}
	return collectTransfers(rows)
}

func (r *SQLiteTransferRepo) ListPlannedDue(ctx context.Context, asOf time.Time) ([]*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_records
		WHERE status = ? AND date_start <= ?
		ORDER BY date_start`
	rows, err := r.db.QueryContext(ctx, query,
		string(domain.TransferPlanned),
		domain.Day(asOf).Format(dateLayout),
	)
	if err != nil {
		return nil, &domain.StoreError{Op: "listing due transfers", Err: err}
	}
	return collectTransfers(rows)
}

func scanTransfer(row rowScanner) (*domain.TransferRecord, error) {
	var t domain.TransferRecord
	var start, end, status, createdAt, updatedAt string
	if err := row.Scan(
		&t.ID,
		&t.ResourceID,
		&t.OriginSite,
		&t.DestinationSite,
		&start,
		&end,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	t.DateStart = parseDate(start)
	t.DateEnd = parseDate(end)
	t.Status = domain.TransferStatus(status)
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}

func collectTransfers(rows *sql.Rows) ([]*domain.TransferRecord, error) {
	defer rows.Close()
	var out []*domain.TransferRecord
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer record: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
