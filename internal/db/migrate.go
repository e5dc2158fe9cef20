package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		home_site TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS resource_skills (
		resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
		skill TEXT NOT NULL,
		is_primary INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (resource_id, skill)
	)`,

	`CREATE TABLE IF NOT EXISTS demand_periods (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		site TEXT NOT NULL,
		skill TEXT NOT NULL,
		date_start TEXT NOT NULL,
		date_end TEXT NOT NULL,
		required_headcount INTEGER NOT NULL DEFAULT 0,
		forced INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_demand_group
		ON demand_periods(project_id, site, skill)`,

	`CREATE TABLE IF NOT EXISTS assignment_periods (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		site TEXT NOT NULL,
		resource_id TEXT NOT NULL REFERENCES resources(id),
		skill TEXT NOT NULL,
		date_start TEXT NOT NULL,
		date_end TEXT NOT NULL,
		load TEXT NOT NULL DEFAULT '1',
		forced INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignment_group
		ON assignment_periods(project_id, site, skill, resource_id)`,

	`CREATE INDEX IF NOT EXISTS idx_assignment_resource_dates
		ON assignment_periods(resource_id, date_start, date_end)`,

	`CREATE TABLE IF NOT EXISTS absence_periods (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL REFERENCES resources(id),
		site TEXT NOT NULL,
		date_start TEXT NOT NULL,
		date_end TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_absence_resource_dates
		ON absence_periods(resource_id, date_start, date_end)`,

	`CREATE TABLE IF NOT EXISTS transfer_records (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL REFERENCES resources(id),
		origin_site TEXT NOT NULL,
		destination_site TEXT NOT NULL,
		date_start TEXT NOT NULL,
		date_end TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_transfer_triple
		ON transfer_records(resource_id, origin_site, destination_site)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		record_id TEXT,
		created_at TEXT NOT NULL
	)`,
}
