// Package storage owns the print log database: opening it, generating the
// synthetic demo data set, and computing the dashboard numbers.
//
// The assistant itself only ever reads print_jobs; everything here that
// writes is setup tooling run from the command line.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

// PrintJobsSchema is the single table the assistant queries.
const PrintJobsSchema = `
CREATE TABLE print_jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date DATETIME,
	model_name TEXT,
	printer_name TEXT,
	material_type TEXT,
	filament_brand TEXT,
	weight_used_grams REAL,
	print_time_hours REAL,
	success_status BOOLEAN,
	failure_reason TEXT,
	layer_height REAL,
	infill_percentage INTEGER,
	nozzle_temp INTEGER,
	bed_temp INTEGER,
	cost_usd REAL,
	project_category TEXT
)`

// Open opens the SQLite file at path and checks the connection. Callers
// own the handle and are expected to close it when their call finishes;
// nothing here pools connections.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenReadOnly opens an existing database with SQLite's mode=ro, so a
// missing file is an error instead of a new empty database and no statement
// can write through the handle.
func OpenReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	return Open(ctx, readOnlyDSN(path))
}

func readOnlyDSN(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := url.URL{Scheme: "file", Path: abs, RawQuery: "mode=ro"}
	return u.String()
}

// CreateSchema drops and recreates print_jobs.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS print_jobs`); err != nil {
		return fmt.Errorf("failed to drop print_jobs: %w", err)
	}
	if _, err := db.ExecContext(ctx, PrintJobsSchema); err != nil {
		return fmt.Errorf("failed to create print_jobs: %w", err)
	}
	return nil
}
