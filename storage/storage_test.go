package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedWritesRequestedRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "prints.db")

	n, err := Seed(ctx, path, SeedOptions{Rows: 120, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 120, n)

	db, err := Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM print_jobs`).Scan(&count))
	assert.Equal(t, 120, count)

	// Failures always carry a reason, successes never do.
	var bad int
	require.NoError(t, db.QueryRow(`
		SELECT COUNT(*) FROM print_jobs
		WHERE (success_status = 0 AND failure_reason IS NULL)
		   OR (success_status = 1 AND failure_reason IS NOT NULL)`).Scan(&bad))
	assert.Zero(t, bad)

	var minis int
	require.NoError(t, db.QueryRow(`
		SELECT COUNT(*) FROM print_jobs
		WHERE project_category = 'Miniatures' AND layer_height != 0.1`).Scan(&minis))
	assert.Zero(t, minis)
}

func TestSeedIsReproducible(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dir := t.TempDir()

	a := filepath.Join(dir, "a.db")
	b := filepath.Join(dir, "b.db")
	_, err := Seed(ctx, a, SeedOptions{Rows: 50, Seed: 42, Now: now})
	require.NoError(t, err)
	_, err = Seed(ctx, b, SeedOptions{Rows: 50, Seed: 42, Now: now})
	require.NoError(t, err)

	sa, err := LoadStats(ctx, a)
	require.NoError(t, err)
	sb, err := LoadStats(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}

func TestSeedReplacesExistingTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prints.db")

	_, err := Seed(ctx, path, SeedOptions{Rows: 30, Seed: 1})
	require.NoError(t, err)
	_, err = Seed(ctx, path, SeedOptions{Rows: 10, Seed: 2})
	require.NoError(t, err)

	s, err := LoadStats(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), s.TotalPrints)
}

func TestLoadStats(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prints.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, CreateSchema(ctx, db))

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	jobs := []PrintJob{
		{Date: now, PrinterName: "Prusa MK4", MaterialType: "PLA", WeightGrams: 500, PrintHours: 10, Success: true, CostUSD: 12.5},
		{Date: now, PrinterName: "Prusa MK4", MaterialType: "PETG", WeightGrams: 250, PrintHours: 5, Success: false, CostUSD: 6.25},
		{Date: now, PrinterName: "Creality Ender 3 V2", MaterialType: "PLA", WeightGrams: 250, PrintHours: 5, Success: true, CostUSD: 6.25},
	}
	jobs[1].FailureReason.String, jobs[1].FailureReason.Valid = "Nozzle clog", true
	require.NoError(t, InsertJobs(ctx, db, jobs))
	require.NoError(t, db.Close())

	s, err := LoadStats(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.TotalPrints)
	assert.Equal(t, int64(2), s.SuccessCount)
	assert.InDelta(t, 66.67, s.SuccessRate, 0.01)
	assert.InDelta(t, 1.0, s.TotalKg, 1e-9)
	assert.InDelta(t, 20.0, s.TotalHours, 1e-9)
	assert.InDelta(t, 25.0, s.TotalCost, 1e-9)

	require.Len(t, s.ByMaterial, 2)
	assert.Equal(t, MaterialCount{Material: "PLA", Count: 2}, s.ByMaterial[0])

	require.Len(t, s.ByPrinter, 2)
	assert.Equal(t, "Creality Ender 3 V2", s.ByPrinter[0].Printer)
	assert.InDelta(t, 100.0, s.ByPrinter[0].SuccessRate, 1e-9)
	assert.InDelta(t, 50.0, s.ByPrinter[1].SuccessRate, 1e-9)
}

func TestLoadStatsEmptyTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prints.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, CreateSchema(ctx, db))
	require.NoError(t, db.Close())

	s, err := LoadStats(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, s.TotalPrints)
	assert.Zero(t, s.SuccessRate)
	assert.Zero(t, s.TotalCost)
	assert.Empty(t, s.ByMaterial)
}

func TestLoadStatsMissingTable(t *testing.T) {
	_, err := LoadStats(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	assert.Error(t, err)
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := OpenReadOnly(ctx, filepath.Join(dir, "missing.db"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "missing.db"))

	path := filepath.Join(dir, "prints db.sqlite")
	n, err := Seed(ctx, path, SeedOptions{Rows: 3, Seed: 1})
	require.NoError(t, err)

	db, err := OpenReadOnly(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, "DELETE FROM print_jobs")
	assert.Error(t, err, "read-only handle accepted a write")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM print_jobs").Scan(&count))
	assert.Equal(t, n, count)
}
