package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"printlab/storage"
)

// newPrintDB creates a print_jobs database with n rows and returns its path.
// Every third job fails.
func newPrintDB(t *testing.T, n int) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prints.db")

	db, err := storage.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, storage.CreateSchema(ctx, db))

	jobs := make([]storage.PrintJob, n)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := range jobs {
		jobs[i] = storage.PrintJob{
			Date:          base.Add(time.Duration(i) * time.Hour),
			ModelName:     fmt.Sprintf("Part %d", i),
			PrinterName:   "Prusa MK4",
			MaterialType:  "PLA",
			FilamentBrand: "Prusament",
			WeightGrams:   10,
			PrintHours:    1,
			Success:       i%3 != 0,
			CostUSD:       0.35,
			Category:      "Functional Parts",
		}
		if !jobs[i].Success {
			jobs[i].FailureReason.String, jobs[i].FailureReason.Valid = "Nozzle clog", true
		}
	}
	require.NoError(t, storage.InsertJobs(ctx, db, jobs))

	return path
}
