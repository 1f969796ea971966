package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"printlab/logging"
)

var (
	printers = []string{
		"Creality Ender 3 V2", "Bambu Lab X1 Carbon", "Prusa MK4",
		"AnyCubic Kobra 2", "Qidi X-Max 3", "Elegoo Neptune 4",
	}

	materials = []string{"PLA", "PETG", "ABS", "TPU", "ASA", "Nylon"}

	brands = []string{
		"eSun", "Polymaker", "Prusament", "Bambu Lab",
		"Hatchbox", "Overture", "Sunlu",
	}

	categories = []string{
		"Functional Parts", "Miniatures", "Prototypes",
		"Replacement Parts", "Art/Decor", "Engineering Models",
	}

	failureReasons = []string{
		"Bed adhesion lost", "Nozzle clog", "Layer shift",
		"Spaghetti monster", "Power outage", "Filament runout",
		"Heat creep", "Model warping",
	}

	modelsByCategory = map[string][]string{
		"Functional Parts": {
			"Headphone Stand", "Cable Organizer", "tool holder", "Wall mount",
			"Laptop Stand", "Drawer divider", "SD card holder",
		},
		"Miniatures": {
			"D&D Character", "Space Marine", "Dragon", "Chess Set",
			"Terrain piece", "Fantasy castle",
		},
		"Prototypes": {
			"Case V1", "Gear mechanism", "Bracket test", "Hinge prototype",
			"Enclosure design",
		},
		"Replacement Parts": {
			"Dishwasher wheel", "Knob replacement", "Battery cover",
			"Vacuum clip", "Fridge handle",
		},
		"Art/Decor": {
			"Voronoi Vase", "Lithophane", "Geometric Planter",
			"Articulated Lizard", "Moon Lamp",
		},
		"Engineering Models": {
			"Planetary Gear", "Engine cutout", "Turbine blade",
			"Suspension model", "Bridge truss",
		},
	}

	layerHeights = []float64{0.1, 0.15, 0.2, 0.24, 0.3}
	infills      = []int{10, 15, 20, 40, 100}
)

const DefaultSeedRows = 550

// PrintJob is one generated row of print_jobs.
type PrintJob struct {
	Date          time.Time
	ModelName     string
	PrinterName   string
	MaterialType  string
	FilamentBrand string
	WeightGrams   float64
	PrintHours    float64
	Success       bool
	FailureReason sql.NullString
	LayerHeight   float64
	InfillPercent int
	NozzleTemp    int
	BedTemp       int
	CostUSD       float64
	Category      string
}

type SeedOptions struct {
	Rows int
	// Seed makes the data set reproducible. Zero picks a random seed.
	Seed uint64
	// Now anchors the "last 365 days" window. Zero means time.Now().
	Now time.Time
}

// Seed recreates print_jobs in the database at path and fills it with
// synthetic but plausible print history. It returns the number of rows
// written.
func Seed(ctx context.Context, path string, opts SeedOptions) (int, error) {
	if opts.Rows <= 0 {
		opts.Rows = DefaultSeedRows
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := CreateSchema(ctx, db); err != nil {
		return 0, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	jobs := make([]PrintJob, opts.Rows)
	for i := range jobs {
		jobs[i] = generateJob(rng, opts.Now)
	}

	if err := InsertJobs(ctx, db, jobs); err != nil {
		return 0, err
	}

	logging.Named("storage").Info("Seeded print_jobs",
		zap.String("path", path),
		zap.Int("rows", len(jobs)),
		zap.Uint64("seed", seed))

	return len(jobs), nil
}

// InsertJobs writes jobs in a single transaction.
func InsertJobs(ctx context.Context, db *sql.DB, jobs []PrintJob) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO print_jobs (
			date, model_name, printer_name, material_type, filament_brand,
			weight_used_grams, print_time_hours, success_status, failure_reason,
			layer_height, infill_percentage, nozzle_temp, bed_temp, cost_usd, project_category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, j := range jobs {
		_, err := stmt.ExecContext(ctx,
			j.Date.Format("2006-01-02 15:04:05"), j.ModelName, j.PrinterName, j.MaterialType, j.FilamentBrand,
			j.WeightGrams, j.PrintHours, j.Success, j.FailureReason,
			j.LayerHeight, j.InfillPercent, j.NozzleTemp, j.BedTemp, j.CostUSD, j.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert print job: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit print jobs: %w", err)
	}
	return nil
}

func generateJob(rng *rand.Rand, now time.Time) PrintJob {
	pick := func(items []string) string { return items[rng.IntN(len(items))] }
	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	between := func(lo, hi int) int { return lo + rng.IntN(hi-lo+1) }

	daysBack := between(1, 365)
	category := pick(categories)
	modelName := pick(modelsByCategory[category])
	if rng.Float64() > 0.7 {
		modelName += fmt.Sprintf(" v%d", between(1, 5))
	}

	printer := pick(printers)
	material := pick(materials)
	brand := pick(brands)

	weight := uniform(5, 500)
	if category == "Miniatures" {
		weight = uniform(2, 50)
	}

	// Roughly 12 g/hour at standard speed.
	speed := 1.0
	if strings.Contains(printer, "Bambu") {
		speed = 3.0
	}
	if strings.Contains(printer, "Ender") {
		speed = 0.8
	}
	printTime := round2(weight / 12.0 / speed * uniform(0.8, 1.2))

	failChance := 0.15
	if strings.Contains(printer, "Bambu") || strings.Contains(printer, "Prusa") {
		failChance = 0.05
	}

	job := PrintJob{
		Date:          now.AddDate(0, 0, -daysBack),
		ModelName:     modelName,
		PrinterName:   printer,
		MaterialType:  material,
		FilamentBrand: brand,
		Success:       rng.Float64() >= failChance,
		LayerHeight:   layerHeights[rng.IntN(len(layerHeights))],
		InfillPercent: infills[rng.IntN(len(infills))],
		Category:      category,
	}

	if !job.Success {
		job.FailureReason = sql.NullString{String: pick(failureReasons), Valid: true}
		// Failed prints stop midway and waste part of the material.
		printTime *= uniform(0.1, 0.9)
		weight *= uniform(0.1, 0.9)
	}

	if category == "Miniatures" {
		job.LayerHeight = 0.1
	}

	job.NozzleTemp, job.BedTemp = 200, 60
	switch material {
	case "PLA":
		job.NozzleTemp, job.BedTemp = between(195, 215), between(50, 65)
	case "PETG":
		job.NozzleTemp, job.BedTemp = between(230, 250), between(70, 85)
	case "ABS", "ASA":
		job.NozzleTemp, job.BedTemp = between(240, 260), between(90, 110)
	case "TPU":
		job.NozzleTemp, job.BedTemp = between(210, 230), between(40, 60)
	}

	costPerGram := 0.025
	if brand == "Prusament" || brand == "Bambu Lab" {
		costPerGram = 0.035
	}

	job.WeightGrams = round2(weight)
	job.PrintHours = round2(printTime)
	job.CostUSD = round2(weight * costPerGram)
	return job
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
