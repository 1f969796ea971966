package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats are the headline numbers shown next to the chat.
type Stats struct {
	TotalPrints  int64           `json:"total_prints"`
	SuccessCount int64           `json:"success_count"`
	SuccessRate  float64         `json:"success_rate"` // percent
	TotalKg      float64         `json:"total_kg"`
	TotalHours   float64         `json:"total_hours"`
	TotalCost    float64         `json:"total_cost_usd"`
	ByMaterial   []MaterialCount `json:"by_material"`
	ByPrinter    []PrinterRate   `json:"by_printer"`
}

type MaterialCount struct {
	Material string `json:"material"`
	Count    int64  `json:"count"`
}

type PrinterRate struct {
	Printer     string  `json:"printer"`
	SuccessRate float64 `json:"success_rate"` // percent
}

// LoadStats computes dashboard statistics from print_jobs.
func LoadStats(ctx context.Context, path string) (*Stats, error) {
	db, err := OpenReadOnly(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	s := &Stats{}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM print_jobs`).Scan(&s.TotalPrints)
	if err != nil {
		return nil, fmt.Errorf("failed to count prints: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM print_jobs WHERE success_status = 1`).Scan(&s.SuccessCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count successful prints: %w", err)
	}

	if s.TotalPrints > 0 {
		s.SuccessRate = float64(s.SuccessCount) / float64(s.TotalPrints) * 100
	}

	// SUM over an empty table is NULL
	var kg, hours, cost sql.NullFloat64
	err = db.QueryRowContext(ctx, `
		SELECT
			SUM(weight_used_grams) / 1000.0,
			SUM(print_time_hours),
			SUM(cost_usd)
		FROM print_jobs`).Scan(&kg, &hours, &cost)
	if err != nil {
		return nil, fmt.Errorf("failed to sum totals: %w", err)
	}
	s.TotalKg, s.TotalHours, s.TotalCost = kg.Float64, hours.Float64, cost.Float64

	s.ByMaterial, err = materialCounts(ctx, db)
	if err != nil {
		return nil, err
	}

	s.ByPrinter, err = printerRates(ctx, db)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func materialCounts(ctx context.Context, db *sql.DB) ([]MaterialCount, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT material_type, COUNT(*) AS count
		FROM print_jobs
		GROUP BY material_type
		ORDER BY count DESC, material_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to group by material: %w", err)
	}
	defer rows.Close()

	var out []MaterialCount
	for rows.Next() {
		var mc MaterialCount
		if err := rows.Scan(&mc.Material, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan material count: %w", err)
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

func printerRates(ctx context.Context, db *sql.DB) ([]PrinterRate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT printer_name, AVG(success_status) * 100 AS success_rate
		FROM print_jobs
		GROUP BY printer_name
		ORDER BY printer_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to group by printer: %w", err)
	}
	defer rows.Close()

	var out []PrinterRate
	for rows.Next() {
		var pr PrinterRate
		if err := rows.Scan(&pr.Printer, &pr.SuccessRate); err != nil {
			return nil, fmt.Errorf("failed to scan printer rate: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
