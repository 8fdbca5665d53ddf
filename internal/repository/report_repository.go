package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-better/internal/backtest"
	"github.com/yourusername/value-better/internal/database"
	"github.com/yourusername/value-better/internal/models"
)

const errScanReport = "failed to scan report: %w"

// PostgresReportRepository implements ReportRepository for PostgreSQL.
// Headline metrics get columns for listing queries; the full report body
// lives in jsonb.
type PostgresReportRepository struct {
	db *database.DB
}

// NewPostgresReportRepository creates a report repository.
func NewPostgresReportRepository(db *database.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

// Save inserts a finished report and returns its row ID. The row ID is
// derived from the report body, so re-saving an identical run is an upsert
// rather than a duplicate.
func (r *PostgresReportRepository) Save(ctx context.Context, report *backtest.Report) (uuid.UUID, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, body)

	query := `
		INSERT INTO backtest_reports (
			id, run_at, strategy, final_balance, roi_pct, total_bets,
			sharpe_ratio, max_drawdown, body
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET run_at = EXCLUDED.run_at
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		id, time.Now().UTC(), string(report.Settings.Strategy),
		report.FinalBalance, report.ROIPct, report.TotalBets,
		report.SharpeRatio, report.MaxDrawdown, body,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetByID retrieves the full report body.
func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*backtest.Report, error) {
	var body []byte
	err := r.db.GetPool().QueryRow(ctx, `SELECT body FROM backtest_reports WHERE id = $1`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf(errScanReport, err)
	}

	var report backtest.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf(errScanReport, err)
	}
	return &report, nil
}

// GetLatest lists the most recent report summaries.
func (r *PostgresReportRepository) GetLatest(ctx context.Context, limit int) ([]ReportSummary, error) {
	query := `
		SELECT id, run_at, strategy, final_balance, roi_pct, total_bets, sharpe_ratio, max_drawdown
		FROM backtest_reports ORDER BY run_at DESC LIMIT $1
	`
	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var summaries []ReportSummary
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(
			&s.ID, &s.RunAt, &s.Strategy, &s.FinalBalance,
			&s.ROIPct, &s.TotalBets, &s.SharpeRatio, &s.MaxDrawdown,
		); err != nil {
			return nil, fmt.Errorf(errScanReport, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
