// Package repository provides PostgreSQL persistence for matches and
// backtest reports.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/value-better/internal/backtest"
	"github.com/yourusername/value-better/internal/models"
)

// MatchRepository persists settled matches with their estimates and prices.
type MatchRepository interface {
	Save(ctx context.Context, match *models.Match) error
	SaveBatch(ctx context.Context, matches []models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error)
	Count(ctx context.Context) (int, error)
}

// ReportRepository persists finished backtest reports.
type ReportRepository interface {
	Save(ctx context.Context, report *backtest.Report) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*backtest.Report, error)
	GetLatest(ctx context.Context, limit int) ([]ReportSummary, error)
}

// ReportSummary is the headline row for report listings; the full report
// body stays in the jsonb column until requested.
type ReportSummary struct {
	ID           uuid.UUID `json:"id"`
	RunAt        time.Time `json:"run_at"`
	Strategy     string    `json:"strategy"`
	FinalBalance float64   `json:"final_balance"`
	ROIPct       float64   `json:"roi_pct"`
	TotalBets    int       `json:"total_bets"`
	SharpeRatio  float64   `json:"sharpe_ratio"`
	MaxDrawdown  float64   `json:"max_drawdown"`
}
