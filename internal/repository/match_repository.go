package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-better/internal/database"
	"github.com/yourusername/value-better/internal/models"
)

const errScanMatch = "failed to scan match: %w"

// PostgresMatchRepository implements MatchRepository for PostgreSQL.
// Estimates and prices are stored as jsonb; their shapes evolve with the
// model and don't warrant relational columns.
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a match repository.
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Save upserts one match keyed by ID.
func (r *PostgresMatchRepository) Save(ctx context.Context, match *models.Match) error {
	estimate, prices, err := marshalMatchBlobs(match)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches (
			id, home_team, away_team, kickoff_time, home_goals, away_goals, estimate, prices
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			estimate = EXCLUDED.estimate,
			prices = EXCLUDED.prices
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		match.ID, match.HomeTeam, match.AwayTeam, match.KickoffTime,
		match.HomeGoals, match.AwayGoals, estimate, prices,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

// SaveBatch upserts matches in one transaction.
func (r *PostgresMatchRepository) SaveBatch(ctx context.Context, matches []models.Match) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO matches (
				id, home_team, away_team, kickoff_time, home_goals, away_goals, estimate, prices
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO UPDATE SET
				home_goals = EXCLUDED.home_goals,
				away_goals = EXCLUDED.away_goals,
				estimate = EXCLUDED.estimate,
				prices = EXCLUDED.prices
		`
		for i := range matches {
			m := &matches[i]
			estimate, prices, err := marshalMatchBlobs(m)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query,
				m.ID, m.HomeTeam, m.AwayTeam, m.KickoffTime,
				m.HomeGoals, m.AwayGoals, estimate, prices,
			); err != nil {
				return fmt.Errorf("failed to save match %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves one match.
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `
		SELECT id, home_team, away_team, kickoff_time, home_goals, away_goals, estimate, prices
		FROM matches WHERE id = $1
	`
	match, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return match, nil
}

// GetByDateRange retrieves matches kicked off in [start, end] in
// chronological order.
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	query := `
		SELECT id, home_team, away_team, kickoff_time, home_goals, away_goals, estimate, prices
		FROM matches WHERE kickoff_time >= $1 AND kickoff_time <= $2
		ORDER BY kickoff_time ASC
	`
	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// Count returns the number of stored matches.
func (r *PostgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func marshalMatchBlobs(match *models.Match) ([]byte, []byte, error) {
	estimate, err := json.Marshal(match.Estimate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal estimate: %w", err)
	}
	prices, err := json.Marshal(match.Prices)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal prices: %w", err)
	}
	return estimate, prices, nil
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var (
		match    models.Match
		estimate []byte
		prices   []byte
	)
	if err := row.Scan(
		&match.ID, &match.HomeTeam, &match.AwayTeam, &match.KickoffTime,
		&match.HomeGoals, &match.AwayGoals, &estimate, &prices,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf(errScanMatch, err)
	}
	if err := json.Unmarshal(estimate, &match.Estimate); err != nil {
		return nil, fmt.Errorf(errScanMatch, err)
	}
	if err := json.Unmarshal(prices, &match.Prices); err != nil {
		return nil, fmt.Errorf(errScanMatch, err)
	}
	return &match, nil
}
