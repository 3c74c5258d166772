package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/reward-points/internal/models"
)

const rewardPointsColumns = `id, customer_id, points, month, year`

// FindRewardPoints returns the rows stored for a customer period.
func (s *Store) FindRewardPoints(ctx context.Context, customerID int64, period models.Period) ([]models.RewardPoints, error) {
	const query = `
		SELECT ` + rewardPointsColumns + `
		FROM reward_points
		WHERE customer_id = $1 AND month = $2 AND year = $3`
	return s.queryRewardPoints(ctx, query, customerID, period.Month, period.Year)
}

// ListRewardPoints returns every period total of a customer in storage order.
func (s *Store) ListRewardPoints(ctx context.Context, customerID int64) ([]models.RewardPoints, error) {
	const query = `SELECT ` + rewardPointsColumns + ` FROM reward_points WHERE customer_id = $1 ORDER BY id`
	return s.queryRewardPoints(ctx, query, customerID)
}

// SaveRewardPoints upserts the period row; the unique (customer_id, month, year)
// constraint keeps a single row per period.
func (s *Store) SaveRewardPoints(ctx context.Context, rp models.RewardPoints) (models.RewardPoints, error) {
	const query = `
		INSERT INTO reward_points (customer_id, points, month, year)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id, month, year) DO UPDATE SET points = EXCLUDED.points
		RETURNING ` + rewardPointsColumns
	row := s.pool.QueryRow(ctx, query, rp.CustomerID, rp.Points, rp.Month, rp.Year)
	saved, err := scanRewardPoints(row)
	if err != nil {
		return models.RewardPoints{}, fmt.Errorf("save reward points: %w", translate(err))
	}
	return saved, nil
}

func (s *Store) queryRewardPoints(ctx context.Context, query string, args ...any) ([]models.RewardPoints, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reward points: %w", err)
	}
	defer rows.Close()

	out := make([]models.RewardPoints, 0)
	for rows.Next() {
		rp, err := scanRewardPoints(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward points: %w", err)
		}
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reward points: %w", err)
	}
	return out, nil
}

func scanRewardPoints(row pgx.Row) (models.RewardPoints, error) {
	var rp models.RewardPoints
	if err := row.Scan(&rp.ID, &rp.CustomerID, &rp.Points, &rp.Month, &rp.Year); err != nil {
		return models.RewardPoints{}, err
	}
	return rp, nil
}
