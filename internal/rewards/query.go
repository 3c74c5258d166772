package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/reward-points/internal/apperr"
	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

// QueryService serves read-only views of accrued points.
type QueryService struct {
	customers storage.CustomerStore
	points    storage.RewardPointsStore
}

// NewQueryService constructs the service.
func NewQueryService(customers storage.CustomerStore, points storage.RewardPointsStore) *QueryService {
	return &QueryService{customers: customers, points: points}
}

// GetForPeriod returns the customer's total for the period. A period without
// any record yields an unsaved zero-point record.
func (s *QueryService) GetForPeriod(ctx context.Context, customerID int64, period models.Period) (models.RewardPoints, error) {
	if !period.Valid() {
		return models.RewardPoints{}, apperr.Validation(fmt.Sprintf("invalid period: month %d, year %d", period.Month, period.Year))
	}
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return models.RewardPoints{}, err
	}

	rows, err := s.points.FindRewardPoints(ctx, customerID, period)
	if err != nil {
		return models.RewardPoints{}, apperr.Internal("failed to load reward points", err)
	}

	result := models.RewardPoints{CustomerID: customerID, Month: period.Month, Year: period.Year}
	for _, row := range rows {
		result.Points += row.Points
	}
	if len(rows) == 1 {
		result.ID = rows[0].ID
	}
	return result, nil
}

// GetAll returns every period record of the customer. An empty list is a valid result.
func (s *QueryService) GetAll(ctx context.Context, customerID int64) ([]models.RewardPoints, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	rows, err := s.points.ListRewardPoints(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal("failed to load reward points", err)
	}
	if rows == nil {
		rows = []models.RewardPoints{}
	}
	return rows, nil
}

func (s *QueryService) ensureCustomer(ctx context.Context, customerID int64) error {
	if _, err := s.customers.FindCustomerByID(ctx, customerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("customer not found")
		}
		return apperr.Internal("failed to load customer", err)
	}
	return nil
}
