package rewards

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

// AccrualEngine keeps per-period point totals in step with a customer's transactions.
type AccrualEngine struct {
	points       storage.RewardPointsStore
	transactions storage.TransactionStore
	log          *zap.Logger
}

// NewAccrualEngine constructs the engine.
func NewAccrualEngine(points storage.RewardPointsStore, transactions storage.TransactionStore, log *zap.Logger) *AccrualEngine {
	return &AccrualEngine{points: points, transactions: transactions, log: log.Named("accrual")}
}

// GetOrCreate returns the stored record for the period, or an unsaved zero-point
// record when none exists yet.
func (e *AccrualEngine) GetOrCreate(ctx context.Context, customerID int64, period models.Period) (models.RewardPoints, error) {
	record, _, err := e.lookup(ctx, customerID, period)
	return record, err
}

// ApplyDelta adds (sign > 0) or subtracts (sign < 0) the points earned by tx to
// the total of the transaction's period. Totals never drop below zero, and a
// subtraction against a period without a record is a no-op.
func (e *AccrualEngine) ApplyDelta(ctx context.Context, tx models.Transaction, sign int) (models.RewardPoints, error) {
	period := tx.Period()
	record, found, err := e.lookup(ctx, tx.CustomerID, period)
	if err != nil {
		return models.RewardPoints{}, err
	}
	if sign < 0 && !found {
		return record, nil
	}

	delta := CalculatePoints(tx.Amount)
	if sign < 0 {
		delta = -delta
	}
	record.Points += delta
	if record.Points < 0 {
		e.log.Warn("clamped negative point total",
			zap.Int64("customer_id", tx.CustomerID),
			zap.Stringer("period", period),
			zap.Int64("total", record.Points),
		)
		record.Points = 0
	}

	saved, err := e.points.SaveRewardPoints(ctx, record)
	if err != nil {
		return models.RewardPoints{}, fmt.Errorf("save reward points for %s: %w", period, err)
	}
	return saved, nil
}

// Reconcile recomputes the period total from every transaction dated inside it
// and overwrites the stored record. Running it repeatedly yields the same total.
func (e *AccrualEngine) Reconcile(ctx context.Context, customerID int64, period models.Period) (models.RewardPoints, error) {
	if !period.Valid() {
		return models.RewardPoints{}, fmt.Errorf("reconcile: invalid period %s", period)
	}
	from, to := period.Bounds()
	txs, err := e.transactions.ListTransactionsBetween(ctx, customerID, from, to)
	if err != nil {
		return models.RewardPoints{}, fmt.Errorf("list transactions for %s: %w", period, err)
	}

	var total int64
	for _, tx := range txs {
		total += CalculatePoints(tx.Amount)
	}

	record, _, err := e.lookup(ctx, customerID, period)
	if err != nil {
		return models.RewardPoints{}, err
	}
	record.Points = total

	saved, err := e.points.SaveRewardPoints(ctx, record)
	if err != nil {
		return models.RewardPoints{}, fmt.Errorf("save reward points for %s: %w", period, err)
	}
	e.log.Debug("period reconciled",
		zap.Int64("customer_id", customerID),
		zap.Stringer("period", period),
		zap.Int("transactions", len(txs)),
		zap.Int64("points", total),
	)
	return saved, nil
}

func (e *AccrualEngine) lookup(ctx context.Context, customerID int64, period models.Period) (models.RewardPoints, bool, error) {
	rows, err := e.points.FindRewardPoints(ctx, customerID, period)
	if err != nil {
		return models.RewardPoints{}, false, fmt.Errorf("find reward points for %s: %w", period, err)
	}
	if len(rows) == 0 {
		return models.RewardPoints{CustomerID: customerID, Month: period.Month, Year: period.Year}, false, nil
	}
	return rows[0], true, nil
}
