// Package ledger manages customer spending transactions and keeps accrued
// points in step with every change.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/apperr"
	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/rewards"
	"github.com/hongminglow/reward-points/internal/storage"
)

// amountScale matches the NUMERIC(19,2) column amounts are stored in.
const amountScale = 2

// Accrual applies incremental point changes for a single transaction.
type Accrual interface {
	ApplyDelta(ctx context.Context, tx models.Transaction, sign int) (models.RewardPoints, error)
}

// Scheduler queues a background reconciliation of a period.
type Scheduler interface {
	Enqueue(job rewards.Job) bool
}

// Entry holds the mutable fields of a transaction.
type Entry struct {
	Amount       decimal.Decimal
	SpentDetails string
	Date         models.Date
}

// Validate checks the amount is non-negative with at most two decimal places
// and the date is present and falls in year 1 or later.
func (e Entry) Validate() error {
	if e.Amount.IsNegative() {
		return apperr.Validation("amount must not be negative")
	}
	if !e.Amount.Equal(e.Amount.Truncate(amountScale)) {
		return apperr.Validation("amount must have at most two decimal places")
	}
	if e.Date.IsZero() {
		return apperr.Validation("transaction date is required")
	}
	if e.Date.Year() < 1 {
		return apperr.Validation("transaction date is out of range")
	}
	return nil
}

// Ledger is the CRUD surface over a customer's transactions.
type Ledger struct {
	customers    storage.CustomerStore
	transactions storage.TransactionStore
	accrual      Accrual
	scheduler    Scheduler
	log          *zap.Logger
}

// New constructs the ledger.
func New(customers storage.CustomerStore, transactions storage.TransactionStore, accrual Accrual, scheduler Scheduler, log *zap.Logger) *Ledger {
	return &Ledger{
		customers:    customers,
		transactions: transactions,
		accrual:      accrual,
		scheduler:    scheduler,
		log:          log.Named("ledger"),
	}
}

// List returns the customer's transactions. A customer without transactions is
// reported as not found.
func (l *Ledger) List(ctx context.Context, customerID int64) ([]models.Transaction, error) {
	txs, err := l.transactions.ListTransactions(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal("failed to load transactions", err)
	}
	if len(txs) == 0 {
		return nil, apperr.NotFound("no transactions found for customer")
	}
	return txs, nil
}

// Add records a transaction, credits its points to the period and schedules a
// reconciliation of that period.
func (l *Ledger) Add(ctx context.Context, customerID int64, entry Entry) (models.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return models.Transaction{}, err
	}
	if _, err := l.customers.FindCustomerByID(ctx, customerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Transaction{}, apperr.NotFound("customer not found")
		}
		return models.Transaction{}, apperr.Internal("failed to load customer", err)
	}

	created, err := l.transactions.CreateTransaction(ctx, models.Transaction{
		CustomerID:   customerID,
		Amount:       entry.Amount,
		SpentDetails: entry.SpentDetails,
		Date:         entry.Date,
	})
	if err != nil {
		return models.Transaction{}, apperr.Internal("failed to save transaction", err)
	}

	defer l.schedule(customerID, created.Period())
	if _, err := l.accrual.ApplyDelta(ctx, created, 1); err != nil {
		l.log.Error("credit reward points failed", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", created.ID), zap.Error(err))
		return models.Transaction{}, apperr.Internal("failed to update reward points", err)
	}
	l.log.Info("transaction added", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", created.ID))
	return created, nil
}

// Edit replaces the amount, details and date of a transaction. The points of the
// previous version are debited from its period and the new points credited to
// the (possibly different) new period; every touched period is then reconciled.
func (l *Ledger) Edit(ctx context.Context, customerID, transactionID int64, entry Entry) (models.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return models.Transaction{}, err
	}
	existing, err := l.find(ctx, customerID, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}

	updated := existing
	updated.Amount = entry.Amount
	updated.SpentDetails = entry.SpentDetails
	updated.Date = entry.Date

	updated, err = l.transactions.UpdateTransaction(ctx, updated)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Transaction{}, apperr.NotFound("transaction not found")
		}
		return models.Transaction{}, apperr.Internal("failed to update transaction", err)
	}

	defer func() {
		l.schedule(customerID, existing.Period())
		if updated.Period() != existing.Period() {
			l.schedule(customerID, updated.Period())
		}
	}()
	if _, err := l.accrual.ApplyDelta(ctx, existing, -1); err != nil {
		l.log.Error("debit reward points failed", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", transactionID), zap.Error(err))
		return models.Transaction{}, apperr.Internal("failed to update reward points", err)
	}
	if _, err := l.accrual.ApplyDelta(ctx, updated, 1); err != nil {
		l.log.Error("credit reward points failed", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", transactionID), zap.Error(err))
		return models.Transaction{}, apperr.Internal("failed to update reward points", err)
	}
	l.log.Info("transaction edited", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", transactionID))
	return updated, nil
}

// Delete debits the transaction's points from its period and removes it.
func (l *Ledger) Delete(ctx context.Context, customerID, transactionID int64) error {
	existing, err := l.find(ctx, customerID, transactionID)
	if err != nil {
		return err
	}

	defer l.schedule(customerID, existing.Period())
	if _, err := l.accrual.ApplyDelta(ctx, existing, -1); err != nil {
		l.log.Error("debit reward points failed", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", transactionID), zap.Error(err))
		return apperr.Internal("failed to update reward points", err)
	}
	if err := l.transactions.DeleteTransaction(ctx, customerID, transactionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("transaction not found")
		}
		return apperr.Internal("failed to delete transaction", err)
	}
	l.log.Info("transaction deleted", zap.Int64("customer_id", customerID), zap.Int64("transaction_id", transactionID))
	return nil
}

func (l *Ledger) find(ctx context.Context, customerID, transactionID int64) (models.Transaction, error) {
	tx, err := l.transactions.FindTransaction(ctx, customerID, transactionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Transaction{}, apperr.NotFound("transaction not found")
		}
		return models.Transaction{}, apperr.Internal("failed to load transaction", err)
	}
	return tx, nil
}

func (l *Ledger) schedule(customerID int64, period models.Period) {
	l.scheduler.Enqueue(rewards.Job{CustomerID: customerID, Period: period})
}
