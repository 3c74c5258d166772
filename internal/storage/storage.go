package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/reward-points/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// CustomerStore captures persistence operations for customers.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer models.Customer) (models.Customer, error)
	FindCustomerByID(ctx context.Context, id int64) (models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error)
}

// TransactionStore captures persistence operations for customer transactions.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, customerID, id int64) error
	FindTransaction(ctx context.Context, customerID, id int64) (models.Transaction, error)
	ListTransactions(ctx context.Context, customerID int64) ([]models.Transaction, error)
	// ListTransactionsBetween returns transactions dated within [from, to], both inclusive.
	ListTransactionsBetween(ctx context.Context, customerID int64, from, to models.Date) ([]models.Transaction, error)
}

// RewardPointsStore captures persistence operations for per-period point totals.
type RewardPointsStore interface {
	// FindRewardPoints returns every row for the period; an empty slice is not an error.
	FindRewardPoints(ctx context.Context, customerID int64, period models.Period) ([]models.RewardPoints, error)
	ListRewardPoints(ctx context.Context, customerID int64) ([]models.RewardPoints, error)
	// SaveRewardPoints inserts or overwrites the row keyed by (customer, month, year).
	SaveRewardPoints(ctx context.Context, points models.RewardPoints) (models.RewardPoints, error)
}

// RevokedTokenStore persists logged-out tokens.
type RevokedTokenStore interface {
	RevokeToken(ctx context.Context, token models.RevokedToken) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
	// PurgeRevokedTokens deletes revocations whose token expired before the given instant.
	PurgeRevokedTokens(ctx context.Context, expiredBefore time.Time) (int64, error)
}

// Store aggregates every store the service needs.
type Store interface {
	CustomerStore
	TransactionStore
	RewardPointsStore
	RevokedTokenStore
	Close()
}
