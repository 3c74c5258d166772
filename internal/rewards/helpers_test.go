package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage/memory"
)

func seedCustomer(t *testing.T, store *memory.Store, email string) models.Customer {
	t.Helper()
	customer, err := store.CreateCustomer(context.Background(), models.Customer{
		FirstName:    "Test",
		LastName:     "Customer",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return customer
}

func seedTransaction(t *testing.T, store *memory.Store, customerID int64, amount string, date models.Date) models.Transaction {
	t.Helper()
	tx, err := store.CreateTransaction(context.Background(), models.Transaction{
		CustomerID:   customerID,
		Amount:       decimal.RequireFromString(amount),
		SpentDetails: "groceries",
		Date:         date,
	})
	require.NoError(t, err)
	return tx
}

func march(day int) models.Date {
	return models.NewDate(2025, time.March, day)
}
