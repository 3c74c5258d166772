package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateCustomer(ctx, models.Customer{FirstName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = s.CreateCustomer(ctx, models.Customer{FirstName: "Ada", Email: "ADA@example.com"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindCustomerByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.FindCustomerByID(ctx, 42)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTransactions_ScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice, _ := s.CreateCustomer(ctx, models.Customer{Email: "alice@example.com"})
	bob, _ := s.CreateCustomer(ctx, models.Customer{Email: "bob@example.com"})

	tx, err := s.CreateTransaction(ctx, models.Transaction{
		CustomerID: alice.ID,
		Amount:     decimal.NewFromInt(120),
		Date:       models.NewDate(2025, time.March, 15),
	})
	require.NoError(t, err)

	_, err = s.FindTransaction(ctx, bob.ID, tx.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, s.DeleteTransaction(ctx, bob.ID, tx.ID), storage.ErrNotFound)

	_, err = s.CreateTransaction(ctx, models.Transaction{CustomerID: 99})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListTransactionsBetween_InclusiveBounds(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCustomer(ctx, models.Customer{Email: "c@example.com"})

	for _, d := range []models.Date{
		models.NewDate(2025, time.February, 28),
		models.NewDate(2025, time.March, 1),
		models.NewDate(2025, time.March, 31),
		models.NewDate(2025, time.April, 1),
	} {
		_, err := s.CreateTransaction(ctx, models.Transaction{CustomerID: c.ID, Amount: decimal.NewFromInt(60), Date: d})
		require.NoError(t, err)
	}

	from, to := models.Period{Month: 3, Year: 2025}.Bounds()
	got, err := s.ListTransactionsBetween(ctx, c.ID, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-01", got[0].Date.String())
	assert.Equal(t, "2025-03-31", got[1].Date.String())
}

func TestSaveRewardPoints_UpsertsByPeriod(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.SaveRewardPoints(ctx, models.RewardPoints{CustomerID: 1, Month: 3, Year: 2025, Points: 10})
	require.NoError(t, err)
	second, err := s.SaveRewardPoints(ctx, models.RewardPoints{CustomerID: 1, Month: 3, Year: 2025, Points: 40})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rows, err := s.FindRewardPoints(ctx, 1, models.Period{Month: 3, Year: 2025})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(40), rows[0].Points)

	empty, err := s.FindRewardPoints(ctx, 1, models.Period{Month: 4, Year: 2025})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRevokedTokens_Purge(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	require.NoError(t, s.RevokeToken(ctx, models.RevokedToken{Token: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, s.RevokeToken(ctx, models.RevokedToken{Token: "live", ExpiresAt: now.Add(time.Hour)}))

	purged, err := s.PurgeRevokedTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	revoked, err := s.IsTokenRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = s.IsTokenRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}
