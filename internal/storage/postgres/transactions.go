package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

const transactionColumns = `id, customer_id, amount, spent_details, transaction_date`

// CreateTransaction inserts a transaction for an existing customer.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const query = `
		INSERT INTO customer_transactions (customer_id, amount, spent_details, transaction_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + transactionColumns
	row := s.pool.QueryRow(ctx, query, tx.CustomerID, tx.Amount, tx.SpentDetails, tx.Date.Time)
	created, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", translate(err))
	}
	return created, nil
}

// UpdateTransaction overwrites amount, details and date of a customer's transaction.
func (s *Store) UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const query = `
		UPDATE customer_transactions
		SET amount = $3, spent_details = $4, transaction_date = $5
		WHERE customer_id = $1 AND id = $2
		RETURNING ` + transactionColumns
	row := s.pool.QueryRow(ctx, query, tx.CustomerID, tx.ID, tx.Amount, tx.SpentDetails, tx.Date.Time)
	updated, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("update transaction %d: %w", tx.ID, translate(err))
	}
	return updated, nil
}

// DeleteTransaction removes a customer's transaction.
func (s *Store) DeleteTransaction(ctx context.Context, customerID, id int64) error {
	const query = `DELETE FROM customer_transactions WHERE customer_id = $1 AND id = $2`
	tag, err := s.pool.Exec(ctx, query, customerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindTransaction fetches a transaction by its (customer, id) pair.
func (s *Store) FindTransaction(ctx context.Context, customerID, id int64) (models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM customer_transactions WHERE customer_id = $1 AND id = $2`
	tx, err := scanTransaction(s.pool.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return models.Transaction{}, translate(err)
	}
	return tx, nil
}

// ListTransactions returns every transaction of a customer in insertion order.
func (s *Store) ListTransactions(ctx context.Context, customerID int64) ([]models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM customer_transactions WHERE customer_id = $1 ORDER BY id`
	return s.queryTransactions(ctx, query, customerID)
}

// ListTransactionsBetween returns a customer's transactions dated within [from, to].
func (s *Store) ListTransactionsBetween(ctx context.Context, customerID int64, from, to models.Date) ([]models.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM customer_transactions
		WHERE customer_id = $1 AND transaction_date BETWEEN $2 AND $3
		ORDER BY id`
	return s.queryTransactions(ctx, query, customerID, from.Time, to.Time)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx   models.Transaction
		date time.Time
	)
	if err := row.Scan(&tx.ID, &tx.CustomerID, &tx.Amount, &tx.SpentDetails, &date); err != nil {
		return models.Transaction{}, err
	}
	tx.Date = models.DateOf(date)
	return tx, nil
}
