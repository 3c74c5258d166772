package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/reward-points/internal/models"
)

const customerColumns = `id, first_name, last_name, email, password_hash, created_at`

// CreateCustomer inserts a new customer row.
func (s *Store) CreateCustomer(ctx context.Context, customer models.Customer) (models.Customer, error) {
	const query = `
		INSERT INTO customers (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + customerColumns
	row := s.pool.QueryRow(ctx, query, customer.FirstName, customer.LastName, customer.Email, customer.PasswordHash)
	created, err := scanCustomer(row)
	if err != nil {
		return models.Customer{}, fmt.Errorf("create customer: %w", translate(err))
	}
	return created, nil
}

// FindCustomerByID fetches a customer by primary key.
func (s *Store) FindCustomerByID(ctx context.Context, id int64) (models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	customer, err := scanCustomer(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Customer{}, translate(err)
	}
	return customer, nil
}

// FindCustomerByEmail fetches a customer by email, case-insensitively.
func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(email) = LOWER($1)`
	customer, err := scanCustomer(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return models.Customer{}, translate(err)
	}
	return customer, nil
}

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash, &c.CreatedAt); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}
