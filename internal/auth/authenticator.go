package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/reward-points/internal/storage"
)

// ErrInvalidCredentials is returned when the identifier is unknown or the secret does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies an identifier/secret pair.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (Principal, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// CustomerAuthenticator checks an email/password pair against stored customers.
type CustomerAuthenticator struct {
	customers storage.CustomerStore
	hasher    PasswordHasher
}

// NewCustomerAuthenticator constructs the authenticator.
func NewCustomerAuthenticator(customers storage.CustomerStore, hasher PasswordHasher) *CustomerAuthenticator {
	return &CustomerAuthenticator{customers: customers, hasher: hasher}
}

// Authenticate returns the principal for email, or ErrInvalidCredentials.
func (a *CustomerAuthenticator) Authenticate(ctx context.Context, email, password string) (Principal, error) {
	customer, err := a.customers.FindCustomerByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, fmt.Errorf("load customer: %w", err)
	}
	if err := a.hasher.Compare(customer.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, fmt.Errorf("compare password: %w", err)
	}
	return Principal{Username: customer.Email}, nil
}
