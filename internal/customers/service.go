// Package customers handles customer registration and lookup.
package customers

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/apperr"
	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/models/dto"
	"github.com/hongminglow/reward-points/internal/storage"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Service registers customers and resolves authenticated principals to customers.
type Service struct {
	store  storage.CustomerStore
	hasher auth.PasswordHasher
	log    *zap.Logger
}

// NewService constructs the service.
func NewService(store storage.CustomerStore, hasher auth.PasswordHasher, log *zap.Logger) *Service {
	return &Service{store: store, hasher: hasher, log: log.Named("customers")}
}

// Register creates a customer with a hashed password. A taken email is a conflict.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (models.Customer, error) {
	customer := models.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
	}
	switch {
	case customer.FirstName == "":
		return models.Customer{}, apperr.Validation("first name is required")
	case customer.LastName == "":
		return models.Customer{}, apperr.Validation("last name is required")
	case customer.Email == "":
		return models.Customer{}, apperr.Validation("email is required")
	case !strings.Contains(customer.Email, "@"):
		return models.Customer{}, apperr.Validation("email is invalid")
	case strings.TrimSpace(req.Password) == "":
		return models.Customer{}, apperr.Validation("password is required")
	case len(req.Password) > maxPasswordBytes:
		return models.Customer{}, apperr.Validation("password is too long")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.Customer{}, apperr.Internal("failed to hash password", err)
	}
	customer.PasswordHash = hash

	created, err := s.store.CreateCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Customer{}, apperr.Conflict("email already exists", err)
		}
		s.log.Error("create customer failed", zap.String("email", customer.Email), zap.Error(err))
		return models.Customer{}, apperr.Internal("failed to register customer", err)
	}
	s.log.Info("customer registered", zap.Int64("customer_id", created.ID))
	return created, nil
}

// ForPrincipal returns the customer behind an authenticated principal.
func (s *Service) ForPrincipal(ctx context.Context, principal auth.Principal) (models.Customer, error) {
	if principal.Username == "" {
		return models.Customer{}, apperr.Authorization("authentication required")
	}
	customer, err := s.store.FindCustomerByEmail(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Customer{}, apperr.NotFound("customer not found")
		}
		return models.Customer{}, apperr.Internal("failed to load customer", err)
	}
	return customer, nil
}
