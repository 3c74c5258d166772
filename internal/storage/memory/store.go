// Package memory provides an in-process implementation of storage.Store.
// It backs the memory storage driver and the service-level tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

type periodKey struct {
	customerID int64
	month      int
	year       int
}

// Store keeps every aggregate in maps guarded by a single mutex.
type Store struct {
	mu sync.RWMutex

	nextCustomerID    int64
	nextTransactionID int64
	nextPointsID      int64
	nextRevokedID     int64

	customers    map[int64]models.Customer
	emails       map[string]int64
	transactions map[int64]models.Transaction
	points       map[periodKey]models.RewardPoints
	revoked      map[string]models.RevokedToken
}

// New returns an empty store.
func New() *Store {
	return &Store{
		customers:    make(map[int64]models.Customer),
		emails:       make(map[string]int64),
		transactions: make(map[int64]models.Transaction),
		points:       make(map[periodKey]models.RewardPoints),
		revoked:      make(map[string]models.RevokedToken),
	}
}

// Close is a no-op kept for interface parity with the postgres store.
func (s *Store) Close() {}

func (s *Store) CreateCustomer(_ context.Context, customer models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(customer.Email)
	if _, ok := s.emails[key]; ok {
		return models.Customer{}, fmt.Errorf("create customer %q: %w", customer.Email, storage.ErrAlreadyExists)
	}
	s.nextCustomerID++
	customer.ID = s.nextCustomerID
	customer.CreatedAt = time.Now().UTC()
	s.customers[customer.ID] = customer
	s.emails[key] = customer.ID
	return customer, nil
}

func (s *Store) FindCustomerByID(_ context.Context, id int64) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return models.Customer{}, storage.ErrNotFound
	}
	return customer, nil
}

func (s *Store) FindCustomerByEmail(_ context.Context, email string) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return models.Customer{}, storage.ErrNotFound
	}
	return s.customers[id], nil
}

func (s *Store) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[tx.CustomerID]; !ok {
		return models.Transaction{}, fmt.Errorf("create transaction for customer %d: %w", tx.CustomerID, storage.ErrNotFound)
	}
	s.nextTransactionID++
	tx.ID = s.nextTransactionID
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[tx.ID]
	if !ok || existing.CustomerID != tx.CustomerID {
		return models.Transaction{}, storage.ErrNotFound
	}
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, customerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[id]
	if !ok || existing.CustomerID != customerID {
		return storage.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) FindTransaction(_ context.Context, customerID, id int64) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok || tx.CustomerID != customerID {
		return models.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context, customerID int64) ([]models.Transaction, error) {
	return s.filterTransactions(func(tx models.Transaction) bool {
		return tx.CustomerID == customerID
	}), nil
}

func (s *Store) ListTransactionsBetween(_ context.Context, customerID int64, from, to models.Date) ([]models.Transaction, error) {
	return s.filterTransactions(func(tx models.Transaction) bool {
		return tx.CustomerID == customerID && !tx.Date.Before(from.Time) && !tx.Date.After(to.Time)
	}), nil
}

func (s *Store) filterTransactions(keep func(models.Transaction) bool) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0)
	for _, tx := range s.transactions {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) FindRewardPoints(_ context.Context, customerID int64, period models.Period) ([]models.RewardPoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rp, ok := s.points[periodKey{customerID: customerID, month: period.Month, year: period.Year}]
	if !ok {
		return []models.RewardPoints{}, nil
	}
	return []models.RewardPoints{rp}, nil
}

func (s *Store) ListRewardPoints(_ context.Context, customerID int64) ([]models.RewardPoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RewardPoints, 0)
	for key, rp := range s.points {
		if key.customerID == customerID {
			out = append(out, rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveRewardPoints(_ context.Context, rp models.RewardPoints) (models.RewardPoints, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey{customerID: rp.CustomerID, month: rp.Month, year: rp.Year}
	if existing, ok := s.points[key]; ok {
		rp.ID = existing.ID
	} else {
		s.nextPointsID++
		rp.ID = s.nextPointsID
	}
	s.points[key] = rp
	return rp, nil
}

func (s *Store) RevokeToken(_ context.Context, token models.RevokedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.revoked[token.Token]; ok {
		return nil
	}
	s.nextRevokedID++
	token.ID = s.nextRevokedID
	s.revoked[token.Token] = token
	return nil
}

func (s *Store) IsTokenRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.revoked[token]
	return ok, nil
}

func (s *Store) PurgeRevokedTokens(_ context.Context, expiredBefore time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for key, token := range s.revoked {
		if token.ExpiresAt.Before(expiredBefore) {
			delete(s.revoked, key)
			purged++
		}
	}
	return purged, nil
}
