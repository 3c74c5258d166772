package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/reward-points/internal/apperr"
	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/models"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid JSON payload")
	}
	return nil
}

func intParam(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid " + name)
	}
	return value, nil
}

// currentCustomer resolves the principal attached by the authentication gate.
func currentCustomer(r *http.Request, svc *customers.Service) (models.Customer, error) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return models.Customer{}, apperr.Authorization("authentication required")
	}
	return svc.ForPrincipal(r.Context(), principal)
}
