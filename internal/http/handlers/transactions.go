package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/reward-points/internal/apperr"
	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/http/respond"
	"github.com/hongminglow/reward-points/internal/ledger"
	"github.com/hongminglow/reward-points/internal/models/dto"
)

// Missing customers and transactions surface as server errors on these routes.
var notFoundAsServerError = respond.Override(apperr.KindNotFound, http.StatusInternalServerError)

// TransactionHandler exposes the customer's transaction ledger.
type TransactionHandler struct {
	ledger    *ledger.Ledger
	customers *customers.Service
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(ledger *ledger.Ledger, customers *customers.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, customers: customers}
}

// Register attaches the transaction routes. They expect an authenticated principal.
func (h *TransactionHandler) Register(r chi.Router) {
	r.Get("/customers/transactions", h.handleList)
	r.Post("/customers/transactions", h.handleAdd)
	r.Put("/customers/transactions/{id}", h.handleEdit)
	r.Delete("/customers/transactions/{id}", h.handleDelete)
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	customer, err := currentCustomer(r, h.customers)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	txs, err := h.ledger.List(r.Context(), customer.ID)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	respond.JSON(w, http.StatusOK, "transactions fetched successfully", txs)
}

func (h *TransactionHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	customer, err := currentCustomer(r, h.customers)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	entry, err := decodeEntry(w, r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	created, err := h.ledger.Add(r.Context(), customer.ID, entry)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	respond.JSON(w, http.StatusCreated, "transaction added successfully", created)
}

func (h *TransactionHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	customer, err := currentCustomer(r, h.customers)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		respond.Fail(w, err)
		return
	}
	entry, err := decodeEntry(w, r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	updated, err := h.ledger.Edit(r.Context(), customer.ID, id, entry)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	respond.JSON(w, http.StatusOK, "transaction updated successfully", updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	customer, err := currentCustomer(r, h.customers)
	if err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		respond.Fail(w, err)
		return
	}
	if err := h.ledger.Delete(r.Context(), customer.ID, id); err != nil {
		respond.Fail(w, err, notFoundAsServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (ledger.Entry, error) {
	var req dto.TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return ledger.Entry{}, err
	}
	if req.Amount == nil {
		return ledger.Entry{}, apperr.Validation("amount is required")
	}
	return ledger.Entry{
		Amount:       *req.Amount,
		SpentDetails: req.SpentDetails,
		Date:         req.TransactionDate,
	}, nil
}
