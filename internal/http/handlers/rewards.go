package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/http/respond"
	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/rewards"
)

// RewardsHandler serves accrued point totals.
type RewardsHandler struct {
	query     *rewards.QueryService
	customers *customers.Service
}

// NewRewardsHandler constructs the handler.
func NewRewardsHandler(query *rewards.QueryService, customers *customers.Service) *RewardsHandler {
	return &RewardsHandler{query: query, customers: customers}
}

// Register attaches the reward-point routes. They expect an authenticated principal.
func (h *RewardsHandler) Register(r chi.Router) {
	r.Get("/customers/reward-points/all", h.handleAll)
	r.Get("/customers/reward-points/{month}/{year}", h.handlePeriod)
}

func (h *RewardsHandler) handlePeriod(w http.ResponseWriter, r *http.Request) {
	customer, err := currentCustomer(r, h.customers)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	month, err := intParam(r, "month")
	if err != nil {
		respond.Fail(w, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		respond.Fail(w, err)
		return
	}
	points, err := h.query.GetForPeriod(r.Context(), customer.ID, models.Period{Month: int(month), Year: int(year)})
	if err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "reward points fetched successfully", points)
}

func (h *RewardsHandler) handleAll(w http.ResponseWriter, r *http.Request) {
	customer, err := currentCustomer(r, h.customers)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	all, err := h.query.GetAll(r.Context(), customer.ID)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "reward points fetched successfully", all)
}
