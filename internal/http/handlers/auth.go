package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/http/respond"
	"github.com/hongminglow/reward-points/internal/models/dto"
)

// AuthHandler owns the register, login and logout endpoints.
type AuthHandler struct {
	gateway   *auth.Gateway
	customers *customers.Service
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(gateway *auth.Gateway, customers *customers.Service) *AuthHandler {
	return &AuthHandler{gateway: gateway, customers: customers}
}

// Register attaches the public customer routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/customers/register", h.handleRegister)
	r.Post("/customers/login", h.handleLogin)
	r.Post("/customers/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, err)
		return
	}
	created, err := h.customers.Register(r.Context(), req)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "customer registered successfully", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, err)
		return
	}
	token, err := h.gateway.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.Logout(r.Context(), r.Header.Get("Authorization")); err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "logged out successfully", nil)
}
