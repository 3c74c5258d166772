package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/config"
	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/http/handlers"
	"github.com/hongminglow/reward-points/internal/ledger"
	"github.com/hongminglow/reward-points/internal/middleware"
	"github.com/hongminglow/reward-points/internal/rewards"
)

// Services bundles the application components the HTTP surface exposes.
type Services struct {
	Tokens     *auth.TokenManager
	Gateway    *auth.Gateway
	Customers  *customers.Service
	Ledger     *ledger.Ledger
	Rewards    *rewards.QueryService
	Reconciler *rewards.Reconciler
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// NewRouter builds the chi router with middleware and every route.
func NewRouter(cfg config.Config, svc Services, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Authenticate(svc.Tokens, log))

	var stats func() rewards.ReconcilerStats
	if svc.Reconciler != nil {
		stats = svc.Reconciler.Stats
	}
	handlers.NewHealthHandler(time.Now(), stats).Register(r)
	handlers.NewAuthHandler(svc.Gateway, svc.Customers).Register(r)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		handlers.NewTransactionHandler(svc.Ledger, svc.Customers).Register(protected)
		handlers.NewRewardsHandler(svc.Rewards, svc.Customers).Register(protected)
	})

	return r
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, svc Services, log *zap.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, svc, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
