package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/config"
	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/ledger"
	"github.com/hongminglow/reward-points/internal/logger"
	"github.com/hongminglow/reward-points/internal/rewards"
	"github.com/hongminglow/reward-points/internal/server"
	"github.com/hongminglow/reward-points/internal/storage"
	"github.com/hongminglow/reward-points/internal/storage/memory"
	"github.com/hongminglow/reward-points/internal/storage/postgres"
	"github.com/hongminglow/reward-points/internal/storage/redis"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		zlog.Fatal("init storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer store.Close()

	var revocations storage.RevokedTokenStore = store
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			zlog.Fatal("init redis", zap.Error(err))
		}
		defer client.Close()
		revocations = redis.NewRevocationCache(client, store)
		zlog.Info("revocation cache enabled")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, revocations)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	engine := rewards.NewAccrualEngine(store, store, zlog)
	reconciler := rewards.NewReconciler(engine, rewards.ReconcilerConfig{
		Workers:     cfg.ReconcileWorkers,
		QueueSize:   cfg.ReconcileQueueSize,
		MaxAttempts: cfg.ReconcileMaxAttempts,
		RetryDelay:  cfg.ReconcileRetryDelay,
	}, zlog)
	janitor := auth.NewJanitor(revocations, cfg.RevokedPurgeInterval, zlog)

	srv := server.New(cfg, server.Services{
		Tokens:     tokens,
		Gateway:    auth.NewGateway(auth.NewCustomerAuthenticator(store, hasher), tokens, zlog),
		Customers:  customers.NewService(store, hasher, zlog),
		Ledger:     ledger.New(store, store, engine, reconciler, zlog),
		Rewards:    rewards.NewQueryService(store, store),
		Reconciler: reconciler,
	}, zlog)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		_ = reconciler.Run(workerCtx)
	}()
	go func() {
		defer workers.Done()
		_ = janitor.Run(workerCtx)
	}()

	go func() {
		zlog.Info("reward points service listening",
			zap.String("addr", cfg.HTTPAddress()),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zlog.Error("graceful shutdown error", zap.Error(err))
	}
	cancelWorkers()
	workers.Wait()
	zlog.Info("shutdown complete", zap.Any("reconciliation", reconciler.Stats()))
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return memory.New(), nil
	}
	return postgres.NewStore(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
