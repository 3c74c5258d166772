package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/storage"
)

// Janitor periodically deletes revocations of tokens that have expired anyway.
type Janitor struct {
	store    storage.RevokedTokenStore
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewJanitor constructs the purge loop; a non-positive interval defaults to one hour.
func NewJanitor(store storage.RevokedTokenStore, interval time.Duration, log *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{store: store, interval: interval, log: log.Named("revocation-janitor"), now: time.Now}
}

// Run purges on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce runs a single purge pass and returns the number of rows removed.
func (j *Janitor) PurgeOnce(ctx context.Context) int64 {
	purged, err := j.store.PurgeRevokedTokens(ctx, j.now())
	if err != nil {
		j.log.Error("purge revoked tokens failed", zap.Error(err))
		return 0
	}
	if purged > 0 {
		j.log.Info("purged expired revocations", zap.Int64("count", purged))
	}
	return purged
}
