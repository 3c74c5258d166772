// Package redis caches token revocations in Redis in front of the durable
// revoked-token store.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

const keyPrefix = "rewards:revoked:"

// Ensure RevocationCache satisfies the storage.RevokedTokenStore interface at compile time.
var _ storage.RevokedTokenStore = (*RevocationCache)(nil)

// Connect initializes a Redis client from URL or host:port input.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	var client *goredis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RevocationCache writes revocations through to the backing store and keeps a
// Redis flag per token that lives until the token itself expires.
type RevocationCache struct {
	client  *goredis.Client
	backing storage.RevokedTokenStore
}

// NewRevocationCache wraps backing with a Redis cache.
func NewRevocationCache(client *goredis.Client, backing storage.RevokedTokenStore) *RevocationCache {
	return &RevocationCache{client: client, backing: backing}
}

func (c *RevocationCache) RevokeToken(ctx context.Context, token models.RevokedToken) error {
	if err := c.backing.RevokeToken(ctx, token); err != nil {
		return err
	}
	return c.mark(ctx, token.Token, token.ExpiresAt)
}

// IsTokenRevoked answers from Redis when possible and falls back to the backing store.
func (c *RevocationCache) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, keyPrefix+token).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	revoked, err := c.backing.IsTokenRevoked(ctx, token)
	if err != nil {
		return false, err
	}
	if revoked {
		_ = c.mark(ctx, token, time.Time{})
	}
	return revoked, nil
}

// PurgeRevokedTokens only touches the backing store; Redis keys expire on their own.
func (c *RevocationCache) PurgeRevokedTokens(ctx context.Context, expiredBefore time.Time) (int64, error) {
	return c.backing.PurgeRevokedTokens(ctx, expiredBefore)
}

func (c *RevocationCache) mark(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := c.client.Set(ctx, keyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("cache revoked token: %w", err)
	}
	return nil
}
