package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/reward-points/internal/models"
)

// RevokeToken records a logged-out token. Revoking the same token twice is a no-op.
func (s *Store) RevokeToken(ctx context.Context, token models.RevokedToken) error {
	const query = `
		INSERT INTO revoked_tokens (token, username, revoked_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO NOTHING`
	revokedAt := token.RevokedAt
	if revokedAt.IsZero() {
		revokedAt = time.Now().UTC()
	}
	if _, err := s.pool.Exec(ctx, query, token.Token, token.Username, revokedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether the token string was revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	const query = `SELECT 1 FROM revoked_tokens WHERE token = $1`
	var one int
	if err := s.pool.QueryRow(ctx, query, token).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return true, nil
}

// PurgeRevokedTokens deletes revocations of tokens that expired before the given instant.
func (s *Store) PurgeRevokedTokens(ctx context.Context, expiredBefore time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < $1`
	tag, err := s.pool.Exec(ctx, query, expiredBefore)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
