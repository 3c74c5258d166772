package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage"
)

// BearerPrefix is the scheme required in front of a token in the Authorization header.
const BearerPrefix = "Bearer "

var (
	// ErrMalformedToken is returned when a token's structure, signature or claims cannot be trusted.
	ErrMalformedToken = errors.New("malformed token")
	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrBadSignature is returned when the signature does not verify.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrUnsupportedToken is returned for tokens that parse but fail any other check.
	ErrUnsupportedToken = errors.New("unsupported token")
	// ErrRevocation is returned when a token cannot be revoked.
	ErrRevocation = errors.New("token revocation failed")
)

// Claims are the JWT claims carried by a session token. Subject holds the username.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues signed HS512 session tokens, validates them and tracks revocation.
type TokenManager struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked storage.RevokedTokenStore
	now     func() time.Time
}

// NewTokenManager creates a manager with the provided secret, issuer, lifetime and revocation store.
func NewTokenManager(secret, issuer string, ttl time.Duration, revoked storage.RevokedTokenStore) *TokenManager {
	return &TokenManager{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// WithClock replaces the time source; it is meant for tests.
func (t *TokenManager) WithClock(now func() time.Time) *TokenManager {
	t.now = now
	return t
}

// Issue returns a signed token for username that expires after the configured TTL.
func (t *TokenManager) Issue(username string) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the claims. Failures are
// classified as ErrMalformedToken, ErrTokenExpired, ErrBadSignature or ErrUnsupportedToken.
func (t *TokenManager) Verify(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, classify(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrUnsupportedToken)
	}
	return claims, nil
}

// Validate reports whether the token is correctly signed and unexpired. It never
// consults the revocation store.
func (t *TokenManager) Validate(raw string) bool {
	_, err := t.Verify(raw)
	return err == nil
}

// ParseUsername extracts the subject of a valid token.
func (t *TokenManager) ParseUsername(raw string) (string, error) {
	claims, err := t.Verify(raw)
	if err != nil {
		if errors.Is(err, ErrMalformedToken) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return claims.Subject, nil
}

// IsRevoked reports whether the token string has been revoked.
func (t *TokenManager) IsRevoked(ctx context.Context, raw string) (bool, error) {
	revoked, err := t.revoked.IsTokenRevoked(ctx, raw)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}

// ResolveFromHeader extracts the token from an Authorization header value. It
// returns an empty string when the bearer scheme is absent or the token is revoked.
func (t *TokenManager) ResolveFromHeader(ctx context.Context, header string) (string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return "", nil
	}
	revoked, err := t.IsRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", nil
	}
	return token, nil
}

// Revoke records the token as logged out. It fails with ErrRevocation when the
// token does not yield a username or the store rejects the write.
func (t *TokenManager) Revoke(ctx context.Context, raw string) error {
	claims, err := t.Verify(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRevocation, err)
	}
	record := models.RevokedToken{
		Token:     raw,
		Username:  claims.Subject,
		RevokedAt: t.now().UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if err := t.revoked.RevokeToken(ctx, record); err != nil {
		return fmt.Errorf("%w: %w", ErrRevocation, err)
	}
	return nil
}

// BearerToken strips the bearer scheme from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnsupportedToken, err)
	}
}
