package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/apperr"
)

// Gateway owns login and logout: it verifies credentials, issues tokens and revokes them.
type Gateway struct {
	authenticator Authenticator
	tokens        *TokenManager
	log           *zap.Logger
}

// NewGateway constructs the gateway.
func NewGateway(authenticator Authenticator, tokens *TokenManager, log *zap.Logger) *Gateway {
	return &Gateway{authenticator: authenticator, tokens: tokens, log: log.Named("auth")}
}

// Login returns a session token for valid credentials. Bad credentials surface as
// an authentication error, everything else as an internal error.
func (g *Gateway) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", apperr.Validation("email and password are required")
	}
	principal, err := g.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			g.log.Warn("login rejected", zap.String("email", email))
			return "", apperr.Authentication("invalid credentials", err)
		}
		g.log.Error("login failed", zap.String("email", email), zap.Error(err))
		return "", apperr.Internal("authentication error", err)
	}
	token, err := g.tokens.Issue(principal.Username)
	if err != nil {
		g.log.Error("issue token failed", zap.String("email", email), zap.Error(err))
		return "", apperr.Internal("failed to generate token", err)
	}
	g.log.Info("customer logged in", zap.String("email", principal.Username))
	return token, nil
}

// Logout revokes the token carried in an Authorization header value.
func (g *Gateway) Logout(ctx context.Context, header string) error {
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if err := g.tokens.Revoke(ctx, token); err != nil {
		g.log.Error("logout failed", zap.Error(err))
		return apperr.Internal("an error occurred while logging out", err)
	}
	g.log.Info("customer logged out")
	return nil
}
