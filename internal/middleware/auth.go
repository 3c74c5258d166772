package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/http/respond"
)

// Authenticate attaches the caller's principal when the request carries a
// valid, unrevoked bearer token. It never rejects a request; protected routes
// add RequireAuth.
func Authenticate(tokens *auth.TokenManager, log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("auth-gate")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := tokens.ResolveFromHeader(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.Error("resolve token failed",
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Error(err),
				)
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{Username: claims.Subject, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that Authenticate did not attach a principal to.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
