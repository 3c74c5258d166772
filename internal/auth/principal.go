package auth

import "context"

// Principal is the authenticated caller of a request.
type Principal struct {
	Username string
	Token    string
}

type principalKey struct{}

// WithPrincipal attaches the principal to a request-scoped context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by the authentication gate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
