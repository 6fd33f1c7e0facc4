package httpx

import "context"

type ctxKey struct{}

// Identity is the authenticated principal attached to the request context by
// AuthnMiddleware. Tenant fields come straight from verified token claims.
type Identity struct {
	UserID     string
	TenantID   string
	TenantSlug string
	Role       string
}

// ContextWithIdentity attaches the identity to ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity injected by AuthnMiddleware.
// The second return is false on unauthenticated requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
