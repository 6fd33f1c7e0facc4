package httpx

import (
	"net/http"
	"strings"

	"github.com/harborview/notesvc/pkg/jwtx"
	"github.com/harborview/notesvc/pkg/slogx"
)

// AuthnMiddleware extracts and verifies the bearer token, then injects the
// caller's Identity into the request context for downstream handlers.
// Requests without a valid token get a 401 with a generic message.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx = ContextWithIdentity(ctx, Identity{
				UserID:     claims.Subject,
				TenantID:   claims.TenantID,
				TenantSlug: claims.TenantSlug,
				Role:       claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
