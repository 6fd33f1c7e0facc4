package httpx

import "net/http"

// RequireRole gates a route on an allow-list of roles. Declaring the
// required role at the routing layer keeps per-handler role checks from
// drifting apart. The caller's role comes from the verified token, so
// AuthnMiddleware must run first in the chain.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if _, ok := want[id.Role]; !ok {
				WriteError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
