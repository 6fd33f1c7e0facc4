package service

import (
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/pkg/jwtx"
)

// TokenService issues signed session tokens binding a user to their tenant
// and role. Expiry is the only invalidation mechanism; there is no
// revocation list.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Issue produces a signed session token for the user within their tenant.
func (s *TokenService) Issue(user domain.User, tenant domain.Tenant) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(
		user.ID,
		tenant.ID,
		tenant.Slug,
		string(user.Role),
		s.Issuer,
		ttl,
		time.Now().UTC(),
	)
	return s.Signer.Sign(claims)
}
