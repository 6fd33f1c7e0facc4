package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a session token. There is no
// revocation list; expiry is the only invalidation mechanism.
const DefaultSessionTTL = 24 * time.Hour

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Claims are the session-token claims shared across the service. The subject
// is the user ID; tenant fields are carried so handlers never need a user
// lookup just to scope a query.
type Claims struct {
	jwt.RegisteredClaims

	// TenantID the user belongs to. Every read and write is scoped to it.
	TenantID string `json:"tenant_id,omitempty"`

	// TenantSlug is the URL-safe tenant identifier, used by slug-addressed
	// routes to reject cross-tenant access.
	TenantSlug string `json:"tenant_slug,omitempty"`

	// Role is "ADMIN" or "MEMBER".
	Role string `json:"role,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a session token.
func NewSessionClaims(
	userID, tenantID, tenantSlug, role string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		Role:       role,
	}
}

// ValidateIssuer checks the issuer claim against the expected value.
// An empty expected issuer means "don't care".
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt == nil || now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
