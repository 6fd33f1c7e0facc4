package domain

import "time"

// Invitation is a single-use, time-limited token letting a new MEMBER join a
// tenant. Lifecycle: created (used=false) -> accepted (used=true); terminal
// once used or expired.
type Invitation struct {
	ID        string
	Email     string
	TokenHash string // SHA-256 fingerprint; the raw token only lives in the invite link
	TenantID  string
	CreatedBy string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// CreatedByEmail is joined in on list reads for response payloads.
	CreatedByEmail string
}

// Expired reports whether the invitation's expiry has passed at now.
func (i Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
