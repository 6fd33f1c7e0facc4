package store

import (
	"context"
	"errors"

	"github.com/harborview/notesvc/internal/notes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Tenants() Tenants
	Users() Users
	Notes() Notes
	Invitations() Invitations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. This is the recommended way to run multi-step writes
	// that must be atomic (register, invitation acceptance).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	// CreateTenant inserts a new tenant (id is provided by app via ULID).
	CreateTenant(ctx context.Context, t domain.Tenant) error

	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error)

	// UpdateTenantPlan sets the plan and bumps updated_at.
	UpdateTenantPlan(ctx context.Context, tenantID string, plan domain.Plan) error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and for conflict checks; email is
	// unique across all tenants.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListTenantUsers returns a tenant's users with per-user note counts,
	// newest first.
	ListTenantUsers(ctx context.Context, tenantID string) ([]domain.TenantUser, error)

	CountTenantUsers(ctx context.Context, tenantID string) (int64, error)
}

type Notes interface {
	CreateNote(ctx context.Context, n domain.Note) error

	// GetNoteByID is tenant-scoped: a note belonging to another tenant is
	// reported as ErrNotFound, never as a permission failure.
	GetNoteByID(ctx context.Context, tenantID, id string) (domain.Note, error)

	// ListTenantNotes returns a page of the tenant's notes, newest first.
	ListTenantNotes(ctx context.Context, tenantID string, limit, offset int) ([]domain.Note, error)

	CountTenantNotes(ctx context.Context, tenantID string) (int64, error)

	// UpdateNote overwrites title/content and bumps updated_at.
	UpdateNote(ctx context.Context, id, title, content string) error

	DeleteNote(ctx context.Context, id string) error
}

type Invitations interface {
	// CreateInvitation writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByTokenHash returns an invitation by fingerprint
	// regardless of used/expired state; callers decide how to report it.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// FindActiveInvitation returns a not-used, not-expired invitation for
	// the email within the tenant, for duplicate-invite conflict checks.
	FindActiveInvitation(ctx context.Context, tenantID, email string) (domain.Invitation, error)

	// MarkInvitationUsed sets used=1 and bumps updated_at.
	MarkInvitationUsed(ctx context.Context, id string) error

	// ListTenantInvitations returns all of a tenant's invitations including
	// creator email, newest first.
	ListTenantInvitations(ctx context.Context, tenantID string) ([]domain.Invitation, error)

	// DeleteExpiredInvitations is housekeeping.
	DeleteExpiredInvitations(ctx context.Context) error
}
