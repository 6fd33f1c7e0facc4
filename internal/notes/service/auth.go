package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/cryptox"
	"github.com/harborview/notesvc/pkg/idx"
	"github.com/harborview/notesvc/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Session is the result of any operation that logs a user in: the user, the
// tenant they belong to, and a session token bound to both.
type Session struct {
	User   domain.User
	Tenant domain.Tenant
	Token  string
}

type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Login authenticates by email and password. Unknown email and wrong
// password both come back as ErrInvalidCredentials so responses carry no
// user-enumeration signal.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Hash anyway so the timing of the two failure modes matches.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return Session{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login attempt with wrong password", slog.String("user_id", user.ID))
		return Session{}, ErrInvalidCredentials
	}

	tenant, err := s.Store.Tenants().GetTenantByID(ctx, user.TenantID)
	if err != nil {
		log.Error("failed to fetch tenant for user",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return Session{}, err
	}

	token, err := s.Tokens.Issue(user, tenant)
	if err != nil {
		return Session{}, err
	}

	log.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("tenant_id", tenant.ID),
	)

	return Session{User: user, Tenant: tenant, Token: token}, nil
}

// Register creates a new tenant on the FREE plan together with its first
// ADMIN user, atomically. The tenant slug is derived from the name; there is
// no collision retry, the unique constraint surfaces duplicates instead.
func (s *AuthService) Register(ctx context.Context, email, password, tenantName string) (Session, error) {
	log := slogx.FromContext(ctx)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return Session{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return Session{}, err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return Session{}, err
	}

	tenant := domain.Tenant{
		ID:   idx.New().String(),
		Name: tenantName,
		Slug: Slugify(tenantName),
		Plan: domain.PlanFree,
	}
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		TenantID:     tenant.ID,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		log.Error("failed to register tenant",
			slog.String("tenant_slug", tenant.Slug),
			slog.Any("error", err),
		)
		return Session{}, err
	}

	token, err := s.Tokens.Issue(user, tenant)
	if err != nil {
		return Session{}, err
	}

	log.Info("tenant registered",
		slog.String("tenant_id", tenant.ID),
		slog.String("tenant_slug", tenant.Slug),
		slog.String("user_id", user.ID),
	)

	return Session{User: user, Tenant: tenant, Token: token}, nil
}

// Slugify derives a URL-safe slug by lowercasing and collapsing whitespace
// runs to single hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// dummyHash is a throwaway argon2id hash verified on unknown-email logins to
// keep their latency close to the wrong-password path.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
