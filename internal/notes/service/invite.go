package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/cryptox"
	"github.com/harborview/notesvc/pkg/idx"
	"github.com/harborview/notesvc/pkg/slogx"
)

// InvitationTTL is how long an invitation stays acceptable after creation.
const InvitationTTL = 24 * time.Hour

var (
	ErrInvitePending = errors.New("invitation already pending for email")
	ErrInviteInvalid = errors.New("invitation invalid, used, or expired")
)

type InviteService struct {
	Store  store.Store
	Tokens *TokenService
}

// CreateInvitation mints a single-use invitation for the email within the
// tenant and returns it along with the raw token. Only the SHA-256
// fingerprint is persisted; the raw token goes into the invite link and is
// never stored.
func (s *InviteService) CreateInvitation(ctx context.Context, tenantID, createdBy, email string) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	// A user with this email anywhere means the invite can't be accepted.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.Invitation{}, "", ErrEmailAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	_, err = s.Store.Invitations().FindActiveInvitation(ctx, tenantID, email)
	if err == nil {
		return domain.Invitation{}, "", ErrInvitePending
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check pending invitations", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	token, err := cryptox.GenerateToken(cryptox.InviteTokenSize)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	invitation := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		TokenHash: cryptox.FingerprintToken(token),
		TenantID:  tenantID,
		CreatedBy: createdBy,
		Used:      false,
		ExpiresAt: time.Now().UTC().Add(InvitationTTL),
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, invitation); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	log.Info("invitation created",
		slog.String("invitation_id", invitation.ID),
		slog.String("tenant_id", tenantID),
		slog.Time("expires_at", invitation.ExpiresAt),
	)

	return invitation, token, nil
}

// AcceptInvitation redeems an invitation token: it creates a MEMBER user
// under the invitation's tenant and marks the invitation used, atomically,
// then logs the new user in. Unknown, already-used, and expired tokens all
// come back as ErrInviteInvalid; the response does not distinguish them.
func (s *InviteService) AcceptInvitation(ctx context.Context, rawToken, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	invitation, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(rawToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation acceptance with unknown token")
			return Session{}, ErrInviteInvalid
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return Session{}, err
	}

	if invitation.Used || invitation.Expired(time.Now().UTC()) {
		log.Warn("invitation acceptance on terminal invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Bool("used", invitation.Used),
		)
		return Session{}, ErrInviteInvalid
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return Session{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        invitation.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleMember,
		TenantID:     invitation.TenantID,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Invitations().MarkInvitationUsed(ctx, invitation.ID)
	})
	if err != nil {
		log.Error("failed to accept invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return Session{}, err
	}

	tenant, err := s.Store.Tenants().GetTenantByID(ctx, invitation.TenantID)
	if err != nil {
		log.Error("failed to fetch tenant for invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return Session{}, err
	}

	token, err := s.Tokens.Issue(user, tenant)
	if err != nil {
		return Session{}, err
	}

	log.Info("user joined via invitation",
		slog.String("user_id", user.ID),
		slog.String("tenant_id", tenant.ID),
		slog.String("invitation_id", invitation.ID),
	)

	return Session{User: user, Tenant: tenant, Token: token}, nil
}

// ListInvitations returns all of the tenant's invitations, newest first,
// with creator emails populated.
func (s *InviteService) ListInvitations(ctx context.Context, tenantID string) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListTenantInvitations(ctx, tenantID)
}
