package service

import (
	"context"
	"testing"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/cryptox"
	"github.com/harborview/notesvc/pkg/idx"
	"github.com/stretchr/testify/require"
)

type inviteFixture struct {
	Store   store.Store
	Auth    *AuthService
	Invites *InviteService

	Admin Session
}

func newInviteFixture(t *testing.T) *inviteFixture {
	t.Helper()

	ctx := context.Background()
	st := newTestStore(t)
	tokens := newTestTokenService(t)

	f := &inviteFixture{
		Store:   st,
		Auth:    &AuthService{Store: st, Tokens: tokens},
		Invites: &InviteService{Store: st, Tokens: tokens},
	}

	var err error
	f.Admin, err = f.Auth.Register(ctx, "admin@acme.test", "password-acme", "Acme")
	require.NoError(t, err)

	return f
}

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture(t)

	invitation, token, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "new@acme.test")
	require.NoError(t, err)
	require.Equal(t, "new@acme.test", invitation.Email)
	require.False(t, invitation.Used)
	require.WithinDuration(t, time.Now().UTC().Add(InvitationTTL), invitation.ExpiresAt, time.Minute)

	// Only the fingerprint is stored, never the raw token.
	require.NotEmpty(t, token)
	require.NotEqual(t, token, invitation.TokenHash)
	require.Equal(t, cryptox.FingerprintToken(token), invitation.TokenHash)

	t.Run("pending invitation blocks a second one", func(t *testing.T) {
		_, _, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "new@acme.test")
		require.ErrorIs(t, err, ErrInvitePending)
	})

	t.Run("existing user cannot be invited", func(t *testing.T) {
		_, _, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "admin@acme.test")
		require.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestAcceptInvitation(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture(t)

	_, token, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "new@acme.test")
	require.NoError(t, err)

	session, err := f.Invites.AcceptInvitation(ctx, token, "member-password")
	require.NoError(t, err)
	require.Equal(t, "new@acme.test", session.User.Email)
	require.Equal(t, domain.RoleMember, session.User.Role)
	require.Equal(t, f.Admin.Tenant.ID, session.Tenant.ID)
	require.NotEmpty(t, session.Token)

	t.Run("member can log in afterwards", func(t *testing.T) {
		_, err := f.Auth.Login(ctx, "new@acme.test", "member-password")
		require.NoError(t, err)
	})

	t.Run("second acceptance rejected", func(t *testing.T) {
		_, err := f.Invites.AcceptInvitation(ctx, token, "another-password")
		require.ErrorIs(t, err, ErrInviteInvalid)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		bogus, err := cryptox.GenerateToken(cryptox.InviteTokenSize)
		require.NoError(t, err)

		_, err = f.Invites.AcceptInvitation(ctx, bogus, "password")
		require.ErrorIs(t, err, ErrInviteInvalid)
	})
}

func TestAcceptInvitationExpired(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture(t)

	// Plant an invitation that expired an hour ago.
	token, err := cryptox.GenerateToken(cryptox.InviteTokenSize)
	require.NoError(t, err)

	err = f.Store.Invitations().CreateInvitation(ctx, domain.Invitation{
		ID:        idx.New().String(),
		Email:     "late@acme.test",
		TokenHash: cryptox.FingerprintToken(token),
		TenantID:  f.Admin.Tenant.ID,
		CreatedBy: f.Admin.User.ID,
		ExpiresAt: time.Now().UTC().Add(-1 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.Invites.AcceptInvitation(ctx, token, "password")
	require.ErrorIs(t, err, ErrInviteInvalid)
}

func TestListInvitations(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture(t)

	_, _, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "a@acme.test")
	require.NoError(t, err)
	_, tokenB, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "b@acme.test")
	require.NoError(t, err)

	_, err = f.Invites.AcceptInvitation(ctx, tokenB, "password")
	require.NoError(t, err)

	invitations, err := f.Invites.ListInvitations(ctx, f.Admin.Tenant.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 2)

	byEmail := make(map[string]domain.Invitation, len(invitations))
	for _, inv := range invitations {
		require.Equal(t, "admin@acme.test", inv.CreatedByEmail)
		byEmail[inv.Email] = inv
	}
	require.False(t, byEmail["a@acme.test"].Used)
	require.True(t, byEmail["b@acme.test"].Used)
}

func TestHousekeepingSweepsExpiredInvitations(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture(t)

	// One live invitation and one long expired.
	_, _, err := f.Invites.CreateInvitation(ctx, f.Admin.Tenant.ID, f.Admin.User.ID, "live@acme.test")
	require.NoError(t, err)

	err = f.Store.Invitations().CreateInvitation(ctx, domain.Invitation{
		ID:        idx.New().String(),
		Email:     "stale@acme.test",
		TokenHash: "stale-fingerprint",
		TenantID:  f.Admin.Tenant.ID,
		CreatedBy: f.Admin.User.ID,
		ExpiresAt: time.Now().UTC().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, f.Store.Invitations().DeleteExpiredInvitations(ctx))

	invitations, err := f.Invites.ListInvitations(ctx, f.Admin.Tenant.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	require.Equal(t, "live@acme.test", invitations[0].Email)
}
