package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/stretchr/testify/require"
)

// noteFixture wires the services note tests need around one shared store and
// registers two tenants, each with an admin.
type noteFixture struct {
	Auth    *AuthService
	Notes   *NoteService
	Tenants *TenantService
	Invites *InviteService

	Acme   Session
	Globex Session
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()

	ctx := context.Background()
	st := newTestStore(t)
	tokens := newTestTokenService(t)

	f := &noteFixture{
		Auth:    &AuthService{Store: st, Tokens: tokens},
		Notes:   &NoteService{Store: st},
		Tenants: &TenantService{Store: st},
		Invites: &InviteService{Store: st, Tokens: tokens},
	}

	var err error
	f.Acme, err = f.Auth.Register(ctx, "admin@acme.test", "password-acme", "Acme")
	require.NoError(t, err)
	f.Globex, err = f.Auth.Register(ctx, "admin@globex.test", "password-globex", "Globex")
	require.NoError(t, err)

	return f
}

// addMember invites a MEMBER into the session's tenant and returns their
// logged-in session.
func (f *noteFixture) addMember(t *testing.T, admin Session, email string) Session {
	t.Helper()

	ctx := context.Background()
	_, token, err := f.Invites.CreateInvitation(ctx, admin.Tenant.ID, admin.User.ID, email)
	require.NoError(t, err)

	session, err := f.Invites.AcceptInvitation(ctx, token, "member-password")
	require.NoError(t, err)
	return session
}

func TestCreateNoteFreePlanLimit(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)

	for i := range 3 {
		_, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID,
			fmt.Sprintf("note %d", i), "content")
		require.NoError(t, err)
	}

	_, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, "fourth", "content")
	require.ErrorIs(t, err, ErrNoteLimitReached)

	// The cap is per tenant, not global.
	_, err = f.Notes.CreateNote(ctx, f.Globex.Tenant.ID, f.Globex.User.ID, "globex note", "content")
	require.NoError(t, err)

	// Upgrading lifts the cap.
	_, err = f.Tenants.Upgrade(ctx, f.Acme.Tenant.ID)
	require.NoError(t, err)

	note, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, "fourth", "content")
	require.NoError(t, err)
	require.Equal(t, "fourth", note.Title)
	require.Equal(t, "admin@acme.test", note.AuthorEmail)
}

func TestGetNoteTenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)

	note, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, "secret plans", "content")
	require.NoError(t, err)

	// A note from another tenant is indistinguishable from a missing one.
	_, err = f.Notes.GetNote(ctx, f.Globex.Tenant.ID, note.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)

	got, err := f.Notes.GetNote(ctx, f.Acme.Tenant.ID, note.ID)
	require.NoError(t, err)
	require.Equal(t, note.ID, got.ID)
}

func TestUpdateNoteAuthorOnly(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)
	member := f.addMember(t, f.Acme, "member@acme.test")

	note, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, member.User.ID, "draft", "v1")
	require.NoError(t, err)

	// Not even the tenant admin may edit someone else's note.
	_, err = f.Notes.UpdateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, note.ID, "draft", "v2")
	require.ErrorIs(t, err, ErrNotNoteAuthor)

	updated, err := f.Notes.UpdateNote(ctx, f.Acme.Tenant.ID, member.User.ID, note.ID, "draft", "v2")
	require.NoError(t, err)
	require.Equal(t, "v2", updated.Content)
}

func TestDeleteNotePermissions(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)
	member := f.addMember(t, f.Acme, "member@acme.test")
	other := f.addMember(t, f.Acme, "other@acme.test")

	adminNote, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, "admin note", "content")
	require.NoError(t, err)
	memberNote, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, member.User.ID, "member note", "content")
	require.NoError(t, err)

	t.Run("member cannot delete another user's note", func(t *testing.T) {
		err := f.Notes.DeleteNote(ctx, f.Acme.Tenant.ID, other.User.ID, domain.RoleMember, adminNote.ID)
		require.ErrorIs(t, err, ErrNotNoteAuthor)
	})

	t.Run("admin can delete any note in the tenant", func(t *testing.T) {
		err := f.Notes.DeleteNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, domain.RoleAdmin, memberNote.ID)
		require.NoError(t, err)

		_, err = f.Notes.GetNote(ctx, f.Acme.Tenant.ID, memberNote.ID)
		require.ErrorIs(t, err, ErrNoteNotFound)
	})

	t.Run("author can delete their own note", func(t *testing.T) {
		err := f.Notes.DeleteNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, domain.RoleAdmin, adminNote.ID)
		require.NoError(t, err)
	})

	t.Run("deleting a missing note reports not found", func(t *testing.T) {
		err := f.Notes.DeleteNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, domain.RoleAdmin, adminNote.ID)
		require.ErrorIs(t, err, ErrNoteNotFound)
	})
}

func TestListNotesPagination(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)

	_, err := f.Tenants.Upgrade(ctx, f.Acme.Tenant.ID)
	require.NoError(t, err)

	for i := range 15 {
		_, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID,
			fmt.Sprintf("note %02d", i), "content")
		require.NoError(t, err)
	}

	t.Run("defaults", func(t *testing.T) {
		page, err := f.Notes.ListNotes(ctx, f.Acme.Tenant.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, page.Notes, 10)
		require.Equal(t, 1, page.Page)
		require.Equal(t, 10, page.Limit)
		require.EqualValues(t, 15, page.Total)
		require.EqualValues(t, 2, page.Pages())
	})

	t.Run("second page", func(t *testing.T) {
		page, err := f.Notes.ListNotes(ctx, f.Acme.Tenant.ID, 2, 10)
		require.NoError(t, err)
		require.Len(t, page.Notes, 5)
	})

	t.Run("limit clamped to maximum", func(t *testing.T) {
		page, err := f.Notes.ListNotes(ctx, f.Acme.Tenant.ID, 1, 1000)
		require.NoError(t, err)
		require.Equal(t, 100, page.Limit)
		require.Len(t, page.Notes, 15)
	})

	t.Run("isolated per tenant", func(t *testing.T) {
		page, err := f.Notes.ListNotes(ctx, f.Globex.Tenant.ID, 1, 10)
		require.NoError(t, err)
		require.Empty(t, page.Notes)
		require.EqualValues(t, 0, page.Total)
	})
}
