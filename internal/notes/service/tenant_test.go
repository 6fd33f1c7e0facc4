package service

import (
	"context"
	"testing"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/stretchr/testify/require"
)

func TestTenantInfo(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)
	f.addMember(t, f.Acme, "member@acme.test")

	_, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, f.Acme.User.ID, "note", "content")
	require.NoError(t, err)

	tenant, stats, err := f.Tenants.TenantInfo(ctx, f.Acme.Tenant.ID)
	require.NoError(t, err)
	require.Equal(t, "acme", tenant.Slug)
	require.EqualValues(t, 2, stats.TotalUsers)
	require.EqualValues(t, 1, stats.TotalNotes)

	t.Run("unknown tenant", func(t *testing.T) {
		_, _, err := f.Tenants.TenantInfo(ctx, "no-such-tenant")
		require.ErrorIs(t, err, ErrTenantNotFound)
	})
}

func TestUpgrade(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)

	tenant, err := f.Tenants.Upgrade(ctx, f.Acme.Tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PlanPro, tenant.Plan)

	t.Run("second upgrade rejected", func(t *testing.T) {
		_, err := f.Tenants.Upgrade(ctx, f.Acme.Tenant.ID)
		require.ErrorIs(t, err, ErrAlreadyPro)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := f.Tenants.Upgrade(ctx, "no-such-tenant")
		require.ErrorIs(t, err, ErrTenantNotFound)
	})
}

func TestUpgradeBySlug(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)

	t.Run("foreign slug rejected before lookup", func(t *testing.T) {
		_, err := f.Tenants.UpgradeBySlug(ctx, f.Acme.Tenant.Slug, f.Globex.Tenant.Slug)
		require.ErrorIs(t, err, ErrWrongTenant)
	})

	t.Run("own slug upgrades", func(t *testing.T) {
		tenant, err := f.Tenants.UpgradeBySlug(ctx, f.Acme.Tenant.Slug, f.Acme.Tenant.Slug)
		require.NoError(t, err)
		require.Equal(t, domain.PlanPro, tenant.Plan)
	})
}

func TestTenantUsers(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t)
	member := f.addMember(t, f.Acme, "member@acme.test")

	_, err := f.Notes.CreateNote(ctx, f.Acme.Tenant.ID, member.User.ID, "note", "content")
	require.NoError(t, err)

	users, err := f.Tenants.TenantUsers(ctx, f.Acme.Tenant.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)

	counts := make(map[string]int64, len(users))
	for _, u := range users {
		counts[u.Email] = u.NoteCount
	}
	require.EqualValues(t, 0, counts["admin@acme.test"])
	require.EqualValues(t, 1, counts["member@acme.test"])

	t.Run("other tenant's users not included", func(t *testing.T) {
		users, err := f.Tenants.TenantUsers(ctx, f.Globex.Tenant.ID)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "admin@globex.test", users[0].Email)
	})
}
