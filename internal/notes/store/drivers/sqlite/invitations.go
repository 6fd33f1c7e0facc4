package sqlite

import (
	"context"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
)

type invitationsRepo struct {
	q querier
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (id, email, token_hash, tenant_id, created_by, used, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		inv.ID, inv.Email, inv.TokenHash, inv.TenantID, inv.CreatedBy, inv.ExpiresAt.UTC(), now, now,
	)
	return err
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	var inv domain.Invitation
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, token_hash, tenant_id, created_by, used, expires_at, created_at, updated_at
		FROM invitations WHERE token_hash = ?`, hash,
	).Scan(
		&inv.ID, &inv.Email, &inv.TokenHash, &inv.TenantID, &inv.CreatedBy,
		&inv.Used, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) FindActiveInvitation(ctx context.Context, tenantID, email string) (domain.Invitation, error) {
	var inv domain.Invitation
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, token_hash, tenant_id, created_by, used, expires_at, created_at, updated_at
		FROM invitations
		WHERE tenant_id = ? AND email = ? AND used = 0 AND expires_at > ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, tenantID, email, time.Now().UTC(),
	).Scan(
		&inv.ID, &inv.Email, &inv.TokenHash, &inv.TenantID, &inv.CreatedBy,
		&inv.Used, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE invitations SET used = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	return err
}

func (r *invitationsRepo) ListTenantInvitations(ctx context.Context, tenantID string) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT i.id, i.email, i.token_hash, i.tenant_id, i.created_by, i.used,
		       i.expires_at, i.created_at, i.updated_at, u.email
		FROM invitations i
		JOIN users u ON u.id = i.created_by
		WHERE i.tenant_id = ?
		ORDER BY i.created_at DESC, i.id DESC`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		if err := rows.Scan(
			&inv.ID, &inv.Email, &inv.TokenHash, &inv.TenantID, &inv.CreatedBy,
			&inv.Used, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
			&inv.CreatedByEmail,
		); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE expires_at <= ?`, time.Now().UTC(),
	)
	return err
}
