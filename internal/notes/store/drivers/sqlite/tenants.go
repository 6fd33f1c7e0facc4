package sqlite

import (
	"context"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
)

type tenantsRepo struct {
	q querier
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tenants (id, name, slug, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, string(t.Plan), now, now,
	)
	return err
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	return r.scanTenant(r.q.QueryRowContext(ctx, `
		SELECT id, name, slug, plan, created_at, updated_at
		FROM tenants WHERE id = ?`, id,
	))
}

func (r *tenantsRepo) GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	return r.scanTenant(r.q.QueryRowContext(ctx, `
		SELECT id, name, slug, plan, created_at, updated_at
		FROM tenants WHERE slug = ?`, slug,
	))
}

func (r *tenantsRepo) UpdateTenantPlan(ctx context.Context, tenantID string, plan domain.Plan) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE tenants SET plan = ?, updated_at = ? WHERE id = ?`,
		string(plan), time.Now().UTC(), tenantID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *tenantsRepo) scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	var plan string
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &plan, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	t.Plan = domain.Plan(plan)
	return t, nil
}
