package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/slogx"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrAlreadyPro     = errors.New("tenant is already on the pro plan")
	ErrWrongTenant    = errors.New("tenant does not belong to caller")
)

type TenantService struct {
	Store store.Store
}

// TenantInfo fetches the tenant together with its user and note counts.
func (s *TenantService) TenantInfo(ctx context.Context, tenantID string) (domain.Tenant, domain.TenantStats, error) {
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, domain.TenantStats{}, ErrTenantNotFound
		}
		return domain.Tenant{}, domain.TenantStats{}, err
	}

	users, err := s.Store.Users().CountTenantUsers(ctx, tenantID)
	if err != nil {
		return domain.Tenant{}, domain.TenantStats{}, err
	}
	notes, err := s.Store.Notes().CountTenantNotes(ctx, tenantID)
	if err != nil {
		return domain.Tenant{}, domain.TenantStats{}, err
	}

	return tenant, domain.TenantStats{TotalUsers: users, TotalNotes: notes}, nil
}

// Upgrade moves the caller's tenant from FREE to PRO.
func (s *TenantService) Upgrade(ctx context.Context, tenantID string) (domain.Tenant, error) {
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}

	return s.upgrade(ctx, tenant)
}

// UpgradeBySlug upgrades the tenant addressed by slug. Callers may only
// upgrade their own tenant; a mismatched slug is rejected before the tenant
// is even looked up.
func (s *TenantService) UpgradeBySlug(ctx context.Context, callerSlug, slug string) (domain.Tenant, error) {
	if slug != callerSlug {
		return domain.Tenant{}, ErrWrongTenant
	}

	tenant, err := s.Store.Tenants().GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}

	return s.upgrade(ctx, tenant)
}

func (s *TenantService) upgrade(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	log := slogx.FromContext(ctx)

	if tenant.Plan == domain.PlanPro {
		return domain.Tenant{}, ErrAlreadyPro
	}

	if err := s.Store.Tenants().UpdateTenantPlan(ctx, tenant.ID, domain.PlanPro); err != nil {
		log.Error("failed to upgrade tenant",
			slog.String("tenant_id", tenant.ID),
			slog.Any("error", err),
		)
		return domain.Tenant{}, err
	}

	tenant.Plan = domain.PlanPro

	log.Info("tenant upgraded",
		slog.String("tenant_id", tenant.ID),
		slog.String("tenant_slug", tenant.Slug),
	)

	return tenant, nil
}

// TenantUsers lists the tenant's users with per-user note counts, newest
// first.
func (s *TenantService) TenantUsers(ctx context.Context, tenantID string) ([]domain.TenantUser, error) {
	return s.Store.Users().ListTenantUsers(ctx, tenantID)
}
