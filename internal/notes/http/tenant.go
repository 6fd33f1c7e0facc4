package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type TenantHandler struct {
	TenantService *service.TenantService
}

type tenantStatsPayload struct {
	TotalUsers int64 `json:"totalUsers"`
	TotalNotes int64 `json:"totalNotes"`

	// NoteLimit is null on the PRO plan, which has no cap.
	NoteLimit *int `json:"noteLimit"`
}

type tenantInfoResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Plan      string             `json:"plan"`
	CreatedAt time.Time          `json:"createdAt"`
	Stats     tenantStatsPayload `json:"stats"`
}

func (h *TenantHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	tenant, stats, err := h.TenantService.TenantInfo(ctx, id.TenantID)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		log.Error("failed to fetch tenant info", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error fetching tenant information")
		return
	}

	resp := tenantInfoResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Slug:      tenant.Slug,
		Plan:      string(tenant.Plan),
		CreatedAt: tenant.CreatedAt,
		Stats: tenantStatsPayload{
			TotalUsers: stats.TotalUsers,
			TotalNotes: stats.TotalNotes,
		},
	}
	if tenant.Plan == domain.PlanFree {
		limit := domain.FreePlanNoteLimit
		resp.Stats.NoteLimit = &limit
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

type upgradeResponse struct {
	Message string `json:"message"`
	Tenant  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Plan string `json:"plan"`
	} `json:"tenant"`
}

func newUpgradeResponse(tenant domain.Tenant) upgradeResponse {
	resp := upgradeResponse{
		Message: "Upgrade successful! You now have unlimited notes.",
	}
	resp.Tenant.ID = tenant.ID
	resp.Tenant.Name = tenant.Name
	resp.Tenant.Plan = string(tenant.Plan)
	return resp
}

func (h *TenantHandler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	tenant, err := h.TenantService.Upgrade(ctx, id.TenantID)
	if err != nil {
		h.writeUpgradeError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUpgradeResponse(tenant))
}

func (h *TenantHandler) HandleUpgradeBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	tenant, err := h.TenantService.UpgradeBySlug(ctx, id.TenantSlug, r.PathValue("slug"))
	if err != nil {
		h.writeUpgradeError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUpgradeResponse(tenant))
}

func (h *TenantHandler) writeUpgradeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrWrongTenant):
		httpx.WriteError(w, http.StatusForbidden, "You can only upgrade your own organization")
	case errors.Is(err, service.ErrTenantNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Tenant not found")
	case errors.Is(err, service.ErrAlreadyPro):
		httpx.WriteError(w, http.StatusBadRequest, "Tenant is already on the Pro plan")
	default:
		log.Error("failed to upgrade tenant", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error upgrading tenant")
	}
}

type tenantUserPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	NoteCount int64     `json:"noteCount"`
}

func (h *TenantHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	users, err := h.TenantService.TenantUsers(ctx, id.TenantID)
	if err != nil {
		log.Error("failed to list tenant users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}

	payload := make([]tenantUserPayload, 0, len(users))
	for _, u := range users {
		payload = append(payload, tenantUserPayload{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
			NoteCount: u.NoteCount,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, payload)
}
