package http

import (
	"net/http"
	"time"

	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type InviteListHandler struct {
	InviteService *service.InviteService
}

type invitationListPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	Creator   struct {
		Email string `json:"email"`
	} `json:"creator"`
}

func (h *InviteListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	invitations, err := h.InviteService.ListInvitations(ctx, id.TenantID)
	if err != nil {
		log.Error("failed to list invitations", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error fetching invitations")
		return
	}

	payload := make([]invitationListPayload, 0, len(invitations))
	for _, inv := range invitations {
		item := invitationListPayload{
			ID:        inv.ID,
			Email:     inv.Email,
			Used:      inv.Used,
			ExpiresAt: inv.ExpiresAt,
			CreatedAt: inv.CreatedAt,
		}
		item.Creator.Email = inv.CreatedByEmail
		payload = append(payload, item)
	}

	httpx.WriteJSON(w, http.StatusOK, payload)
}
