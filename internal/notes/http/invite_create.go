package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type InviteCreateHandler struct {
	InviteService *service.InviteService

	// BaseURL is the frontend origin embedded in invite links.
	BaseURL string
}

type invitationCreatedPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`

	// InviteLink carries the raw token. There is no email delivery; the
	// admin hands the link to the invitee out of band.
	InviteLink string `json:"inviteLink"`
}

func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	invitation, token, err := h.InviteService.CreateInvitation(ctx, id.TenantID, id.UserID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			httpx.WriteError(w, http.StatusConflict, "User with this email already exists")
		case errors.Is(err, service.ErrInvitePending):
			httpx.WriteError(w, http.StatusConflict, "Invitation already sent to this email")
		default:
			log.Error("failed to create invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Error sending invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, struct {
		Message    string                   `json:"message"`
		Invitation invitationCreatedPayload `json:"invitation"`
	}{
		Message: "Invitation sent successfully",
		Invitation: invitationCreatedPayload{
			ID:         invitation.ID,
			Email:      invitation.Email,
			ExpiresAt:  invitation.ExpiresAt,
			InviteLink: strings.TrimSuffix(h.BaseURL, "/") + "/invite/accept/" + token,
		},
	})
}
