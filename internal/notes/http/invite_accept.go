package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Password is required")
		return
	}

	session, err := h.InviteService.AcceptInvitation(ctx, token, req.Password)
	if err != nil {
		// Unknown, used, and expired tokens get one message; the response
		// does not reveal which.
		if errors.Is(err, service.ErrInviteInvalid) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired invitation")
			return
		}
		log.Error("failed to accept invitation", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error accepting invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newSessionResponse(session))
}
