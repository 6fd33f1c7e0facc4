package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password share one message so responses
		// carry no user-enumeration signal.
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(session))
}
