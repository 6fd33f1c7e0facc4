package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		TenantName string `json:"tenantName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.TenantName == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email, password, and tenant name are required")
		return
	}

	session, err := h.AuthService.Register(ctx, req.Email, req.Password, req.TenantName)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			httpx.WriteError(w, http.StatusConflict, "User already exists")
			return
		}
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newSessionResponse(session))
}
