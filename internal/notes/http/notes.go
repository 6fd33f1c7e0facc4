package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/pkg/httpx"
	"github.com/harborview/notesvc/pkg/slogx"
)

type NotesHandler struct {
	NoteService *service.NoteService
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title == "" || req.Content == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	note, err := h.NoteService.CreateNote(ctx, id.TenantID, id.UserID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNoteLimitReached) {
			httpx.WriteError(w, http.StatusForbidden,
				"Note limit reached. Please upgrade to Pro for unlimited notes.")
			return
		}
		log.Error("failed to create note", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error creating note")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newNotePayload(note))
}

func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.NoteService.ListNotes(ctx, id.TenantID, page, limit)
	if err != nil {
		log.Error("failed to list notes", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error fetching notes")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newNotePageResponse(result))
}

func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	note, err := h.NoteService.GetNote(ctx, id.TenantID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Note not found")
			return
		}
		log.Error("failed to fetch note", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Error fetching note")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newNotePayload(note))
}

func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title == "" || req.Content == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	note, err := h.NoteService.UpdateNote(ctx, id.TenantID, id.UserID, r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoteNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, service.ErrNotNoteAuthor):
			httpx.WriteError(w, http.StatusForbidden, "You can only update your own notes")
		default:
			log.Error("failed to update note", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Error updating note")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newNotePayload(note))
}

func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	err := h.NoteService.DeleteNote(ctx, id.TenantID, id.UserID, domain.Role(id.Role), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoteNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, service.ErrNotNoteAuthor):
			httpx.WriteError(w, http.StatusForbidden, "You can only delete your own notes")
		default:
			log.Error("failed to delete note", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Error deleting note")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
