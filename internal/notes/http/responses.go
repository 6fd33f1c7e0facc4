package http

import (
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/service"
)

// Response payloads. Field names are camelCase to keep the wire format
// stable for existing API consumers.

type tenantPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Plan string `json:"plan"`
}

type userPayload struct {
	ID     string        `json:"id"`
	Email  string        `json:"email"`
	Role   string        `json:"role"`
	Tenant tenantPayload `json:"tenant"`
}

// sessionResponse is the envelope for login, register, and invitation
// acceptance: a session token plus the user it belongs to.
type sessionResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func newSessionResponse(s service.Session) sessionResponse {
	return sessionResponse{
		Token: s.Token,
		User: userPayload{
			ID:    s.User.ID,
			Email: s.User.Email,
			Role:  string(s.User.Role),
			Tenant: tenantPayload{
				ID:   s.Tenant.ID,
				Name: s.Tenant.Name,
				Slug: s.Tenant.Slug,
				Plan: string(s.Tenant.Plan),
			},
		},
	}
}

type authorPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type notePayload struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	TenantID  string        `json:"tenantId"`
	AuthorID  string        `json:"authorId"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Author    authorPayload `json:"author"`
}

func newNotePayload(n domain.Note) notePayload {
	return notePayload{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		TenantID:  n.TenantID,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Author:    authorPayload{ID: n.AuthorID, Email: n.AuthorEmail},
	}
}

type paginationPayload struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type notePageResponse struct {
	Notes      []notePayload     `json:"notes"`
	Pagination paginationPayload `json:"pagination"`
}

func newNotePageResponse(p service.NotePage) notePageResponse {
	notes := make([]notePayload, 0, len(p.Notes))
	for _, n := range p.Notes {
		notes = append(notes, newNotePayload(n))
	}
	return notePageResponse{
		Notes: notes,
		Pagination: paginationPayload{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
			Pages: p.Pages(),
		},
	}
}
