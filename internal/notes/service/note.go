package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborview/notesvc/internal/notes/domain"
	"github.com/harborview/notesvc/internal/notes/store"
	"github.com/harborview/notesvc/pkg/idx"
	"github.com/harborview/notesvc/pkg/slogx"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNotNoteAuthor    = errors.New("caller is not the note's author")
	ErrNoteLimitReached = errors.New("free plan note limit reached")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type NoteService struct {
	Store store.Store
}

// CreateNote inserts a note owned by the caller's tenant. The FREE plan cap
// is checked inside the same transaction as the insert; sqlite's single
// writer makes the count-then-insert pair effectively atomic.
func (s *NoteService) CreateNote(ctx context.Context, tenantID, authorID, title, content string) (domain.Note, error) {
	log := slogx.FromContext(ctx)
	noteID := idx.New().String()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		tenant, err := tx.Tenants().GetTenantByID(ctx, tenantID)
		if err != nil {
			return err
		}

		if tenant.Plan == domain.PlanFree {
			count, err := tx.Notes().CountTenantNotes(ctx, tenantID)
			if err != nil {
				return err
			}
			if count >= domain.FreePlanNoteLimit {
				return ErrNoteLimitReached
			}
		}

		return tx.Notes().CreateNote(ctx, domain.Note{
			ID:       noteID,
			Title:    title,
			Content:  content,
			TenantID: tenantID,
			AuthorID: authorID,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNoteLimitReached) {
			log.Error("failed to create note", slog.Any("error", err))
		}
		return domain.Note{}, err
	}

	// Re-read for the joined author email.
	note, err := s.Store.Notes().GetNoteByID(ctx, tenantID, noteID)
	if err != nil {
		return domain.Note{}, err
	}

	log.Debug("note created",
		slog.String("note_id", note.ID),
		slog.String("tenant_id", tenantID),
	)

	return note, nil
}

// NotePage is one page of a tenant's notes plus the numbers the pagination
// envelope needs.
type NotePage struct {
	Notes []domain.Note
	Page  int
	Limit int
	Total int64
}

// Pages computes the page count for the current limit.
func (p NotePage) Pages() int64 {
	return (p.Total + int64(p.Limit) - 1) / int64(p.Limit)
}

// ListNotes returns the tenant's notes newest first. Page and limit are
// normalized to page >= 1 and 1 <= limit <= 100, defaulting to 10 per page.
func (s *NoteService) ListNotes(ctx context.Context, tenantID string, page, limit int) (NotePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	notes, err := s.Store.Notes().ListTenantNotes(ctx, tenantID, limit, (page-1)*limit)
	if err != nil {
		return NotePage{}, err
	}
	total, err := s.Store.Notes().CountTenantNotes(ctx, tenantID)
	if err != nil {
		return NotePage{}, err
	}

	return NotePage{Notes: notes, Page: page, Limit: limit, Total: total}, nil
}

// GetNote fetches one note within the caller's tenant. Notes belonging to
// other tenants surface as ErrNoteNotFound, never as a permission failure,
// so their existence is not confirmed across tenants.
func (s *NoteService) GetNote(ctx context.Context, tenantID, noteID string) (domain.Note, error) {
	note, err := s.Store.Notes().GetNoteByID(ctx, tenantID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Note{}, ErrNoteNotFound
		}
		return domain.Note{}, err
	}
	return note, nil
}

// UpdateNote overwrites a note's title and content. Only the author may
// update a note; admins cannot edit others' notes.
func (s *NoteService) UpdateNote(ctx context.Context, tenantID, callerID, noteID, title, content string) (domain.Note, error) {
	note, err := s.GetNote(ctx, tenantID, noteID)
	if err != nil {
		return domain.Note{}, err
	}

	if note.AuthorID != callerID {
		return domain.Note{}, ErrNotNoteAuthor
	}

	if err := s.Store.Notes().UpdateNote(ctx, noteID, title, content); err != nil {
		slogx.FromContext(ctx).Error("failed to update note",
			slog.String("note_id", noteID),
			slog.Any("error", err),
		)
		return domain.Note{}, err
	}

	return s.GetNote(ctx, tenantID, noteID)
}

// DeleteNote removes a note. The author may always delete their own note;
// tenant ADMINs may delete any note in their tenant.
func (s *NoteService) DeleteNote(ctx context.Context, tenantID, callerID string, callerRole domain.Role, noteID string) error {
	note, err := s.GetNote(ctx, tenantID, noteID)
	if err != nil {
		return err
	}

	if note.AuthorID != callerID && callerRole != domain.RoleAdmin {
		return ErrNotNoteAuthor
	}

	if err := s.Store.Notes().DeleteNote(ctx, noteID); err != nil {
		slogx.FromContext(ctx).Error("failed to delete note",
			slog.String("note_id", noteID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
