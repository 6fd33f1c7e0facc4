package sqlite

import (
	"context"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
)

type notesRepo struct {
	q querier
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, tenant_id, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, n.TenantID, n.AuthorID, now, now,
	)
	return err
}

func (r *notesRepo) GetNoteByID(ctx context.Context, tenantID, id string) (domain.Note, error) {
	var n domain.Note
	err := r.q.QueryRowContext(ctx, `
		SELECT n.id, n.title, n.content, n.tenant_id, n.author_id,
		       n.created_at, n.updated_at, u.email
		FROM notes n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = ? AND n.tenant_id = ?`, id, tenantID,
	).Scan(
		&n.ID, &n.Title, &n.Content, &n.TenantID, &n.AuthorID,
		&n.CreatedAt, &n.UpdatedAt, &n.AuthorEmail,
	)
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notesRepo) ListTenantNotes(ctx context.Context, tenantID string, limit, offset int) ([]domain.Note, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT n.id, n.title, n.content, n.tenant_id, n.author_id,
		       n.created_at, n.updated_at, u.email
		FROM notes n
		JOIN users u ON u.id = n.author_id
		WHERE n.tenant_id = ?
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT ? OFFSET ?`, tenantID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Content, &n.TenantID, &n.AuthorID,
			&n.CreatedAt, &n.UpdatedAt, &n.AuthorEmail,
		); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notesRepo) CountTenantNotes(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE tenant_id = ?`, tenantID,
	).Scan(&count)
	return count, err
}

func (r *notesRepo) UpdateNote(ctx context.Context, id, title, content string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, time.Now().UTC(), id,
	)
	return err
}

func (r *notesRepo) DeleteNote(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}
