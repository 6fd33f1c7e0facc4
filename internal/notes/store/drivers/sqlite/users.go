package sqlite

import (
	"context"
	"time"

	"github.com/harborview/notesvc/internal/notes/domain"
)

type usersRepo struct {
	q querier
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, tenant_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, string(u.Role), u.TenantID, now, now,
	)
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, tenant_id, created_at, updated_at
		FROM users WHERE id = ?`, id,
	))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, tenant_id, created_at, updated_at
		FROM users WHERE email = ?`, email,
	))
}

func (r *usersRepo) ListTenantUsers(ctx context.Context, tenantID string) ([]domain.TenantUser, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.role, u.tenant_id, u.created_at, u.updated_at,
		       COUNT(n.id) AS note_count
		FROM users u
		LEFT JOIN notes n ON n.author_id = u.id
		WHERE u.tenant_id = ?
		GROUP BY u.id
		ORDER BY u.created_at DESC, u.id DESC`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.TenantUser
	for rows.Next() {
		var tu domain.TenantUser
		var role string
		if err := rows.Scan(
			&tu.ID, &tu.Email, &tu.PasswordHash, &role, &tu.TenantID,
			&tu.CreatedAt, &tu.UpdatedAt, &tu.NoteCount,
		); err != nil {
			return nil, err
		}
		tu.Role = domain.Role(role)
		users = append(users, tu)
	}
	return users, rows.Err()
}

func (r *usersRepo) CountTenantUsers(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = ?`, tenantID,
	).Scan(&count)
	return count, err
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.TenantID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	return u, nil
}
