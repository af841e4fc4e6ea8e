package users

import (
	"context"
	"database/sql"
	"errors"

	"mietrecht-backend/internal/legal"
)

// PGRepo stores users in the users table. Roles are written only through
// UpdateRole so a login never resets them.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO users (id, email, name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email, name = EXCLUDED.name, picture_url = EXCLUDED.picture_url, updated_at = now()`,
		user.ID, user.Email, user.Name, user.PictureURL)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	var (
		u    User
		role sql.NullString
	)
	row := r.DB.QueryRowContext(ctx,
		"SELECT id, email, name, picture_url, role, created_at, updated_at FROM users WHERE id = $1", userID)
	switch err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PictureURL, &role, &u.CreatedAt, &u.UpdatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return User{}, ErrNotFound
	case err != nil:
		return User{}, err
	}
	u.Role = legal.ParseUserRole(role.String)
	return u, nil
}

// UpdateRole returns ErrNotFound when no row matched.
func (r *PGRepo) UpdateRole(ctx context.Context, userID string, role legal.UserRole) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role = $1, updated_at = now() WHERE id = $2", string(role), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
