package users

import (
	"context"
	"errors"

	"mietrecht-backend/internal/legal"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("invalid role")
)

type Repo interface {
	// Upsert stores identity fields; an existing role is preserved.
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	UpdateRole(ctx context.Context, userID string, role legal.UserRole) error
}
