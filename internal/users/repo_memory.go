package users

import (
	"context"
	"sync"
	"time"

	"mietrecht-backend/internal/legal"
)

// MemoryRepo backs dev and test runs without Postgres.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User), now: time.Now}
}

// update runs fn under the write lock with the stored user, if any, and
// saves what fn returns.
func (r *MemoryRepo) update(ctx context.Context, userID string, fn func(existing User, found bool) (User, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, found := r.users[userID]
	next, err := fn(existing, found)
	if err != nil {
		return err
	}
	next.UpdatedAt = r.now().UTC()
	r.users[userID] = next
	return nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	return r.update(ctx, user.ID, func(existing User, found bool) (User, error) {
		if !found {
			user.CreatedAt = r.now().UTC()
			if user.Role == "" {
				user.Role = legal.RoleTenant
			}
			return user, nil
		}
		user.CreatedAt, user.Role = existing.CreatedAt, existing.Role
		return user, nil
	})
}

func (r *MemoryRepo) UpdateRole(ctx context.Context, userID string, role legal.UserRole) error {
	return r.update(ctx, userID, func(existing User, found bool) (User, error) {
		if !found {
			return User{}, ErrNotFound
		}
		existing.Role = role
		return existing, nil
	})
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.users[userID]; ok {
		return user, nil
	}
	return User{}, ErrNotFound
}
