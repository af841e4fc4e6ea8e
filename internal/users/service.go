package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mietrecht-backend/internal/legal"
)

var errNoRepo = errors.New("users: repository not configured")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) repo() (Repo, error) {
	if s == nil || s.Repo == nil {
		return nil, errNoRepo
	}
	return s.Repo, nil
}

// UpsertFromAuth records the identity returned by Google after each login.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("users: id and email are required")
	}
	return repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	repo, err := s.repo()
	if err != nil {
		return User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return repo.GetByID(ctx, userID)
}

// SetRole stores tenant or landlord and returns the updated user.
func (s *Service) SetRole(ctx context.Context, userID string, raw string) (User, error) {
	repo, err := s.repo()
	if err != nil {
		return User{}, err
	}
	role := legal.ParseUserRole(raw)
	if role == "" {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	if err := repo.UpdateRole(ctx, userID, role); err != nil {
		return User{}, err
	}
	return repo.GetByID(ctx, userID)
}

// RoleOf is the role used to pick guidance wording.
func (s *Service) RoleOf(ctx context.Context, userID string) (legal.UserRole, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
