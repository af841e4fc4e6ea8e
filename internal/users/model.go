package users

import (
	"time"

	"mietrecht-backend/internal/legal"
)

type User struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	PictureURL string         `json:"pictureUrl"`
	Role       legal.UserRole `json:"role"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
