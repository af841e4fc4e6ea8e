package analyses

import "context"

// Repo persists analyses. Analyses are immutable once created.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	// GetByID returns ErrNotFound for unknown ids. Ownership is checked by the caller.
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	// ListByUser returns the user's analyses newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
}
