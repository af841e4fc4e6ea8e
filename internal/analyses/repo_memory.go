package analyses

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryRepo keeps analyses in a map keyed by id; safe for concurrent use.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Analysis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	analysis.Issues = slices.Clone(analysis.Issues)
	r.mu.Lock()
	r.items[analysis.ID] = analysis
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	analysis, ok := r.items[analysisID]
	r.mu.RUnlock()
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// ListByUser orders by CreatedAt descending, ties broken by id so paging is
// stable across calls.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var owned []Analysis
	for _, a := range r.items {
		if a.UserID == userID {
			owned = append(owned, a)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(owned, func(a, b Analysis) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	offset = max(offset, 0)
	if offset >= len(owned) {
		return []Analysis{}, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

// ClaimGuest reassigns the guest's analyses to userID and reports how many
// moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := 0
	for id, a := range r.items {
		if a.UserID == guestUserID {
			a.UserID = userID
			r.items[id] = a
			moved++
		}
	}
	return moved, nil
}

var _ Repo = (*MemoryRepo)(nil)
