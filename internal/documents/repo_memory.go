package documents

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepo keeps documents in insertion order. Used by tests and by the
// server when DATABASE_URL is unset.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// indexOf returns the position of the owner's document, or -1.
func (r *MemoryRepo) indexOf(userID, documentID string) int {
	return slices.IndexFunc(r.docs, func(d Document) bool {
		return d.UserID == userID && d.ID == documentID
	})
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.docs = append(r.docs, doc)
	r.mu.Unlock()
	return nil
}

// GetCurrentByUser returns the document the owner uploaded last.
func (r *MemoryRepo) GetCurrentByUser(ctx context.Context, userID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].UserID == userID {
			return r.docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(userID, documentID); i >= 0 {
		return r.docs[i], nil
	}
	return Document{}, ErrNotFound
}

// UpdateExtraction sets the extracted text key once; a document that already
// has one keeps it.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, userID, documentID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(userID, documentID)
	if i < 0 {
		return ErrNotFound
	}
	if r.docs[i].ExtractedTextKey == "" {
		r.docs[i].ExtractedTextKey = extractedKey
		r.docs[i].ExtractedAt = &extractedAt
	}
	return nil
}

// ListByUser pages through the owner's documents by CreatedAt descending.
// A non-positive limit returns everything after offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var owned []Document
	for _, d := range r.docs {
		if d.UserID == userID {
			owned = append(owned, d)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(owned, func(a, b Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	offset = max(offset, 0)
	if offset >= len(owned) {
		return []Document{}, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

// ClaimGuest reassigns every document of guestUserID to userID and returns
// how many moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := 0
	for i := range r.docs {
		if r.docs[i].UserID == guestUserID {
			r.docs[i].UserID = userID
			moved++
		}
	}
	return moved, nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
