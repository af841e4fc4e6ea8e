package documents

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepoListNewestFirstWithPaging(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, Document{ID: id, UserID: "u", CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	docs, err := repo.ListByUser(ctx, "u", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "c" || docs[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", docs)
	}
	docs, _ = repo.ListByUser(ctx, "u", 2, 2)
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Fatalf("unexpected page: %+v", docs)
	}
}

func TestMemoryRepoUpdateExtractionOnlyOnce(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, Document{ID: "d", UserID: "u"})

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdateExtraction(ctx, "u", "d", "k1", first); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.UpdateExtraction(ctx, "u", "d", "k2", first.Add(time.Hour)); err != nil {
		t.Fatalf("update: %v", err)
	}
	doc, _ := repo.GetByID(ctx, "u", "d")
	if doc.ExtractedTextKey != "k1" || !doc.ExtractedAt.Equal(first) {
		t.Fatalf("extraction overwritten: %+v", doc)
	}
	if err := repo.UpdateExtraction(ctx, "u", "missing", "k", first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseDocumentType(t *testing.T) {
	if got, ok := ParseDocumentType(""); !ok || got != TypeRentalContract {
		t.Fatalf("empty should default to rental_contract")
	}
	if got, ok := ParseDocumentType(" Utility_Statement "); !ok || got != TypeUtilityStatement {
		t.Fatalf("expected utility_statement, got %q", got)
	}
	if _, ok := ParseDocumentType("poem"); ok {
		t.Fatalf("expected unknown type to be rejected")
	}
}
