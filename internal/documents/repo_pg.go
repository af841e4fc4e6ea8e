package documents

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, file_name, mime_type, document_type, size_bytes, storage_provider, storage_key, extracted_text_key, extracted_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc          Document
		extractedKey sql.NullString
		extractedAt  sql.NullTime
	)
	err := row.Scan(&doc.ID, &doc.UserID, &doc.FileName, &doc.MimeType, &doc.DocumentType, &doc.SizeBytes,
		&doc.StorageProvider, &doc.StorageKey, &extractedKey, &extractedAt, &doc.CreatedAt)
	if err != nil {
		return Document{}, err
	}
	doc.ExtractedTextKey = extractedKey.String
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

// Create inserts a document. Missing type and provider fall back to
// rental_contract and local.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const stmt = `INSERT INTO documents
(id, user_id, file_name, mime_type, document_type, size_bytes, storage_provider, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	docType := cmp.Or(doc.DocumentType, TypeRentalContract)
	provider := cmp.Or(doc.StorageProvider, "local")
	_, err := r.DB.ExecContext(ctx, stmt,
		doc.ID, doc.UserID, doc.FileName, doc.MimeType, string(docType),
		doc.SizeBytes, provider, doc.StorageKey, doc.CreatedAt,
	)
	return err
}

// selectOne runs a single-row query against the documents table.
func (r *PGRepo) selectOne(ctx context.Context, where string, args ...any) (Document, error) {
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE "+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// GetCurrentByUser returns the owner's most recent upload.
func (r *PGRepo) GetCurrentByUser(ctx context.Context, userID string) (Document, error) {
	return r.selectOne(ctx, "user_id = $1 ORDER BY created_at DESC LIMIT 1", userID)
}

func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	return r.selectOne(ctx, "user_id = $1 AND id = $2", userID, documentID)
}

// ListByUser pages newest first; limit is clamped to [1,100], 20 when unset.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	limit = min(limit, 100)
	offset = max(offset, 0)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateExtraction stores the extracted text metadata for a document.
func (r *PGRepo) UpdateExtraction(ctx context.Context, userID, documentID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE documents
SET extracted_text_key = $1, extracted_at = $2
WHERE user_id = $3 AND id = $4 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, userID, documentID)
	return err
}

var _ DocumentsRepo = (*PGRepo)(nil)
