package extract

import (
	"context"
	"io"
	"time"

	"mietrecht-backend/internal/documents"
	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/shared/storage/object"
	"mietrecht-backend/internal/shared/telemetry"
)

// ExtractionRecorder persists where the extracted text of a document lives.
type ExtractionRecorder interface {
	UpdateExtraction(ctx context.Context, userID, documentID, extractedKey string, extractedAt time.Time) error
}

// ContractExtractor turns a stored document into ExtractedContractData,
// reusing the cached text copy when one exists.
type ContractExtractor struct {
	Store    object.ObjectStore
	Recorder ExtractionRecorder
	Now      func() time.Time
}

func (e *ContractExtractor) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

// Extract returns the contract fields found in doc. Errors from storage or
// the text decoders are returned as is; an empty text layer yields empty data.
func (e *ContractExtractor) Extract(ctx context.Context, doc documents.Document) (legal.ExtractedContractData, error) {
	text, err := e.Text(ctx, doc)
	if err != nil {
		return legal.ExtractedContractData{}, err
	}
	return ParseContract(text), nil
}

// Text returns the plain text of doc, extracting and caching it on first use.
func (e *ContractExtractor) Text(ctx context.Context, doc documents.Document) (string, error) {
	if doc.ExtractedTextKey != "" {
		text, err := e.readCached(ctx, doc.ExtractedTextKey)
		if err == nil {
			return text, nil
		}
		telemetry.Warn("extract.cache_miss", map[string]any{
			"document_id": doc.ID,
			"key":         doc.ExtractedTextKey,
			"error":       err,
		})
	}

	start := time.Now()
	text, err := ExtractText(ctx, e.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return "", err
	}
	telemetry.Info("extract.complete", map[string]any{
		"document_id": doc.ID,
		"mime_type":   doc.MimeType,
		"chars":       len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if e.Recorder != nil {
		key := doc.StorageKey + ExtractedSuffix
		if err := e.Recorder.UpdateExtraction(ctx, doc.UserID, doc.ID, key, e.now()); err != nil {
			telemetry.Warn("extract.record_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err,
			})
		}
	}
	return text, nil
}

func (e *ContractExtractor) readCached(ctx context.Context, key string) (string, error) {
	rc, err := e.Store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
