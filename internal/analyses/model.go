package analyses

import (
	"time"

	"mietrecht-backend/internal/documents"
	"mietrecht-backend/internal/legal"
)

// Analysis is the persisted outcome of checking one document.
type Analysis struct {
	ID           string                      `json:"id"`
	DocumentID   string                      `json:"documentId"`
	UserID       string                      `json:"userId"`
	DocumentType documents.DocumentType      `json:"documentType"`
	Issues       []legal.Issue               `json:"issues"`
	Extracted    legal.ExtractedContractData `json:"extracted"`
	CreatedAt    time.Time                   `json:"createdAt"`
}
