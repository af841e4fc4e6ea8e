package documents

import (
	"strings"
	"time"
)

// DocumentType tells the analyzer which rule set applies.
type DocumentType string

const (
	TypeRentalContract   DocumentType = "rental_contract"
	TypeUtilityStatement DocumentType = "utility_statement"
	TypeRentIncrease     DocumentType = "rent_increase_notice"
	TypeTermination      DocumentType = "termination_notice"
	TypeCorrespondence   DocumentType = "correspondence"
	TypeOther            DocumentType = "other"
)

// ParseDocumentType maps user input to a DocumentType. Empty input selects
// rental_contract; unknown values return false.
func ParseDocumentType(raw string) (DocumentType, bool) {
	switch t := DocumentType(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return TypeRentalContract, true
	case TypeRentalContract, TypeUtilityStatement, TypeRentIncrease, TypeTermination, TypeCorrespondence, TypeOther:
		return t, true
	default:
		return "", false
	}
}

// Document represents an uploaded document owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	DocumentType     DocumentType
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
