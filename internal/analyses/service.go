package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mietrecht-backend/internal/analyses/rules"
	"mietrecht-backend/internal/documents"
	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/shared/metrics"
	"mietrecht-backend/internal/shared/telemetry"
)

// DocumentLookup resolves document metadata owned by a user.
type DocumentLookup interface {
	GetByID(ctx context.Context, userID, documentID string) (documents.Document, error)
}

// Extractor reads contract fields from a stored document.
type Extractor interface {
	Extract(ctx context.Context, doc documents.Document) (legal.ExtractedContractData, error)
}

// Analyzer checks uploaded documents against statutory thresholds and
// completeness rules.
type Analyzer struct {
	Repo       Repo
	Documents  DocumentLookup
	Extractor  Extractor
	Thresholds rules.Thresholds
	Now        func() time.Time
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *Analyzer) thresholds() rules.Thresholds {
	if a.Thresholds == (rules.Thresholds{}) {
		return rules.DefaultThresholds()
	}
	return a.Thresholds
}

// Analyze runs the rule set for the document's type and persists the result.
// A missing document yields ErrNotFound and a failed extraction ErrExtraction;
// in both cases nothing is stored.
func (a *Analyzer) Analyze(ctx context.Context, userID, documentID string) (Analysis, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(documentID) == "" {
		return Analysis{}, fmt.Errorf("%w: user id and document id required", ErrInvalidInput)
	}

	start := time.Now()
	metrics.IncAnalysisStarted()
	fields := map[string]any{
		"request_id":  telemetry.RequestID(ctx),
		"user_id":     userID,
		"document_id": documentID,
	}

	doc, err := a.Documents.GetByID(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			a.fail(fields, "not_found", err)
			return Analysis{}, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		a.fail(fields, "document_lookup", err)
		return Analysis{}, err
	}

	docType := doc.DocumentType
	if docType == "" {
		docType = documents.TypeRentalContract
	}
	fields["document_type"] = string(docType)

	var extracted legal.ExtractedContractData
	issues := []legal.Issue{}
	if docType == documents.TypeRentalContract {
		extracted, err = a.Extractor.Extract(ctx, doc)
		if err != nil {
			a.fail(fields, "extraction", err)
			return Analysis{}, fmt.Errorf("%w: document %s: %w", ErrExtraction, documentID, err)
		}
		issues = rules.Evaluate(extracted, a.thresholds())
	}

	analysis := Analysis{
		ID:           uuid.NewString(),
		DocumentID:   doc.ID,
		UserID:       userID,
		DocumentType: docType,
		Issues:       issues,
		Extracted:    extracted,
		CreatedAt:    a.now(),
	}
	if err := a.Repo.Create(ctx, analysis); err != nil {
		a.fail(fields, "persist", err)
		return Analysis{}, err
	}

	for _, issue := range issues {
		metrics.AddIssue(string(issue.Type), string(issue.Severity))
	}
	elapsed := time.Since(start)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))

	fields["analysis_id"] = analysis.ID
	fields["issues"] = len(issues)
	fields["duration_ms"] = elapsed.Milliseconds()
	telemetry.Info("analysis.complete", fields)
	return analysis, nil
}

func (a *Analyzer) fail(fields map[string]any, reason string, err error) {
	metrics.IncAnalysisFailed(reason)
	logFields := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		logFields[k] = v
	}
	logFields["reason"] = reason
	logFields["error"] = err
	telemetry.Error("analysis.failed", logFields)
}

// Get returns an analysis owned by userID.
func (a *Analyzer) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if userID == "" || strings.TrimSpace(analysisID) == "" {
		return Analysis{}, fmt.Errorf("%w: user id and analysis id required", ErrInvalidInput)
	}
	analysis, err := a.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// List returns analyses for a user ordered newest-first.
func (a *Analyzer) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return a.Repo.ListByUser(ctx, userID, limit, offset)
}
