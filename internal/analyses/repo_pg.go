package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mietrecht-backend/internal/legal"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, document_id, user_id, document_type, issues, extracted, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts an analysis. Issues and extracted data are stored as JSONB;
// a nil issue list is written as [].
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const stmt = `INSERT INTO analyses (` + analysisColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	issues := analysis.Issues
	if issues == nil {
		issues = []legal.Issue{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	extractedJSON, err := json.Marshal(analysis.Extracted)
	if err != nil {
		return fmt.Errorf("marshal extracted: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, stmt,
		analysis.ID, analysis.DocumentID, analysis.UserID, string(analysis.DocumentType),
		issuesJSON, extractedJSON, analysis.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+analysisColumns+" FROM analyses WHERE id = $1", analysisID)
	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

// ListByUser pages newest first with the same limit clamp as documents.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+analysisColumns+" FROM analyses WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, min(limit, 100), max(offset, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Analysis{}
	}
	return out, nil
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var (
		a                 Analysis
		issues, extracted []byte
	)
	if err := row.Scan(&a.ID, &a.DocumentID, &a.UserID, &a.DocumentType, &issues, &extracted, &a.CreatedAt); err != nil {
		return Analysis{}, err
	}
	a.Issues = []legal.Issue{}
	if len(issues) > 0 {
		if err := json.Unmarshal(issues, &a.Issues); err != nil {
			return Analysis{}, fmt.Errorf("decode issues for analysis %s: %w", a.ID, err)
		}
	}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &a.Extracted); err != nil {
			return Analysis{}, fmt.Errorf("decode extracted data for analysis %s: %w", a.ID, err)
		}
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
