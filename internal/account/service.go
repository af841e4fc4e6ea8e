// Package account moves data collected under a guest identity to the
// signed-in user.
package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"mietrecht-backend/internal/shared/telemetry"
)

// ErrInvalidInput is returned when either identity is missing.
var ErrInvalidInput = errors.New("guest and user id are required")

// GuestClaimer reassigns rows owned by a guest identity.
type GuestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error)
}

// Service claims guest documents and analyses. With DB set both tables are
// updated in one transaction; otherwise the in-memory claimers are used.
type Service struct {
	DB        *sql.DB
	Documents GuestClaimer
	Analyses  GuestClaimer
}

type ClaimResult struct {
	MigratedDocuments int `json:"migratedDocuments"`
	MigratedAnalyses  int `json:"migratedAnalyses"`
}

// ClaimGuest is idempotent: a second call finds nothing left to move.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, userID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(userID) == "" {
		return ClaimResult{}, ErrInvalidInput
	}

	var (
		result ClaimResult
		err    error
	)
	if s.DB != nil {
		result, err = claimWithTx(ctx, s.DB, guestUserID, userID)
	} else {
		result, err = s.claimEach(ctx, guestUserID, userID)
	}
	if err != nil {
		return ClaimResult{}, err
	}
	telemetry.Info("account.guest_claimed", map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"user_id":    userID,
		"documents":  result.MigratedDocuments,
		"analyses":   result.MigratedAnalyses,
	})
	return result, nil
}

func (s *Service) claimEach(ctx context.Context, guestUserID, userID string) (ClaimResult, error) {
	if s.Documents == nil || s.Analyses == nil {
		return ClaimResult{}, errors.New("account: claimers not configured")
	}
	docs, err := s.Documents.ClaimGuest(ctx, guestUserID, userID)
	if err != nil {
		return ClaimResult{}, err
	}
	analyses, err := s.Analyses.ClaimGuest(ctx, guestUserID, userID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedDocuments: docs, MigratedAnalyses: analyses}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, userID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	docRes, err := tx.ExecContext(ctx, `UPDATE documents SET user_id = $1 WHERE user_id = $2`, userID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	docCount, _ := docRes.RowsAffected()

	analysisRes, err := tx.ExecContext(ctx, `UPDATE analyses SET user_id = $1 WHERE user_id = $2`, userID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	analysisCount, _ := analysisRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedDocuments: int(docCount), MigratedAnalyses: int(analysisCount)}, nil
}
