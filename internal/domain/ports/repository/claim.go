package repository

import (
	"context"

	"telegram-voucher-bot/internal/domain/model"
)

// -----------------------------
// Claim ledger
// -----------------------------

type ClaimRepository interface {
	// Save inserts the record. A second insert for the same TelegramID
	// fails with domain.ErrAlreadyClaimed (unique constraint).
	Save(ctx context.Context, tx Tx, rec *model.ClaimRecord) error
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.ClaimRecord, error)
	HasClaimed(ctx context.Context, tx Tx, tgID int64) (bool, error)
	ListRecentWinners(ctx context.Context, tx Tx, n int) ([]*model.ClaimRecord, error)
	CountClaims(ctx context.Context, tx Tx) (int, error)
	CountBonusWins(ctx context.Context, tx Tx) (int, error)
	// RemoveInvalid deletes malformed rows and returns how many were removed.
	RemoveInvalid(ctx context.Context, tx Tx) (int, error)
}
