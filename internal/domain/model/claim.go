package model

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"telegram-voucher-bot/internal/domain"
)

// ClaimRecord is the ledger entry written once per Telegram user when a
// voucher is handed out. TelegramID carries a unique constraint in storage;
// that constraint, not this struct, is the dedup authority.
type ClaimRecord struct {
	ID          string
	TelegramID  int64
	Username    string
	Amount      int64 // sats
	WonBonus    bool
	BonusAmount *int64 // set only when WonBonus
	ClaimedAt   time.Time
}

// NewClaimRecord builds a validated record with a fresh ULID.
func NewClaimRecord(tgID int64, username string, amount int64) (*ClaimRecord, error) {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	rec := &ClaimRecord{
		ID:         ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		TelegramID: tgID,
		Username:   username,
		Amount:     amount,
		ClaimedAt:  now,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// GrantBonus marks the record as a bonus win.
func (c *ClaimRecord) GrantBonus(amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidArgument
	}
	c.WonBonus = true
	c.BonusAmount = &amount
	return nil
}

// Validate checks the well-formedness invariants: positive IDs and amounts,
// and bonus fields consistent with WonBonus.
func (c *ClaimRecord) Validate() error {
	if c.TelegramID <= 0 {
		return domain.ErrInvalidArgument
	}
	if c.Amount <= 0 {
		return domain.ErrInvalidArgument
	}
	if c.WonBonus && (c.BonusAmount == nil || *c.BonusAmount <= 0) {
		return domain.ErrInvalidArgument
	}
	if !c.WonBonus && c.BonusAmount != nil {
		return domain.ErrInvalidArgument
	}
	return nil
}
