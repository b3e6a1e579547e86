package model

import (
	"strings"
	"time"

	"telegram-voucher-bot/internal/domain"
)

// Voucher is one LNURL-withdraw payload in the local pool. Vouchers are
// minted in batches against the wallet backend and assigned to claimants
// exactly once; AssignedTo is nil while the voucher is still free.
type Voucher struct {
	ID         int64
	LNURL      string
	LinkID     string // withdraw link the LNURL was minted under
	Amount     int64  // sats
	Bonus      bool
	AssignedTo *string
	AssignedAt *time.Time
}

func (v *Voucher) Assigned() bool { return v.AssignedTo != nil }

// Validate rejects rows with a missing payload or link reference.
func (v *Voucher) Validate() error {
	if strings.TrimSpace(v.LNURL) == "" {
		return domain.ErrInvalidArgument
	}
	if strings.TrimSpace(v.LinkID) == "" {
		return domain.ErrInvalidArgument
	}
	if v.Amount <= 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}
