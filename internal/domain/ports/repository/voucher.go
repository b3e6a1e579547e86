package repository

import (
	"context"

	"telegram-voucher-bot/internal/domain/model"
)

// -----------------------------
// Voucher pool
// -----------------------------

type VoucherRepository interface {
	// ImportBatch inserts minted LNURLs, silently skipping duplicates.
	// Returns how many new rows were stored.
	ImportBatch(ctx context.Context, tx Tx, vouchers []*model.Voucher) (int, error)
	// AssignNext marks the next unassigned voucher (bonus or normal pool)
	// as assigned to tag and returns it. domain.ErrNoVouchersLeft when the
	// pool is empty. Must be called inside a transaction so a failed claim
	// rolls the assignment back.
	AssignNext(ctx context.Context, tx Tx, bonus bool, tag string) (*model.Voucher, error)
	CountUnassigned(ctx context.Context, tx Tx, bonus bool) (int, error)
	CountAssigned(ctx context.Context, tx Tx) (int, error)
	// RemoveInvalid deletes pool rows with an empty payload or link id.
	RemoveInvalid(ctx context.Context, tx Tx) (int, error)
}
