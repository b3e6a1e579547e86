package usecase

import (
	"context"

	"telegram-voucher-bot/internal/domain/ports/repository"
	"telegram-voucher-bot/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ CleanupUseCase = (*cleanupUC)(nil)

type CleanupUseCase interface {
	// RemoveInvalid drops malformed ledger and pool rows and returns the
	// total removed. Well-formed rows are never touched.
	RemoveInvalid(ctx context.Context) (int, error)
}

type cleanupUC struct {
	claims   repository.ClaimRepository
	vouchers repository.VoucherRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewCleanupUseCase(claims repository.ClaimRepository, vouchers repository.VoucherRepository, tm repository.TransactionManager, logger *zerolog.Logger) *cleanupUC {
	return &cleanupUC{claims: claims, vouchers: vouchers, tm: tm, log: logger}
}

func (c *cleanupUC) RemoveInvalid(ctx context.Context) (int, error) {
	defer logging.TraceDuration(c.log, "CleanupUC.RemoveInvalid")()

	total := 0
	err := c.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		nClaims, err := c.claims.RemoveInvalid(ctx, tx)
		if err != nil {
			return err
		}
		nVouchers, err := c.vouchers.RemoveInvalid(ctx, tx)
		if err != nil {
			return err
		}
		total = nClaims + nVouchers
		return nil
	})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		c.log.Info().Int("removed", total).Msg("invalid records removed")
	}
	return total, nil
}
