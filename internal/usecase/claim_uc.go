package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"telegram-voucher-bot/internal/config"
	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/repository"
	"telegram-voucher-bot/internal/infra/logging"
	"telegram-voucher-bot/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ClaimUseCase = (*claimUC)(nil)

// ClaimResult is what a successful claim hands back to the bot: the ledger
// record (nil for admin test claims) and the assigned voucher(s).
type ClaimResult struct {
	Record *model.ClaimRecord
	Normal *model.Voucher
	Bonus  *model.Voucher
}

// ClaimUseCase orchestrates the one-claim-per-user flow.
type ClaimUseCase interface {
	// Claim assigns a voucher to the user, rolls the lucky bonus and
	// records the claim atomically. Duplicate claims return
	// domain.ErrAlreadyClaimed; admins bypass dedup.
	Claim(ctx context.Context, tgID int64, username string, isAdmin bool) (*ClaimResult, error)
	PreviousClaim(ctx context.Context, tgID int64) (*model.ClaimRecord, error)
}

// ClaimLocker is the per-user lock around the claim path. Implemented by
// the Redis locker; nil disables locking (the DB constraint still holds).
type ClaimLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

type claimUC struct {
	claims   repository.ClaimRepository
	vouchers repository.VoucherRepository
	tm       repository.TransactionManager
	pool     PoolUseCase
	selector *BonusSelector
	locker   ClaimLocker
	vcfg     config.VoucherConfig
	lockTTL  time.Duration
	log      *zerolog.Logger
}

func NewClaimUseCase(
	claims repository.ClaimRepository,
	vouchers repository.VoucherRepository,
	tm repository.TransactionManager,
	pool PoolUseCase,
	selector *BonusSelector,
	locker ClaimLocker,
	vcfg config.VoucherConfig,
	lockTTL time.Duration,
	logger *zerolog.Logger,
) *claimUC {
	return &claimUC{
		claims:   claims,
		vouchers: vouchers,
		tm:       tm,
		pool:     pool,
		selector: selector,
		locker:   locker,
		vcfg:     vcfg,
		lockTTL:  lockTTL,
		log:      logger,
	}
}

func claimLockKey(tgID int64) string { return fmt.Sprintf("claim_lock:%d", tgID) }

func (c *claimUC) Claim(ctx context.Context, tgID int64, username string, isAdmin bool) (*ClaimResult, error) {
	defer logging.TraceDuration(c.log, "ClaimUC.Claim")()

	if c.locker != nil {
		token, err := c.locker.TryLock(ctx, claimLockKey(tgID), c.lockTTL)
		switch {
		case errors.Is(err, domain.ErrClaimInProgress):
			metrics.IncClaim("duplicate")
			return nil, domain.ErrClaimInProgress
		case err != nil:
			// Lock store unreachable: proceed, the unique constraint on
			// the ledger still prevents a duplicate grant.
			c.log.Warn().Err(err).Int64("tg_id", tgID).Msg("claim lock unavailable")
		default:
			defer func() {
				if uerr := c.locker.Unlock(context.Background(), claimLockKey(tgID), token); uerr != nil {
					c.log.Warn().Err(uerr).Int64("tg_id", tgID).Msg("claim unlock failed")
				}
			}()
		}
	}

	if !isAdmin {
		claimed, err := c.claims.HasClaimed(ctx, repository.NoTX, tgID)
		if err != nil {
			metrics.IncClaim("failed")
			return nil, err
		}
		if claimed {
			metrics.IncClaim("duplicate")
			return nil, domain.ErrAlreadyClaimed
		}
	}

	res, err := c.claimTx(ctx, tgID, username, isAdmin)
	if errors.Is(err, domain.ErrNoVouchersLeft) && c.pool != nil {
		c.log.Info().Int64("tg_id", tgID).Msg("voucher pool empty, minting a fresh batch")
		if _, merr := c.pool.MintBatch(ctx, false); merr != nil {
			metrics.IncClaim("failed")
			return nil, merr
		}
		res, err = c.claimTx(ctx, tgID, username, isAdmin)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			metrics.IncClaim("duplicate")
		} else {
			metrics.IncClaim("failed")
		}
		return nil, err
	}

	metrics.IncClaim("granted")
	metrics.IncVoucherSent("normal")
	if res.Bonus != nil {
		metrics.IncBonusWin()
		metrics.IncVoucherSent("bonus")
	}
	return res, nil
}

// claimTx runs voucher assignment and ledger insert in one transaction, so
// a losing duplicate insert rolls the assignment back (first writer wins).
func (c *claimUC) claimTx(ctx context.Context, tgID int64, username string, isAdmin bool) (*ClaimResult, error) {
	tag := strconv.FormatInt(tgID, 10)
	if isAdmin {
		// Admins may claim repeatedly; tag each claim uniquely so the
		// pool's assignment constraint does not block them.
		tag = fmt.Sprintf("%d-%d", tgID, time.Now().UnixNano())
	}

	res := &ClaimResult{}
	err := c.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		normal, err := c.vouchers.AssignNext(ctx, tx, false, tag)
		if err != nil {
			return err
		}
		res.Normal = normal

		var rec *model.ClaimRecord
		if !isAdmin {
			rec, err = model.NewClaimRecord(tgID, username, normal.Amount)
			if err != nil {
				return err
			}
		}

		if c.vcfg.BonusEnabled && c.selector.Roll(c.vcfg.BonusOddsPct) {
			bonus, berr := c.vouchers.AssignNext(ctx, tx, true, tag+"-bonus")
			switch {
			case berr == nil:
				res.Bonus = bonus
				if rec != nil {
					if gerr := rec.GrantBonus(bonus.Amount); gerr != nil {
						return gerr
					}
				}
			case errors.Is(berr, domain.ErrNoVouchersLeft):
				// Bonus pool exhausted; the claim still goes through.
				c.log.Warn().Int64("tg_id", tgID).Msg("bonus won but bonus pool is empty")
			default:
				return berr
			}
		}

		if rec != nil {
			if err := c.claims.Save(ctx, tx, rec); err != nil {
				return err
			}
			res.Record = rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *claimUC) PreviousClaim(ctx context.Context, tgID int64) (*model.ClaimRecord, error) {
	defer logging.TraceDuration(c.log, "ClaimUC.PreviousClaim")()
	return c.claims.FindByTelegramID(ctx, repository.NoTX, tgID)
}
