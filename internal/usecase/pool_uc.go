package usecase

import (
	"context"
	"fmt"

	"telegram-voucher-bot/internal/config"
	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/adapter"
	"telegram-voucher-bot/internal/domain/ports/repository"
	"telegram-voucher-bot/internal/infra/logging"
	"telegram-voucher-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ PoolUseCase = (*poolUC)(nil)

// PoolUseCase keeps the local voucher pool stocked from the wallet backend.
type PoolUseCase interface {
	// MintBatch creates a withdraw link, fetches its LNURLs and imports
	// them into the pool. Returns how many new vouchers were stored.
	MintBatch(ctx context.Context, bonus bool) (int, error)
	// EnsureSupply refills the normal pool when it runs below threshold
	// and seeds the bonus pool when it is empty (bonus enabled only).
	EnsureSupply(ctx context.Context) error
	// Supply reports the unassigned counts (normal, bonus).
	Supply(ctx context.Context) (int, int, error)
}

type poolUC struct {
	vouchers repository.VoucherRepository
	wallet   adapter.WalletAdapter
	wcfg     config.WalletConfig
	vcfg     config.VoucherConfig
	log      *zerolog.Logger
}

func NewPoolUseCase(vouchers repository.VoucherRepository, wallet adapter.WalletAdapter, wcfg config.WalletConfig, vcfg config.VoucherConfig, logger *zerolog.Logger) *poolUC {
	return &poolUC{vouchers: vouchers, wallet: wallet, wcfg: wcfg, vcfg: vcfg, log: logger}
}

func (p *poolUC) MintBatch(ctx context.Context, bonus bool) (int, error) {
	defer logging.TraceDuration(p.log, "PoolUC.MintBatch")()

	title := p.wcfg.Title
	amount := p.vcfg.ClaimAmountSats
	uses := p.wcfg.BatchSize
	kind := "normal"
	if bonus {
		title = "Lucky Voucher"
		amount = p.vcfg.BonusAmountSats
		uses = p.vcfg.BonusCount
		kind = "bonus"
	}

	link, err := p.wallet.CreateWithdrawLink(ctx, title, amount, uses)
	if err != nil {
		return 0, fmt.Errorf("mint %s batch: %w", kind, err)
	}
	lnurls, err := p.wallet.FetchLNURLs(ctx, link.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch %s batch %s: %w", kind, link.ID, err)
	}

	batch := make([]*model.Voucher, 0, len(lnurls))
	for _, u := range lnurls {
		batch = append(batch, &model.Voucher{
			LNURL:  u,
			LinkID: link.ID,
			Amount: amount,
			Bonus:  bonus,
		})
	}
	stored, err := p.vouchers.ImportBatch(ctx, repository.NoTX, batch)
	if err != nil {
		return stored, fmt.Errorf("import %s batch %s: %w", kind, link.ID, err)
	}

	metrics.IncBatchMinted(kind)
	p.log.Info().Str("link_id", link.ID).Str("kind", kind).Int("imported", stored).Msg("voucher batch imported")
	return stored, nil
}

// refillThreshold mirrors the supply rule: refill when fewer than
// max(10, batch/10) normal vouchers remain.
func (p *poolUC) refillThreshold() int {
	t := p.wcfg.BatchSize / 10
	if t < 10 {
		t = 10
	}
	return t
}

func (p *poolUC) EnsureSupply(ctx context.Context) error {
	normal, bonus, err := p.Supply(ctx)
	if err != nil {
		return err
	}
	metrics.SetPoolSize("normal", normal)
	metrics.SetPoolSize("bonus", bonus)

	if normal < p.refillThreshold() {
		p.log.Info().Int("free", normal).Msg("normal voucher supply low, refilling")
		if _, err := p.MintBatch(ctx, false); err != nil {
			return err
		}
	}
	if p.vcfg.BonusEnabled && bonus == 0 {
		p.log.Info().Msg("bonus voucher pool empty, minting")
		if _, err := p.MintBatch(ctx, true); err != nil {
			return err
		}
	}
	return nil
}

func (p *poolUC) Supply(ctx context.Context) (int, int, error) {
	normal, err := p.vouchers.CountUnassigned(ctx, repository.NoTX, false)
	if err != nil {
		return 0, 0, err
	}
	bonus, err := p.vouchers.CountUnassigned(ctx, repository.NoTX, true)
	if err != nil {
		return 0, 0, err
	}
	return normal, bonus, nil
}
