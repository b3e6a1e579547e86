package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-voucher-bot/internal/config"
	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/usecase"
)

// VoucherDelivery is one voucher to hand to the user: the adapter renders
// the LNURL as text plus a QR image.
type VoucherDelivery struct {
	LNURL      string
	AmountSats int64
	Bonus      bool
}

// BotFacade composes usecases into high-level bot commands.
// Methods return reply strings (and voucher deliveries) so the Telegram
// adapter just forwards them to the chat.
type BotFacade struct {
	ClaimUC   usecase.ClaimUseCase
	StatsUC   usecase.StatsUseCase
	CleanupUC usecase.CleanupUseCase
	PoolUC    usecase.PoolUseCase

	vcfg config.VoucherConfig
}

func NewBotFacade(
	claimUC usecase.ClaimUseCase,
	statsUC usecase.StatsUseCase,
	cleanupUC usecase.CleanupUseCase,
	poolUC usecase.PoolUseCase,
	vcfg config.VoucherConfig,
) *BotFacade {
	return &BotFacade{
		ClaimUC:   claimUC,
		StatsUC:   statsUC,
		CleanupUC: cleanupUC,
		PoolUC:    poolUC,
		vcfg:      vcfg,
	}
}

// HandleGetVoucher runs the claim flow. A non-empty reply with no
// deliveries is a terminal state (already claimed, claim in flight);
// an error means a transient failure the adapter should soften.
func (b *BotFacade) HandleGetVoucher(ctx context.Context, tgID int64, username string, isAdmin bool) (string, []VoucherDelivery, error) {
	res, err := b.ClaimUC.Claim(ctx, tgID, username, isAdmin)
	switch {
	case errors.Is(err, domain.ErrAlreadyClaimed):
		amount := b.vcfg.ClaimAmountSats
		if prev, perr := b.ClaimUC.PreviousClaim(ctx, tgID); perr == nil {
			amount = prev.Amount
		}
		return fmt.Sprintf("Hey @%s, you've already claimed %d sats 🎉", displayName(username), amount), nil, nil
	case errors.Is(err, domain.ErrClaimInProgress):
		return "Your claim is already being processed, hang tight!", nil, nil
	case err != nil:
		return "", nil, err
	}

	deliveries := []VoucherDelivery{{
		LNURL:      res.Normal.LNURL,
		AmountSats: res.Normal.Amount,
	}}
	if res.Bonus != nil {
		deliveries = append(deliveries, VoucherDelivery{
			LNURL:      res.Bonus.LNURL,
			AmountSats: res.Bonus.Amount,
			Bonus:      true,
		})
	}
	return "", deliveries, nil
}

// HandleInfo explains the bonus mechanics from configuration.
func (b *BotFacade) HandleInfo(ctx context.Context) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("⚡ Every user can claim %d sats once with /getvoucher.\n", b.vcfg.ClaimAmountSats))
	if b.vcfg.BonusEnabled {
		sb.WriteString(fmt.Sprintf("🍀 Each claim has a %.1f%% chance of winning a %d sats lucky bonus on top.",
			b.vcfg.BonusOddsPct, b.vcfg.BonusAmountSats))
	} else {
		sb.WriteString("The lucky bonus is currently disabled.")
	}
	return sb.String()
}

// HandleLucky reports the bonus-win tally and recent winners.
func (b *BotFacade) HandleLucky(ctx context.Context) (string, error) {
	wins, err := b.StatsUC.BonusWinCount(ctx)
	if err != nil {
		return "", fmt.Errorf("bonus win count: %w", err)
	}
	winners, err := b.StatsUC.RecentWinners(ctx, 5)
	if err != nil {
		return "", fmt.Errorf("recent winners: %w", err)
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("🍀 Lucky bonuses won so far: %d\n", wins))
	if len(winners) == 0 {
		sb.WriteString("No winners yet. You could be the first!")
		return sb.String(), nil
	}
	sb.WriteString("Recent winners:\n")
	for _, w := range winners {
		amount := int64(0)
		if w.BonusAmount != nil {
			amount = *w.BonusAmount
		}
		sb.WriteString(fmt.Sprintf("- @%s won %d sats\n", displayName(w.Username), amount))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// HandleStats formats the admin aggregate snapshot.
func (b *BotFacade) HandleStats(ctx context.Context) (string, error) {
	t, err := b.StatsUC.Totals(ctx)
	if err != nil {
		return "", fmt.Errorf("stats totals: %w", err)
	}
	return fmt.Sprintf("📊 Issued: %d\nRemaining supply: %d (+%d bonus)\nClaims: %d\nBonus wins: %d",
		t.Issued, t.Remaining, t.Bonus, t.Claims, t.BonusWins), nil
}

// HandleCleanup removes malformed records.
func (b *BotFacade) HandleCleanup(ctx context.Context) (string, error) {
	n, err := b.CleanupUC.RemoveInvalid(ctx)
	if err != nil {
		return "", fmt.Errorf("cleanup: %w", err)
	}
	return fmt.Sprintf("🧹 Removed %d invalid record(s).", n), nil
}

// HandleRefill force-mints a fresh normal voucher batch.
func (b *BotFacade) HandleRefill(ctx context.Context) (string, error) {
	n, err := b.PoolUC.MintBatch(ctx, false)
	if err != nil {
		return "", fmt.Errorf("refill: %w", err)
	}
	return fmt.Sprintf("🔄 Minted and imported %d voucher(s).", n), nil
}

func displayName(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Anonymous"
	}
	return username
}
