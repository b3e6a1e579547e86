package usecase

import (
	"context"

	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Totals is the aggregate snapshot behind /stats.
type Totals struct {
	Issued    int // vouchers handed out (incl. admin test claims)
	Remaining int // unassigned normal pool
	Bonus     int // unassigned bonus pool
	Claims    int // ledger size
	BonusWins int
}

type StatsUseCase interface {
	Totals(ctx context.Context) (*Totals, error)
	RecentWinners(ctx context.Context, n int) ([]*model.ClaimRecord, error)
	BonusWinCount(ctx context.Context) (int, error)
}

type statsUC struct {
	claims   repository.ClaimRepository
	vouchers repository.VoucherRepository

	log *zerolog.Logger
}

func NewStatsUseCase(claims repository.ClaimRepository, vouchers repository.VoucherRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{claims: claims, vouchers: vouchers, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (*Totals, error) {
	issued, err := s.vouchers.CountAssigned(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	remaining, err := s.vouchers.CountUnassigned(ctx, repository.NoTX, false)
	if err != nil {
		return nil, err
	}
	bonus, err := s.vouchers.CountUnassigned(ctx, repository.NoTX, true)
	if err != nil {
		return nil, err
	}
	claims, err := s.claims.CountClaims(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	wins, err := s.claims.CountBonusWins(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &Totals{Issued: issued, Remaining: remaining, Bonus: bonus, Claims: claims, BonusWins: wins}, nil
}

func (s *statsUC) RecentWinners(ctx context.Context, n int) ([]*model.ClaimRecord, error) {
	if n <= 0 {
		n = 5
	}
	return s.claims.ListRecentWinners(ctx, repository.NoTX, n)
}

func (s *statsUC) BonusWinCount(ctx context.Context) (int, error) {
	return s.claims.CountBonusWins(ctx, repository.NoTX)
}
