//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-voucher-bot/internal/config"
	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/repository"
	"telegram-voucher-bot/internal/usecase"
)

func testVoucherConfig() config.VoucherConfig {
	return config.VoucherConfig{
		ClaimAmountSats: 21,
		BonusEnabled:    true,
		BonusAmountSats: 10000,
		BonusOddsPct:    0,
		BonusCount:      5,
	}
}

func freeVouchers(n int, amount int64, bonus bool) []*model.Voucher {
	out := make([]*model.Voucher, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Voucher{
			ID:     int64(i + 1),
			LNURL:  "LNURL1TEST" + string(rune('A'+i)),
			LinkID: "link-1",
			Amount: amount,
			Bonus:  bonus,
		})
	}
	return out
}

// mockPool satisfies PoolUseCase for the empty-pool retry path.
type mockPool struct {
	MintBatchFunc func(ctx context.Context, bonus bool) (int, error)
}

func (m *mockPool) MintBatch(ctx context.Context, bonus bool) (int, error) {
	if m.MintBatchFunc != nil {
		return m.MintBatchFunc(ctx, bonus)
	}
	return 0, nil
}
func (m *mockPool) EnsureSupply(ctx context.Context) error       { return nil }
func (m *mockPool) Supply(ctx context.Context) (int, int, error) { return 0, 0, nil }

func newClaimUC(claims *MockClaimRepo, vouchers *MockVoucherRepo, pool usecase.PoolUseCase, odds float64) usecase.ClaimUseCase {
	vcfg := testVoucherConfig()
	vcfg.BonusOddsPct = odds
	return usecase.NewClaimUseCase(
		claims,
		vouchers,
		&mockTxManager{},
		pool,
		usecase.NewBonusSelector(1),
		nil,
		vcfg,
		30*time.Second,
		newTestLogger(),
	)
}

func TestClaimUseCase_Claim(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim records user and amount", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(3, 21, false), nil)
		uc := newClaimUC(claims, vouchers, nil, 0)

		res, err := uc.Claim(ctx, 123, "satoshi", false)
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.Normal == nil || res.Normal.Amount != 21 {
			t.Fatalf("expected a 21 sat voucher, got %+v", res.Normal)
		}
		if res.Bonus != nil {
			t.Errorf("expected no bonus at zero odds, got %+v", res.Bonus)
		}
		rec := res.Record
		if rec == nil {
			t.Fatal("expected a ledger record")
		}
		if rec.TelegramID != 123 || rec.Username != "satoshi" || rec.Amount != 21 || rec.WonBonus {
			t.Errorf("unexpected record %+v", rec)
		}
		if got := len(claims.Records()); got != 1 {
			t.Errorf("ledger size = %d, want 1", got)
		}
	})

	t.Run("second claim is rejected and ledger stays at one", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(3, 21, false), nil)
		uc := newClaimUC(claims, vouchers, nil, 0)

		if _, err := uc.Claim(ctx, 123, "satoshi", false); err != nil {
			t.Fatalf("first Claim() error = %v", err)
		}
		_, err := uc.Claim(ctx, 123, "satoshi", false)
		if !errors.Is(err, domain.ErrAlreadyClaimed) {
			t.Fatalf("second Claim() error = %v, want ErrAlreadyClaimed", err)
		}
		if got := len(claims.Records()); got != 1 {
			t.Errorf("ledger size = %d, want 1", got)
		}
	})

	t.Run("concurrent insert falls through to unique constraint", func(t *testing.T) {
		// HasClaimed says no (the racing claim has not committed yet) but
		// Save hits the constraint; the claim must surface as duplicate.
		claims := NewMockClaimRepo()
		claims.HasClaimedFunc = func(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
			return false, nil
		}
		claims.SaveFunc = func(ctx context.Context, tx repository.Tx, rec *model.ClaimRecord) error {
			return domain.ErrAlreadyClaimed
		}
		vouchers := NewMockVoucherRepo(freeVouchers(3, 21, false), nil)
		uc := newClaimUC(claims, vouchers, nil, 0)

		_, err := uc.Claim(ctx, 123, "satoshi", false)
		if !errors.Is(err, domain.ErrAlreadyClaimed) {
			t.Fatalf("Claim() error = %v, want ErrAlreadyClaimed", err)
		}
	})

	t.Run("full odds grant the bonus voucher", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(1, 21, false), freeVouchers(1, 10000, true))
		uc := newClaimUC(claims, vouchers, nil, 100)

		res, err := uc.Claim(ctx, 456, "hal", false)
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.Bonus == nil || res.Bonus.Amount != 10000 {
			t.Fatalf("expected a 10000 sat bonus voucher, got %+v", res.Bonus)
		}
		if !res.Record.WonBonus || res.Record.BonusAmount == nil || *res.Record.BonusAmount != 10000 {
			t.Errorf("record does not reflect the bonus win: %+v", res.Record)
		}
	})

	t.Run("bonus pool exhaustion does not fail the claim", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(1, 21, false), nil)
		uc := newClaimUC(claims, vouchers, nil, 100)

		res, err := uc.Claim(ctx, 456, "hal", false)
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.Bonus != nil {
			t.Errorf("expected no bonus with an empty bonus pool, got %+v", res.Bonus)
		}
		if res.Record.WonBonus {
			t.Error("record marks a bonus win without a voucher")
		}
	})

	t.Run("empty pool mints a batch and retries once", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(nil, nil)
		pool := &mockPool{
			MintBatchFunc: func(ctx context.Context, bonus bool) (int, error) {
				_, err := vouchers.ImportBatch(ctx, repository.NoTX, freeVouchers(2, 21, false))
				return 2, err
			},
		}
		uc := newClaimUC(claims, vouchers, pool, 0)

		res, err := uc.Claim(ctx, 789, "nick", false)
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.Normal == nil {
			t.Fatal("expected a voucher after the refill")
		}
	})

	t.Run("empty pool and failing mint surfaces the error", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(nil, nil)
		mintErr := errors.New("wallet down")
		pool := &mockPool{
			MintBatchFunc: func(ctx context.Context, bonus bool) (int, error) { return 0, mintErr },
		}
		uc := newClaimUC(claims, vouchers, pool, 0)

		_, err := uc.Claim(ctx, 789, "nick", false)
		if !errors.Is(err, mintErr) {
			t.Fatalf("Claim() error = %v, want mint failure", err)
		}
	})

	t.Run("admin bypasses dedup and leaves no ledger record", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(3, 21, false), nil)
		uc := newClaimUC(claims, vouchers, nil, 0)

		for i := 0; i < 2; i++ {
			res, err := uc.Claim(ctx, 1, "admin", true)
			if err != nil {
				t.Fatalf("admin Claim() %d error = %v", i, err)
			}
			if res.Record != nil {
				t.Errorf("admin claim %d wrote a ledger record", i)
			}
			if res.Normal == nil {
				t.Fatalf("admin claim %d got no voucher", i)
			}
		}
		if got := len(claims.Records()); got != 0 {
			t.Errorf("ledger size = %d after admin claims, want 0", got)
		}
	})

	t.Run("claim in progress is rejected by the lock", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(3, 21, false), nil)
		locker := &mockLocker{
			TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
				return "", domain.ErrClaimInProgress
			},
		}
		uc := usecase.NewClaimUseCase(
			claims, vouchers, &mockTxManager{}, nil,
			usecase.NewBonusSelector(1), locker,
			testVoucherConfig(), 30*time.Second, newTestLogger(),
		)

		_, err := uc.Claim(ctx, 123, "satoshi", false)
		if !errors.Is(err, domain.ErrClaimInProgress) {
			t.Fatalf("Claim() error = %v, want ErrClaimInProgress", err)
		}
	})

	t.Run("lock store outage does not block claims", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(3, 21, false), nil)
		locker := &mockLocker{
			TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
				return "", errors.New("redis unreachable")
			},
		}
		uc := usecase.NewClaimUseCase(
			claims, vouchers, &mockTxManager{}, nil,
			usecase.NewBonusSelector(1), locker,
			testVoucherConfig(), 30*time.Second, newTestLogger(),
		)

		res, err := uc.Claim(ctx, 123, "satoshi", false)
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.Normal == nil {
			t.Fatal("expected a voucher despite the lock outage")
		}
	})
}

func TestClaimUseCase_PreviousClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored record", func(t *testing.T) {
		claims := NewMockClaimRepo()
		vouchers := NewMockVoucherRepo(freeVouchers(1, 21, false), nil)
		uc := newClaimUC(claims, vouchers, nil, 0)

		if _, err := uc.Claim(ctx, 123, "satoshi", false); err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		rec, err := uc.PreviousClaim(ctx, 123)
		if err != nil {
			t.Fatalf("PreviousClaim() error = %v", err)
		}
		if rec.Amount != 21 {
			t.Errorf("Amount = %d, want 21", rec.Amount)
		}
	})

	t.Run("unknown user yields not found", func(t *testing.T) {
		uc := newClaimUC(NewMockClaimRepo(), NewMockVoucherRepo(nil, nil), nil, 0)
		_, err := uc.PreviousClaim(ctx, 999)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("PreviousClaim() error = %v, want ErrNotFound", err)
		}
	})
}
