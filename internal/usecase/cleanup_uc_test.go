//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-voucher-bot/internal/domain/ports/repository"
	"telegram-voucher-bot/internal/usecase"
)

func TestCleanupUseCase_RemoveInvalid(t *testing.T) {
	ctx := context.Background()

	t.Run("sums removals from both stores", func(t *testing.T) {
		claims := NewMockClaimRepo()
		claims.RemoveInvalidFunc = func(ctx context.Context, tx repository.Tx) (int, error) { return 2, nil }
		vouchers := NewMockVoucherRepo(nil, nil)
		vouchers.RemoveInvalidFunc = func(ctx context.Context, tx repository.Tx) (int, error) { return 3, nil }

		uc := usecase.NewCleanupUseCase(claims, vouchers, &mockTxManager{}, newTestLogger())
		n, err := uc.RemoveInvalid(ctx)
		if err != nil {
			t.Fatalf("RemoveInvalid() error = %v", err)
		}
		if n != 5 {
			t.Errorf("removed = %d, want 5", n)
		}
	})

	t.Run("clean stores remove nothing", func(t *testing.T) {
		uc := usecase.NewCleanupUseCase(NewMockClaimRepo(), NewMockVoucherRepo(nil, nil), &mockTxManager{}, newTestLogger())
		n, err := uc.RemoveInvalid(ctx)
		if err != nil {
			t.Fatalf("RemoveInvalid() error = %v", err)
		}
		if n != 0 {
			t.Errorf("removed = %d, want 0", n)
		}
	})

	t.Run("voucher failure rolls up through the transaction", func(t *testing.T) {
		dbErr := errors.New("lock timeout")
		vouchers := NewMockVoucherRepo(nil, nil)
		vouchers.RemoveInvalidFunc = func(ctx context.Context, tx repository.Tx) (int, error) { return 0, dbErr }

		uc := usecase.NewCleanupUseCase(NewMockClaimRepo(), vouchers, &mockTxManager{}, newTestLogger())
		if _, err := uc.RemoveInvalid(ctx); !errors.Is(err, dbErr) {
			t.Fatalf("RemoveInvalid() error = %v, want repository failure", err)
		}
	})
}
