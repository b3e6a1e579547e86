//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/adapter"
	"telegram-voucher-bot/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// ---- Claim repository mock ----

type MockClaimRepo struct {
	mu    sync.Mutex
	store map[int64]*model.ClaimRecord

	SaveFunc              func(ctx context.Context, tx repository.Tx, rec *model.ClaimRecord) error
	HasClaimedFunc        func(ctx context.Context, tx repository.Tx, tgID int64) (bool, error)
	FindByTelegramIDFunc  func(ctx context.Context, tx repository.Tx, tgID int64) (*model.ClaimRecord, error)
	ListRecentWinnersFunc func(ctx context.Context, tx repository.Tx, n int) ([]*model.ClaimRecord, error)
	CountClaimsFunc       func(ctx context.Context, tx repository.Tx) (int, error)
	CountBonusWinsFunc    func(ctx context.Context, tx repository.Tx) (int, error)
	RemoveInvalidFunc     func(ctx context.Context, tx repository.Tx) (int, error)
}

func NewMockClaimRepo() *MockClaimRepo {
	return &MockClaimRepo{store: make(map[int64]*model.ClaimRecord)}
}

// Save defaults to in-memory insert with unique-constraint semantics.
func (m *MockClaimRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ClaimRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[rec.TelegramID]; exists {
		return domain.ErrAlreadyClaimed
	}
	cp := *rec
	m.store[rec.TelegramID] = &cp
	return nil
}

func (m *MockClaimRepo) HasClaimed(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	if m.HasClaimedFunc != nil {
		return m.HasClaimedFunc(ctx, tx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[tgID]
	return ok, nil
}

func (m *MockClaimRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.ClaimRecord, error) {
	if m.FindByTelegramIDFunc != nil {
		return m.FindByTelegramIDFunc(ctx, tx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockClaimRepo) ListRecentWinners(ctx context.Context, tx repository.Tx, n int) ([]*model.ClaimRecord, error) {
	if m.ListRecentWinnersFunc != nil {
		return m.ListRecentWinnersFunc(ctx, tx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ClaimRecord
	for _, rec := range m.store {
		if rec.WonBonus && len(out) < n {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockClaimRepo) CountClaims(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountClaimsFunc != nil {
		return m.CountClaimsFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *MockClaimRepo) CountBonusWins(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountBonusWinsFunc != nil {
		return m.CountBonusWinsFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rec := range m.store {
		if rec.WonBonus {
			n++
		}
	}
	return n, nil
}

func (m *MockClaimRepo) RemoveInvalid(ctx context.Context, tx repository.Tx) (int, error) {
	if m.RemoveInvalidFunc != nil {
		return m.RemoveInvalidFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, rec := range m.store {
		if rec.Validate() != nil {
			delete(m.store, id)
			removed++
		}
	}
	return removed, nil
}

// Records returns a copy of the stored ledger for assertions.
func (m *MockClaimRepo) Records() []*model.ClaimRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ClaimRecord, 0, len(m.store))
	for _, rec := range m.store {
		cp := *rec
		out = append(out, &cp)
	}
	return out
}

// ---- Voucher repository mock ----

type MockVoucherRepo struct {
	mu   sync.Mutex
	free map[bool][]*model.Voucher // keyed by bonus flag
	used []*model.Voucher

	ImportBatchFunc     func(ctx context.Context, tx repository.Tx, vouchers []*model.Voucher) (int, error)
	AssignNextFunc      func(ctx context.Context, tx repository.Tx, bonus bool, tag string) (*model.Voucher, error)
	CountUnassignedFunc func(ctx context.Context, tx repository.Tx, bonus bool) (int, error)
	CountAssignedFunc   func(ctx context.Context, tx repository.Tx) (int, error)
	RemoveInvalidFunc   func(ctx context.Context, tx repository.Tx) (int, error)
}

func NewMockVoucherRepo(normal, bonus []*model.Voucher) *MockVoucherRepo {
	return &MockVoucherRepo{free: map[bool][]*model.Voucher{false: normal, true: bonus}}
}

func (m *MockVoucherRepo) ImportBatch(ctx context.Context, tx repository.Tx, vouchers []*model.Voucher) (int, error) {
	if m.ImportBatchFunc != nil {
		return m.ImportBatchFunc(ctx, tx, vouchers)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vouchers {
		m.free[v.Bonus] = append(m.free[v.Bonus], v)
	}
	return len(vouchers), nil
}

func (m *MockVoucherRepo) AssignNext(ctx context.Context, tx repository.Tx, bonus bool, tag string) (*model.Voucher, error) {
	if m.AssignNextFunc != nil {
		return m.AssignNextFunc(ctx, tx, bonus, tag)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pool := m.free[bonus]
	if len(pool) == 0 {
		return nil, domain.ErrNoVouchersLeft
	}
	v := pool[0]
	m.free[bonus] = pool[1:]
	now := time.Now()
	v.AssignedTo = &tag
	v.AssignedAt = &now
	m.used = append(m.used, v)
	return v, nil
}

func (m *MockVoucherRepo) CountUnassigned(ctx context.Context, tx repository.Tx, bonus bool) (int, error) {
	if m.CountUnassignedFunc != nil {
		return m.CountUnassignedFunc(ctx, tx, bonus)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.free[bonus]), nil
}

func (m *MockVoucherRepo) CountAssigned(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountAssignedFunc != nil {
		return m.CountAssignedFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.used), nil
}

func (m *MockVoucherRepo) RemoveInvalid(ctx context.Context, tx repository.Tx) (int, error) {
	if m.RemoveInvalidFunc != nil {
		return m.RemoveInvalidFunc(ctx, tx)
	}
	return 0, nil
}

// ---- Transaction manager mock ----

// mockTxManager simply invokes the callback: repositories above ignore tx.
type mockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Wallet adapter mock ----

type MockWallet struct {
	CreateWithdrawLinkFunc func(ctx context.Context, title string, amountSats int64, uses int) (*adapter.WithdrawLink, error)
	FetchLNURLsFunc        func(ctx context.Context, linkID string) ([]string, error)
}

func (m *MockWallet) CreateWithdrawLink(ctx context.Context, title string, amountSats int64, uses int) (*adapter.WithdrawLink, error) {
	if m.CreateWithdrawLinkFunc != nil {
		return m.CreateWithdrawLinkFunc(ctx, title, amountSats, uses)
	}
	return &adapter.WithdrawLink{ID: "link-1", Title: title, AmountSats: amountSats, Uses: uses}, nil
}

func (m *MockWallet) FetchLNURLs(ctx context.Context, linkID string) ([]string, error) {
	if m.FetchLNURLsFunc != nil {
		return m.FetchLNURLsFunc(ctx, linkID)
	}
	return []string{"LNURL1AAA", "LNURL1BBB"}, nil
}

// ---- Claim locker mock ----

type mockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	UnlockFunc  func(ctx context.Context, key, token string) error
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return "token", nil
}

func (m *mockLocker) Unlock(ctx context.Context, key, token string) error {
	if m.UnlockFunc != nil {
		return m.UnlockFunc(ctx, key, token)
	}
	return nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
