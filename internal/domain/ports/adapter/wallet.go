package adapter

import "context"

// WithdrawLink is one minted withdraw link on the wallet backend. A link
// with Uses > 1 yields that many distinct LNURLs via FetchLNURLs.
type WithdrawLink struct {
	ID         string
	Title      string
	AmountSats int64
	Uses       int
}

// WalletAdapter is the hex port for the voucher-issuing wallet backend
// (LNbits withdraw extension or compatible).
type WalletAdapter interface {
	// CreateWithdrawLink mints a withdraw link worth amountSats per use.
	// Failures surface as domain.ErrVoucherIssuance wrapped with detail.
	CreateWithdrawLink(ctx context.Context, title string, amountSats int64, uses int) (*WithdrawLink, error)
	// FetchLNURLs returns the distinct LNURL payloads minted under linkID.
	FetchLNURLs(ctx context.Context, linkID string) ([]string, error)
}
