// Package lnbits talks to the withdraw extension of an LNbits-compatible
// wallet backend.
package lnbits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"telegram-voucher-bot/internal/config"
	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/domain/ports/adapter"
	"telegram-voucher-bot/internal/infra/metrics"
)

var _ adapter.WalletAdapter = (*Client)(nil)

// Client implements adapter.WalletAdapter using direct HTTP calls.
type Client struct {
	apiKey     string
	baseURL    string
	webhookURL string
	client     *http.Client
}

func NewClient(cfg *config.WalletConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		webhookURL: cfg.WebhookURL,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// createLinkResponse is the subset of the withdraw-link response we use.
type createLinkResponse struct {
	ID string `json:"id"`
}

// CreateWithdrawLink mints a withdraw link worth amountSats per use.
// wait_time=1 and is_unique=true mirror the voucher semantics: every use
// is a distinct single-shot LNURL.
func (c *Client) CreateWithdrawLink(ctx context.Context, title string, amountSats int64, uses int) (*adapter.WithdrawLink, error) {
	requestData := map[string]interface{}{
		"title":            title,
		"min_withdrawable": amountSats,
		"max_withdrawable": amountSats,
		"uses":             uses,
		"wait_time":        1,
		"is_unique":        true,
	}
	if c.webhookURL != "" {
		requestData["webhook_url"] = c.webhookURL
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := c.baseURL + "/withdraw/api/v1/links"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveWalletCall("create_link", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVoucherIssuance, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrVoucherIssuance, resp.StatusCode, string(body))
	}

	var link createLinkResponse
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if link.ID == "" {
		return nil, fmt.Errorf("%w: response missing link id", domain.ErrVoucherIssuance)
	}

	return &adapter.WithdrawLink{
		ID:         link.ID,
		Title:      title,
		AmountSats: amountSats,
		Uses:       uses,
	}, nil
}

// FetchLNURLs downloads the CSV export of a withdraw link and returns the
// distinct LNURL payloads. Some LNbits deployments answer the CSV route
// with an HTML page; those are salvaged by pattern extraction.
func (c *Client) FetchLNURLs(ctx context.Context, linkID string) ([]string, error) {
	url := c.baseURL + "/withdraw/csv/" + linkID
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveWalletCall("fetch_csv", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVoucherIssuance, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrVoucherIssuance, resp.StatusCode, string(body))
	}

	lnurls := ExtractLNURLs(string(body))
	if len(lnurls) == 0 {
		return nil, fmt.Errorf("%w: no LNURLs in export for link %s", domain.ErrVoucherIssuance, linkID)
	}
	return lnurls, nil
}
