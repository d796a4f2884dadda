package escrow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrSettleFailed = errors.New("settle_failed")

// SettleRequest asks the escrow service to pay out a recipient from a
// game's escrow and sweep the platform share.
type SettleRequest struct {
	GameID          string `json:"game_id"`
	Recipient       string `json:"recipient"`
	RecipientAmount int64  `json:"recipient_amount"`
	PlatformAmount  int64  `json:"platform_amount"`
}

// Service is the escrow/wallet subsystem boundary: per-game deposit
// addresses, balance checks and settlement broadcasts.
type Service interface {
	GameAddress(ctx context.Context, gameID string) (string, error)
	BalanceOf(ctx context.Context, address string) (int64, error)
	Settle(ctx context.Context, req SettleRequest) (txID string, err error)
}

// Client talks to an escrow service over JSON HTTP.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) GameAddress(ctx context.Context, gameID string) (string, error) {
	var out struct {
		Address string `json:"address"`
	}
	if err := c.getJSON(ctx, c.base+"/games/"+url.PathEscape(gameID)+"/address", &out); err != nil {
		return "", err
	}
	if out.Address == "" {
		return "", errors.New("empty_escrow_address")
	}
	return out.Address, nil
}

func (c *Client) BalanceOf(ctx context.Context, address string) (int64, error) {
	var out struct {
		Balance int64 `json:"balance"`
	}
	err := c.getJSON(ctx, c.base+"/balances/"+url.PathEscape(address), &out)
	if err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func (c *Client) Settle(ctx context.Context, req SettleRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/settlements", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out struct {
		OK   bool   `json:"ok"`
		TxID string `json:"txid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 || !out.OK {
		return "", fmt.Errorf("%w: status %d", ErrSettleFailed, resp.StatusCode)
	}
	return out.TxID, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("escrow status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
