package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	roseCoinID   = "oasis-network"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client
func NewCoinGeckoClient(timeout time.Duration) *CoinGeckoClient {
	return NewCoinGeckoClientWithURL(coingeckoAPI, &http.Client{Timeout: timeout})
}

// NewCoinGeckoClientWithURL creates a CoinGecko client against baseURL
func NewCoinGeckoClientWithURL(baseURL string, client *http.Client) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// PriceResponse response from CoinGecko API, keyed by coin id then currency
type PriceResponse map[string]map[string]float64

// GetROSERate gets the ROSE exchange rate in currency (e.g. "usd")
func (c *CoinGeckoClient) GetROSERate(ctx context.Context, currency string) (string, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsupportedCurrency)
	}

	q := url.Values{}
	q.Set("ids", roseCoinID)
	q.Set("vs_currencies", currency)
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp PriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return "", fmt.Errorf("failed to decode rate: %w", err)
	}

	rate, ok := priceResp[roseCoinID][currency]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
	}
	return strconv.FormatFloat(rate, 'f', -1, 64), nil
}
