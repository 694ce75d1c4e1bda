package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"github.com/AlexZinkM/rose-wallet/internal/common"
	"github.com/AlexZinkM/rose-wallet/internal/config"
	"github.com/AlexZinkM/rose-wallet/oasis"
)

var (
	ErrHeightUnsupported = oasis.ErrHeightUnsupported
	ErrUnknownBackend    = errors.New("unknown staking backend")
	ErrUpstream          = errors.New("staking backend error")
)

// StakingClient queries staking accounts from a chain backend
type StakingClient interface {
	oasis.StakingQuerier
	Name() string
}

// NewStakingClient creates the staking client for the configured backend
func NewStakingClient(backend string, network config.Network, timeout time.Duration) (StakingClient, error) {
	httpClient := &http.Client{Timeout: timeout}
	switch backend {
	case config.BackendOasisScan:
		if network.Explorer == "" {
			return nil, fmt.Errorf("network has no explorer endpoint")
		}
		return NewOasisScanClient(network.Explorer, httpClient), nil
	case config.BackendOasisMonitor:
		if network.Monitor == "" {
			return nil, fmt.Errorf("network has no monitor endpoint")
		}
		return NewOasisMonitorClient(network.Monitor, httpClient), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

func ownerAddress(query oasis.StakingAccountQuery) (string, error) {
	if query.Height != oasis.LatestHeight {
		return "", fmt.Errorf("%w: %d", ErrHeightUnsupported, query.Height)
	}
	return oasis.EncodeAddress(query.Owner)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	return nil
}

// OasisScanClient reads accounts from the OasisScan explorer API
type OasisScanClient struct {
	baseURL string
	client  *http.Client
}

// NewOasisScanClient creates a new OasisScan client
func NewOasisScanClient(baseURL string, client *http.Client) *OasisScanClient {
	return &OasisScanClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// oasisScanAccountResponse response from OasisScan, amounts in ROSE
type oasisScanAccountResponse struct {
	Code int `json:"code"`
	Data *struct {
		Address   string `json:"address"`
		Available string `json:"available"`
		Escrow    string `json:"escrow"`
		Debonding string `json:"debonding"`
		Nonce     uint64 `json:"nonce"`
	} `json:"data"`
}

func (c *OasisScanClient) Name() string { return config.BackendOasisScan }

// StakingAccount gets the staking account of query.Owner at the latest height
func (c *OasisScanClient) StakingAccount(ctx context.Context, query oasis.StakingAccountQuery) (*oasis.StakingAccount, error) {
	address, err := ownerAddress(query)
	if err != nil {
		return nil, err
	}

	var resp oasisScanAccountResponse
	if err := getJSON(ctx, c.client, fmt.Sprintf("%s/chain/account/info/%s", c.baseURL, address), &resp); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("failed to get account %s: %w: code %d", address, ErrUpstream, resp.Code)
	}
	if resp.Data == nil {
		return &oasis.StakingAccount{}, nil
	}

	available, err := roseAmount(resp.Data.Available)
	if err != nil {
		return nil, fmt.Errorf("invalid available amount: %w", err)
	}
	escrow, err := roseAmount(resp.Data.Escrow)
	if err != nil {
		return nil, fmt.Errorf("invalid escrow amount: %w", err)
	}
	debonding, err := roseAmount(resp.Data.Debonding)
	if err != nil {
		return nil, fmt.Errorf("invalid debonding amount: %w", err)
	}

	return &oasis.StakingAccount{
		General: &oasis.GeneralAccount{Balance: available, Nonce: resp.Data.Nonce},
		Escrow: &oasis.EscrowAccount{
			Active:    &oasis.SharePool{Balance: escrow},
			Debonding: &oasis.SharePool{Balance: debonding},
		},
	}, nil
}

func roseAmount(s string) (*uint256.Int, error) {
	if strings.TrimSpace(s) == "" {
		return new(uint256.Int), nil
	}
	return common.ROSEToBaseUnits(s)
}

// OasisMonitorClient reads accounts from the Oasis Monitor API
type OasisMonitorClient struct {
	baseURL string
	client  *http.Client
}

// NewOasisMonitorClient creates a new Oasis Monitor client
func NewOasisMonitorClient(baseURL string, client *http.Client) *OasisMonitorClient {
	return &OasisMonitorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// oasisMonitorAccountResponse response from Oasis Monitor, amounts in base units
type oasisMonitorAccountResponse struct {
	Address          string      `json:"address"`
	LiquidBalance    json.Number `json:"liquid_balance"`
	EscrowBalance    json.Number `json:"escrow_balance"`
	DebondingBalance json.Number `json:"debonding_balance"`
	Nonce            uint64      `json:"nonce"`
}

func (c *OasisMonitorClient) Name() string { return config.BackendOasisMonitor }

// StakingAccount gets the staking account of query.Owner at the latest height
func (c *OasisMonitorClient) StakingAccount(ctx context.Context, query oasis.StakingAccountQuery) (*oasis.StakingAccount, error) {
	address, err := ownerAddress(query)
	if err != nil {
		return nil, err
	}

	var resp oasisMonitorAccountResponse
	if err := getJSON(ctx, c.client, fmt.Sprintf("%s/data/accounts/%s", c.baseURL, address), &resp); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}

	liquid, err := baseUnitAmount(resp.LiquidBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid liquid balance: %w", err)
	}
	escrow, err := baseUnitAmount(resp.EscrowBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid escrow balance: %w", err)
	}
	debonding, err := baseUnitAmount(resp.DebondingBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid debonding balance: %w", err)
	}

	return &oasis.StakingAccount{
		General: &oasis.GeneralAccount{Balance: liquid, Nonce: resp.Nonce},
		Escrow: &oasis.EscrowAccount{
			Active:    &oasis.SharePool{Balance: escrow},
			Debonding: &oasis.SharePool{Balance: debonding},
		},
	}, nil
}

func baseUnitAmount(n json.Number) (*uint256.Int, error) {
	if n == "" {
		return new(uint256.Int), nil
	}
	return common.ParseBaseUnits(n.String())
}
