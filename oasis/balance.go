package oasis

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"

	"github.com/AlexZinkM/rose-wallet/internal/model"
)

// LatestHeight queries the most recent block
const LatestHeight int64 = 0

var ErrHeightUnsupported = errors.New("only the latest height is supported")

// StakingAccountQuery selects the staking account of Owner at Height
type StakingAccountQuery struct {
	Height int64
	Owner  []byte // raw 21 byte address
}

// GeneralAccount is the liquid part of a staking account
type GeneralAccount struct {
	Balance *uint256.Int
	Nonce   uint64
}

// SharePool is an escrow pool in base units
type SharePool struct {
	Balance *uint256.Int
}

// EscrowAccount holds the active and debonding pools
type EscrowAccount struct {
	Active    *SharePool
	Debonding *SharePool
}

// StakingAccount is the staking account as returned by a backend. Any part
// may be missing when the backend has no record of it.
type StakingAccount struct {
	General *GeneralAccount
	Escrow  *EscrowAccount
}

// StakingQuerier looks up staking accounts
type StakingQuerier interface {
	StakingAccount(ctx context.Context, query StakingAccountQuery) (*StakingAccount, error)
}

// GetBalance returns the balance of the account owning publicKey at the
// latest height
func GetBalance(ctx context.Context, q StakingQuerier, publicKey ed.PublicKey) (model.Balance, error) {
	owner, err := ShortPublicKey(publicKey)
	if err != nil {
		return model.Balance{}, err
	}
	account, err := q.StakingAccount(ctx, StakingAccountQuery{
		Height: LatestHeight,
		Owner:  owner,
	})
	if err != nil {
		return model.Balance{}, fmt.Errorf("failed to get staking account: %w", err)
	}
	return ParseBalance(account), nil
}

// GetBalanceHex is GetBalance for a hex encoded public key
func GetBalanceHex(ctx context.Context, q StakingQuerier, publicKey string) (model.Balance, error) {
	pub, err := PublicKeyFromHex(publicKey)
	if err != nil {
		return model.Balance{}, err
	}
	return GetBalance(ctx, q, pub)
}

// ParseBalance converts a staking account into a balance; missing parts are zero
func ParseBalance(account *StakingAccount) model.Balance {
	b := model.ZeroBalance()
	if account == nil {
		return b
	}
	if account.General != nil && account.General.Balance != nil {
		b.Available.Set(account.General.Balance)
	}
	if account.Escrow != nil {
		if account.Escrow.Active != nil && account.Escrow.Active.Balance != nil {
			b.Escrow.Set(account.Escrow.Active.Balance)
		}
		if account.Escrow.Debonding != nil && account.Escrow.Debonding.Balance != nil {
			b.Debonding.Set(account.Escrow.Debonding.Balance)
		}
	}
	return b
}
