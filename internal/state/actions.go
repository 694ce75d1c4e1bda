package state

import (
	"github.com/AlexZinkM/rose-wallet/internal/model"
)

// Action is anything that can be dispatched. The store reduces the actions
// it knows and ignores the rest.
type Action interface {
	Type() string
}

// WalletOpened inserts a wallet into the collection
type WalletOpened struct {
	Wallet model.Wallet
}

// WalletClosed removes every wallet and clears the selection
type WalletClosed struct{}

// SelectWallet makes the wallet with ID the active one
type SelectWallet struct {
	ID int
}

// UpdateBalance replaces the balance of a wallet
type UpdateBalance struct {
	WalletID int
	Balance  model.Balance
}

// ImportAccountsSet replaces the import candidates
type ImportAccountsSet struct {
	WalletType model.WalletType
	Accounts   []model.ImportAccount
}

// ImportAccountsToggle flips the selection of the candidate with Address
type ImportAccountsToggle struct {
	Address string
}

// ImportAccountsClear drops every import candidate
type ImportAccountsClear struct{}

func (WalletOpened) Type() string         { return "wallet/walletOpened" }
func (WalletClosed) Type() string         { return "wallet/walletClosed" }
func (SelectWallet) Type() string         { return "wallet/selectWallet" }
func (UpdateBalance) Type() string        { return "wallet/updateBalance" }
func (ImportAccountsSet) Type() string    { return "importAccounts/set" }
func (ImportAccountsToggle) Type() string { return "importAccounts/toggle" }
func (ImportAccountsClear) Type() string  { return "importAccounts/clear" }
