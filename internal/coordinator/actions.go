package coordinator

import (
	"github.com/AlexZinkM/rose-wallet/internal/model"
)

// OpenWalletFromPrivateKey opens and selects the wallet of a hex private key
type OpenWalletFromPrivateKey struct {
	PrivateKey string
}

// OpenWalletFromMnemonic opens the selected mnemonic import accounts
type OpenWalletFromMnemonic struct{}

// OpenWalletsFromLedger opens the selected ledger import accounts
type OpenWalletsFromLedger struct{}

// OpenWalletsFromKeystore opens accounts restored from the keystore once
// their balances are known
type OpenWalletsFromKeystore struct {
	Accounts []model.ImportAccount
}

// OpenWallets opens a list of accounts, selecting the first one
type OpenWallets struct {
	Accounts []model.ImportAccount
}

// AddWallet adds a wallet unless one with the same address is open
type AddWallet struct {
	Payload model.AddWalletPayload
}

// CloseWallet closes every open wallet
type CloseWallet struct{}

// FetchWallet reloads the balance of a wallet
type FetchWallet struct {
	Wallet model.Wallet
}

// LoadImportAccounts fetches balances of import candidates and then
// publishes them to the import list
type LoadImportAccounts struct {
	WalletType model.WalletType
	Accounts   []model.ImportAccount
}

// TransactionSent reports a submitted transaction
type TransactionSent struct {
	Transaction model.TransactionSent
}

func (OpenWalletFromPrivateKey) Type() string { return "wallet/openWalletFromPrivateKey" }
func (OpenWalletFromMnemonic) Type() string   { return "wallet/openWalletFromMnemonic" }
func (OpenWalletsFromLedger) Type() string    { return "wallet/openWalletsFromLedger" }
func (OpenWalletsFromKeystore) Type() string  { return "wallet/openWalletsFromKeystore" }
func (OpenWallets) Type() string              { return "wallet/openWallets" }
func (AddWallet) Type() string                { return "wallet/addWallet" }
func (CloseWallet) Type() string              { return "wallet/closeWallet" }
func (FetchWallet) Type() string              { return "wallet/fetchWallet" }
func (LoadImportAccounts) Type() string       { return "importAccounts/load" }
func (TransactionSent) Type() string          { return "transaction/transactionSent" }
