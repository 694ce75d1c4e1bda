package model

// WalletType is the way a wallet's key was imported
type WalletType string

const (
	WalletTypePrivateKey WalletType = "private_key"
	WalletTypeMnemonic   WalletType = "mnemonic"
	WalletTypeLedger     WalletType = "ledger"
)

// Valid reports whether t is a known wallet type
func (t WalletType) Valid() bool {
	switch t {
	case WalletTypePrivateKey, WalletTypeMnemonic, WalletTypeLedger:
		return true
	}
	return false
}

// Wallet is an opened wallet. Its identity is the address; ID only
// disambiguates the wallets opened during this process' lifetime.
type Wallet struct {
	ID         int        `json:"id"`
	Address    string     `json:"address"`
	PublicKey  string     `json:"publicKey"`            // hex
	PrivateKey string     `json:"privateKey,omitempty"` // hex, absent for ledger wallets
	Type       WalletType `json:"type"`
	Balance    Balance    `json:"balance"`
	Path       []uint32   `json:"path,omitempty"`
	Selected   bool       `json:"selected,omitempty"`
}

// AddWalletPayload is a wallet about to be added to the collection
type AddWalletPayload struct {
	Wallet
	SelectImmediately bool `json:"selectImmediately"`
}

// ImportAccount is a candidate account offered for opening, derived from a
// mnemonic or read from a ledger device
type ImportAccount struct {
	Address    string     `json:"address"`
	PublicKey  string     `json:"publicKey"`
	PrivateKey string     `json:"privateKey,omitempty"`
	Path       []uint32   `json:"path,omitempty"`
	Type       WalletType `json:"type"`
	Balance    Balance    `json:"balance"`
	Selected   bool       `json:"selected"`
}

// KeystoreFile represents the persisted keystore file structure
type KeystoreFile struct {
	Network    string   `json:"network"`
	Addresses  []string `json:"addresses"`
	Salt       string   `json:"salt"`
	Nonce      string   `json:"nonce"`
	CipherText string   `json:"cipherText"`
}

// StoredWallet represents one decrypted keystore entry
type StoredWallet struct {
	Address    string     `json:"address"`
	PublicKey  string     `json:"publicKey"`
	PrivateKey string     `json:"privateKey,omitempty"`
	Type       WalletType `json:"type"`
	Path       []uint32   `json:"path,omitempty"`
}

// KeystoreData represents the decrypted keystore payload
type KeystoreData struct {
	Wallets   []StoredWallet `json:"wallets"`
	CreatedAt string         `json:"createdAt"`
}

// Clone returns a deep copy of w
func (w Wallet) Clone() Wallet {
	w.Balance = w.Balance.Clone()
	if w.Path != nil {
		w.Path = append([]uint32(nil), w.Path...)
	}
	return w
}

// Clone returns a deep copy of a
func (a ImportAccount) Clone() ImportAccount {
	a.Balance = a.Balance.Clone()
	if a.Path != nil {
		a.Path = append([]uint32(nil), a.Path...)
	}
	return a
}
