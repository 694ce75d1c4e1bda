package model

// OpenPrivateKeyRequest represents request for POST /wallets/private-key
type OpenPrivateKeyRequest struct {
	PrivateKey string `json:"privateKey" binding:"required"`
}

// OpenPrivateKeyResponse represents response for POST /wallets/private-key
type OpenPrivateKeyResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// ImportMnemonicRequest represents request for POST /import/mnemonic
type ImportMnemonicRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
	Start    uint32 `json:"start"`
	Count    uint32 `json:"count"`
}

// LedgerAccount is an account read from a ledger device by the front end
type LedgerAccount struct {
	Address   string   `json:"address"`
	PublicKey string   `json:"publicKey"`
	Path      []uint32 `json:"path"`
}

// ImportLedgerRequest represents request for POST /import/ledger
type ImportLedgerRequest struct {
	Accounts []LedgerAccount `json:"accounts" binding:"required"`
}

// ImportSelectRequest represents request for POST /import/select
type ImportSelectRequest struct {
	Address string `json:"address" binding:"required"`
}

// ImportAccountsResponse represents response for GET /import
type ImportAccountsResponse struct {
	Type     WalletType           `json:"type,omitempty"`
	Accounts []ImportAccountEntry `json:"accounts"`
}

// ImportAccountEntry is an import candidate without its private key
type ImportAccountEntry struct {
	Address   string   `json:"address"`
	Short     string   `json:"short"`
	PublicKey string   `json:"publicKey"`
	Path      []uint32 `json:"path,omitempty"`
	Balance   Balance  `json:"balance"`
	Selected  bool     `json:"selected"`
}

// SelectWalletRequest represents request for POST /wallets/select
type SelectWalletRequest struct {
	ID int `json:"id"`
}

// WalletEntry is an opened wallet without its private key
type WalletEntry struct {
	ID        int        `json:"id"`
	Address   string     `json:"address"`
	Short     string     `json:"short"`
	PublicKey string     `json:"publicKey"`
	Type      WalletType `json:"type"`
	Balance   Balance    `json:"balance"`
	Path      []uint32   `json:"path,omitempty"`
	Selected  bool       `json:"selected"`
}

// WalletsResponse represents response for GET /wallets
type WalletsResponse struct {
	Wallets  []WalletEntry `json:"wallets"`
	Selected *int          `json:"selected,omitempty"`
}

// QRResponse represents response for GET /wallets/selected/qr
type QRResponse struct {
	Address string `json:"address"`
	QR      string `json:"QR"`
}

// KeystoreRequest represents request for POST /keystore/save and /keystore/unlock
type KeystoreRequest struct {
	Password string `json:"password"`
}

// KeystoreResponse represents response for keystore operations
type KeystoreResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Wallets []string `json:"wallets,omitempty"`
}

// AcceptedResponse acknowledges a dispatched action
type AcceptedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
