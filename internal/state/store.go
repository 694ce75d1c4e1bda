package state

import (
	"sync"

	"github.com/AlexZinkM/rose-wallet/internal/model"
)

// WalletState is the collection of opened wallets
type WalletState struct {
	Wallets        map[int]model.Wallet
	SelectedWallet *int
}

// ImportAccountsState holds the accounts offered by the last mnemonic or
// ledger import
type ImportAccountsState struct {
	Type     model.WalletType
	Accounts []model.ImportAccount
}

// State is the whole application state
type State struct {
	Wallet         WalletState
	ImportAccounts ImportAccountsState
}

// Store owns the state. All reads go through selectors, which return copies.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		state: State{
			Wallet: WalletState{Wallets: make(map[int]model.Wallet)},
		},
	}
}

// Reduce applies action to the state. It reports whether the action was
// a state action.
func (s *Store) Reduce(action Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reduce(&s.state, action)
}
