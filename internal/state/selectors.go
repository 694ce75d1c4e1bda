package state

import (
	"sort"

	"github.com/AlexZinkM/rose-wallet/internal/model"
)

// SelectWallets returns every opened wallet ordered by id, with Selected
// set on the active one
func (s *Store) SelectWallets() []model.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Wallet, 0, len(s.state.Wallet.Wallets))
	for _, w := range s.state.Wallet.Wallets {
		w = w.Clone()
		w.Selected = s.state.Wallet.SelectedWallet != nil && *s.state.Wallet.SelectedWallet == w.ID
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SelectSelectedWalletID returns the id of the active wallet
func (s *Store) SelectSelectedWalletID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Wallet.SelectedWallet == nil {
		return 0, false
	}
	return *s.state.Wallet.SelectedWallet, true
}

// SelectActiveWallet returns the active wallet
func (s *Store) SelectActiveWallet() (model.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Wallet.SelectedWallet == nil {
		return model.Wallet{}, false
	}
	w, ok := s.state.Wallet.Wallets[*s.state.Wallet.SelectedWallet]
	if !ok {
		return model.Wallet{}, false
	}
	w = w.Clone()
	w.Selected = true
	return w, true
}

// SelectAddress returns the address of the active wallet, empty when none
func (s *Store) SelectAddress() string {
	w, ok := s.SelectActiveWallet()
	if !ok {
		return ""
	}
	return w.Address
}

// SelectHasAccounts reports whether any wallet is open
func (s *Store) SelectHasAccounts() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Wallet.Wallets) > 0
}

// SelectWalletByID returns the wallet with id
func (s *Store) SelectWalletByID(id int) (model.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.state.Wallet.Wallets[id]
	if !ok {
		return model.Wallet{}, false
	}
	return w.Clone(), true
}

// SelectWalletByAddress returns the wallet opened for address. When several
// match, the lowest id wins.
func (s *Store) SelectWalletByAddress(address string) (model.Wallet, bool) {
	for _, w := range s.SelectWallets() {
		if w.Address == address {
			return w, true
		}
	}
	return model.Wallet{}, false
}

// SelectImportAccounts returns the import candidates and their type
func (s *Store) SelectImportAccounts() (model.WalletType, []model.ImportAccount) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ImportAccount, 0, len(s.state.ImportAccounts.Accounts))
	for _, a := range s.state.ImportAccounts.Accounts {
		out = append(out, a.Clone())
	}
	return s.state.ImportAccounts.Type, out
}

// SelectSelectedAccounts returns the import candidates marked as selected,
// in list order
func (s *Store) SelectSelectedAccounts() []model.ImportAccount {
	_, accounts := s.SelectImportAccounts()
	out := accounts[:0]
	for _, a := range accounts {
		if a.Selected {
			out = append(out, a)
		}
	}
	return out
}

// SelectWalletCount returns the number of opened wallets
func (s *Store) SelectWalletCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Wallet.Wallets)
}
