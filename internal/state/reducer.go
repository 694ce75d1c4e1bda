package state

import (
	"github.com/AlexZinkM/rose-wallet/internal/model"
)

func reduce(st *State, action Action) bool {
	switch a := action.(type) {
	case WalletOpened:
		st.Wallet.Wallets[a.Wallet.ID] = a.Wallet.Clone()
	case WalletClosed:
		st.Wallet.Wallets = make(map[int]model.Wallet)
		st.Wallet.SelectedWallet = nil
	case SelectWallet:
		if _, ok := st.Wallet.Wallets[a.ID]; !ok {
			return true
		}
		id := a.ID
		st.Wallet.SelectedWallet = &id
	case UpdateBalance:
		w, ok := st.Wallet.Wallets[a.WalletID]
		if !ok {
			return true
		}
		w.Balance = a.Balance.Clone()
		st.Wallet.Wallets[a.WalletID] = w
	case ImportAccountsSet:
		accounts := make([]model.ImportAccount, 0, len(a.Accounts))
		for _, acc := range a.Accounts {
			acc = acc.Clone()
			acc.Type = a.WalletType
			accounts = append(accounts, acc)
		}
		st.ImportAccounts = ImportAccountsState{Type: a.WalletType, Accounts: accounts}
	case ImportAccountsToggle:
		for i := range st.ImportAccounts.Accounts {
			if st.ImportAccounts.Accounts[i].Address == a.Address {
				st.ImportAccounts.Accounts[i].Selected = !st.ImportAccounts.Accounts[i].Selected
			}
		}
	case ImportAccountsClear:
		st.ImportAccounts = ImportAccountsState{}
	default:
		return false
	}
	return true
}
