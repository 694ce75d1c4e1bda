package coordinator

import (
	"context"
	"fmt"
	"time"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"go.uber.org/zap"

	"github.com/AlexZinkM/rose-wallet/internal/model"
	"github.com/AlexZinkM/rose-wallet/internal/state"
	"github.com/AlexZinkM/rose-wallet/oasis"
)

func (c *Coordinator) openWalletFromPrivateKey(ctx context.Context, a OpenWalletFromPrivateKey) error {
	kp, err := oasis.PrivateKeyFromHex(a.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}
	address, err := oasis.PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to derive address: %w", err)
	}
	privateKey := kp.PrivateKeyHex()
	publicKey := kp.PublicKeyHex()
	kp.Clear()

	c.fetchBalance(ctx, a.Type(), kp.PublicKey, func(balance model.Balance) state.Action {
		return AddWallet{Payload: model.AddWalletPayload{
			Wallet: model.Wallet{
				ID:         c.reserveWalletIDs(1),
				Address:    address,
				PublicKey:  publicKey,
				PrivateKey: privateKey,
				Type:       model.WalletTypePrivateKey,
				Balance:    balance,
			},
			SelectImmediately: true,
		}}
	})
	return nil
}

func (c *Coordinator) openWalletFromMnemonic(ctx context.Context, _ OpenWalletFromMnemonic) error {
	c.openFromList(ctx, c.store.SelectSelectedAccounts(), "")
	return nil
}

func (c *Coordinator) openWalletsFromLedger(ctx context.Context, _ OpenWalletsFromLedger) error {
	c.openFromList(ctx, c.store.SelectSelectedAccounts(), model.WalletTypeLedger)
	return nil
}

func (c *Coordinator) openWallets(ctx context.Context, a OpenWallets) error {
	c.openFromList(ctx, a.Accounts, "")
	return nil
}

func (c *Coordinator) openWalletsFromKeystore(ctx context.Context, a OpenWalletsFromKeystore) error {
	accounts := cloneAccounts(a.Accounts)
	c.fetchAccountBalances(ctx, a.Type(), accounts, func(loaded []model.ImportAccount) state.Action {
		return OpenWallets{Accounts: loaded}
	})
	return nil
}

func (c *Coordinator) loadImportAccounts(ctx context.Context, a LoadImportAccounts) error {
	accounts := cloneAccounts(a.Accounts)
	c.fetchAccountBalances(ctx, a.Type(), accounts, func(loaded []model.ImportAccount) state.Action {
		return state.ImportAccountsSet{WalletType: a.WalletType, Accounts: loaded}
	})
	return nil
}

// openFromList adds every account under consecutive fresh ids without
// selecting them, then selects the wallet of the first account: the one
// already open for its address or else the first fresh id. An empty
// typ keeps each account's own type.
func (c *Coordinator) openFromList(ctx context.Context, accounts []model.ImportAccount, typ model.WalletType) {
	if len(accounts) == 0 {
		c.logger.Info("no accounts to open")
		return
	}

	newWalletID := c.reserveWalletIDs(len(accounts))
	for i, account := range accounts {
		walletType := account.Type
		if typ != "" {
			walletType = typ
		}
		privateKey := account.PrivateKey
		if walletType == model.WalletTypeLedger {
			privateKey = ""
		}
		c.put(ctx, AddWallet{Payload: model.AddWalletPayload{
			Wallet: model.Wallet{
				ID:         newWalletID + i,
				Address:    account.Address,
				PublicKey:  account.PublicKey,
				PrivateKey: privateKey,
				Type:       walletType,
				Balance:    account.Balance,
				Path:       account.Path,
			},
			SelectImmediately: false,
		}})
	}

	id := newWalletID
	if existing, ok := c.store.SelectWalletByAddress(accounts[0].Address); ok {
		id = existing.ID
	}
	c.put(ctx, state.SelectWallet{ID: id})
}

// addWallet opens the wallet unless its address is already open, in which
// case the existing wallet is kept
func (c *Coordinator) addWallet(ctx context.Context, a AddWallet) error {
	wallet := a.Payload.Wallet
	existing, exists := c.store.SelectWalletByAddress(wallet.Address)
	if !exists {
		c.put(ctx, state.WalletOpened{Wallet: wallet})
	}

	walletID := wallet.ID
	if exists {
		walletID = existing.ID
	}
	if a.Payload.SelectImmediately {
		c.put(ctx, state.SelectWallet{ID: walletID})
	}
	return nil
}

func (c *Coordinator) closeWallet(ctx context.Context, _ CloseWallet) error {
	c.put(ctx, state.WalletClosed{})
	return nil
}

func (c *Coordinator) loadWallet(ctx context.Context, a FetchWallet) error {
	pub, err := oasis.PublicKeyFromHex(a.Wallet.PublicKey)
	if err != nil {
		return fmt.Errorf("wallet %d: %w", a.Wallet.ID, err)
	}
	walletID := a.Wallet.ID
	c.fetchBalance(ctx, a.Type(), pub, func(balance model.Balance) state.Action {
		return state.UpdateBalance{WalletID: walletID, Balance: balance}
	})
	return nil
}

// fetchBalance queries the balance of pub off the dispatcher goroutine and
// dispatches the action built from it. Failures are logged and nothing is
// dispatched.
func (c *Coordinator) fetchBalance(ctx context.Context, action string, pub ed.PublicKey, then func(model.Balance) state.Action) {
	pub = append(ed.PublicKey(nil), pub...)
	c.pending.add()
	go func() {
		defer c.pending.done()

		balance, err := c.getBalance(ctx, pub)
		if err != nil {
			c.fail(action, err)
			return
		}
		if err := c.Dispatch(ctx, then(balance)); err != nil {
			c.logger.Warn("failed to dispatch balance", zap.String("action", action), zap.Error(err))
		}
	}()
}

// fetchAccountBalances fills in the balance of every account off the
// dispatcher goroutine. An account whose balance cannot be fetched keeps
// the balance it came with.
func (c *Coordinator) fetchAccountBalances(ctx context.Context, action string, accounts []model.ImportAccount, then func([]model.ImportAccount) state.Action) {
	c.pending.add()
	go func() {
		defer c.pending.done()

		for i := range accounts {
			pub, err := oasis.PublicKeyFromHex(accounts[i].PublicKey)
			if err == nil {
				var balance model.Balance
				balance, err = c.getBalance(ctx, pub)
				if err == nil {
					accounts[i].Balance = balance
				}
			}
			if err != nil {
				c.logger.Warn("failed to fetch account balance",
					zap.String("action", action),
					zap.String("address", accounts[i].Address),
					zap.Error(err))
			}
		}
		if err := c.Dispatch(ctx, then(accounts)); err != nil {
			c.logger.Warn("failed to dispatch balances", zap.String("action", action), zap.Error(err))
		}
	}()
}

func (c *Coordinator) getBalance(ctx context.Context, pub ed.PublicKey) (model.Balance, error) {
	start := time.Now()
	balance, err := oasis.GetBalance(ctx, c.staking, pub)
	c.recorder.BalanceFetched(time.Since(start), err)
	return balance, err
}

func cloneAccounts(accounts []model.ImportAccount) []model.ImportAccount {
	out := make([]model.ImportAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Clone())
	}
	return out
}
