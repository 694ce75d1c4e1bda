package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/AlexZinkM/rose-wallet/internal/model"
	"github.com/AlexZinkM/rose-wallet/internal/state"
)

// sentTransfer is a transfer together with the wallets it touched, resolved
// against the store at the moment the transfer was dispatched
type sentTransfer struct {
	TransactionSent
	touched []model.Wallet
}

// captureTransfer resolves the wallets a transfer touches: every open
// wallet whose address is the active one (the sender) or the receiver.
// It runs on the dispatcher goroutine, so actions queued after the
// transfer cannot change the result.
func (c *Coordinator) captureTransfer(action state.Action) state.Action {
	sent, ok := action.(TransactionSent)
	if !ok || sent.Transaction.Type != model.TransactionTypeTransfer {
		return action
	}

	from := c.store.SelectAddress()
	var touched []model.Wallet
	for _, wallet := range c.store.SelectWallets() {
		if wallet.Address == sent.Transaction.To || wallet.Address == from {
			touched = append(touched, wallet)
		}
	}
	return sentTransfer{TransactionSent: sent, touched: touched}
}

// refreshAccountOnTransaction reloads the wallets touched by a transfer:
// the active wallet and the receiver, when either is open. The loop ends
// on the first transaction that is not a transfer.
func (c *Coordinator) refreshAccountOnTransaction(ctx context.Context, sub *subscription) {
	defer c.unsubscribe(sub)

	for {
		action, err := sub.box.pop(ctx)
		if err != nil {
			return
		}
		transfer, ok := action.(sentTransfer)
		if !ok {
			tx := action.(TransactionSent).Transaction
			c.logger.Info("transaction refresh stopped", zap.String("type", string(tx.Type)))
			c.unsubscribe(sub)
			c.pending.done()
			return
		}

		for _, wallet := range transfer.touched {
			if err := c.Dispatch(ctx, FetchWallet{Wallet: wallet}); err != nil {
				c.logger.Warn("failed to dispatch wallet refresh", zap.Error(err))
			}
		}
		c.pending.done()
	}
}
