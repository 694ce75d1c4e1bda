package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AlexZinkM/rose-wallet/internal/model"
	"github.com/AlexZinkM/rose-wallet/internal/state"
	"github.com/AlexZinkM/rose-wallet/oasis"
)

const (
	testPrivateKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testAddress    = "oasis1qrz7xuhcv86zkkczpwwr7v3tzyj3vrt45qjt2rpn"
	testMnemonic   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

type fakeStaking struct {
	mu       sync.Mutex
	balances map[string]uint64
	queried  []string
	err      error
}

func newFakeStaking() *fakeStaking {
	return &fakeStaking{balances: make(map[string]uint64)}
}

func (f *fakeStaking) StakingAccount(_ context.Context, q oasis.StakingAccountQuery) (*oasis.StakingAccount, error) {
	address, err := oasis.EncodeAddress(q.Owner)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, address)
	if f.err != nil {
		return nil, f.err
	}
	return &oasis.StakingAccount{
		General: &oasis.GeneralAccount{Balance: uint256.NewInt(f.balances[address])},
	}, nil
}

func (f *fakeStaking) set(address string, available uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] = available
}

func (f *fakeStaking) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeStaking) takeQueried() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queried
	f.queried = nil
	return out
}

type countingRecorder struct {
	mu       sync.Mutex
	failed   map[string]int
	fetches  int
	walletsN int
}

func (r *countingRecorder) ActionHandled(string) {}

func (r *countingRecorder) HandlerFailed(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[action]++
}

func (r *countingRecorder) BalanceFetched(time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
}

func (r *countingRecorder) WalletsOpen(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.walletsN = n
}

type harness struct {
	t        *testing.T
	c        *Coordinator
	store    *state.Store
	staking  *fakeStaking
	recorder *countingRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		store:    state.NewStore(),
		staking:  newFakeStaking(),
		recorder: &countingRecorder{failed: make(map[string]int)},
	}
	h.c = New(h.store, h.staking, zaptest.NewLogger(t), WithRecorder(h.recorder))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func (h *harness) dispatch(actions ...state.Action) {
	h.t.Helper()
	for _, a := range actions {
		require.NoError(h.t, h.c.Dispatch(context.Background(), a))
	}
	h.flush()
}

func (h *harness) flush() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(h.t, h.c.Flush(ctx))
}

func (h *harness) selectedID() int {
	h.t.Helper()
	id, ok := h.store.SelectSelectedWalletID()
	require.True(h.t, ok, "no wallet selected")
	return id
}

func mnemonicAccounts(t *testing.T, count uint32) []model.ImportAccount {
	t.Helper()
	accounts, err := oasis.DeriveAccounts(testMnemonic, 0, count)
	require.NoError(t, err)
	return accounts
}

func TestOpenWalletFromPrivateKey(t *testing.T) {
	h := newHarness(t)
	h.staking.set(testAddress, 500000000000)

	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: testPrivateKey})

	wallets := h.store.SelectWallets()
	require.Len(t, wallets, 1)
	w := wallets[0]
	assert.Equal(t, 0, w.ID)
	assert.Equal(t, testAddress, w.Address)
	assert.Equal(t, "03a107bff3ce10be1d70dd18e74bc09967e4d6309ba50d5f1ddc8664125531b8", w.PublicKey)
	assert.Equal(t, testPrivateKey+w.PublicKey, w.PrivateKey)
	assert.Equal(t, model.WalletTypePrivateKey, w.Type)
	assert.Equal(t, uint64(500000000000), w.Balance.Available.Uint64())
	assert.True(t, w.Selected)
	assert.Equal(t, []string{testAddress}, h.staking.takeQueried())
	assert.Equal(t, 1, h.recorder.walletsN)
}

func TestOpenSameWalletTwiceKeepsExisting(t *testing.T) {
	h := newHarness(t)
	accounts := mnemonicAccounts(t, 1)

	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: testPrivateKey})
	h.dispatch(AddWallet{Payload: model.AddWalletPayload{
		Wallet: model.Wallet{ID: 100, Address: accounts[0].Address, PublicKey: accounts[0].PublicKey, Type: model.WalletTypeMnemonic, Balance: model.ZeroBalance()},
		SelectImmediately: true,
	}})
	require.Equal(t, 100, h.selectedID())

	h.staking.set(testAddress, 7)
	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: testPrivateKey})

	wallets := h.store.SelectWallets()
	require.Len(t, wallets, 2)
	assert.Equal(t, 0, h.selectedID(), "re-opening selects the existing wallet")
	existing, ok := h.store.SelectWalletByID(0)
	require.True(t, ok)
	assert.True(t, existing.Balance.Available.IsZero(), "existing wallet is not replaced")
}

func TestAddWalletWithoutSelectImmediately(t *testing.T) {
	h := newHarness(t)
	accounts := mnemonicAccounts(t, 2)

	h.dispatch(AddWallet{Payload: model.AddWalletPayload{
		Wallet:            model.Wallet{ID: 10, Address: accounts[0].Address, PublicKey: accounts[0].PublicKey, Balance: model.ZeroBalance()},
		SelectImmediately: true,
	}})
	h.dispatch(AddWallet{Payload: model.AddWalletPayload{
		Wallet: model.Wallet{ID: 11, Address: accounts[1].Address, PublicKey: accounts[1].PublicKey, Balance: model.ZeroBalance()},
	}})

	assert.Len(t, h.store.SelectWallets(), 2)
	assert.Equal(t, 10, h.selectedID())
}

func TestOpenWalletFromMnemonic(t *testing.T) {
	h := newHarness(t)
	accounts := mnemonicAccounts(t, 3)
	h.staking.set(accounts[2].Address, 42)

	h.dispatch(LoadImportAccounts{WalletType: model.WalletTypeMnemonic, Accounts: accounts})
	typ, listed := h.store.SelectImportAccounts()
	require.Len(t, listed, 3)
	assert.Equal(t, model.WalletTypeMnemonic, typ)
	assert.Equal(t, uint64(42), listed[2].Balance.Available.Uint64())

	h.dispatch(
		state.ImportAccountsToggle{Address: accounts[2].Address},
		state.ImportAccountsToggle{Address: accounts[1].Address},
		OpenWalletFromMnemonic{},
	)

	wallets := h.store.SelectWallets()
	require.Len(t, wallets, 2)
	// list order, consecutive ids
	assert.Equal(t, 0, wallets[0].ID)
	assert.Equal(t, accounts[1].Address, wallets[0].Address)
	assert.Equal(t, 1, wallets[1].ID)
	assert.Equal(t, accounts[2].Address, wallets[1].Address)
	assert.Equal(t, uint64(42), wallets[1].Balance.Available.Uint64())
	assert.Equal(t, accounts[1].PrivateKey, wallets[0].PrivateKey)
	assert.Equal(t, model.WalletTypeMnemonic, wallets[0].Type)
	assert.Equal(t, oasis.AccountPath(1), wallets[0].Path)

	assert.Equal(t, 0, h.selectedID())
}

func TestOpenWalletsFromLedgerSelectsExistingWallet(t *testing.T) {
	h := newHarness(t)
	accounts := mnemonicAccounts(t, 2)

	// the first account is already open as a mnemonic wallet
	h.dispatch(AddWallet{Payload: model.AddWalletPayload{
		Wallet: model.Wallet{ID: 0, Address: accounts[0].Address, PublicKey: accounts[0].PublicKey, Type: model.WalletTypeMnemonic, Balance: model.ZeroBalance()},
	}})
	h.c.reserveWalletIDs(1)

	h.dispatch(
		state.ImportAccountsSet{WalletType: model.WalletTypeLedger, Accounts: accounts},
		state.ImportAccountsToggle{Address: accounts[0].Address},
		state.ImportAccountsToggle{Address: accounts[1].Address},
		OpenWalletsFromLedger{},
	)

	wallets := h.store.SelectWallets()
	require.Len(t, wallets, 2)
	assert.Equal(t, 0, h.selectedID())
	assert.Equal(t, model.WalletTypeMnemonic, wallets[0].Type, "existing wallet wins")

	ledger := wallets[1]
	assert.Equal(t, 2, ledger.ID, "ids are consumed for every account")
	assert.Equal(t, model.WalletTypeLedger, ledger.Type)
	assert.Empty(t, ledger.PrivateKey)
}

func TestOpenWithoutSelectedAccountsIsNoop(t *testing.T) {
	h := newHarness(t)
	h.dispatch(
		state.ImportAccountsSet{WalletType: model.WalletTypeMnemonic, Accounts: mnemonicAccounts(t, 2)},
		OpenWalletFromMnemonic{},
		OpenWalletsFromLedger{},
	)
	assert.False(t, h.store.SelectHasAccounts())
	assert.Empty(t, h.recorder.failed)
}

func TestOpenWalletsFromKeystore(t *testing.T) {
	h := newHarness(t)
	accounts := mnemonicAccounts(t, 2)
	h.staking.set(accounts[0].Address, 9)
	h.staking.set(accounts[1].Address, 8)

	h.dispatch(OpenWalletsFromKeystore{Accounts: accounts})

	wallets := h.store.SelectWallets()
	require.Len(t, wallets, 2)
	assert.Equal(t, uint64(9), wallets[0].Balance.Available.Uint64())
	assert.Equal(t, uint64(8), wallets[1].Balance.Available.Uint64())
	assert.Equal(t, wallets[0].ID, h.selectedID())
	assert.True(t, accounts[0].Balance.Total().IsZero(), "input accounts are not modified")
}

func TestCloseWallet(t *testing.T) {
	h := newHarness(t)
	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: testPrivateKey})
	require.True(t, h.store.SelectHasAccounts())

	h.dispatch(CloseWallet{})
	assert.False(t, h.store.SelectHasAccounts())
	_, ok := h.store.SelectSelectedWalletID()
	assert.False(t, ok)
}

func TestFetchWallet(t *testing.T) {
	h := newHarness(t)
	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: testPrivateKey})
	w, ok := h.store.SelectActiveWallet()
	require.True(t, ok)

	h.staking.set(testAddress, 123)
	h.dispatch(FetchWallet{Wallet: w})

	w, ok = h.store.SelectActiveWallet()
	require.True(t, ok)
	assert.Equal(t, uint64(123), w.Balance.Available.Uint64())
}

func openThree(t *testing.T, h *harness) (a, b, c model.Wallet) {
	t.Helper()
	accounts := mnemonicAccounts(t, 3)
	for i, acc := range accounts {
		h.dispatch(AddWallet{Payload: model.AddWalletPayload{
			Wallet:            model.Wallet{ID: i, Address: acc.Address, PublicKey: acc.PublicKey, Type: model.WalletTypeMnemonic, Balance: model.ZeroBalance()},
			SelectImmediately: i == 0,
		}})
	}
	wallets := h.store.SelectWallets()
	require.Len(t, wallets, 3)
	h.staking.takeQueried()
	return wallets[0], wallets[1], wallets[2]
}

func TestTransferRefreshesSenderAndReceiver(t *testing.T) {
	h := newHarness(t)
	a, b, c := openThree(t, h)
	h.staking.set(a.Address, 1)
	h.staking.set(b.Address, 2)
	h.staking.set(c.Address, 3)

	h.dispatch(TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeTransfer, To: b.Address, Amount: "1"}})

	assert.ElementsMatch(t, []string{a.Address, b.Address}, h.staking.takeQueried())
	gotA, _ := h.store.SelectWalletByID(a.ID)
	gotB, _ := h.store.SelectWalletByID(b.ID)
	gotC, _ := h.store.SelectWalletByID(c.ID)
	assert.Equal(t, uint64(1), gotA.Balance.Available.Uint64())
	assert.Equal(t, uint64(2), gotB.Balance.Available.Uint64())
	assert.True(t, gotC.Balance.Available.IsZero())

	// a transfer to an address that is not open only refreshes the sender
	h.dispatch(TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeTransfer, To: testAddress}})
	assert.Equal(t, []string{a.Address}, h.staking.takeQueried())
}

func TestTransferUsesSelectionAtSendTime(t *testing.T) {
	h := newHarness(t)
	a, b, c := openThree(t, h)

	for i := 0; i < 50; i++ {
		// no flush between the transfer and the selection change
		require.NoError(t, h.c.Dispatch(context.Background(), TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeTransfer, To: testAddress}}))
		require.NoError(t, h.c.Dispatch(context.Background(), state.SelectWallet{ID: c.ID}))
		h.flush()

		require.Equal(t, []string{a.Address}, h.staking.takeQueried(), "run %d", i)
		require.Equal(t, c.ID, h.selectedID())

		h.dispatch(state.SelectWallet{ID: a.ID})
	}

	t.Run("close right after send", func(t *testing.T) {
		h.staking.set(b.Address, 9)
		require.NoError(t, h.c.Dispatch(context.Background(), TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeTransfer, To: b.Address}}))
		require.NoError(t, h.c.Dispatch(context.Background(), CloseWallet{}))
		h.flush()

		assert.ElementsMatch(t, []string{a.Address, b.Address}, h.staking.takeQueried())
		assert.False(t, h.store.SelectHasAccounts(), "refresh of a closed wallet does not reopen it")
	})

	t.Run("transfer after close refreshes nothing", func(t *testing.T) {
		require.NoError(t, h.c.Dispatch(context.Background(), CloseWallet{}))
		require.NoError(t, h.c.Dispatch(context.Background(), TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeTransfer, To: b.Address}}))
		h.flush()

		assert.Empty(t, h.staking.takeQueried())
	})
}

func TestNonTransferStopsRefresh(t *testing.T) {
	h := newHarness(t)
	_, b, _ := openThree(t, h)

	h.dispatch(TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeAddEscrow, To: b.Address}})
	assert.Empty(t, h.staking.takeQueried())

	h.dispatch(TransactionSent{Transaction: model.TransactionSent{Type: model.TransactionTypeTransfer, To: b.Address}})
	assert.Empty(t, h.staking.takeQueried(), "refresh loop has ended")
}

func TestBalanceFailureDoesNotOpenWallet(t *testing.T) {
	h := newHarness(t)
	h.staking.setErr(errors.New("backend down"))

	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: testPrivateKey})
	assert.False(t, h.store.SelectHasAccounts())
	assert.Equal(t, 1, h.recorder.failed[OpenWalletFromPrivateKey{}.Type()])

	// import lists keep their zero balances
	h.dispatch(LoadImportAccounts{WalletType: model.WalletTypeMnemonic, Accounts: mnemonicAccounts(t, 1)})
	_, listed := h.store.SelectImportAccounts()
	assert.Len(t, listed, 1)
}

func TestInvalidPrivateKeyIsReported(t *testing.T) {
	h := newHarness(t)
	h.dispatch(OpenWalletFromPrivateKey{PrivateKey: "nope"})
	assert.False(t, h.store.SelectHasAccounts())
	assert.Equal(t, 1, h.recorder.failed[OpenWalletFromPrivateKey{}.Type()])
}

func TestRunOnce(t *testing.T) {
	h := newHarness(t)
	assert.Eventually(t, func() bool { return h.c.running.Load() }, time.Second, time.Millisecond)
	assert.ErrorIs(t, h.c.Run(context.Background()), ErrAlreadyRunning)
}

func TestDispatchAfterStop(t *testing.T) {
	c := New(state.NewStore(), newFakeStaking(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.NoError(t, c.Dispatch(context.Background(), CloseWallet{}))
	require.NoError(t, c.Flush(context.Background()))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.ErrorIs(t, c.Dispatch(context.Background(), CloseWallet{}), ErrStopped)
	assert.NoError(t, c.Flush(context.Background()))
}
