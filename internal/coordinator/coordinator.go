package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/AlexZinkM/rose-wallet/internal/state"
	"github.com/AlexZinkM/rose-wallet/oasis"
)

var (
	ErrAlreadyRunning = errors.New("coordinator already running")
	ErrStopped        = errors.New("coordinator stopped")
)

// Recorder receives coordinator measurements
type Recorder interface {
	ActionHandled(action string)
	HandlerFailed(action string)
	BalanceFetched(d time.Duration, err error)
	WalletsOpen(n int)
}

type nopRecorder struct{}

func (nopRecorder) ActionHandled(string)                {}
func (nopRecorder) HandlerFailed(string)                {}
func (nopRecorder) BalanceFetched(time.Duration, error) {}
func (nopRecorder) WalletsOpen(int)                     {}

type handlerFunc func(ctx context.Context, action state.Action) error

// subscription receives matching actions in its mailbox. capture, when
// set, replaces the action on the dispatcher goroutine so the subscriber
// sees the store as it was when the action was processed.
type subscription struct {
	match   func(state.Action) bool
	capture func(state.Action) state.Action
	box     *mailbox
}

// Coordinator reacts to wallet actions. Actions are processed one at a time
// on the goroutine running Run: each is reduced into the store, delivered
// to take subscribers and then to its handlers, which run inline. Actions
// put by a handler are processed depth-first before the handler resumes.
// Balance fetches run on their own goroutines and dispatch their result.
type Coordinator struct {
	store    *state.Store
	staking  oasis.StakingQuerier
	logger   *zap.Logger
	recorder Recorder

	queue    *mailbox
	pending  *tracker
	handlers map[string][]handlerFunc

	subsMu sync.Mutex
	subs   []*subscription

	walletID atomic.Int64
	running  atomic.Bool
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// New creates a coordinator over store that reads balances from staking
func New(store *state.Store, staking oasis.StakingQuerier, logger *zap.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		store:    store,
		staking:  staking,
		logger:   logger.Named("coordinator"),
		recorder: nopRecorder{},
		queue:    newMailbox(),
		pending:  newTracker(),
		handlers: make(map[string][]handlerFunc),
	}
	for _, opt := range opts {
		opt(c)
	}

	takeEvery(c, c.openWalletFromPrivateKey)
	takeEvery(c, c.openWalletFromMnemonic)
	takeEvery(c, c.openWalletsFromLedger)
	takeEvery(c, c.openWalletsFromKeystore)
	takeEvery(c, c.openWallets)
	takeEvery(c, c.addWallet)
	takeEvery(c, c.loadWallet)
	takeEvery(c, c.closeWallet)
	takeEvery(c, c.loadImportAccounts)
	return c
}

// takeEvery registers h for every action of type A
func takeEvery[A state.Action](c *Coordinator, h func(context.Context, A) error) {
	var zero A
	c.handlers[zero.Type()] = append(c.handlers[zero.Type()], func(ctx context.Context, action state.Action) error {
		return h(ctx, action.(A))
	})
}

// Store returns the store the coordinator reduces into
func (c *Coordinator) Store() *state.Store {
	return c.store
}

// Dispatch enqueues action for processing. It never blocks on processing.
func (c *Coordinator) Dispatch(ctx context.Context, action state.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.pending.add()
	if !c.queue.push(action) {
		c.pending.done()
		return ErrStopped
	}
	return nil
}

// Flush waits until no action is queued and no balance fetch is in flight
func (c *Coordinator) Flush(ctx context.Context) error {
	return c.pending.wait(ctx)
}

// Run processes actions until ctx is cancelled. It may be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	refresh := c.subscribe(func(a state.Action) bool {
		_, ok := a.(TransactionSent)
		return ok
	})
	refresh.capture = c.captureTransfer
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.refreshAccountOnTransaction(ctx, refresh)
	}()

	c.logger.Info("coordinator started")
	defer func() {
		for range c.queue.close() {
			c.pending.done()
		}
		wg.Wait()
		c.logger.Info("coordinator stopped")
	}()

	for {
		action, err := c.queue.pop(ctx)
		if err != nil {
			return ctx.Err()
		}
		c.process(ctx, action)
		c.pending.done()
	}
}

// put processes action immediately. Only valid on the dispatcher goroutine.
func (c *Coordinator) put(ctx context.Context, action state.Action) {
	c.process(ctx, action)
}

func (c *Coordinator) process(ctx context.Context, action state.Action) {
	if c.store.Reduce(action) {
		c.recorder.WalletsOpen(c.store.SelectWalletCount())
	}
	c.deliver(action)

	c.logger.Debug("handling action", zap.String("action", action.Type()))
	c.recorder.ActionHandled(action.Type())
	for _, h := range c.handlers[action.Type()] {
		c.runHandler(ctx, action, h)
	}
}

func (c *Coordinator) runHandler(ctx context.Context, action state.Action, h handlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(action.Type(), fmt.Errorf("handler panic: %v", r))
		}
	}()
	if err := h(ctx, action); err != nil {
		c.fail(action.Type(), err)
	}
}

func (c *Coordinator) fail(action string, err error) {
	c.logger.Error("action failed", zap.String("action", action), zap.Error(err))
	c.recorder.HandlerFailed(action)
}

func (c *Coordinator) subscribe(match func(state.Action) bool) *subscription {
	sub := &subscription{match: match, box: newMailbox()}
	c.subsMu.Lock()
	c.subs = append(c.subs, sub)
	c.subsMu.Unlock()
	return sub
}

func (c *Coordinator) unsubscribe(sub *subscription) {
	c.subsMu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.subsMu.Unlock()

	for range sub.box.close() {
		c.pending.done()
	}
}

func (c *Coordinator) deliver(action state.Action) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		if !sub.match(action) {
			continue
		}
		delivered := action
		if sub.capture != nil {
			delivered = sub.capture(action)
		}
		c.pending.add()
		if !sub.box.push(delivered) {
			c.pending.done()
		}
	}
}

// reserveWalletIDs returns the first of n consecutive fresh wallet ids
func (c *Coordinator) reserveWalletIDs(n int) int {
	return int(c.walletID.Add(int64(n))) - n
}
