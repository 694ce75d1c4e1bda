package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxFIFO(t *testing.T) {
	m := newMailbox()
	require.True(t, m.push(CloseWallet{}))
	require.True(t, m.push(OpenWalletFromMnemonic{}))

	a, err := m.pop(context.Background())
	require.NoError(t, err)
	assert.IsType(t, CloseWallet{}, a)
	a, err = m.pop(context.Background())
	require.NoError(t, err)
	assert.IsType(t, OpenWalletFromMnemonic{}, a)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMailboxClose(t *testing.T) {
	m := newMailbox()
	m.push(CloseWallet{})
	dropped := m.close()
	assert.Len(t, dropped, 1)
	assert.False(t, m.push(CloseWallet{}))

	_, err := m.pop(context.Background())
	assert.ErrorIs(t, err, errMailboxClosed)
}

func TestMailboxWakesBlockedPop(t *testing.T) {
	m := newMailbox()
	got := make(chan struct{})
	go func() {
		_, err := m.pop(context.Background())
		assert.NoError(t, err)
		close(got)
	}()
	m.push(CloseWallet{})
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("pop was not woken")
	}
}

func TestTracker(t *testing.T) {
	tr := newTracker()
	require.NoError(t, tr.wait(context.Background()))

	tr.add()
	tr.add()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tr.wait(ctx), context.DeadlineExceeded)

	tr.done()
	tr.done()
	assert.NoError(t, tr.wait(context.Background()))
}
