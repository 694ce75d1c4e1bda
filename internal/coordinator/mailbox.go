package coordinator

import (
	"context"
	"errors"
	"sync"

	"github.com/AlexZinkM/rose-wallet/internal/state"
)

var errMailboxClosed = errors.New("mailbox closed")

// mailbox is an unbounded FIFO of actions. Pushing never blocks.
type mailbox struct {
	mu     sync.Mutex
	items  []state.Action
	closed bool
	notify chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{}, 1)}
}

func (m *mailbox) push(a state.Action) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items, a)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return true
}

func (m *mailbox) pop(ctx context.Context) (state.Action, error) {
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			a := m.items[0]
			m.items[0] = nil
			m.items = m.items[1:]
			m.mu.Unlock()
			return a, nil
		}
		if m.closed {
			m.mu.Unlock()
			return nil, errMailboxClosed
		}
		m.mu.Unlock()

		select {
		case <-m.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// close rejects further pushes and returns the actions never popped
func (m *mailbox) close() []state.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	dropped := m.items
	m.items = nil
	return dropped
}

// tracker counts queued and in-flight work
type tracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func newTracker() *tracker {
	idle := make(chan struct{})
	close(idle)
	return &tracker{idle: idle}
}

func (t *tracker) add() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
}

func (t *tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

func (t *tracker) wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		if t.n == 0 {
			t.mu.Unlock()
			return nil
		}
		idle := t.idle
		t.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
