/*
Package registry contains the core logic for tracking connected users, their
credentials, and the per-user mailboxes notifications are fanned out into.

This file defines the Mailbox, a bounded FIFO queue of pending notifications
with a non-blocking producer side and a take-once consumer side.
*/
package registry

import (
	"sync"

	"notifyd/internal/app/notify"
	"notifyd/internal/pkg/errs"
)

// Mailbox is a bounded FIFO queue of notifications owned by exactly one
// UserRecord. Producers enqueue without ever blocking; the consumer side is a
// channel claimed by at most one receive stream over the mailbox's lifetime.
type Mailbox struct {
	mu sync.Mutex

	// ch buffers pending notifications in delivery order.
	ch chan notify.Notification

	// taken records whether the consumer side has been claimed.
	taken bool

	// closed records whether the mailbox has been shut down.
	closed bool
}

// NewMailbox creates a mailbox buffering up to capacity notifications.
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{
		ch: make(chan notify.Notification, capacity),
	}
}

// TryPush enqueues the notification without blocking. It fails with
// ErrMailboxFull when the queue is at capacity and ErrMailboxClosed when the
// mailbox has been shut down; it never waits for the consumer.
func (m *Mailbox) TryPush(n notify.Notification) *errs.CustomError {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errs.NewError(errs.ErrMailboxClosed)
	}

	select {
	case m.ch <- n:
		return nil
	default:
		return errs.NewError(errs.ErrMailboxFull)
	}
}

// Take claims the consumer side of the mailbox. It may succeed at most once;
// a second claim fails with ErrReceiverTaken rather than sharing the stream.
// Notifications already buffered remain readable after the mailbox closes.
func (m *Mailbox) Take() (<-chan notify.Notification, *errs.CustomError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taken {
		return nil, errs.NewError(errs.ErrReceiverTaken)
	}

	m.taken = true
	return m.ch, nil
}

// Close shuts the mailbox down. Subsequent TryPush calls fail, and a consumer
// draining the channel observes it closed once buffered notifications are
// read. Close is idempotent.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.ch)
	}
}

// Len reports the number of buffered notifications.
func (m *Mailbox) Len() int {
	return len(m.ch)
}
