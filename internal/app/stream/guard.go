/*
Package stream binds a network stream's lifetime to registry membership.

The Guard wraps a mailbox consumer together with a one-shot completion
signal. However the surrounding call ends (normal close, error, or
cancellation), releasing the guard fires the signal exactly once, and a
dedicated background task then runs the cleanup callback. This decouples
"stream torn down" from "who tore it down".
*/
package stream

import (
	"sync"

	"notifyd/internal/app/notify"
)

// Guard forwards a mailbox consumer transparently and guarantees its cleanup
// callback runs exactly once after the stream ends.
type Guard struct {
	consumer <-chan notify.Notification

	// done is the one-shot completion signal the cleanup task blocks on.
	done chan struct{}

	// once ensures the signal fires at most once across all exit paths.
	once sync.Once
}

// NewGuard wraps the consumer and starts the background cleanup task.
// The consumer may be nil for call types that hold a session lease without
// draining a mailbox (the authenticate stream). The cleanup callback runs on
// the background task's goroutine, never on the caller's.
func NewGuard(consumer <-chan notify.Notification, cleanup func()) *Guard {
	g := &Guard{
		consumer: consumer,
		done:     make(chan struct{}),
	}

	go func() {
		<-g.done
		cleanup()
	}()

	return g
}

// Notifications exposes the wrapped consumer. It yields the exact sequence
// the mailbox produces and is closed when the mailbox closes.
func (g *Guard) Notifications() <-chan notify.Notification {
	return g.consumer
}

// Release fires the completion signal. Safe to call from any exit path and
// from multiple goroutines; only the first call has an effect.
func (g *Guard) Release() {
	g.once.Do(func() {
		close(g.done)
	})
}

// Done exposes the completion signal, closed once the guard is released.
func (g *Guard) Done() <-chan struct{} {
	return g.done
}
