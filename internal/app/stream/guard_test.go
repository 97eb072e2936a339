package stream

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifyd/internal/app/notify"
)

func TestGuard_CleanupRunsExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	cleaned := make(chan struct{})

	g := NewGuard(nil, func() {
		calls.Add(1)
		close(cleaned)
	})

	// every exit path may release; only the first has an effect
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Release()
		}()
	}
	wg.Wait()

	select {
	case <-cleaned:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not run")
	}

	// a late release is a no-op
	g.Release()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGuard_CleanupWaitsForRelease(t *testing.T) {
	cleaned := make(chan struct{})
	g := NewGuard(nil, func() { close(cleaned) })

	select {
	case <-cleaned:
		t.Fatal("cleanup ran before the stream ended")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()

	select {
	case <-cleaned:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not run after release")
	}
}

func TestGuard_ForwardsConsumerTransparently(t *testing.T) {
	ch := make(chan notify.Notification, 2)
	from := notify.UserRef{ID: "u1", DisplayName: "alice"}
	ch <- notify.NewOnline(from, true)
	ch <- notify.NewTyping(from, true)
	close(ch)

	g := NewGuard(ch, func() {})
	defer g.Release()

	first := <-g.Notifications()
	require.Equal(t, notify.TypeOnline, first.Type)
	second := <-g.Notifications()
	require.Equal(t, notify.TypeTyping, second.Type)

	_, ok := <-g.Notifications()
	assert.False(t, ok, "guard must surface the closed consumer")
}

func TestGuard_DoneSignal(t *testing.T) {
	g := NewGuard(nil, func() {})

	select {
	case <-g.Done():
		t.Fatal("done signal fired before release")
	default:
	}

	g.Release()

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("done signal not closed after release")
	}
}
