package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifyd/internal/app/notify"
	"notifyd/internal/configs"
	"notifyd/internal/pkg/errs"
)

func newTestRegistry(capacity int) *Registry {
	return New(&configs.AppConfig{MailboxCapacity: capacity})
}

// drain reads exactly n notifications, failing the test on a stall.
func drain(t *testing.T, ch <-chan notify.Notification, n int) []notify.Notification {
	t.Helper()

	out := make([]notify.Notification, 0, n)
	for i := 0; i < n; i++ {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "consumer channel closed early")
			out = append(out, v)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for notification %d of %d", i+1, n)
		}
	}
	return out
}

func TestRegister_IssuesDistinctIdentities(t *testing.T) {
	r := newTestRegistry(16)

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		identity, cerr := r.Register("user")
		require.Nil(t, cerr)
		require.NotEmpty(t, identity.ID)
		require.NotEmpty(t, identity.Token)
		assert.Equal(t, "user", identity.DisplayName)

		_, dup := seen[identity.ID]
		require.False(t, dup, "duplicate id issued: %s", identity.ID)
		seen[identity.ID] = struct{}{}
	}

	assert.Equal(t, 10, r.Count())
}

func TestRegister_DuplicateIDFails(t *testing.T) {
	r := newTestRegistry(16)

	identity := NewIdentity("alice")
	require.Nil(t, r.register(identity))

	cerr := r.register(identity)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserAlreadyExists, cerr.Code)
	assert.Equal(t, 1, r.Count())
}

func TestRegister_SeedsPresenceForNewcomer(t *testing.T) {
	r := newTestRegistry(16)

	a, cerr := r.Register("alice")
	require.Nil(t, cerr)
	b, cerr := r.Register("bob")
	require.Nil(t, cerr)

	c, cerr := r.Register("carol")
	require.Nil(t, cerr)

	consumer, cerr := r.TakeConsumer(c.ID)
	require.Nil(t, cerr)

	// exactly one online notification per already-connected peer, order unspecified
	got := drain(t, consumer, 2)
	fromIDs := make(map[string]struct{})
	for _, n := range got {
		require.Equal(t, notify.TypeOnline, n.Type)
		require.NotNil(t, n.Online)
		assert.True(t, n.Online.IsOnline)
		fromIDs[n.From.ID] = struct{}{}
	}
	assert.Contains(t, fromIDs, a.ID)
	assert.Contains(t, fromIDs, b.ID)
	assert.Equal(t, 0, len(consumer))
}

func TestRegister_NotifiesExistingUsers(t *testing.T) {
	r := newTestRegistry(16)

	a, cerr := r.Register("alice")
	require.Nil(t, cerr)
	consumer, cerr := r.TakeConsumer(a.ID)
	require.Nil(t, cerr)

	b, cerr := r.Register("bob")
	require.Nil(t, cerr)

	got := drain(t, consumer, 1)[0]
	assert.Equal(t, notify.TypeOnline, got.Type)
	assert.Equal(t, b.ID, got.From.ID)
	assert.Equal(t, "bob", got.From.DisplayName)
	require.NotNil(t, got.Online)
	assert.True(t, got.Online.IsOnline)
}

func TestDeregister_FansOutOffline(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")
	b, _ := r.Register("bob")
	c, _ := r.Register("carol")

	consumerA, cerr := r.TakeConsumer(a.ID)
	require.Nil(t, cerr)
	consumerB, cerr := r.TakeConsumer(b.ID)
	require.Nil(t, cerr)

	// flush the join notifications accumulated so far
	drain(t, consumerA, 2)
	drain(t, consumerB, 1)

	require.Nil(t, r.Deregister(c.ID))

	for _, consumer := range []<-chan notify.Notification{consumerA, consumerB} {
		got := drain(t, consumer, 1)[0]
		assert.Equal(t, notify.TypeOnline, got.Type)
		assert.Equal(t, c.ID, got.From.ID)
		require.NotNil(t, got.Online)
		assert.False(t, got.Online.IsOnline)
	}
	assert.Equal(t, 2, r.Count())
}

func TestDeregister_UnknownIsNotFound(t *testing.T) {
	r := newTestRegistry(16)

	cerr := r.Deregister("missing")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserNotFound, cerr.Code)
}

func TestDeregister_SecondCallIsNotFound(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")
	require.Nil(t, r.Deregister(a.ID))

	cerr := r.Deregister(a.ID)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserNotFound, cerr.Code)
}

func TestDeregister_ClosesMailbox(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")
	consumer, cerr := r.TakeConsumer(a.ID)
	require.Nil(t, cerr)

	require.Nil(t, r.Deregister(a.ID))

	select {
	case _, ok := <-consumer:
		assert.False(t, ok, "expected consumer channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("consumer channel not closed after deregistration")
	}
}

func TestRegister_FanoutIsBestEffort(t *testing.T) {
	// Tiny mailboxes overflow immediately; registration must still succeed.
	r := newTestRegistry(1)

	for i := 0; i < 5; i++ {
		_, cerr := r.Register("user")
		require.Nil(t, cerr)
	}
	assert.Equal(t, 5, r.Count())
}

func TestAuthenticate(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")

	assert.True(t, r.Authenticate(a.ID, a.Token))
	assert.False(t, r.Authenticate(a.ID, "wrong-token"))
	assert.False(t, r.Authenticate("unknown", a.Token))

	require.Nil(t, r.Deregister(a.ID))
	assert.False(t, r.Authenticate(a.ID, a.Token), "revoked identity must not authenticate")
}

func TestLookup(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")

	ref, mailbox, cerr := r.Lookup(a.ID)
	require.Nil(t, cerr)
	require.NotNil(t, mailbox)
	assert.Equal(t, a.ID, ref.ID)
	assert.Equal(t, "alice", ref.DisplayName)

	_, _, cerr = r.Lookup("missing")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserNotFound, cerr.Code)
}

func TestTakeConsumer_TakeOnce(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")

	_, cerr := r.TakeConsumer(a.ID)
	require.Nil(t, cerr)

	_, cerr = r.TakeConsumer(a.ID)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrReceiverTaken, cerr.Code)

	_, cerr = r.TakeConsumer("missing")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserNotFound, cerr.Code)
}

func TestClose_EndsAllStreams(t *testing.T) {
	r := newTestRegistry(16)

	a, _ := r.Register("alice")
	b, _ := r.Register("bob")

	consumerA, _ := r.TakeConsumer(a.ID)
	consumerB, _ := r.TakeConsumer(b.ID)

	r.Close()
	assert.Equal(t, 0, r.Count())

	expectClosed := func(consumer <-chan notify.Notification) {
		for {
			select {
			case _, ok := <-consumer:
				if !ok {
					return
				}
			case <-time.After(time.Second):
				t.Fatal("consumer channel not closed after registry close")
			}
		}
	}
	expectClosed(consumerA)
	expectClosed(consumerB)
}
