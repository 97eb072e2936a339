/*
Package registry contains the core logic for tracking connected users, their
credentials, and the per-user mailboxes notifications are fanned out into.

This file defines the Registry struct, the single source of truth for "who is
online". All operations are synchronized under one exclusive lock, held only
for the duration of in-memory map work; mailbox sends performed under the
lock are always non-blocking.
*/
package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"notifyd/internal/app/notify"
	"notifyd/internal/configs"
	"notifyd/internal/pkg/errs"
	"notifyd/internal/pkg/logx"
	"notifyd/internal/pkg/metrics"
)

// Registry owns the set of currently connected users. The raw map never
// leaves the registry boundary; callers interact through the operations below.
type Registry struct {
	// mu guards users. It is the only lock shared across calls.
	mu sync.Mutex

	// users maps user id to its record.
	users map[string]*UserRecord

	// mailboxCapacity bounds every newly created mailbox.
	mailboxCapacity int

	// structured logger with Registry context.
	logger zerolog.Logger
}

// New constructs a Registry using the configured mailbox capacity.
func New(cfg *configs.AppConfig) *Registry {
	capacity := configs.DefaultMailboxCapacity
	if cfg != nil && cfg.MailboxCapacity > 0 {
		capacity = cfg.MailboxCapacity
	}

	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		users:           make(map[string]*UserRecord),
		mailboxCapacity: capacity,
		logger:          registryLogger,
	}
}

// Register issues a fresh Identity for the display name, creates the user's
// mailbox, and performs presence fanout: every already-connected user is told
// the newcomer is online, and the newcomer's mailbox is seeded with one
// online notification per connected peer so a freshly connected client learns
// the current presence set without a separate query.
func (r *Registry) Register(displayName string) (Identity, *errs.CustomError) {
	identity := NewIdentity(displayName)
	return identity, r.register(identity)
}

// register adds a record for the given identity. It fails with
// ErrUserAlreadyExists when the id is already present, leaving the registry
// untouched.
func (r *Registry) register(identity Identity) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[identity.ID]; ok {
		r.logger.Warn().Str("user_id", identity.ID).Msg("Attempted to register existing user id.")
		return errs.NewError(errs.ErrUserAlreadyExists)
	}

	record := newUserRecord(identity, r.mailboxCapacity)
	record.isOnline = true

	newcomer := identity.Ref()
	for _, other := range r.users {
		// Tell the established user about the newcomer, and seed the
		// newcomer's mailbox with the established user's presence.
		r.pushPresence(other, notify.NewOnline(newcomer, true))
		r.pushPresence(record, notify.NewOnline(other.identity.Ref(), true))
	}

	r.users[identity.ID] = record

	metrics.ConnectedUsers.Inc()
	r.logger.Info().
		Str("user_id", identity.ID).
		Int("total_users", len(r.users)).
		Msg("User registered.")

	return nil
}

// Deregister removes the user's record, closes its mailbox, and fans an
// offline notification out to every remaining user. It fails with
// ErrUserNotFound when the id is absent, which callers racing on cleanup
// treat as a no-op.
func (r *Registry) Deregister(id string) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.users[id]
	if !ok {
		return errs.NewError(errs.ErrUserNotFound)
	}

	delete(r.users, id)
	record.isOnline = false
	record.mailbox.Close()

	departed := record.identity.Ref()
	for _, other := range r.users {
		r.pushPresence(other, notify.NewOnline(departed, false))
	}

	metrics.ConnectedUsers.Dec()
	r.logger.Info().
		Str("user_id", id).
		Int("total_users", len(r.users)).
		Msg("User deregistered.")

	return nil
}

// pushPresence performs one best-effort presence delivery while holding the
// registry lock. Failures are logged and counted, never propagated: presence
// delivery is not guaranteed, and the lock must not wait on a slow consumer.
func (r *Registry) pushPresence(to *UserRecord, n notify.Notification) {
	if err := to.mailbox.TryPush(n); err != nil {
		metrics.NotificationsDroppedTotal.WithLabelValues(dropReason(err)).Inc()
		r.logger.Warn().
			Str("user_id", to.identity.ID).
			Str("about_user_id", n.From.ID).
			Msg("Could not enqueue presence notification, dropping.")
		return
	}

	metrics.NotificationsSentTotal.WithLabelValues(string(n.Type)).Inc()
}

// dropReason maps a mailbox enqueue error to a metric label.
func dropReason(err *errs.CustomError) string {
	if err.Code == errs.ErrMailboxClosed {
		return "mailbox_closed"
	}
	return "mailbox_full"
}

// Lookup resolves a destination user, returning its public identity and the
// producer side of its mailbox. It fails with ErrUserNotFound when absent.
func (r *Registry) Lookup(id string) (notify.UserRef, *Mailbox, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.users[id]
	if !ok {
		return notify.UserRef{}, nil, errs.NewError(errs.ErrUserNotFound)
	}

	return record.identity.Ref(), record.mailbox, nil
}

// Authenticate reports whether the presented token matches the registered
// record for the id. Unknown ids authenticate as false.
func (r *Registry) Authenticate(id, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.users[id]
	return ok && record.identity.Token == token
}

// TakeConsumer claims the user's mailbox consumer for a receive stream.
// The claim succeeds at most once per registration; a second concurrent
// receive attempt fails with ErrReceiverTaken, and an unknown id with
// ErrUserNotFound.
func (r *Registry) TakeConsumer(id string) (<-chan notify.Notification, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.users[id]
	if !ok {
		return nil, errs.NewError(errs.ErrUserNotFound)
	}

	return record.mailbox.Take()
}

// Count reports the number of currently registered users.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users)
}

// Close deregisters every remaining user, closing their mailboxes so live
// receive streams drain and end. Used during graceful shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, record := range r.users {
		record.isOnline = false
		record.mailbox.Close()
		delete(r.users, id)
		metrics.ConnectedUsers.Dec()
	}

	r.logger.Info().Msg("Registry closed.")
}
