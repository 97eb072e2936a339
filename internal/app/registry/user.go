/*
Package registry contains the core logic for tracking connected users, their
credentials, and the per-user mailboxes notifications are fanned out into.

This file defines the Identity issued to an authenticated session and the
UserRecord owned by the Registry.
*/
package registry

import (
	"notifyd/internal/app/notify"
	"notifyd/internal/pkg/randx"
)

// Identity is the (id, token, display name) triple issued to an authenticated
// session. The id is the public handle; the token is the secret capability
// presented on every subsequent call and must never be logged or broadcast.
type Identity struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
}

// Ref returns the public view of the identity (id and display name only),
// safe to embed in notifications.
func (id Identity) Ref() notify.UserRef {
	return notify.UserRef{
		ID:          id.ID,
		DisplayName: id.DisplayName,
	}
}

// NewIdentity mints a fresh Identity for the given display name using
// collision-resistant random identifiers.
func NewIdentity(displayName string) Identity {
	return Identity{
		ID:          randx.UserID(),
		Token:       randx.SessionToken(),
		DisplayName: displayName,
	}
}

// UserRecord is the registry's record of one connected user. It is owned
// exclusively by the Registry and mutated only while holding the registry lock.
type UserRecord struct {
	// identity holds the user's credentials and display name.
	identity Identity

	// isOnline tracks the user's presence state.
	isOnline bool

	// mailbox is the user's bounded notification queue. The producer side is
	// shared with every caller that resolves this user as a destination; the
	// consumer side is claimed exactly once by a receive stream.
	mailbox *Mailbox
}

// newUserRecord builds a record around a fresh mailbox of the given capacity.
func newUserRecord(identity Identity, capacity int) *UserRecord {
	return &UserRecord{
		identity: identity,
		mailbox:  NewMailbox(capacity),
	}
}
