/*
Package notify defines the notification types relayed between users.

A Notification is a tagged union: exactly one payload field is set, matching
the Type discriminator. Every notification names the public identity of the
user it originates from; the sender's secret token is never part of the wire
representation.
*/
package notify

// Type discriminates the payload carried by a Notification.
type Type string

const (
	// TypeOnline signals a presence change of the originating user.
	TypeOnline Type = "ONLINE"

	// TypeMessage carries a direct message.
	TypeMessage Type = "MESSAGE"

	// TypeDelivered acknowledges that a previously sent message reached its
	// destination mailbox.
	TypeDelivered Type = "DELIVERED"

	// TypeRead signals that the originating user read a message.
	TypeRead Type = "READ"

	// TypeTyping signals that the originating user started or stopped typing.
	TypeTyping Type = "TYPING"
)

// UserRef is the public view of a user embedded in notifications:
// id and display name only.
type UserRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// OnlinePayload reports whether the originating user is online.
type OnlinePayload struct {
	IsOnline bool `json:"is_online"`
}

// MessagePayload carries a direct message and its server-assigned id.
type MessagePayload struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

// ReceiptPayload references a previously sent message, used by both
// delivered and read notifications.
type ReceiptPayload struct {
	MessageID string `json:"message_id"`
}

// TypingPayload reports the originating user's typing state.
type TypingPayload struct {
	IsTyping bool `json:"is_typing"`
}

// Notification is the envelope pushed through a user's mailbox and onto the
// receive stream. Exactly one of the payload pointers is non-nil.
type Notification struct {
	Type Type    `json:"type"`
	From UserRef `json:"from"`

	Online    *OnlinePayload  `json:"online,omitempty"`
	Message   *MessagePayload `json:"message,omitempty"`
	Delivered *ReceiptPayload `json:"delivered,omitempty"`
	Read      *ReceiptPayload `json:"read,omitempty"`
	Typing    *TypingPayload  `json:"typing,omitempty"`
}

// NewOnline builds a presence notification from the given user.
func NewOnline(from UserRef, isOnline bool) Notification {
	return Notification{
		Type:   TypeOnline,
		From:   from,
		Online: &OnlinePayload{IsOnline: isOnline},
	}
}

// NewMessage builds a direct message notification from the given user.
func NewMessage(from UserRef, messageID, content string) Notification {
	return Notification{
		Type:    TypeMessage,
		From:    from,
		Message: &MessagePayload{MessageID: messageID, Content: content},
	}
}

// NewDelivered builds a delivery receipt notification from the given user.
func NewDelivered(from UserRef, messageID string) Notification {
	return Notification{
		Type:      TypeDelivered,
		From:      from,
		Delivered: &ReceiptPayload{MessageID: messageID},
	}
}

// NewRead builds a read receipt notification from the given user.
func NewRead(from UserRef, messageID string) Notification {
	return Notification{
		Type: TypeRead,
		From: from,
		Read: &ReceiptPayload{MessageID: messageID},
	}
}

// NewTyping builds a typing indicator notification from the given user.
func NewTyping(from UserRef, isTyping bool) Notification {
	return Notification{
		Type:   TypeTyping,
		From:   from,
		Typing: &TypingPayload{IsTyping: isTyping},
	}
}
