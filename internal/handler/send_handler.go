/*
Package handler provides the HTTP handlers and routing setup for the notifyd server.

This file contains the unary send call: it resolves the destination user,
builds the inbound notification envelope for the requested payload kind, and
performs a non-blocking enqueue into the destination mailbox. Message sends
return the server-generated message id and earn the sender a best-effort
delivery receipt.
*/
package handler

import (
	"net/http"

	"notifyd/internal/app/notify"
	"notifyd/internal/pkg/errs"
	"notifyd/internal/pkg/logx"
	"notifyd/internal/pkg/metrics"
	"notifyd/internal/pkg/randx"
	"notifyd/internal/pkg/req"
	"notifyd/internal/pkg/resp"
)

// MaxContentBytes is the maximum allowed size (in bytes) for message content.
const MaxContentBytes = 5000

// MessageInput is the message variant of a send request.
type MessageInput struct {
	Content string `json:"content"`
}

// TypingInput is the typing-indicator variant of a send request.
type TypingInput struct {
	IsTyping bool `json:"is_typing"`
}

// ReadInput is the read-receipt variant of a send request.
type ReadInput struct {
	MessageID string `json:"message_id"`
}

// SendRequest is the body of a send call: a destination id plus exactly one
// payload variant.
type SendRequest struct {
	To      string        `json:"to"`
	Message *MessageInput `json:"message,omitempty"`
	Typing  *TypingInput  `json:"typing,omitempty"`
	Read    *ReadInput    `json:"read,omitempty"`
}

// SendResponse carries the server-generated message id for message sends;
// other payload kinds return an empty result.
type SendResponse struct {
	MessageID string `json:"message_id,omitempty"`
}

// validate checks the structural constraints on a send request.
func (s *SendRequest) validate() *errs.CustomError {
	if s.To == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	variants := 0
	if s.Message != nil {
		variants++
	}
	if s.Typing != nil {
		variants++
	}
	if s.Read != nil {
		variants++
	}
	if variants != 1 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if s.Message != nil && len(s.Message.Content) > MaxContentBytes {
		return errs.NewError(errs.ErrContentTooLong)
	}
	if s.Read != nil && s.Read.MessageID == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}

// HandleSend creates the HTTP HandlerFunc for the send call. It runs behind
// RequireAuth. A rejected send leaves no notification delivered.
func HandleSend(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if caller == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
			return
		}

		var sendReq SendRequest
		if cerr := req.BindJSON(w, r, &sendReq); cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		if cerr := sendReq.validate(); cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		// Destination resolution happens before any id allocation so a send
		// to an unknown user has no side effects at all.
		destRef, destMailbox, cerr := deps.Registry.Lookup(sendReq.To)
		if cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		var notification notify.Notification
		var result SendResponse

		switch {
		case sendReq.Message != nil:
			messageID := randx.MessageID()
			notification = notify.NewMessage(caller.Ref, messageID, sendReq.Message.Content)
			result.MessageID = messageID

		case sendReq.Typing != nil:
			notification = notify.NewTyping(caller.Ref, sendReq.Typing.IsTyping)

		case sendReq.Read != nil:
			notification = notify.NewRead(caller.Ref, sendReq.Read.MessageID)
		}

		if cerr := destMailbox.TryPush(notification); cerr != nil {
			logx.Warn("Send rejected: destination mailbox unavailable.",
				"to", sendReq.To, "kind", string(notification.Type), "code", cerr.Code)
			resp.RespondError(w, r, cerr)
			return
		}

		metrics.NotificationsSentTotal.WithLabelValues(string(notification.Type)).Inc()

		// Delivery receipt for message sends: best effort, from the
		// destination's public identity. Failure never fails the send.
		if sendReq.Message != nil {
			if _, senderMailbox, cerr := deps.Registry.Lookup(caller.ID); cerr == nil {
				receipt := notify.NewDelivered(destRef, result.MessageID)
				if cerr := senderMailbox.TryPush(receipt); cerr != nil {
					logx.Debug("Dropped delivery receipt.", "user_id", caller.ID, "code", cerr.Code)
				} else {
					metrics.NotificationsSentTotal.WithLabelValues(string(notify.TypeDelivered)).Inc()
				}
			}
		}

		resp.RespondSuccess(w, r, result)
	}
}
