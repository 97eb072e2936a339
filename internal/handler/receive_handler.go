/*
Package handler provides the HTTP handlers and routing setup for the notifyd server.

This file contains the receive stream: it claims the authenticated caller's
mailbox consumer (take-once), upgrades to WebSocket, and pushes notifications
as JSON frames until the socket or the mailbox closes. Stream teardown
triggers deregistration exactly once through the lifecycle guard.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"notifyd/internal/app/stream"
	"notifyd/internal/pkg/errs"
	"notifyd/internal/pkg/logx"
	"notifyd/internal/pkg/resp"
)

// HandleReceive creates the HTTP HandlerFunc for the receive stream. It runs
// behind RequireAuth; the caller's identity comes from the request context.
func HandleReceive(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if caller == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
			return
		}

		consumer, cerr := deps.Registry.TakeConsumer(caller.ID)
		if cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		// The consumer is claimed; from here on every exit path must fire the
		// guard so the user is deregistered exactly once.
		userID := caller.ID
		guard := stream.NewGuard(consumer, func() {
			if cerr := deps.Registry.Deregister(userID); cerr != nil && cerr.Code != errs.ErrUserNotFound {
				logx.Warn("Receive cleanup deregistration returned an error.", "user_id", userID, "code", cerr.Code)
			}
			logx.Info("Receive stream cleanup finished.", "user_id", userID)
		})

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade receive connection", "user_id", caller.ID)
			guard.Release()
			return
		}

		logx.Info("Receive stream opened.", "user_id", caller.ID)

		defer func() {
			guard.Release()
			conn.Close()
		}()

		closed := watchClose(conn)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case notification, ok := <-guard.Notifications():
				if !ok {
					// Mailbox closed: the identity was revoked elsewhere
					// (authenticate socket dropped, or shutdown). End the call.
					conn.SetWriteDeadline(time.Now().Add(writeWait))
					conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
					return
				}

				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(notification); err != nil {
					logx.Warn("Failed to write notification frame, ending stream.", "user_id", caller.ID)
					return
				}

			case <-closed:
				return

			case <-ticker.C:
				if !writePing(conn) {
					return
				}
			}
		}
	}
}
