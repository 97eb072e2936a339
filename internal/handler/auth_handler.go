/*
Package handler provides the HTTP handlers and routing setup for the notifyd server.

This file contains the authenticate stream: it issues a fresh identity to the
caller, emits it as the single frame of a held-open WebSocket, and revokes the
identity when that socket closes. The lifetime of the socket is the session
lease.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"notifyd/internal/app/stream"
	"notifyd/internal/pkg/errs"
	"notifyd/internal/pkg/limiter"
	"notifyd/internal/pkg/logx"
	"notifyd/internal/pkg/metrics"
	"notifyd/internal/pkg/randx"
	"notifyd/internal/pkg/resp"
)

// HandleAuthenticate creates the HTTP HandlerFunc for the authenticate stream.
// The caller supplies a display name via the "name" query parameter; omitting
// it yields a generated one. Registration happens before the upgrade so
// failures surface as plain HTTP errors.
func HandleAuthenticate(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("Authenticate rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		displayName := r.URL.Query().Get("name")
		if displayName == "" {
			generated, err := randx.DisplayName()
			if err != nil {
				logx.Error(err, "Failed to generate fallback display name")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			displayName = generated
		}

		identity, cerr := deps.Registry.Register(displayName)
		if cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade authenticate connection", "user_id", identity.ID)
			if cerr := deps.Registry.Deregister(identity.ID); cerr != nil {
				logx.Warn("Deregistration after failed upgrade returned an error.", "user_id", identity.ID, "code", cerr.Code)
			}
			return
		}

		metrics.SessionsOpenedTotal.Inc()
		logx.Info("Session opened.", "user_id", identity.ID)

		// The session lease: whatever ends this socket ends the identity.
		// Deregistration errors are operator-visible only; the caller has
		// already disconnected.
		userID := identity.ID
		guard := stream.NewGuard(nil, func() {
			if cerr := deps.Registry.Deregister(userID); cerr != nil && cerr.Code != errs.ErrUserNotFound {
				logx.Warn("Session cleanup deregistration returned an error.", "user_id", userID, "code", cerr.Code)
			}
			logx.Info("Session closed.", "user_id", userID)
		})

		defer func() {
			guard.Release()
			conn.Close()
		}()

		// The one and only response frame. The secret token travels here and
		// nowhere else.
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(identity); err != nil {
			logx.Error(err, "Failed to write identity frame", "user_id", identity.ID)
			return
		}

		closed := watchClose(conn)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
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
