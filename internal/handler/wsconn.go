/*
Package handler provides the HTTP handlers and routing setup for the notifyd server.

This file holds the WebSocket connection tuning shared by the authenticate and
receive streams: deadlines, heartbeat cadence, and the read-side close detector.
*/
package handler

import (
	"time"

	"github.com/gorilla/websocket"

	"notifyd/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. Neither
	// stream expects meaningful inbound frames.
	maxInboundFrameSize = 512
)

// watchClose consumes inbound frames until the connection errors or closes,
// then closes the returned channel. Both streams are server-push only, so the
// read side exists solely to observe pongs, close frames, and dead peers.
func watchClose(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})

	conn.SetReadLimit(maxInboundFrameSize)

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logx.Error(err, "Failed to set read deadline on stream")
		close(closed)
		return closed
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logx.Debug("Stream read loop ended.", "error", err.Error())
				}
				return
			}
		}
	}()

	return closed
}

// writePing sends a heartbeat frame, reporting whether the connection is
// still writable.
func writePing(conn *websocket.Conn) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}

	return conn.WriteMessage(websocket.PingMessage, nil) == nil
}
