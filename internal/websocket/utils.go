package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second

	// ReadTimeout is how long a connection may stay silent. Pongs count, so
	// a client that only listens stays connected while it answers pings.
	ReadTimeout = 5 * time.Minute
	// PingPeriod must be shorter than ReadTimeout.
	PingPeriod = ReadTimeout * 9 / 10
)

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// WritePing sends a ping control frame.
func WritePing(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// KeepAlive arms the read deadline and extends it by wait on every pong.
func KeepAlive(conn *websocket.Conn, wait time.Duration) {
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})
}

// ReadJSON reads and decodes a message into the provided structure.
// The read deadline is pushed out by wait first.
func ReadJSON(conn *websocket.Conn, v interface{}, wait time.Duration) error {
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	return conn.ReadJSON(v)
}
