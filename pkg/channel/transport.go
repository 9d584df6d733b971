// Package channel supervises the push subscription delivering remote events,
// falling back to polling when the channel stays down.
package channel

import (
	"context"

	"github.com/gorilla/websocket"
)

// Transport is a raw frame source for the supervisor.
type Transport interface {
	Read() ([]byte, error)
	Close() error
}

type WebSocketTransport struct {
	conn *websocket.Conn
}

func NewWebSocketTransport(conn *websocket.Conn) *WebSocketTransport {
	return &WebSocketTransport{
		conn: conn,
	}
}

func (w *WebSocketTransport) Read() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (w *WebSocketTransport) Close() error {
	return w.conn.Close()
}

// Dial connects a websocket transport to the events service.
func Dial(ctx context.Context, url string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return NewWebSocketTransport(conn), nil
}
