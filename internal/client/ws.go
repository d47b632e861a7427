package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/totp-live/tui/internal/params"
	"github.com/totp-live/tui/internal/stream"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// WSClient subscribes to a WebSocket endpoint that sends one JSON code
// message per text frame.
type WSClient struct {
	url    string
	token  string
	dialer *websocket.Dialer
}

// NewWSClient creates a transport for the given WebSocket URL, e.g.
// "ws://127.0.0.1:8080/totp-ws".
func NewWSClient(url, token string) *WSClient {
	return &WSClient{url: url, token: token, dialer: websocket.DefaultDialer}
}

// Subscribe implements stream.Transport.
func (c *WSClient) Subscribe(ctx context.Context, p params.Set, onEvent func([]byte)) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, withQuery(c.url, p), header)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return &StatusError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("ws dial: %w", err)
	}
	defer conn.Close()

	// Closing the socket is the only way to unblock ReadMessage.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go pingLoop(pingCtx, conn)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return stream.ErrStreamClosed
			}
			return fmt.Errorf("ws read: %w", err)
		}
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		if typ != websocket.TextMessage {
			continue
		}
		onEvent(data)
	}
}

// pingLoop is the only writer on conn, so no write lock is needed.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
