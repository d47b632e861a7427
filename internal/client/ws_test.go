package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totp-live/tui/internal/stream"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + DefaultWebSocketPath
}

func TestWSSubscribeDeliversTextFrames(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"code":"123456","remainingTime":17,"progressPercent":56.7}`))
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02})
		conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"bad secret"}`))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// Wait for the client's close reply.
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		conn.ReadMessage()
	}))
	defer srv.Close()

	var got []string
	err := NewWSClient(wsURL(srv), "").Subscribe(context.Background(), testParams, func(b []byte) {
		got = append(got, string(b))
	})

	require.ErrorIs(t, err, stream.ErrStreamClosed)
	assert.Equal(t, "digits=6&period=30&secret=JBSWY3DPEHPK3PXP", query)
	require.Len(t, got, 2)
	assert.Equal(t, stream.KindSuccess, stream.Classify([]byte(got[0])).Kind)
	assert.Equal(t, stream.KindValidation, stream.Classify([]byte(got[1])).Kind)
}

func TestWSSubscribeCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- NewWSClient(wsURL(srv), "").Subscribe(ctx, testParams, func([]byte) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}

func TestWSSubscribeRejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewWSClient(wsURL(srv), "wrong").Subscribe(context.Background(), testParams, func([]byte) {})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestWSSubscribeAbnormalClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	err := NewWSClient(wsURL(srv), "").Subscribe(context.Background(), testParams, func([]byte) {})
	require.Error(t, err)
	assert.NotErrorIs(t, err, stream.ErrStreamClosed)
	assert.Contains(t, err.Error(), "ws read")
}

func TestDeriveWSBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://127.0.0.1:8080", "ws://127.0.0.1:8080"},
		{"https://codes.example.com", "wss://codes.example.com"},
		{"http://localhost:9000/app", "ws://localhost:9000"},
		{"::not a url", "ws://127.0.0.1:8080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveWSBase(tt.in), tt.in)
	}
}
