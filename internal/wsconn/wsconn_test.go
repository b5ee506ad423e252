package wsconn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// mockWSServer creates a test WebSocket server driven by handler.
func mockWSServer(t *testing.T, handler func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Logf("websocket accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		if handler != nil {
			handler(conn)
		}
	}))
}

// echoHandler echoes messages back to the client.
func echoHandler(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if err := conn.Write(ctx, msgType, data); err != nil {
			return
		}
	}
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestClient_ConnectAndEcho(t *testing.T) {
	server := mockWSServer(t, echoHandler)
	defer server.Close()

	cfg := DefaultConfig(wsURL(server))
	cfg.PingInterval = 0

	client := New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	defer client.Close()

	if state := client.State(); state != StateConnected {
		t.Errorf("State() = %v, want %v", state, StateConnected)
	}

	if err := client.Send(ctx, []byte("ping-message")); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	select {
	case msg := <-client.Messages():
		if string(msg) != "ping-message" {
			t.Errorf("echoed message = %q, want %q", msg, "ping-message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no echo received")
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	cfg := DefaultConfig("ws://127.0.0.1:1") // nothing listens here
	client := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Connect(ctx); err == nil {
		client.Close()
		t.Fatal("Connect() to dead endpoint must fail")
	}
	if state := client.State(); state != StateDisconnected {
		t.Errorf("State() = %v, want %v", state, StateDisconnected)
	}
}

func TestClient_OnConnectRunsEveryConnect(t *testing.T) {
	var drops int32
	server := mockWSServer(t, func(conn *websocket.Conn) {
		// Drop the first connection immediately, echo afterwards.
		if atomic.AddInt32(&drops, 1) == 1 {
			conn.Close(websocket.StatusGoingAway, "drop")
			return
		}
		echoHandler(conn)
	})
	defer server.Close()

	var connects int32
	cfg := DefaultConfig(wsURL(server))
	cfg.PingInterval = 0
	cfg.InitialBackoff = 20 * time.Millisecond
	cfg.OnConnect = func(ctx context.Context, c *Client) error {
		atomic.AddInt32(&connects, 1)
		return nil
	}

	client := New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	defer client.Close()

	deadline := time.After(3 * time.Second)
	for atomic.LoadInt32(&connects) < 2 {
		select {
		case <-deadline:
			t.Fatalf("OnConnect ran %d times, want 2 (initial + reconnect)", atomic.LoadInt32(&connects))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestClient_SendBeforeConnect(t *testing.T) {
	client := New(DefaultConfig("ws://example.invalid"))
	if err := client.Send(context.Background(), []byte("x")); err == nil {
		t.Error("Send() before Connect must fail")
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	server := mockWSServer(t, echoHandler)
	defer server.Close()

	cfg := DefaultConfig(wsURL(server))
	cfg.PingInterval = 0

	client := New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("first Close() error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if state := client.State(); state != StateDisconnected {
		t.Errorf("State() = %v, want %v", state, StateDisconnected)
	}
}
