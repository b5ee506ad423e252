// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/lmoreno/cyclearb/internal/apperror"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	ReadLimit      int64

	// OnConnect runs after every successful (re)connect, before the read
	// loop starts. Subscription messages go here so they survive reconnects.
	OnConnect func(ctx context.Context, c *Client) error
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0,
		PingInterval:   30 * time.Second,
		ReadLimit:      1 << 20,
	}
}

// Client is a WebSocket client that keeps a single connection alive,
// reconnecting with exponential backoff when it drops.
type Client struct {
	config Config

	mu         sync.RWMutex
	state      State
	conn       *websocket.Conn
	reconnects int

	messages chan []byte
	done     chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// New creates a new WebSocket client.
func New(config Config) *Client {
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 30 * time.Second
	}
	return &Client{
		config:   config,
		state:    StateDisconnected,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection and starts the read and
// ping loops. It returns once the first connection attempt succeeds.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	if err := c.dial(ctx); err != nil {
		c.setState(StateDisconnected)
		return apperror.Wrap(err, apperror.CodeWebSocketConnectionError, c.config.URL)
	}

	c.setState(StateConnected)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()

	return nil
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return err
	}

	if c.config.ReadLimit > 0 {
		conn.SetReadLimit(c.config.ReadLimit)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if c.config.OnConnect != nil {
		if err := c.config.OnConnect(ctx, c); err != nil {
			conn.Close(websocket.StatusInternalError, "subscribe failed")
			return err
		}
	}

	return nil
}

// run owns the connection lifecycle: it reads until the connection drops,
// then reconnects with backoff until ctx is done or Close is called.
func (c *Client) run(ctx context.Context) {
	for {
		c.readLoop(ctx)

		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		if !c.reconnect(ctx) {
			return
		}
	}
}

func (c *Client) readLoop(ctx context.Context) {
	conn := c.current()
	if conn == nil {
		return
	}

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()

	if c.config.PingInterval > 0 {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.pingLoop(pingCtx, conn)
		}()
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		select {
		case c.messages <- data:
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// reconnect retries the dial with exponential backoff and jitter. It
// returns false when the retry budget is exhausted or the client stops.
func (c *Client) reconnect(ctx context.Context) bool {
	c.setState(StateReconnecting)

	backoff := c.config.InitialBackoff

	for {
		c.mu.Lock()
		c.reconnects++
		attempts := c.reconnects
		c.mu.Unlock()

		if c.config.MaxReconnects > 0 && attempts > c.config.MaxReconnects {
			c.setState(StateDisconnected)
			return false
		}

		jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return false
		case <-c.done:
			c.setState(StateDisconnected)
			return false
		}

		if err := c.dial(ctx); err == nil {
			c.mu.Lock()
			c.reconnects = 0
			c.mu.Unlock()
			c.setState(StateConnected)
			return true
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}
}

// Send sends a text message through the WebSocket.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	conn := c.current()
	if conn == nil {
		return apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithMessage("not connected"))
	}

	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.Wrap(err, apperror.CodeWebSocketSendError, c.config.URL)
	}

	return nil
}

// Messages returns the channel for receiving raw messages.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Close gracefully closes the WebSocket connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "shutting down")
	}

	c.wg.Wait()
	c.setState(StateDisconnected)
	return nil
}

func (c *Client) current() *websocket.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Client) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
