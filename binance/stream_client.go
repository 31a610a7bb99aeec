package binance

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	BASE_WS_URL = "wss://data-stream.binance.vision/ws/!ticker@arr"
	// Connection timeouts
	PONG_TIMEOUT    = 60 * time.Second
	RECONNECT_DELAY = 5 * time.Second
)

// StreamClient reads a Binance websocket stream and hands every message to
// onMessage. Dropped connections are re-dialled until the client is stopped.
type StreamClient struct {
	wsURL          string
	onMessage      func(message []byte) error
	reconnectDelay time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStreamClient creates a stream client for wsURL
func NewStreamClient(wsURL string, onMessage func(message []byte) error) *StreamClient {
	if wsURL == "" {
		wsURL = BASE_WS_URL
	}
	return &StreamClient{
		wsURL:          wsURL,
		onMessage:      onMessage,
		reconnectDelay: RECONNECT_DELAY,
	}
}

// Start runs the read loop in the background
func (c *StreamClient) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()
}

// Stop closes the connection and blocks until the read loop exits
func (c *StreamClient) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *StreamClient) run(ctx context.Context) {
	for {
		if err := c.session(ctx); err != nil && ctx.Err() == nil {
			log.Printf("BinanceStream: %v, reconnecting in %s", err, c.reconnectDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

// session dials once and reads until the connection fails
func (c *StreamClient) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket: %v", err)
	}

	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		conn.Close()
		c.conn = nil
		c.mu.Unlock()
	}()

	conn.SetPingHandler(func(appData string) error {
		if err := conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			return err
		}
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	for {
		if err := conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			return fmt.Errorf("failed to set read deadline: %v", err)
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("error reading WebSocket message: %v", err)
		}

		if err := c.onMessage(message); err != nil {
			log.Printf("BinanceStream: %v", err)
		}
	}
}
