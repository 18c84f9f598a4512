package services

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/config"
)

// Client is a single websocket connection with its own send goroutine.
type Client struct {
	// ID is the opaque connection id the rest of the system keys on.
	ID string

	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	logger *zap.Logger

	// onMessage receives each inbound frame; onClose fires once when the
	// connection is torn down, after the client left the hub.
	onMessage func(connID string, data []byte)
	onClose   func(connID string)

	// Rate limiting
	messageCount int
	rateLimitMu  sync.Mutex
	lastReset    time.Time

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	closeMu sync.Mutex
}

// NewClient creates a client for an accepted connection.
func NewClient(id string, conn *websocket.Conn, hub *Hub, logger *zap.Logger, onMessage func(string, []byte), onClose func(string)) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		ID:        id,
		conn:      conn,
		send:      make(chan []byte, config.ClientSendBufferSize),
		hub:       hub,
		logger:    logger,
		onMessage: onMessage,
		onClose:   onClose,
		lastReset: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the client's read and write pumps. Start returns when the
// read pump exits, i.e. when the connection is gone.
func (c *Client) Start() {
	go c.writePump()
	c.readPump()
}

// writePump handles outgoing messages to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}

			writeCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()

			if err != nil {
				c.logger.Debug("write error", zap.String("conn", c.ID), zap.Error(err))
				c.hub.metrics.IncrementBroadcastErrors()
				return
			}
			c.hub.metrics.IncrementMessagesSent()

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err != nil {
				c.logger.Debug("ping error", zap.String("conn", c.ID), zap.Error(err))
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump handles incoming messages from the websocket connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c.ID)
		c.Close()
		if c.onClose != nil {
			c.onClose(c.ID)
		}
	}()

	for {
		readCtx, cancel := context.WithTimeout(c.ctx, config.ReadTimeout)
		_, message, err := c.conn.Read(readCtx)
		cancel()

		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.logger.Debug("read error", zap.String("conn", c.ID), zap.Error(err))
				c.hub.metrics.IncrementConnectionErrors()
			}
			return
		}

		if !c.checkRateLimit() {
			c.logger.Warn("rate limit exceeded", zap.String("conn", c.ID))
			c.hub.metrics.IncrementRateLimitViolations()
			continue
		}

		c.hub.metrics.IncrementMessagesReceived()
		c.onMessage(c.ID, message)
	}
}

// checkRateLimit verifies the client hasn't exceeded message rate limits.
func (c *Client) checkRateLimit() bool {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	now := time.Now()
	if now.Sub(c.lastReset) > config.RateLimitWindow {
		c.messageCount = 0
		c.lastReset = now
	}

	c.messageCount++
	return c.messageCount <= config.MaxMessagesPerSecond
}

// Send queues a message for delivery. A full buffer means the client is
// too slow to keep up and the connection is closed.
func (c *Client) Send(message []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		c.logger.Warn("send buffer full, closing slow client", zap.String("conn", c.ID))
		c.hub.metrics.IncrementBroadcastErrors()
		go c.Close()
		return false
	}
}

// Close cleanly shuts down the client connection. Safe to call multiple
// times.
func (c *Client) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.cancel()
	close(c.send)
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}
