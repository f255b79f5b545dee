package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/events"
	"github.com/teslashibe/go-simplearm/pkg/protocol"
)

var (
	// ErrNotConnected is returned by writes while no connection is open.
	ErrNotConnected = errors.New("bridge: not connected")
	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("bridge: client closed")
)

// Client provides a topic-level interface to the robot bridge.
type Client struct {
	cfg    Config
	logger *slog.Logger
	topics *Topics
	dialer *websocket.Dialer

	mu     sync.RWMutex
	conn   *websocket.Conn
	done   chan struct{} // closed when the current read loop exits
	closed bool
	subs   map[string]*events.Feed[json.RawMessage]

	writeMu sync.Mutex
	wg      sync.WaitGroup

	// Stats
	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
	decodeErrors     atomic.Int64
	reconnectCount   atomic.Int64
}

// New creates a new bridge client.
// Call Connect() or Run() to establish the connection.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = log.L()
	}

	return &Client{
		cfg:    cfg,
		logger: logger.With("component", "bridge"),
		topics: NewTopics(cfg.Namespace),
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		subs:   make(map[string]*events.Feed[json.RawMessage]),
	}, nil
}

// Connect dials the bridge and resubscribes every registered topic.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.RLock()
	closed, connected := c.closed, c.conn != nil
	c.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if connected {
		return nil // Already connected
	}

	c.logger.Info("connecting to bridge", "url", c.cfg.URL)

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial bridge: %w", err)
	}

	c.mu.Lock()
	if c.closed || c.conn != nil {
		closed := c.closed
		c.mu.Unlock()
		conn.Close()
		if closed {
			return ErrClosed
		}
		return nil
	}
	done := make(chan struct{})
	c.conn = conn
	c.done = done
	topics := c.topicsLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	go c.readLoop(conn, done)

	for _, topic := range topics {
		if err := c.sendOp(protocol.OpSubscribe, topic); err != nil {
			c.logger.Warn("resubscribe failed", "topic", topic, "error", err)
		}
	}

	c.logger.Info("connected to bridge", "url", c.cfg.URL, "topics", len(topics))
	return nil
}

// ConnectWithRetry connects with automatic retry on failure.
func (c *Client) ConnectWithRetry(ctx context.Context) error {
	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := c.Connect(ctx)
		if err == nil || errors.Is(err, ErrClosed) {
			return err
		}

		attempts++
		c.reconnectCount.Add(1)

		if c.cfg.MaxReconnectAttempts > 0 && attempts >= c.cfg.MaxReconnectAttempts {
			return fmt.Errorf("max reconnect attempts (%d) reached: %w", c.cfg.MaxReconnectAttempts, err)
		}

		c.logger.Warn("bridge connection failed, retrying",
			"error", err,
			"attempt", attempts,
			"retry_in", c.cfg.ReconnectInterval,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

// Run keeps the connection alive until ctx is cancelled or the client is
// closed, reconnecting whenever the bridge drops it.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.ConnectWithRetry(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}

		c.mu.RLock()
		done := c.done
		c.mu.RUnlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}

		if c.isClosed() {
			return nil
		}
		c.reconnectCount.Add(1)
	}
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			closed := c.closed
			c.mu.Unlock()
			conn.Close()
			if !closed {
				c.logger.Warn("bridge connection lost", "error", err)
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		c.decodeErrors.Add(1)
		c.logger.Warn("dropping malformed bridge message", "error", err)
		return
	}

	switch msg.Op {
	case protocol.OpPublish:
		c.messagesReceived.Add(1)
		c.mu.RLock()
		feed := c.subs[msg.Topic]
		c.mu.RUnlock()
		if feed == nil {
			c.logger.Debug("message on unsubscribed topic", "topic", msg.Topic)
			return
		}
		feed.Publish(msg.Data)
	case protocol.OpStatus:
		var st protocol.StatusData
		if err := msg.ParseData(&st); err != nil {
			c.decodeErrors.Add(1)
			return
		}
		c.logger.Warn("bridge status", "level", st.Level, "msg", st.Message, "topic", msg.Topic)
	default:
		c.logger.Debug("ignoring bridge op", "op", msg.Op)
	}
}

// Topics returns the topics helper.
func (c *Client) Topics() *Topics {
	return c.topics
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.closed
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) topicsLocked() []string {
	topics := make([]string, 0, len(c.subs))
	for t := range c.subs {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Publish sends v as the payload of a publish message on topic.
func (c *Client) Publish(topic string, v any) error {
	msg, err := protocol.NewPublishMessage(topic, v)
	if err != nil {
		return err
	}
	if err := c.write(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	c.messagesSent.Add(1)
	return nil
}

// Subscribe registers handler for payloads on topic and returns a function
// that removes it. Registration survives reconnects; the bridge is asked to
// forward the topic whenever a connection is (re)established.
func (c *Client) Subscribe(topic string, handler func(json.RawMessage)) func() {
	c.mu.Lock()
	feed, exists := c.subs[topic]
	if !exists {
		feed = events.NewFeed[json.RawMessage]()
		c.subs[topic] = feed
	}
	connected := c.conn != nil
	c.mu.Unlock()

	unsub := feed.Subscribe(handler)

	if !exists && connected {
		if err := c.sendOp(protocol.OpSubscribe, topic); err != nil {
			c.logger.Warn("subscribe failed, will retry on reconnect", "topic", topic, "error", err)
		}
	}
	c.logger.Debug("subscribed to topic", "topic", topic)

	return func() {
		unsub()

		c.mu.Lock()
		last := feed.Len() == 0 && c.subs[topic] == feed
		if last {
			delete(c.subs, topic)
		}
		connected := c.conn != nil
		c.mu.Unlock()

		if last && connected {
			if err := c.sendOp(protocol.OpUnsubscribe, topic); err != nil {
				c.logger.Warn("unsubscribe failed", "topic", topic, "error", err)
			}
		}
	}
}

func (c *Client) sendOp(op protocol.Op, topic string) error {
	msg, err := protocol.NewMessage(op, topic, nil)
	if err != nil {
		return err
	}
	return c.write(msg)
}

func (c *Client) write(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Close closes the connection and waits for the read loop to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	var err error
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.cfg.WriteTimeout))
		if cerr := conn.Close(); cerr != nil {
			err = fmt.Errorf("failed to close connection: %w", cerr)
		}
	}
	c.wg.Wait()

	c.logger.Info("bridge client closed")
	return err
}

// Stats returns client statistics.
func (c *Client) Stats() ClientStats {
	c.mu.RLock()
	connected := c.conn != nil && !c.closed
	subs := len(c.subs)
	c.mu.RUnlock()

	return ClientStats{
		Connected:        connected,
		Subscriptions:    subs,
		MessagesSent:     c.messagesSent.Load(),
		MessagesReceived: c.messagesReceived.Load(),
		DecodeErrors:     c.decodeErrors.Load(),
		ReconnectCount:   c.reconnectCount.Load(),
	}
}

// ClientStats contains client statistics.
type ClientStats struct {
	Connected        bool  `json:"connected"`
	Subscriptions    int   `json:"subscriptions"`
	MessagesSent     int64 `json:"messages_sent"`
	MessagesReceived int64 `json:"messages_received"`
	DecodeErrors     int64 `json:"decode_errors"`
	ReconnectCount   int64 `json:"reconnect_count"`
}
