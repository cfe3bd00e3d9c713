package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/metrics"
)

// WSConfig holds configuration for the WebSocket transport
type WSConfig struct {
	URL            string
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	// ReconnectWait is the fixed pause between a drop and the next dial.
	ReconnectWait    time.Duration
	HandshakeTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration
func DefaultWSConfig(url string) WSConfig {
	return WSConfig{
		URL:              url,
		WriteTimeout:     10 * time.Second,
		ReadTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		MaxMessageSize:   64 * 1024, // snapshots carry up to 30 history points
		SendBuffer:       64,
		ReconnectWait:    2 * time.Second,
		HandshakeTimeout: 10 * time.Second,
	}
}

// WSTransport is a WebSocket client that redials after every drop.
type WSTransport struct {
	config  WSConfig
	dialer  *websocket.Dialer
	metrics metrics.MetricsCollector

	mu      sync.Mutex
	current *wsConnection
	state   ConnectionState
}

// wsConnection is one dialled socket. send is never closed; done signals
// the pumps to stop.
type wsConnection struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewWSTransport creates a WebSocket transport.
func NewWSTransport(config WSConfig, mc metrics.MetricsCollector) *WSTransport {
	if mc == nil {
		mc = metrics.NoOpMetricsCollector{}
	}
	return &WSTransport{
		config: config,
		dialer: &websocket.Dialer{
			HandshakeTimeout: config.HandshakeTimeout,
		},
		metrics: mc,
	}
}

func (t *WSTransport) Name() string { return "websocket" }

// Run dials, serves the connection until it drops, and dials again after
// ReconnectWait, until ctx is cancelled.
func (t *WSTransport) Run(ctx context.Context, h Handler) error {
	defer t.setState(h, StateClosed, nil)

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		if attempt == 0 {
			t.setState(h, StateConnecting, nil)
		}

		conn, _, err := t.dialer.DialContext(ctx, t.config.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Str("url", t.config.URL).Msg("failed to dial auction server")
			t.setState(h, StateReconnecting, fmt.Errorf("dial: %w", err))
			if !t.wait(ctx) {
				return nil
			}
			continue
		}

		c := &wsConnection{
			id:   uuid.New().String(),
			conn: conn,
			send: make(chan []byte, t.config.SendBuffer),
			done: make(chan struct{}),
		}
		t.serve(ctx, h, c)

		if ctx.Err() != nil {
			return nil
		}
		t.setState(h, StateReconnecting, nil)
		if !t.wait(ctx) {
			return nil
		}
	}
}

// serve runs one connection to completion.
func (t *WSTransport) serve(ctx context.Context, h Handler, c *wsConnection) {
	t.mu.Lock()
	t.current = c
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		if t.current == c {
			t.current = nil
		}
		t.mu.Unlock()
		c.close()
	}()

	log.Info().
		Str("connection_id", c.id).
		Str("url", t.config.URL).
		Msg("WebSocket connection established")

	t.setState(h, StateConnected, nil)
	h.OnOpen(c.id)

	go func() {
		select {
		case <-ctx.Done():
			c.close()
		case <-c.done:
		}
	}()
	go t.writePump(c)
	t.readPump(h, c)
}

// Send queues an intent on the open connection.
func (t *WSTransport) Send(out events.Outbound) bool {
	frame, err := events.Encode(out)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(out.Type())).Msg("failed to encode outbound event")
		return false
	}

	t.mu.Lock()
	c := t.current
	t.mu.Unlock()
	if c == nil {
		return false
	}

	select {
	case <-c.done:
		return false
	case c.send <- frame:
		return true
	default:
		log.Warn().Str("connection_id", c.id).Msg("send buffer full, dropping outbound event")
		return false
	}
}

// State returns the last reported connection state.
func (t *WSTransport) State() ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *WSTransport) setState(h Handler, next ConnectionState, err error) {
	t.mu.Lock()
	prev := t.state
	t.state = next
	t.mu.Unlock()
	if prev == next && err == nil {
		return
	}
	h.OnState(StateEvent{OldState: prev, NewState: next, Error: err})
}

func (t *WSTransport) wait(ctx context.Context) bool {
	timer := time.NewTimer(t.config.ReconnectWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// writePump handles sending messages to the WebSocket connection
func (t *WSTransport) writePump(c *wsConnection) {
	ticker := time.NewTicker(t.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.id).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.id).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (t *WSTransport) readPump(h Handler, c *wsConnection) {
	c.conn.SetReadLimit(t.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error().
					Err(err).
					Str("connection_id", c.id).
					Msg("unexpected WebSocket close error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))

		event, err := events.Decode(message)
		if err != nil {
			t.metrics.RecordDecodeFailure(t.Name())
			log.Warn().
				Err(err).
				Str("connection_id", c.id).
				Msg("dropping undecodable frame")
			continue
		}
		h.OnEvent(event)
	}
}

func (c *wsConnection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		c.conn.Close()
	})
}
