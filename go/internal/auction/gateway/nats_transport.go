package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/metrics"
)

// NATSConfig holds configuration for the NATS transport
type NATSConfig struct {
	URL           string
	AuctionID     events.ID
	SubjectPrefix string // e.g. "auction"
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns default NATS transport configuration
func DefaultNATSConfig(url string, auctionID events.ID) NATSConfig {
	return NATSConfig{
		URL:           url,
		AuctionID:     auctionID,
		SubjectPrefix: "auction",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// EventsSubject is where the server publishes room events.
func (c NATSConfig) EventsSubject() string {
	return fmt.Sprintf("%s.%s.events", c.SubjectPrefix, c.AuctionID)
}

// IntentsSubject is where clients publish their intents.
func (c NATSConfig) IntentsSubject() string {
	return fmt.Sprintf("%s.%s.intents", c.SubjectPrefix, c.AuctionID)
}

// NATSTransport rides on a NATS connection; reconnection is the NATS
// client's own.
type NATSTransport struct {
	config  NATSConfig
	metrics metrics.MetricsCollector

	mu sync.Mutex
	nc *nats.Conn
}

// NewNATSTransport creates a NATS transport.
func NewNATSTransport(config NATSConfig, mc metrics.MetricsCollector) *NATSTransport {
	if mc == nil {
		mc = metrics.NoOpMetricsCollector{}
	}
	return &NATSTransport{config: config, metrics: mc}
}

func (t *NATSTransport) Name() string { return "nats" }

// Run connects, subscribes to the room's event subject and blocks until ctx
// is cancelled. An unreachable server at startup is retried like a dropped
// connection instead of ending the run.
func (t *NATSTransport) Run(ctx context.Context, h Handler) error {
	h.OnState(StateEvent{OldState: StateDisconnected, NewState: StateConnecting})
	bridge := &natsEvents{h: h}

	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(t.config.MaxReconnects),
		nats.ReconnectWait(t.config.ReconnectWait),
		nats.ConnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS connected")
			bridge.connected(connectionID(nc))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
			bridge.disconnected(err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
			bridge.reconnected(connectionID(nc))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(t.config.URL, opts...)
	if err != nil {
		h.OnState(StateEvent{OldState: StateConnecting, NewState: StateClosed, Error: err})
		return fmt.Errorf("connect to NATS: %w", err)
	}

	// Subscriptions made while the first connect is pending are sent once
	// it succeeds.
	sub, err := nc.Subscribe(t.config.EventsSubject(), func(msg *nats.Msg) {
		event, err := events.Decode(msg.Data)
		if err != nil {
			t.metrics.RecordDecodeFailure(t.Name())
			log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping undecodable message")
			return
		}
		h.OnEvent(event)
	})
	if err != nil {
		nc.Close()
		h.OnState(StateEvent{OldState: StateConnecting, NewState: StateClosed, Error: err})
		return fmt.Errorf("subscribe %s: %w", t.config.EventsSubject(), err)
	}

	t.mu.Lock()
	t.nc = nc
	t.mu.Unlock()

	log.Info().
		Str("url", t.config.URL).
		Str("subject", t.config.EventsSubject()).
		Bool("connected", nc.IsConnected()).
		Msg("NATS transport subscribed")

	if nc.IsConnected() {
		bridge.connected(connectionID(nc))
	}

	<-ctx.Done()

	t.mu.Lock()
	t.nc = nil
	t.mu.Unlock()

	if err := sub.Unsubscribe(); err != nil {
		log.Warn().Err(err).Msg("failed to unsubscribe")
	}
	nc.Close()
	h.OnState(StateEvent{OldState: bridge.state(), NewState: StateClosed})
	return nil
}

// Send publishes an intent on the room's intents subject.
func (t *NATSTransport) Send(out events.Outbound) bool {
	frame, err := events.Encode(out)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(out.Type())).Msg("failed to encode outbound event")
		return false
	}

	t.mu.Lock()
	nc := t.nc
	t.mu.Unlock()
	if nc == nil || !nc.IsConnected() {
		return false
	}

	if err := nc.Publish(t.config.IntentsSubject(), frame); err != nil {
		log.Error().Err(err).Str("subject", t.config.IntentsSubject()).Msg("failed to publish intent")
		return false
	}
	return true
}

func connectionID(nc *nats.Conn) string {
	if id, err := nc.GetClientID(); err == nil {
		return fmt.Sprintf("%s/%d", nc.ConnectedServerId(), id)
	}
	return nc.ConnectedServerId()
}

// natsEvents turns NATS connection callbacks into Handler calls. The first
// open is reported once whether it arrives from the connect callback or
// from Run itself.
type natsEvents struct {
	h    Handler
	once sync.Once

	mu  sync.Mutex
	cur ConnectionState
}

func (e *natsEvents) connected(connID string) {
	e.once.Do(func() {
		e.setState(StateConnecting, StateConnected, nil)
		e.h.OnOpen(connID)
	})
}

func (e *natsEvents) disconnected(err error) {
	e.setState(StateConnected, StateReconnecting, err)
}

func (e *natsEvents) reconnected(connID string) {
	e.once.Do(func() {})
	e.setState(StateReconnecting, StateConnected, nil)
	e.h.OnOpen(connID)
}

func (e *natsEvents) setState(from, to ConnectionState, err error) {
	e.mu.Lock()
	e.cur = to
	e.mu.Unlock()
	e.h.OnState(StateEvent{OldState: from, NewState: to, Error: err})
}

func (e *natsEvents) state() ConnectionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == StateDisconnected {
		return StateConnecting
	}
	return e.cur
}
