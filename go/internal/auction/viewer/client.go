package viewer

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/dispatcher"
	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/gateway"
	"github.com/mcdev12/auctionlive/go/internal/auction/metrics"
	"github.com/mcdev12/auctionlive/go/internal/auction/reconciler"
	"github.com/mcdev12/auctionlive/go/internal/auction/session"
)

// Msg is anything processed by the client loop.
type Msg interface{ isMsg() }

type inboundMsg struct {
	event events.Inbound
}

type stateMsg struct {
	change gateway.StateEvent
}

type intentKind int

const (
	intentBid intentKind = iota
	intentSuggestedBid
	intentAutoBid
)

type intentMsg struct {
	kind  intentKind
	raw   string
	reply chan error
}

func (inboundMsg) isMsg() {}
func (stateMsg) isMsg()   {}
func (intentMsg) isMsg()  {}

// Renderer receives a fresh projection after every applied event.
type Renderer interface {
	Render(display reconciler.Display, change reconciler.Change)
}

// Sender is the outbound side of the connection manager.
type Sender interface {
	Send(out events.Outbound)
}

// Client runs the single logical event loop: inbound events and user
// intents are processed in arrival order on one goroutine, which is the
// only one that touches the reconciler.
type Client struct {
	session    session.Session
	reconciler *reconciler.Reconciler
	dispatcher *dispatcher.Dispatcher
	renderer   Renderer
	metrics    metrics.MetricsCollector
	health     *HealthMonitor

	inbox chan Msg
	done  chan struct{}
}

// NewClient wires a reconciler and dispatcher around sender.
func NewClient(sess session.Session, opts reconciler.Options, sender Sender, notifier dispatcher.Notifier, renderer Renderer, mc metrics.MetricsCollector) *Client {
	if mc == nil {
		mc = metrics.NoOpMetricsCollector{}
	}
	rec := reconciler.New(sess, opts)
	return &Client{
		session:    sess,
		reconciler: rec,
		dispatcher: dispatcher.New(sess, rec, sender, notifier),
		renderer:   renderer,
		metrics:    mc,
		inbox:      make(chan Msg, 256),
		done:       make(chan struct{}),
	}
}

// UseHealthMonitor makes the loop report connection state and event flow
// to m. Call it before Run.
func (c *Client) UseHealthMonitor(m *HealthMonitor) { c.health = m }

// Run processes the inbox until ctx is cancelled.
func (c *Client) Run(ctx context.Context) {
	defer close(c.done)

	c.render(reconciler.Change{})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("auction_id", c.session.AuctionID.String()).Msg("viewer loop shutting down")
			return
		case m := <-c.inbox:
			c.handle(m)
		}
	}
}

func (c *Client) handle(m Msg) {
	switch msg := m.(type) {
	case inboundMsg:
		if c.health != nil {
			c.health.RecordEvent()
		}
		change := c.reconciler.Apply(msg.event)
		if c.health != nil {
			c.health.RecordLotOpen(c.reconciler.LotOpen())
		}
		c.metrics.RecordInboundEvent(string(msg.event.Type()), change.Ignored)
		if !change.Ignored {
			c.render(change)
		}

	case stateMsg:
		if c.health != nil {
			c.health.RecordState(msg.change)
		}
		log.Debug().Str("state", msg.change.NewState.String()).Msg("viewer saw connection state")

	case intentMsg:
		msg.reply <- c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg intentMsg) error {
	switch msg.kind {
	case intentBid:
		return c.dispatcher.PlaceBid(msg.raw)
	case intentSuggestedBid:
		return c.dispatcher.PlaceBid(strconv.FormatInt(c.reconciler.SuggestedBid(), 10))
	case intentAutoBid:
		return c.dispatcher.SetAutoBid(msg.raw)
	default:
		return nil
	}
}

func (c *Client) render(change reconciler.Change) {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(c.reconciler.Project(), change)
}

// enqueue blocks until the loop accepts m or has stopped.
func (c *Client) enqueue(m Msg) bool {
	select {
	case c.inbox <- m:
		return true
	case <-c.done:
		return false
	}
}

// OnOpen implements gateway.Handler.
func (c *Client) OnOpen(connectionID string) {
	c.enqueue(inboundMsg{event: events.Connected{ConnectionID: connectionID}})
}

// OnEvent implements gateway.Handler.
func (c *Client) OnEvent(event events.Inbound) {
	c.enqueue(inboundMsg{event: event})
}

// OnState implements gateway.Handler.
func (c *Client) OnState(change gateway.StateEvent) {
	c.enqueue(stateMsg{change: change})
}

// PlaceBid routes a bid intent through the loop.
func (c *Client) PlaceBid(raw string) error {
	return c.intent(intentMsg{kind: intentBid, raw: raw})
}

// PlaceSuggestedBid bids the derived next amount (highest + increment).
func (c *Client) PlaceSuggestedBid() error {
	return c.intent(intentMsg{kind: intentSuggestedBid})
}

// SetAutoBid routes an auto-bid ceiling through the loop.
func (c *Client) SetAutoBid(raw string) error {
	return c.intent(intentMsg{kind: intentAutoBid, raw: raw})
}

func (c *Client) intent(m intentMsg) error {
	m.reply = make(chan error, 1)
	if !c.enqueue(m) {
		return ErrClientStopped
	}
	select {
	case err := <-m.reply:
		return err
	case <-c.done:
		return ErrClientStopped
	}
}
