package gateway

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/metrics"
	"github.com/mcdev12/auctionlive/go/internal/auction/session"
)

// ConnectionManager owns the channel to the auction server and re-announces
// room interest every time it opens. The server keeps no session across
// reconnects, so every open gets its own join.
type ConnectionManager struct {
	auctionID events.ID
	transport Transport
	metrics   metrics.MetricsCollector

	opens atomic.Int64
}

// NewConnectionManager creates a connection manager for the session's auction.
func NewConnectionManager(sess session.Session, transport Transport, mc metrics.MetricsCollector) *ConnectionManager {
	if mc == nil {
		mc = metrics.NoOpMetricsCollector{}
	}
	return &ConnectionManager{
		auctionID: sess.AuctionID,
		transport: transport,
		metrics:   mc,
	}
}

// Run drives the transport until ctx is cancelled, forwarding to h.
func (cm *ConnectionManager) Run(ctx context.Context, h Handler) error {
	log.Info().
		Str("auction_id", cm.auctionID.String()).
		Str("transport", cm.transport.Name()).
		Msg("connection manager started")

	err := cm.transport.Run(ctx, &joiningHandler{cm: cm, next: h})

	log.Info().Str("auction_id", cm.auctionID.String()).Msg("connection manager stopped")
	return err
}

// Send emits an outbound intent, fire-and-forget.
func (cm *ConnectionManager) Send(out events.Outbound) {
	sent := cm.transport.Send(out)
	cm.metrics.RecordOutboundEvent(string(out.Type()), sent)
	if !sent {
		log.Warn().
			Str("auction_id", cm.auctionID.String()).
			Str("event_type", string(out.Type())).
			Msg("no open connection, dropping outbound event")
	}
}

// Opens returns how many times the channel has been established.
func (cm *ConnectionManager) Opens() int64 { return cm.opens.Load() }

// joiningHandler sends the join before the rest of the app hears about the
// new connection.
type joiningHandler struct {
	cm   *ConnectionManager
	next Handler
}

func (j *joiningHandler) OnOpen(connectionID string) {
	n := j.cm.opens.Add(1)
	j.cm.metrics.RecordConnect(j.cm.transport.Name(), n > 1)

	j.cm.Send(events.JoinRoom{AuctionID: j.cm.auctionID})

	log.Info().
		Str("connection_id", connectionID).
		Str("auction_id", j.cm.auctionID.String()).
		Int64("opens", n).
		Msg("joined auction room")

	j.next.OnOpen(connectionID)
}

func (j *joiningHandler) OnEvent(event events.Inbound) { j.next.OnEvent(event) }

func (j *joiningHandler) OnState(change StateEvent) {
	ev := log.Info()
	if change.Error != nil {
		ev = log.Warn().Err(change.Error)
	}
	ev.Str("transport", j.cm.transport.Name()).
		Str("from", change.OldState.String()).
		Str("to", change.NewState.String()).
		Msg("connection state changed")
	j.next.OnState(change)
}
