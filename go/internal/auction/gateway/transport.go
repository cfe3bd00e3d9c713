package gateway

import (
	"context"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
)

// Transport is a duplex event channel to the auction server. Run owns the
// connection lifecycle, including reconnects, until ctx is cancelled.
type Transport interface {
	Run(ctx context.Context, h Handler) error
	// Send hands an intent to the open connection without blocking. When no
	// connection is open, or its buffer is full, the intent is dropped and
	// false is returned.
	Send(out events.Outbound) bool
	Name() string
}

// Handler receives everything a transport observes. Calls for one
// connection arrive in order.
type Handler interface {
	// OnOpen is called each time the channel is (re)established, before any
	// event read on it is delivered.
	OnOpen(connectionID string)
	OnEvent(event events.Inbound)
	OnState(change StateEvent)
}

// ConnectionState represents the current state of the channel.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateEvent represents a state change event.
type StateEvent struct {
	OldState ConnectionState
	NewState ConnectionState
	Error    error // Optional error that caused the state change
}
