package events

import (
	"time"
)

// EventType is the wire name of an event.
type EventType string

// Inbound event names (server → client)
const (
	EventTypeSnapshot   EventType = "snapshot"
	EventTypeLotStarted EventType = "player_start"
	EventTypeTick       EventType = "tick"
	EventTypeBidPlaced  EventType = "bid_update"
	EventTypeLotSold    EventType = "player_sold"
	EventTypeCommentary EventType = "commentary"
	EventTypeConnected  EventType = "connect"
)

// Inbound is the closed set of events the server can deliver. The
// unexported marker keeps the set closed to this package so consumers can
// switch over it exhaustively.
type Inbound interface {
	Type() EventType
	isInbound()
}

// Connected is raised by the transport whenever the channel (re)opens.
type Connected struct {
	ConnectionID string
}

// BidPoint is one entry in the bid history series.
type BidPoint struct {
	Timestamp Timestamp `json:"ts"`
	Amount    Amount    `json:"amount"`
	TeamID    ID        `json:"team_id,omitempty"`
}

// Snapshot is the full auction state sent after every join.
type Snapshot struct {
	CurrentLotID     ID         `json:"current_ap_id"`
	HighestBidAmount Amount     `json:"highest_bid_amount"`
	HighestBidTeamID ID         `json:"highest_bid_team_id"`
	EndTime          Timestamp  `json:"end_time"`
	BidHistory       []BidPoint `json:"bid_history"`
}

// LotStarted announces a new lot on the block.
type LotStarted struct {
	LotID   ID        `json:"auction_player_id"`
	EndTime Timestamp `json:"end_time"`
}

// Tick carries the server's countdown for the active lot.
type Tick struct {
	Remaining Amount `json:"remaining"`
}

// BidPlaced reports a new highest bid. Remaining is set when the server
// extended the deadline.
type BidPlaced struct {
	Amount    Amount  `json:"amount"`
	TeamID    ID      `json:"team_id"`
	Remaining *Amount `json:"remaining,omitempty"`
}

// LotStatus is the outcome of a lot.
type LotStatus string

const (
	LotStatusSold   LotStatus = "sold"
	LotStatusUnsold LotStatus = "unsold"
)

// LotSold closes a lot.
type LotSold struct {
	LotID         ID        `json:"auction_player_id"`
	FinalPrice    Amount    `json:"final_price"`
	WinningTeamID ID        `json:"sold_to_team_id"`
	Status        LotStatus `json:"status"`
}

// Commentary is a free-text line for the commentary log.
type Commentary struct {
	Text string `json:"text"`
}

func (Connected) Type() EventType  { return EventTypeConnected }
func (Snapshot) Type() EventType   { return EventTypeSnapshot }
func (LotStarted) Type() EventType { return EventTypeLotStarted }
func (Tick) Type() EventType       { return EventTypeTick }
func (BidPlaced) Type() EventType  { return EventTypeBidPlaced }
func (LotSold) Type() EventType    { return EventTypeLotSold }
func (Commentary) Type() EventType { return EventTypeCommentary }

func (Connected) isInbound()  {}
func (Snapshot) isInbound()   {}
func (LotStarted) isInbound() {}
func (Tick) isInbound()       {}
func (BidPlaced) isInbound()  {}
func (LotSold) isInbound()    {}
func (Commentary) isInbound() {}

// Seconds returns the countdown value, never negative.
func (t Tick) Seconds() int64 {
	if t.Remaining < 0 {
		return 0
	}
	return int64(t.Remaining)
}

// Deadline returns the snapshot's end time or nil.
func (s Snapshot) Deadline() *time.Time { return s.EndTime.Ptr() }

// IsUnsold reports whether the lot closed without a sale.
func (s LotSold) IsUnsold() bool { return s.Status == LotStatusUnsold }
