package events

// Outbound event names (client → server)
const (
	EventTypeJoinRoom   EventType = "join_auction"
	EventTypePlaceBid   EventType = "place_bid"
	EventTypeSetAutoBid EventType = "set_auto_bid"
)

// Outbound is the closed set of intents the client can emit.
type Outbound interface {
	Type() EventType
	isOutbound()
}

// JoinRoom announces interest in one auction room.
type JoinRoom struct {
	AuctionID ID `json:"auction_id"`
}

// PlaceBid asks the server to accept a bid for the active lot's player.
type PlaceBid struct {
	AuctionID ID    `json:"auction_id"`
	TeamID    ID    `json:"team_id"`
	Amount    int64 `json:"amount"`
	PlayerID  ID    `json:"player_id"`
}

// SetAutoBid pre-authorises the server to bid for the team up to Ceiling.
type SetAutoBid struct {
	AuctionID ID    `json:"auction_id"`
	TeamID    ID    `json:"team_id"`
	Ceiling   int64 `json:"max_limit"`
}

func (JoinRoom) Type() EventType   { return EventTypeJoinRoom }
func (PlaceBid) Type() EventType   { return EventTypePlaceBid }
func (SetAutoBid) Type() EventType { return EventTypeSetAutoBid }

func (JoinRoom) isOutbound()   {}
func (PlaceBid) isOutbound()   {}
func (SetAutoBid) isOutbound() {}
