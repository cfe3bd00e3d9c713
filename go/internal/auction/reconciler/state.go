package reconciler

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
)

// ViewState is the client's view of what is happening now. Only the
// Reconciler writes it.
type ViewState struct {
	ActiveLotID      events.ID  `json:"active_lot_id"`
	ActivePlayerID   events.ID  `json:"active_player_id"`
	HighestBidAmount int64      `json:"highest_bid_amount"`
	HighestBidTeamID events.ID  `json:"highest_bid_team_id"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

// HistoryPoint is one point of the bid history series.
type HistoryPoint struct {
	At     time.Time `json:"at"`
	Amount int64     `json:"amount"`
	TeamID events.ID `json:"team_id,omitempty"`
}

// LotStartPolicy decides what happens to the bid fields when a new lot
// starts before the next bid or snapshot arrives.
type LotStartPolicy int

const (
	// LotStartKeepBid leaves the previous lot's bid fields in place until
	// the next bid or snapshot replaces them.
	LotStartKeepBid LotStartPolicy = iota
	// LotStartClearBid zeroes the bid fields as soon as a lot starts.
	LotStartClearBid
)

// ParseLotStartPolicy maps a config value to a policy. Unknown values keep
// the bid.
func ParseLotStartPolicy(s string) LotStartPolicy {
	if s == "clear" {
		return LotStartClearBid
	}
	return LotStartKeepBid
}

func (p LotStartPolicy) String() string {
	if p == LotStartClearBid {
		return "clear"
	}
	return "keep"
}

// DefaultBidIncrement matches the server's default minimum increment.
const DefaultBidIncrement int64 = 100000

// countdownBeepThreshold is the remaining time at which each tick beeps.
const countdownBeepThreshold = 10

// Options tunes a Reconciler.
type Options struct {
	LotStartPolicy LotStartPolicy
	// CommentaryLimit caps the commentary log; 0 keeps everything.
	CommentaryLimit int
	// BidIncrement is added to the highest bid for the suggested next bid.
	BidIncrement int64
	Clock        clockwork.Clock
}

// DefaultOptions returns the options used by the viewer binary.
func DefaultOptions() Options {
	return Options{
		LotStartPolicy:  LotStartKeepBid,
		CommentaryLimit: 50,
		BidIncrement:    DefaultBidIncrement,
		Clock:           clockwork.NewRealClock(),
	}
}

// Cue is a one-shot display effect raised by an event.
type Cue string

const (
	CueGavel    Cue = "gavel"
	CueBeep     Cue = "beep"
	CueConfetti Cue = "confetti"
)

// Change describes what one Apply call did, for the display layer.
type Change struct {
	Event events.EventType
	Cues  []Cue
	// Ignored is set for late or duplicate events that left state untouched.
	Ignored            bool
	HistoryChanged     bool
	LeaderboardChanged bool
}
