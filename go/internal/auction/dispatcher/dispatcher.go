package dispatcher

import (
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/session"
)

// Emitter sends an outbound intent without waiting for a reply.
type Emitter interface {
	Send(out events.Outbound)
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notify(message string)
}

// PlayerSource exposes the player currently up for bid.
type PlayerSource interface {
	ActivePlayerID() events.ID
}

// NoticeLoginToBid is shown when a spectator tries to bid.
const NoticeLoginToBid = "Login as a team to bid"

// Dispatcher turns local intents into outbound events. It never touches
// the view state: the server echoes accepted bids back as events.
type Dispatcher struct {
	session  session.Session
	players  PlayerSource
	emitter  Emitter
	notifier Notifier
}

// New creates a Dispatcher.
func New(sess session.Session, players PlayerSource, emitter Emitter, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		session:  sess,
		players:  players,
		emitter:  emitter,
		notifier: notifier,
	}
}

// PlaceBid emits a bid for the active lot's player. Non-numeric input bids
// zero; the server rejects it.
func (d *Dispatcher) PlaceBid(raw string) error {
	if !d.session.HasIdentity() {
		d.notifier.Notify(NoticeLoginToBid)
		return ErrNoIdentity
	}

	playerID := d.players.ActivePlayerID()
	if playerID.IsZero() {
		log.Debug().Str("auction_id", d.session.AuctionID.String()).Msg("bid dropped: no active player")
		return ErrNoActivePlayer
	}

	bid := events.PlaceBid{
		AuctionID: d.session.AuctionID,
		TeamID:    d.session.TeamID,
		Amount:    ParseAmount(raw),
		PlayerID:  playerID,
	}
	d.emitter.Send(bid)

	log.Info().
		Str("auction_id", bid.AuctionID.String()).
		Str("team_id", bid.TeamID.String()).
		Str("player_id", bid.PlayerID.String()).
		Int64("amount", bid.Amount).
		Msg("bid sent")
	return nil
}

// SetAutoBid emits an auto-bid ceiling for the bound team.
func (d *Dispatcher) SetAutoBid(raw string) error {
	if !d.session.HasIdentity() {
		d.notifier.Notify(NoticeLoginToBid)
		return ErrNoIdentity
	}

	auto := events.SetAutoBid{
		AuctionID: d.session.AuctionID,
		TeamID:    d.session.TeamID,
		Ceiling:   ParseAmount(raw),
	}
	d.emitter.Send(auto)

	log.Info().
		Str("auction_id", auto.AuctionID.String()).
		Str("team_id", auto.TeamID.String()).
		Int64("ceiling", auto.Ceiling).
		Msg("auto-bid ceiling sent")
	return nil
}

// ParseAmount reads the leading integer of raw; anything unparseable or
// negative is zero.
func ParseAmount(raw string) int64 {
	return max(0, events.ParseLeadingInt(raw))
}
