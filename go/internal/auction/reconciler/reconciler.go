package reconciler

import (
	"fmt"
	"slices"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/session"
)

// Reconciler owns the authoritative client-side view of the auction. It is
// mutated only through Apply and is not safe for concurrent use: exactly one
// goroutine (the viewer loop) drives it.
type Reconciler struct {
	session session.Session
	catalog session.Catalog
	roster  session.Roster
	opts    Options

	state   ViewState
	history []HistoryPoint

	// countdown is the last server-sent remaining time for the active lot.
	countdown    int64
	hasCountdown bool

	// spent is indexed like the roster.
	spent      []int64
	commentary []string

	// soldLotID is the lot whose sale was seen last; bids for it and
	// repeated sales of it are ignored until the lot starts again.
	soldLotID events.ID

	// bidStale is set when a lot starts while the previous lot's bid is
	// still in the state, and cleared by the next bid or snapshot.
	bidStale bool
}

// New creates a Reconciler with an empty view state.
func New(sess session.Session, opts Options) *Reconciler {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.BidIncrement <= 0 {
		opts.BidIncrement = DefaultBidIncrement
	}

	r := &Reconciler{
		session: sess,
		catalog: sess.Catalog(),
		roster:  sess.Roster(),
		opts:    opts,
	}
	for _, t := range r.roster.Teams() {
		r.spent = append(r.spent, t.Spent())
	}
	return r
}

// Apply folds one inbound event into the view state. It never fails: bad
// or late input degrades to a no-op.
func (r *Reconciler) Apply(event events.Inbound) Change {
	switch ev := event.(type) {
	case events.Snapshot:
		return r.applySnapshot(ev)
	case events.LotStarted:
		return r.applyLotStarted(ev)
	case events.Tick:
		return r.applyTick(ev)
	case events.BidPlaced:
		return r.applyBidPlaced(ev)
	case events.LotSold:
		return r.applyLotSold(ev)
	case events.Commentary:
		return r.applyCommentary(ev)
	case events.Connected:
		return Change{Event: ev.Type()}
	default:
		log.Warn().Msgf("reconciler: unhandled event %T", event)
		return Change{Ignored: true}
	}
}

func (r *Reconciler) applySnapshot(s events.Snapshot) Change {
	r.setActiveLot(s.CurrentLotID)
	r.state.HighestBidAmount = max(0, int64(s.HighestBidAmount))
	r.state.HighestBidTeamID = s.HighestBidTeamID
	r.state.Deadline = s.Deadline()

	r.history = make([]HistoryPoint, 0, len(s.BidHistory))
	for _, b := range s.BidHistory {
		r.history = append(r.history, HistoryPoint{At: b.Timestamp.Time, Amount: int64(b.Amount), TeamID: b.TeamID})
	}

	r.hasCountdown = false
	r.bidStale = false
	if r.soldLotID != s.CurrentLotID {
		r.soldLotID = ""
	}

	log.Debug().
		Str("lot_id", s.CurrentLotID.String()).
		Int64("highest_bid", r.state.HighestBidAmount).
		Int("history_len", len(r.history)).
		Msg("snapshot applied")

	return Change{Event: s.Type(), HistoryChanged: true}
}

func (r *Reconciler) applyLotStarted(ev events.LotStarted) Change {
	r.setActiveLot(ev.LotID)
	if d := ev.EndTime.Ptr(); d != nil {
		r.state.Deadline = d
	}
	if r.opts.LotStartPolicy == LotStartClearBid {
		r.state.HighestBidAmount = 0
		r.state.HighestBidTeamID = ""
	}
	r.bidStale = r.state.HighestBidAmount > 0 || !r.state.HighestBidTeamID.IsZero()
	r.hasCountdown = false
	r.soldLotID = ""
	r.pushCommentary("New player on the block!")

	log.Debug().
		Str("lot_id", ev.LotID.String()).
		Str("player_id", r.state.ActivePlayerID.String()).
		Str("policy", r.opts.LotStartPolicy.String()).
		Msg("lot started")

	return Change{Event: ev.Type()}
}

func (r *Reconciler) applyTick(ev events.Tick) Change {
	r.countdown = ev.Seconds()
	r.hasCountdown = true

	change := Change{Event: ev.Type()}
	if r.countdown <= countdownBeepThreshold {
		change.Cues = append(change.Cues, CueBeep)
	}
	return change
}

func (r *Reconciler) applyBidPlaced(ev events.BidPlaced) Change {
	if !r.soldLotID.IsZero() && r.soldLotID == r.state.ActiveLotID {
		log.Debug().
			Str("lot_id", r.state.ActiveLotID.String()).
			Int64("amount", int64(ev.Amount)).
			Msg("ignoring bid for sold lot")
		return Change{Event: ev.Type(), Ignored: true}
	}

	r.state.HighestBidAmount = max(0, int64(ev.Amount))
	r.state.HighestBidTeamID = ev.TeamID
	r.bidStale = false
	r.history = append(r.history, HistoryPoint{
		At:     r.opts.Clock.Now(),
		Amount: r.state.HighestBidAmount,
		TeamID: ev.TeamID,
	})
	if ev.Remaining != nil {
		r.countdown = max(0, int64(*ev.Remaining))
		r.hasCountdown = true
	}

	return Change{Event: ev.Type(), Cues: []Cue{CueGavel}, HistoryChanged: true}
}

func (r *Reconciler) applyLotSold(ev events.LotSold) Change {
	if !ev.LotID.IsZero() && ev.LotID == r.soldLotID {
		log.Debug().Str("lot_id", ev.LotID.String()).Msg("ignoring duplicate sale")
		return Change{Event: ev.Type(), Ignored: true}
	}
	r.soldLotID = r.state.ActiveLotID
	if !ev.LotID.IsZero() {
		r.soldLotID = ev.LotID
	}

	if ev.IsUnsold() {
		r.pushCommentary("UNSOLD: no bids received")
		return Change{Event: ev.Type(), Cues: []Cue{CueGavel}}
	}

	team := "-"
	if !ev.WinningTeamID.IsZero() {
		team = ev.WinningTeamID.String()
	}
	price := max(0, int64(ev.FinalPrice))
	r.pushCommentary(fmt.Sprintf("SOLD for %s to Team %s!", FormatINR(price), team))

	change := Change{Event: ev.Type(), Cues: []Cue{CueGavel, CueConfetti}}
	if idx := r.roster.Index(ev.WinningTeamID); idx >= 0 {
		r.spent[idx] += price
		change.LeaderboardChanged = true
	}
	return change
}

func (r *Reconciler) applyCommentary(ev events.Commentary) Change {
	r.pushCommentary(ev.Text)
	return Change{Event: ev.Type()}
}

// setActiveLot keeps ActivePlayerID derivable from ActiveLotID.
func (r *Reconciler) setActiveLot(id events.ID) {
	r.state.ActiveLotID = id
	r.state.ActivePlayerID = ""
	if id.IsZero() {
		return
	}
	if lot, ok := r.catalog.Resolve(id); ok {
		r.state.ActivePlayerID = lot.PlayerID
	}
}

func (r *Reconciler) pushCommentary(text string) {
	r.commentary = slices.Insert(r.commentary, 0, text)
	if limit := r.opts.CommentaryLimit; limit > 0 && len(r.commentary) > limit {
		r.commentary = r.commentary[:limit]
	}
}

// State returns a copy of the view state.
func (r *Reconciler) State() ViewState {
	s := r.state
	if s.Deadline != nil {
		d := *s.Deadline
		s.Deadline = &d
	}
	return s
}

// ActivePlayerID returns the player behind the active lot, empty when no
// lot is active.
func (r *Reconciler) ActivePlayerID() events.ID { return r.state.ActivePlayerID }

// History returns a copy of the bid history series.
func (r *Reconciler) History() []HistoryPoint { return slices.Clone(r.history) }

// Commentary returns the commentary log, most recent first.
func (r *Reconciler) Commentary() []string { return slices.Clone(r.commentary) }

// Spent returns the running spend of a team and whether the team is known.
func (r *Reconciler) Spent(teamID events.ID) (int64, bool) {
	idx := r.roster.Index(teamID)
	if idx < 0 {
		return 0, false
	}
	return r.spent[idx], true
}

// Countdown returns the seconds left on the active lot. A server tick wins
// over the locally derived value; without one it is computed from the
// deadline. ok is false when neither is known.
func (r *Reconciler) Countdown() (int64, bool) {
	if r.hasCountdown {
		return r.countdown, true
	}
	if r.state.Deadline == nil {
		return 0, false
	}
	remaining := int64(r.state.Deadline.Sub(r.opts.Clock.Now()).Seconds())
	return max(0, remaining), true
}

// SuggestedBid is the next bid the UI should pre-fill: highest bid plus
// the increment, or the lot's base price while the bid is stale.
func (r *Reconciler) SuggestedBid() int64 {
	if r.bidStale {
		if lot, ok := r.activeLot(); ok && lot.Player.BasePrice > 0 {
			return lot.Player.BasePrice
		}
		return r.opts.BidIncrement
	}
	return r.state.HighestBidAmount + r.opts.BidIncrement
}

// BidStale reports whether the highest bid in the state belongs to the
// previous lot.
func (r *Reconciler) BidStale() bool { return r.bidStale }

// LotOpen reports whether a lot is up and not yet closed.
func (r *Reconciler) LotOpen() bool {
	return !r.state.ActiveLotID.IsZero() && r.soldLotID != r.state.ActiveLotID
}

func (r *Reconciler) activeLot() (session.Lot, bool) {
	if r.state.ActiveLotID.IsZero() {
		return session.Lot{}, false
	}
	return r.catalog.Resolve(r.state.ActiveLotID)
}

// Session returns the session the reconciler was built with.
func (r *Reconciler) Session() session.Session { return r.session }
