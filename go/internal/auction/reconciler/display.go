package reconciler

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/mcdev12/auctionlive/go/internal/auction/session"
)

const placeholder = "-"

// Display is everything a renderer needs, computed from the reconciler's
// state after an event has been fully applied. Nothing here is stored back.
type Display struct {
	AuctionID string `json:"auction_id"`

	LotID          string `json:"lot_id"`
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	PlayerRole     string `json:"player_role"`
	LotLabel       string `json:"lot_label"`
	BasePriceLabel string `json:"base_price_label"`
	MediaURL       string `json:"media_url,omitempty"`

	HighestBid      int64  `json:"highest_bid"`
	HighestBidLabel string `json:"highest_bid_label"`
	LeadingTeamID   string `json:"leading_team_id"`
	LeadingTeamName string `json:"leading_team_name"`
	SuggestedBid    int64  `json:"suggested_bid"`

	CountdownSec   *int64 `json:"countdown_sec,omitempty"`
	CountdownLabel string `json:"countdown_label"`

	BidHistory  []HistoryEntry     `json:"bid_history"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Commentary  []string           `json:"commentary"`

	// BidStale is set between a lot start and its first bid while the
	// previous lot's bid is still held; bid fields are blanked meanwhile.
	BidStale bool `json:"bid_stale"`

	// CanBid is true when the session has a team and a player is up.
	CanBid bool `json:"can_bid"`
}

// HistoryEntry is one labelled point of the bid history chart.
type HistoryEntry struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// LeaderboardEntry is one bar of the team spend chart.
type LeaderboardEntry struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Spent  int64  `json:"spent"`
}

// Project computes the display for the current state.
func (r *Reconciler) Project() Display {
	d := Display{
		AuctionID:       r.session.AuctionID.String(),
		LotID:           r.state.ActiveLotID.String(),
		PlayerID:        r.state.ActivePlayerID.String(),
		LotLabel:        placeholder,
		BasePriceLabel:  placeholder,
		HighestBid:      r.state.HighestBidAmount,
		HighestBidLabel: FormatINR(r.state.HighestBidAmount),
		LeadingTeamID:   r.state.HighestBidTeamID.String(),
		LeadingTeamName: placeholder,
		SuggestedBid:    r.SuggestedBid(),
		CountdownLabel:  placeholder,
		Commentary:      r.Commentary(),
		CanBid:          r.session.HasIdentity() && !r.state.ActivePlayerID.IsZero(),
	}

	if lot, ok := r.activeLot(); ok {
		d.PlayerName = lot.Player.Name
		d.PlayerRole = lot.Player.Role
		d.LotLabel = fmt.Sprintf("%s — %s", lot.Player.Name, lot.Player.Role)
		d.BasePriceLabel = "Base: " + FormatINR(lot.Player.BasePrice)
		d.MediaURL = lot.Player.HighlightURL
	}

	switch team, ok := r.roster.Lookup(r.state.HighestBidTeamID); {
	case r.bidStale:
		d.BidStale = true
		d.HighestBid = 0
		d.HighestBidLabel = placeholder
		d.LeadingTeamID = ""
	case ok:
		d.LeadingTeamName = team.Name
	case !r.state.HighestBidTeamID.IsZero():
		d.LeadingTeamName = "Team " + r.state.HighestBidTeamID.String()
	}

	if secs, ok := r.Countdown(); ok {
		d.CountdownSec = &secs
		d.CountdownLabel = strconv.FormatInt(secs, 10) + "s"
	}

	d.BidHistory = lo.Map(r.history, func(p HistoryPoint, _ int) HistoryEntry {
		label := placeholder
		if !p.At.IsZero() {
			label = p.At.Local().Format("15:04:05")
		}
		return HistoryEntry{Label: label, Amount: p.Amount}
	})

	d.Leaderboard = lo.Map(r.roster.Teams(), func(t session.Team, i int) LeaderboardEntry {
		return LeaderboardEntry{TeamID: t.ID.String(), Name: t.Name, Spent: r.spent[i]}
	})

	return d
}

// FormatINR renders an amount with Indian digit grouping: ₹12,34,567.
func FormatINR(n int64) string {
	sign := ""
	u := uint64(n)
	if n < 0 {
		sign = "-"
		u = uint64(-(n + 1)) + 1
	}
	digits := strconv.FormatUint(u, 10)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	out := sign + "₹"
	for _, g := range groups {
		out += g + ","
	}
	return out + tail
}
