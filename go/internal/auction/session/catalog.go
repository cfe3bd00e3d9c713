package session

import (
	"github.com/samber/lo"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
)

// Catalog is the fixed lot list supplied at startup.
type Catalog struct {
	lots []Lot
}

// Lookup returns the lot with id.
func (c Catalog) Lookup(id events.ID) (Lot, bool) {
	return lo.Find(c.lots, func(l Lot) bool { return l.ID == id })
}

// Resolve returns the lot with id, falling back to the first catalog entry
// when id is unknown. ok is false only for an empty catalog.
func (c Catalog) Resolve(id events.ID) (Lot, bool) {
	if lot, ok := c.Lookup(id); ok {
		return lot, true
	}
	if len(c.lots) == 0 {
		return Lot{}, false
	}
	return c.lots[0], true
}

// Len returns the number of lots.
func (c Catalog) Len() int { return len(c.lots) }

// Roster is the fixed team list supplied at startup.
type Roster struct {
	teams []Team
}

// Lookup returns the team with id.
func (r Roster) Lookup(id events.ID) (Team, bool) {
	if id.IsZero() {
		return Team{}, false
	}
	return lo.Find(r.teams, func(t Team) bool { return t.ID == id })
}

// Index returns the position of the team in roster order, or -1.
func (r Roster) Index(id events.ID) int {
	_, idx, ok := lo.FindIndexOf(r.teams, func(t Team) bool { return t.ID == id })
	if !ok || id.IsZero() {
		return -1
	}
	return idx
}

// Teams returns a copy of the roster in bootstrap order.
func (r Roster) Teams() []Team {
	return append([]Team(nil), r.teams...)
}

// Len returns the number of teams.
func (r Roster) Len() int { return len(r.teams) }
