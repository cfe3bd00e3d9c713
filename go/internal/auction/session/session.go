package session

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
)

// Player holds the display fields of the player behind a lot.
type Player struct {
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	BasePrice    int64  `yaml:"base_price"`
	HighlightURL string `yaml:"highlight_url"`
}

// Lot is one catalog entry: a player put up for bid in this auction.
type Lot struct {
	ID       events.ID `yaml:"id" validate:"required"`
	PlayerID events.ID `yaml:"player_id"`
	Player   Player    `yaml:"player"`
}

// Team is a bidding team with its budget at session start.
type Team struct {
	ID              events.ID `yaml:"id" validate:"required"`
	Name            string    `yaml:"name"`
	BudgetTotal     int64     `yaml:"budget_total"`
	BudgetRemaining int64     `yaml:"budget_remaining"`
}

// Spent is what the team had already committed when the session started.
func (t Team) Spent() int64 {
	return max(0, t.BudgetTotal-t.BudgetRemaining)
}

// Session is the immutable context a viewer is bootstrapped with. It is
// passed by value into every component and never mutated after Load.
type Session struct {
	AuctionID events.ID `yaml:"auction_id" validate:"required"`
	// TeamID is empty for spectators.
	TeamID events.ID `yaml:"team_id"`
	Lots   []Lot     `yaml:"lots" validate:"dive"`
	Teams  []Team    `yaml:"teams" validate:"dive"`
}

// HasIdentity reports whether a team is bound to this session.
func (s Session) HasIdentity() bool { return !s.TeamID.IsZero() }

// Catalog returns a lookup over the session's lots.
func (s Session) Catalog() Catalog { return Catalog{lots: s.Lots} }

// Roster returns a lookup over the session's teams.
func (s Session) Roster() Roster { return Roster{teams: s.Teams} }

var validate = validator.New()

// Validate checks the bootstrap invariants.
func (s Session) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBootstrap, err)
	}
	if dups := lo.FindDuplicatesBy(s.Lots, func(l Lot) events.ID { return l.ID }); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate lot id %s", ErrInvalidBootstrap, dups[0].ID)
	}
	if dups := lo.FindDuplicatesBy(s.Teams, func(t Team) events.ID { return t.ID }); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate team id %s", ErrInvalidBootstrap, dups[0].ID)
	}
	return nil
}

// Load reads a bootstrap file.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read bootstrap file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates bootstrap YAML.
func Parse(data []byte) (Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("failed to parse bootstrap: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s.clone(), nil
}

// New builds a validated session from values.
func New(auctionID, teamID events.ID, lots []Lot, teams []Team) (Session, error) {
	s := Session{AuctionID: auctionID, TeamID: teamID, Lots: lots, Teams: teams}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s.clone(), nil
}

// clone detaches the slices from the caller's backing arrays.
func (s Session) clone() Session {
	s.Lots = append([]Lot(nil), s.Lots...)
	s.Teams = append([]Team(nil), s.Teams...)
	return s
}
