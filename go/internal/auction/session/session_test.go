package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
)

const bootstrapYAML = `
auction_id: 12
team_id: 3
lots:
  - id: 101
    player_id: 44
    player:
      name: Jasprit Bumrah
      role: Bowler
      base_price: 1500000
      highlight_url: https://cdn.example/bumrah.mp4
  - id: 102
    player_id: 45
    player:
      name: Virat Kohli
      role: Batter
      base_price: 2000000
teams:
  - id: 3
    name: Mumbai
    budget_total: 100000000
    budget_remaining: 82000000
  - id: 4
    name: Chennai
    budget_total: 100000000
    budget_remaining: 101000000
`

func TestParse(t *testing.T) {
	sess, err := Parse([]byte(bootstrapYAML))
	require.NoError(t, err)

	assert.Equal(t, events.ID("12"), sess.AuctionID)
	assert.Equal(t, events.ID("3"), sess.TeamID)
	assert.True(t, sess.HasIdentity())
	require.Len(t, sess.Lots, 2)
	assert.Equal(t, "Jasprit Bumrah", sess.Lots[0].Player.Name)
	assert.Equal(t, events.ID("45"), sess.Lots[1].PlayerID)
	require.Len(t, sess.Teams, 2)
	assert.Equal(t, int64(18000000), sess.Teams[0].Spent())
	assert.Zero(t, sess.Teams[1].Spent(), "spent never goes negative")
}

func TestParse_Spectator(t *testing.T) {
	sess, err := Parse([]byte("auction_id: 12\nteam_id: null\n"))
	require.NoError(t, err)

	assert.False(t, sess.HasIdentity())
	assert.Zero(t, sess.Catalog().Len())
	assert.Zero(t, sess.Roster().Len())
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing auction id": "team_id: 3\n",
		"lot without id":     "auction_id: 1\nlots:\n  - player_id: 4\n",
		"team without id":    "auction_id: 1\nteams:\n  - name: Mumbai\n",
		"duplicate lot":      "auction_id: 1\nlots:\n  - id: 5\n  - id: 5\n",
		"duplicate team":     "auction_id: 1\nteams:\n  - id: 5\n  - id: 5\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidBootstrap)
		})
	}

	_, err := Parse([]byte("auction_id: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bootstrapYAML), 0o600))

	sess, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, events.ID("12"), sess.AuctionID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNew_DetachesSlices(t *testing.T) {
	lots := []Lot{{ID: "lot-1", PlayerID: "p1"}}
	sess, err := New("a1", "", lots, nil)
	require.NoError(t, err)

	lots[0].PlayerID = "changed"

	assert.Equal(t, events.ID("p1"), sess.Lots[0].PlayerID)
}

func TestCatalog(t *testing.T) {
	sess, err := Parse([]byte(bootstrapYAML))
	require.NoError(t, err)
	catalog := sess.Catalog()

	lot, ok := catalog.Lookup("102")
	require.True(t, ok)
	assert.Equal(t, "Virat Kohli", lot.Player.Name)

	_, ok = catalog.Lookup("999")
	assert.False(t, ok)

	lot, ok = catalog.Resolve("999")
	require.True(t, ok)
	assert.Equal(t, events.ID("101"), lot.ID, "unknown lots fall back to the first entry")

	_, ok = Catalog{}.Resolve("999")
	assert.False(t, ok)
}

func TestRoster(t *testing.T) {
	sess, err := Parse([]byte(bootstrapYAML))
	require.NoError(t, err)
	roster := sess.Roster()

	team, ok := roster.Lookup("4")
	require.True(t, ok)
	assert.Equal(t, "Chennai", team.Name)

	assert.Equal(t, 1, roster.Index("4"))
	assert.Equal(t, -1, roster.Index("99"))
	assert.Equal(t, -1, roster.Index(""))

	_, ok = roster.Lookup("")
	assert.False(t, ok)
}
