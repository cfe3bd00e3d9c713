package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/session"
)

type recordingEmitter struct {
	sent []events.Outbound
}

func (e *recordingEmitter) Send(out events.Outbound) { e.sent = append(e.sent, out) }

type recordingNotifier struct {
	notices []string
}

func (n *recordingNotifier) Notify(message string) { n.notices = append(n.notices, message) }

type fixedPlayer events.ID

func (p fixedPlayer) ActivePlayerID() events.ID { return events.ID(p) }

func newTestDispatcher(t *testing.T, teamID events.ID, player events.ID) (*Dispatcher, *recordingEmitter, *recordingNotifier) {
	t.Helper()
	sess, err := session.New("auction-1", teamID, nil, nil)
	require.NoError(t, err)
	emitter := &recordingEmitter{}
	notifier := &recordingNotifier{}
	return New(sess, fixedPlayer(player), emitter, notifier), emitter, notifier
}

func TestPlaceBid_NoIdentity(t *testing.T) {
	d, emitter, notifier := newTestDispatcher(t, "", "player-7")

	err := d.PlaceBid("600000")

	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Empty(t, emitter.sent)
	assert.Equal(t, []string{NoticeLoginToBid}, notifier.notices)
}

func TestPlaceBid_NoActivePlayer(t *testing.T) {
	d, emitter, notifier := newTestDispatcher(t, "team-3", "")

	err := d.PlaceBid("600000")

	assert.ErrorIs(t, err, ErrNoActivePlayer)
	assert.Empty(t, emitter.sent)
	assert.Empty(t, notifier.notices)
}

func TestPlaceBid_Emits(t *testing.T) {
	d, emitter, notifier := newTestDispatcher(t, "team-3", "player-7")

	require.NoError(t, d.PlaceBid("600000"))

	assert.Equal(t, []events.Outbound{events.PlaceBid{
		AuctionID: "auction-1",
		TeamID:    "team-3",
		Amount:    600000,
		PlayerID:  "player-7",
	}}, emitter.sent)
	assert.Empty(t, notifier.notices)
}

func TestPlaceBid_NonNumericBidsZero(t *testing.T) {
	d, emitter, _ := newTestDispatcher(t, "team-3", "player-7")

	require.NoError(t, d.PlaceBid("abc"))

	require.Len(t, emitter.sent, 1)
	assert.Equal(t, int64(0), emitter.sent[0].(events.PlaceBid).Amount)
}

func TestSetAutoBid_NoIdentity(t *testing.T) {
	d, emitter, notifier := newTestDispatcher(t, "", "player-7")

	err := d.SetAutoBid("5000000")

	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Empty(t, emitter.sent)
	assert.Len(t, notifier.notices, 1)
}

func TestSetAutoBid_Emits(t *testing.T) {
	// auto-bid needs no active player
	d, emitter, _ := newTestDispatcher(t, "team-3", "")

	require.NoError(t, d.SetAutoBid(" 5000000 rupees"))

	assert.Equal(t, []events.Outbound{events.SetAutoBid{
		AuctionID: "auction-1",
		TeamID:    "team-3",
		Ceiling:   5000000,
	}}, emitter.sent)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"":          0,
		"abc":       0,
		"600000":    600000,
		"  700000 ": 700000,
		"120000abc": 120000,
		"12.5":      12,
		"-500":      0,
		"+42":       42,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseAmount(in), "ParseAmount(%q)", in)
	}
}
