package viewer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionlive/go/internal/auction/reconciler"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:5000/ws/auction", cfg.ServerURL)
	assert.Equal(t, TransportWebSocket, cfg.Transport)
	assert.Equal(t, 2*time.Second, cfg.ReconnectWait)
	assert.Equal(t, 50, cfg.CommentaryLimit)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("AUCTION_TRANSPORT", "nats")
	t.Setenv("LOT_START_POLICY", "clear")
	t.Setenv("RECONNECT_WAIT", "500ms")
	t.Setenv("BID_INCREMENT", "25000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, TransportNATS, cfg.Transport)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectWait)

	opts := cfg.ReconcilerOptions()
	assert.Equal(t, reconciler.LotStartClearBid, opts.LotStartPolicy)
	assert.Equal(t, int64(25000), opts.BidIncrement)
}

func TestLoadConfig_RejectsUnknownTransport(t *testing.T) {
	t.Setenv("AUCTION_TRANSPORT", "carrier-pigeon")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_ReconcilerOptionsKeepsDefaultIncrement(t *testing.T) {
	opts := Config{LotStartPolicy: "keep", BidIncrement: 0, CommentaryLimit: 10}.ReconcilerOptions()

	assert.Equal(t, reconciler.LotStartKeepBid, opts.LotStartPolicy)
	assert.Equal(t, reconciler.DefaultBidIncrement, opts.BidIncrement)
	assert.Equal(t, 10, opts.CommentaryLimit)
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, Config{LogLevel: "debug"}.Level())
	assert.Equal(t, zerolog.InfoLevel, Config{LogLevel: "nonsense"}.Level())
	assert.Equal(t, zerolog.InfoLevel, Config{}.Level())
}
