package viewer

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mcdev12/auctionlive/go/internal/auction/reconciler"
)

// Transport names accepted in AUCTION_TRANSPORT.
const (
	TransportWebSocket = "ws"
	TransportNATS      = "nats"
)

// Config holds everything the viewer binary reads from the environment.
type Config struct {
	ServerURL     string        `env:"AUCTION_SERVER_URL" envDefault:"ws://localhost:5000/ws/auction"`
	Transport     string        `env:"AUCTION_TRANSPORT" envDefault:"ws"`
	NATSURL       string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	BootstrapPath string        `env:"AUCTION_BOOTSTRAP" envDefault:"auction.yaml"`
	HTTPPort      string        `env:"VIEWER_HTTP_PORT" envDefault:"8082"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	ReconnectWait time.Duration `env:"RECONNECT_WAIT" envDefault:"2s"`
	// HealthStaleAfter marks the viewer unhealthy after this long without
	// an event. Zero disables the check.
	HealthStaleAfter time.Duration `env:"HEALTH_STALE_AFTER" envDefault:"2m"`

	LotStartPolicy  string `env:"LOT_START_POLICY" envDefault:"keep"`
	CommentaryLimit int    `env:"COMMENTARY_LIMIT" envDefault:"50"`
	BidIncrement    int64  `env:"BID_INCREMENT" envDefault:"100000"`
}

// LoadConfig loads .env when present and parses the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}
	if cfg.Transport != TransportWebSocket && cfg.Transport != TransportNATS {
		return Config{}, fmt.Errorf("%w: AUCTION_TRANSPORT=%q", ErrInvalidConfig, cfg.Transport)
	}
	return cfg, nil
}

// ReconcilerOptions maps the config onto reconciler options.
func (c Config) ReconcilerOptions() reconciler.Options {
	opts := reconciler.DefaultOptions()
	opts.LotStartPolicy = reconciler.ParseLotStartPolicy(c.LotStartPolicy)
	opts.CommentaryLimit = c.CommentaryLimit
	if c.BidIncrement > 0 {
		opts.BidIncrement = c.BidIncrement
	}
	return opts
}

// Level parses LOG_LEVEL, defaulting to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
