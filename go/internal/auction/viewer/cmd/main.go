package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/gateway"
	"github.com/mcdev12/auctionlive/go/internal/auction/metrics"
	"github.com/mcdev12/auctionlive/go/internal/auction/session"
	"github.com/mcdev12/auctionlive/go/internal/auction/viewer"
)

func main() {
	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := viewer.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	sess, err := session.Load(cfg.BootstrapPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.BootstrapPath).Msg("failed to load auction bootstrap")
	}

	log.Info().
		Str("auction_id", sess.AuctionID.String()).
		Str("team_id", sess.TeamID.String()).
		Int("lots", len(sess.Lots)).
		Int("teams", len(sess.Teams)).
		Str("transport", cfg.Transport).
		Msg("starting auction viewer")

	registry := prometheus.NewRegistry()
	mc, err := metrics.NewPrometheusMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	var transport gateway.Transport
	switch cfg.Transport {
	case viewer.TransportNATS:
		natsCfg := gateway.DefaultNATSConfig(cfg.NATSURL, sess.AuctionID)
		natsCfg.ReconnectWait = cfg.ReconnectWait
		transport = gateway.NewNATSTransport(natsCfg, mc)
	default:
		wsCfg := gateway.DefaultWSConfig(cfg.ServerURL)
		wsCfg.ReconnectWait = cfg.ReconnectWait
		transport = gateway.NewWSTransport(wsCfg, mc)
	}
	manager := gateway.NewConnectionManager(sess, transport, mc)

	store := viewer.NewStateStore()
	console := viewer.NewConsoleRenderer(os.Stdout)
	client := viewer.NewClient(
		sess,
		cfg.ReconcilerOptions(),
		manager,
		viewer.MultiNotifier{store, console},
		viewer.MultiRenderer{store, console},
		mc,
	)
	health := viewer.NewHealthMonitor(clockwork.NewRealClock(), cfg.HealthStaleAfter)
	client.UseHealthMonitor(health)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The shortcut reader blocks on stdin and is not waited for.
	loops := startLoops(ctx, cancel, client, manager)

	go func() {
		if err := viewer.RunShortcuts(ctx, os.Stdin, client); err != nil {
			log.Error().Err(err).Msg("shortcut reader failed")
		}
	}()

	server := viewer.NewHTTPServer(cfg.HTTPPort, store, health, registry)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()
	loops.Wait()

	log.Info().Msg("auction viewer shutdown complete")
}

type clientLoop interface {
	gateway.Handler
	Run(ctx context.Context)
}

type managerLoop interface {
	Run(ctx context.Context, h gateway.Handler) error
}

// startLoops runs the client and the connection manager. A failed manager
// cancels ctx. The returned group is done once both loops have returned.
func startLoops(ctx context.Context, cancel context.CancelFunc, client clientLoop, manager managerLoop) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		client.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		if err := manager.Run(ctx, client); err != nil {
			log.Error().Err(err).Msg("connection manager failed")
			cancel()
		}
	}()
	return &wg
}
