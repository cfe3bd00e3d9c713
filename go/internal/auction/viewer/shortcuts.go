package viewer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionlive/go/internal/auction/dispatcher"
)

// Intents is the user-facing entry point both the shortcuts and any UI go
// through.
type Intents interface {
	PlaceBid(raw string) error
	PlaceSuggestedBid() error
	SetAutoBid(raw string) error
}

// RunShortcuts reads keyboard-style commands, one per line:
//
//	b            bid the suggested amount
//	b <amount>   bid amount
//	a <ceiling>  enable auto-bid up to ceiling
//
// It returns when in is exhausted or ctx is cancelled between lines.
func RunShortcuts(ctx context.Context, in io.Reader, intents Intents) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if err := HandleShortcut(scanner.Text(), intents); err != nil {
			if errors.Is(err, ErrClientStopped) {
				return nil
			}
			if !errors.Is(err, dispatcher.ErrNoIdentity) {
				log.Warn().Err(err).Msg("shortcut rejected")
			}
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// HandleShortcut routes one command line to intents. Unknown keys are
// ignored.
func HandleShortcut(line string, intents Intents) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	arg := strings.Join(fields[1:], " ")

	switch strings.ToLower(fields[0]) {
	case "b":
		if arg == "" {
			return intents.PlaceSuggestedBid()
		}
		return intents.PlaceBid(arg)
	case "a":
		return intents.SetAutoBid(arg)
	default:
		return nil
	}
}
