package viewer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/reconciler"
)

// StateStore keeps the last projection for readers outside the loop.
type StateStore struct {
	mu      sync.RWMutex
	display reconciler.Display
	notices []string
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore { return &StateStore{} }

func (s *StateStore) Render(display reconciler.Display, _ reconciler.Change) {
	s.mu.Lock()
	s.display = display
	s.mu.Unlock()
}

// Notify records a user notice.
func (s *StateStore) Notify(message string) {
	s.mu.Lock()
	s.notices = append(s.notices, message)
	s.mu.Unlock()
}

// Display returns the last projection.
func (s *StateStore) Display() reconciler.Display {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Notices returns the notices recorded so far.
func (s *StateStore) Notices() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.notices...)
}

// ConsoleRenderer prints a one-line summary per change plus any cues.
type ConsoleRenderer struct {
	out io.Writer
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer { return &ConsoleRenderer{out: out} }

func (r *ConsoleRenderer) Render(d reconciler.Display, change reconciler.Change) {
	if change.Event == "" {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | %s | high %s by %s | %s",
		change.Event, d.LotLabel, d.BasePriceLabel, d.HighestBidLabel, d.LeadingTeamName, d.CountdownLabel)
	for _, cue := range change.Cues {
		fmt.Fprintf(&b, " <%s>", cue)
	}
	if change.LeaderboardChanged {
		b.WriteString(" | spend:")
		for _, e := range d.Leaderboard {
			fmt.Fprintf(&b, " %s=%s", e.Name, reconciler.FormatINR(e.Spent))
		}
	}
	switch change.Event {
	case events.EventTypeCommentary, events.EventTypeLotSold, events.EventTypeLotStarted:
		if len(d.Commentary) > 0 {
			fmt.Fprintf(&b, " | %s", d.Commentary[0])
		}
	}
	fmt.Fprintln(r.out, b.String())
}

// Notify prints a blocking notice.
func (r *ConsoleRenderer) Notify(message string) {
	fmt.Fprintf(r.out, "!! %s\n", message)
}

// MultiRenderer fans out to several renderers, in order.
type MultiRenderer []Renderer

func (m MultiRenderer) Render(d reconciler.Display, change reconciler.Change) {
	for _, r := range m {
		r.Render(d, change)
	}
}

// MultiNotifier fans a notice out to several notifiers.
type MultiNotifier []interface{ Notify(string) }

func (m MultiNotifier) Notify(message string) {
	for _, n := range m {
		n.Notify(message)
	}
}
