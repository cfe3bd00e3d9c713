package viewer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionlive/go/internal/auction/dispatcher"
)

type recordingIntents struct {
	calls []string
	err   error
}

func (r *recordingIntents) PlaceBid(raw string) error {
	r.calls = append(r.calls, "bid:"+raw)
	return r.err
}

func (r *recordingIntents) PlaceSuggestedBid() error {
	r.calls = append(r.calls, "suggested")
	return r.err
}

func (r *recordingIntents) SetAutoBid(raw string) error {
	r.calls = append(r.calls, "auto:"+raw)
	return r.err
}

func TestHandleShortcut(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "b", want: []string{"suggested"}},
		{line: "  B  ", want: []string{"suggested"}},
		{line: "b 600000", want: []string{"bid:600000"}},
		{line: "a 5000000", want: []string{"auto:5000000"}},
		{line: "a", want: []string{"auto:"}},
		{line: "x 100", want: nil},
		{line: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			intents := &recordingIntents{}
			require.NoError(t, HandleShortcut(tt.line, intents))
			assert.Equal(t, tt.want, intents.calls)
		})
	}
}

func TestRunShortcuts(t *testing.T) {
	intents := &recordingIntents{}
	in := strings.NewReader("b\nb 700000\nq\na 9000000\n")

	require.NoError(t, RunShortcuts(context.Background(), in, intents))

	assert.Equal(t, []string{"suggested", "bid:700000", "auto:9000000"}, intents.calls)
}

func TestRunShortcuts_KeepsGoingOnRejection(t *testing.T) {
	intents := &recordingIntents{err: dispatcher.ErrNoIdentity}

	require.NoError(t, RunShortcuts(context.Background(), strings.NewReader("b 1\nb 2\n"), intents))

	assert.Len(t, intents.calls, 2)
}

func TestRunShortcuts_StopsWhenClientStops(t *testing.T) {
	intents := &recordingIntents{err: ErrClientStopped}

	require.NoError(t, RunShortcuts(context.Background(), strings.NewReader("b 1\nb 2\n"), intents))

	assert.Len(t, intents.calls, 1)
}
