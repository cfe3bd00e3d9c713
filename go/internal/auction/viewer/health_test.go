package viewer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/gateway"
)

func TestHealthMonitor_StartsUnhealthy(t *testing.T) {
	m := NewHealthMonitor(clockwork.NewFakeClock(), time.Minute)

	status := m.Check()

	assert.False(t, status.Healthy)
	assert.Equal(t, "disconnected", status.ConnectionState)
	assert.Nil(t, status.LastEventTime)
	assert.Equal(t, []string{"transport disconnected"}, status.Errors)
}

func TestHealthMonitor_ConnectedAndFlowing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewHealthMonitor(clock, time.Minute)

	m.RecordState(gateway.StateEvent{OldState: gateway.StateConnecting, NewState: gateway.StateConnected})
	m.RecordEvent()
	m.RecordEvent()

	status := m.Check()
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(2), status.EventsProcessed)
	require.NotNil(t, status.LastEventTime)
	assert.Equal(t, clock.Now(), *status.LastEventTime)
	assert.Empty(t, status.Errors)
}

func TestHealthMonitor_StaleEvents(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewHealthMonitor(clock, time.Minute)
	m.RecordState(gateway.StateEvent{NewState: gateway.StateConnected})
	m.RecordEvent()
	m.RecordLotOpen(true)

	clock.Advance(90 * time.Second)

	status := m.Check()
	assert.False(t, status.Healthy)
	assert.Equal(t, []string{"no events for 1m30s"}, status.Errors)
}

func TestHealthMonitor_IdleBetweenLotsStaysHealthy(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewHealthMonitor(clock, time.Minute)
	m.RecordState(gateway.StateEvent{NewState: gateway.StateConnected})
	m.RecordEvent()
	m.RecordLotOpen(false)

	clock.Advance(10 * time.Minute)

	status := m.Check()
	assert.True(t, status.Healthy)
	assert.False(t, status.LotOpen)
	assert.Empty(t, status.Errors)
}

func TestHealthMonitor_ReportsTransportError(t *testing.T) {
	m := NewHealthMonitor(clockwork.NewFakeClock(), 0)

	m.RecordState(gateway.StateEvent{
		OldState: gateway.StateConnected,
		NewState: gateway.StateReconnecting,
		Error:    errors.New("connection reset"),
	})

	status := m.Check()
	assert.False(t, status.Healthy)
	assert.Equal(t, []string{"transport reconnecting: connection reset"}, status.Errors)
}

func TestHealthHandler(t *testing.T) {
	m := NewHealthMonitor(clockwork.NewFakeClock(), 0)

	rec := httptest.NewRecorder()
	HealthHandler(m)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	m.RecordState(gateway.StateEvent{NewState: gateway.StateConnected})

	rec = httptest.NewRecorder()
	HealthHandler(m)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, "connected", status.ConnectionState)
}

func TestClient_FeedsHealthMonitor(t *testing.T) {
	m := NewHealthMonitor(clockwork.NewFakeClock(), 0)
	client, _, _ := startClient(t, "team-3", func(c *Client) { c.UseHealthMonitor(m) })

	client.OnState(gateway.StateEvent{NewState: gateway.StateConnected})
	client.OnEvent(events.Commentary{Text: "hello"})

	require.Eventually(t, func() bool {
		return m.Check().EventsProcessed == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, m.Check().Healthy)
}

func TestClient_HealthIgnoresGapAfterSale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewHealthMonitor(clock, time.Minute)
	client, _, _ := startClient(t, "team-3", func(c *Client) { c.UseHealthMonitor(m) })

	client.OnState(gateway.StateEvent{NewState: gateway.StateConnected})
	client.OnEvent(events.LotStarted{LotID: "lot-7"})
	require.Eventually(t, func() bool { return m.Check().LotOpen }, time.Second, 5*time.Millisecond)

	client.OnEvent(events.LotSold{LotID: "lot-7", FinalPrice: 1500000, WinningTeamID: "team-3"})
	require.Eventually(t, func() bool {
		s := m.Check()
		return s.EventsProcessed == 2 && !s.LotOpen
	}, time.Second, 5*time.Millisecond)

	clock.Advance(5 * time.Minute)
	assert.True(t, m.Check().Healthy)
}
