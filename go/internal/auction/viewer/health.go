package viewer

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/auctionlive/go/internal/auction/gateway"
)

type HealthStatus struct {
	Healthy         bool       `json:"healthy"`
	ConnectionState string     `json:"connection_state"`
	LastEventTime   *time.Time `json:"last_event_time,omitempty"`
	EventsProcessed uint64     `json:"events_processed"`
	LotOpen         bool       `json:"lot_open"`
	Errors          []string   `json:"errors"`
}

type HealthChecker interface {
	Check() HealthStatus
}

// HealthMonitor tracks the connection state and event flow seen by the
// client loop.
type HealthMonitor struct {
	clock     clockwork.Clock
	// threshold is how long a lot may go without events before the viewer
	// is unhealthy; 0 disables. Gaps between lots never count.
	threshold time.Duration

	mu        sync.Mutex
	state     gateway.ConnectionState
	lastErr   error
	lastEvent time.Time
	processed uint64
	lotOpen   bool
}

func NewHealthMonitor(clock clockwork.Clock, threshold time.Duration) *HealthMonitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HealthMonitor{clock: clock, threshold: threshold}
}

func (m *HealthMonitor) RecordState(change gateway.StateEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = change.NewState
	m.lastErr = change.Error
}

func (m *HealthMonitor) RecordEvent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed++
	m.lastEvent = m.clock.Now()
}

// RecordLotOpen notes whether a lot is currently up for bidding.
func (m *HealthMonitor) RecordLotOpen(open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lotOpen = open
}

func (m *HealthMonitor) Check() HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := HealthStatus{
		Healthy:         true,
		ConnectionState: m.state.String(),
		EventsProcessed: m.processed,
		LotOpen:         m.lotOpen,
		Errors:          []string{},
	}

	if m.state != gateway.StateConnected {
		status.Healthy = false
		msg := fmt.Sprintf("transport %s", m.state)
		if m.lastErr != nil {
			msg = fmt.Sprintf("%s: %v", msg, m.lastErr)
		}
		status.Errors = append(status.Errors, msg)
	}

	if !m.lastEvent.IsZero() {
		last := m.lastEvent
		status.LastEventTime = &last
		if m.threshold > 0 && m.lotOpen {
			if idle := m.clock.Since(last); idle > m.threshold {
				status.Healthy = false
				status.Errors = append(status.Errors, fmt.Sprintf("no events for %s", idle.Round(time.Second)))
			}
		}
	}

	return status
}
