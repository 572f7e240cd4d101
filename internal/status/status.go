// Package status provides a thread-safe status tracker for the interlock daemon.
// It is read by the HTTP handlers and the heartbeat publisher.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/ignition-interlock/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
}

// Interlock is the per-iteration state copied from the controller.
type Interlock struct {
	Phase      logic.Phase
	Wiper      logic.Wiper
	Indicators logic.Indicators
	Counts     logic.EventCounts
	Display    []string // rows of the display mirror
	Duty       uint32   // last servo duty written
	DutySet    bool     // false until the first duty write
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Interlock
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Interlock: Interlock{Phase: logic.PhaseIdle},
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the interlock state. Called from runLoop on every tick.
func (t *Tracker) Update(s Interlock) {
	s.Display = append([]string(nil), s.Display...)
	t.mu.Lock()
	t.snap.Interlock = s
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
