package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/ignition-interlock/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Phase         string         `json:"phase"`
	EngineRunning bool           `json:"engine_running"`
	Wiper         WiperJSON      `json:"wiper"`
	Indicators    IndicatorsJSON `json:"indicators"`
	Display       []string       `json:"display"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	Config        ConfigJSON     `json:"config"`
}

// WiperJSON reports the classified setting and the servo position.
type WiperJSON struct {
	Mode   string  `json:"mode"`
	Period string  `json:"period,omitempty"`
	Duty   *uint32 `json:"duty,omitempty"`
}

// IndicatorsJSON reports the three outputs.
type IndicatorsJSON struct {
	Ready   bool `json:"ready"`
	Success bool `json:"success"`
	Alarm   bool `json:"alarm"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Starts   int `json:"starts"`
	Inhibits int `json:"inhibits"`
	Stops    int `json:"stops"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
}

func buildInner(snap Snapshot) StatusInner {
	phase := snap.Phase
	if phase == "" {
		phase = logic.PhaseIdle
	}
	mode := string(snap.Wiper.Class)
	if mode == "" {
		mode = string(logic.WiperOff)
	}

	inner := StatusInner{
		Phase:         string(phase),
		EngineRunning: phase.EngineRunning(),
		Wiper:         WiperJSON{Mode: mode, Period: string(snap.Wiper.Period)},
		Indicators: IndicatorsJSON{
			Ready:   snap.Indicators.Ready,
			Success: snap.Indicators.Success,
			Alarm:   snap.Indicators.Alarm,
		},
		Display:       snap.Display,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Starts:   snap.Counts.Starts,
			Inhibits: snap.Counts.Inhibits,
			Stops:    snap.Counts.Stops,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
		},
	}
	if snap.DutySet {
		d := snap.Duty
		inner.Wiper.Duty = &d
	}
	if inner.Display == nil {
		inner.Display = []string{}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
