package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/ignition-interlock/internal/logic"
)

func TestFormatPayloadExactJSON(t *testing.T) {
	tests := []struct {
		name  string
		event logic.Event
		want  string
	}{
		{
			name: "engine started",
			event: logic.Event{
				Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
				Type:      logic.EventEngineStarted,
				Phase:     logic.PhaseRunning,
			},
			want: `{"interlock":{"timestamp":"2026-02-02T22:18:12Z","event":"ENGINE_STARTED","phase":"RUNNING","wiper":{"mode":"OFF"}}}`,
		},
		{
			name: "intermittent wiper",
			event: logic.Event{
				Timestamp: time.Date(2026, 2, 2, 22, 18, 13, 0, time.UTC),
				Type:      logic.EventWiperChanged,
				Phase:     logic.PhaseRunningReleased,
				Wiper:     logic.Wiper{Class: logic.WiperIntermittent, Period: logic.PeriodMedium},
			},
			want: `{"interlock":{"timestamp":"2026-02-02T22:18:13Z","event":"WIPER_CHANGED","phase":"RUNNING_RELEASED","wiper":{"mode":"INT","period":"MEDIUM"}}}`,
		},
		{
			name: "inhibited lists unmet conditions",
			event: logic.Event{
				Timestamp: time.Date(2026, 2, 2, 22, 18, 14, 0, time.UTC),
				Type:      logic.EventIgnitionInhibited,
				Phase:     logic.PhaseAlarmPending,
				Unmet:     []logic.Condition{logic.CondPassengerSeat, logic.CondDriverBelt},
			},
			want: `{"interlock":{"timestamp":"2026-02-02T22:18:14Z","event":"IGNITION_INHIBITED","phase":"ALARM_PENDING","wiper":{"mode":"OFF"},"unmet":["PASSENGER_SEAT","DRIVER_BELT"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(payload) != tt.want {
				t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, tt.want)
			}
		})
	}
}

func TestFormatPayloadLocalTimeIsUTC(t *testing.T) {
	loc := time.FixedZone("X", 2*3600)
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 3, 12, 0, 0, 0, loc),
		Type:      logic.EventWelcome,
		Phase:     logic.PhaseAwaitingConditions,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Interlock.Timestamp != "2026-02-03T10:00:00Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Interlock.Timestamp)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(logic.Event{Timestamp: time.Now(), Type: logic.EventWelcome}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Publish(logic.Event{Timestamp: time.Now(), Type: logic.EventReady}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := f.EventTypes()
	if len(got) != 2 || got[0] != logic.EventWelcome || got[1] != logic.EventReady {
		t.Errorf("unexpected events: %v", got)
	}
	if len(f.Payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated error")

	if err := f.Publish(logic.Event{Type: logic.EventWelcome}); err == nil {
		t.Error("expected error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected system error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("expected nothing recorded on error")
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()
	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.Publish(logic.Event{}); err != nil {
		t.Error(err)
	}
	if err := p.PublishSystem(SystemEvent{}); err != nil {
		t.Error(err)
	}
	if (Noop{}).IsConnected() {
		t.Error("noop publisher is never connected")
	}
}

func TestTopics(t *testing.T) {
	if Topic != "vehicle/interlock/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "vehicle/interlock/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["system"]["reason"]; exists {
		t.Error("reason field should be omitted when empty")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload should pass through, got %s", payload)
	}
}
