package main

import "github.com/google/uuid"

// EventKind names a simulation event surfaced to subscribers.
type EventKind string

const (
	EventStateChanged          EventKind = "stateChanged"
	EventAgentDestroyed        EventKind = "agentDestroyed"
	EventPositionUpdated       EventKind = "positionUpdated"
	EventHealthUpdated         EventKind = "healthUpdated"
	EventStaminaUpdated        EventKind = "staminaUpdated"
	EventCue                   EventKind = "cue"
	EventAllTargetsNeutralized EventKind = "allTargetsNeutralized"
)

// Event is one journal entry. TraceID lets clients correlate events with
// server logs.
type Event struct {
	TraceID string         `json:"traceId"`
	Tick    uint64         `json:"tick"`
	Kind    EventKind      `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
}

// eventJournal accumulates events during a tick and is drained into the
// outgoing state broadcast. Order of emission is preserved.
type eventJournal struct {
	entries []Event
}

func (j *eventJournal) append(tick uint64, kind EventKind, payload map[string]any) {
	j.entries = append(j.entries, Event{
		TraceID: uuid.NewString(),
		Tick:    tick,
		Kind:    kind,
		Payload: payload,
	})
}

func (j *eventJournal) drain() []Event {
	if len(j.entries) == 0 {
		return nil
	}
	out := j.entries
	j.entries = nil
	return out
}

func (j *eventJournal) len() int {
	return len(j.entries)
}
