// Package behavior defines structured log events for the agent state
// machine.
package behavior

import (
	"context"

	"scraphunt/server/logging"
)

const (
	// EventStateChanged is emitted when an agent transitions between states.
	EventStateChanged logging.EventType = "behavior.state_changed"
	// EventAgentDestroyed is emitted when an agent's health reaches zero.
	EventAgentDestroyed logging.EventType = "behavior.agent_destroyed"
	// EventCue is emitted alongside audio cues such as detect and hit.
	EventCue logging.EventType = "behavior.cue"
)

// StateChangedPayload captures a single transition.
type StateChangedPayload struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Archetype  string `json:"archetype"`
	SeesTarget bool   `json:"seesTarget"`
}

func StateChanged(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload StateChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateChanged,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBehavior,
		Payload:  payload,
	})
}

// AgentDestroyedPayload records the terminal state of a destroyed agent.
type AgentDestroyedPayload struct {
	Archetype string `json:"archetype"`
	State     string `json:"state"`
}

func AgentDestroyed(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload AgentDestroyedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAgentDestroyed,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBehavior,
		Payload:  payload,
	})
}

// CuePayload names the audio cue an agent raised.
type CuePayload struct {
	Cue string `json:"cue"`
}

func Cue(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, cue string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCue,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryBehavior,
		Payload:  CuePayload{Cue: cue},
	})
}
