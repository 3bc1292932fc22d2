package main

import (
	"math"

	geo "scraphunt/server/internal/geo"
)

// Player is the broadcast-friendly snapshot of the hunter.
type Player struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Yaw      float64 `json:"yaw"`
	Health   float64 `json:"health"`
	Stamina  float64 `json:"stamina"`
	Grounded bool    `json:"grounded"`
}

// playerIntent holds the most recent movement input. It persists across
// ticks until the client sends a replacement, matching how the command
// queue coalesces input.
type playerIntent struct {
	MoveX      float64
	MoveZ      float64
	Sprint     bool
	JumpQueued bool
}

// playerState is the authoritative record for the hunter.
type playerState struct {
	body
	ID        string
	Health    float64
	MaxHealth float64

	Stamina   float64
	VerticalV float64
	Grounded  bool

	intent        playerIntent
	footstepClock float64
}

func newPlayerState(id string, pos geo.Vec3) *playerState {
	return &playerState{
		body: body{
			X:         pos.X,
			Y:         playerStandingY,
			Z:         pos.Z,
			Radius:    playerRadius,
			Height:    playerHeight,
			MoveSpeed: playerMoveSpeed,
		},
		ID:        id,
		Health:    playerMaxHealth,
		MaxHealth: playerMaxHealth,
		Stamina:   staminaMax,
		Grounded:  true,
	}
}

func (p *playerState) snapshot() Player {
	return Player{
		ID:       p.ID,
		X:        p.X,
		Y:        p.Y,
		Z:        p.Z,
		Yaw:      p.Yaw,
		Health:   p.Health,
		Stamina:  p.Stamina,
		Grounded: p.Grounded,
	}
}

func (p *playerState) eyePosition() geo.Vec3 {
	return geo.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// stepPlayer advances the hunter one tick: horizontal locomotion with
// sprint gating, then the vertical jump/gravity pass, then footstep
// cadence. Cue events surface through emit.
func (w *World) stepPlayer(dt float64, emit func(kind EventKind, payload map[string]any)) {
	p := w.player
	if p == nil {
		return
	}

	moving := math.Hypot(p.intent.MoveX, p.intent.MoveZ) > negligibleIntent

	posBefore := p.position()
	staminaBefore := p.Stamina
	sprinting := p.intent.Sprint && moving && p.Stamina > 0
	mult := 1.0
	if sprinting {
		mult = sprintMultiplier
		p.Stamina -= sprintDrainRate * dt
		if p.Stamina < 0 {
			p.Stamina = 0
		}
	} else {
		p.Stamina += staminaRegenRate * dt
		if p.Stamina > staminaMax {
			p.Stamina = staminaMax
		}
	}
	if p.Stamina != staminaBefore {
		emit(EventStaminaUpdated, map[string]any{"playerId": p.ID, "stamina": p.Stamina})
	}

	if moving {
		dir := geo.Vec3{X: p.intent.MoveX, Z: p.intent.MoveZ}
		rays := moveBodyDirection(&p.body, dir, dt, w.colliders, mult)
		if w.telemetry != nil {
			w.telemetry.AddRaycasts(rays)
		}
	}

	// Vertical pass. Jumps only launch from the ground; gravity
	// integrates while airborne and landing snaps back to standing
	// height so repeated jumps never drift.
	if p.intent.JumpQueued {
		p.intent.JumpQueued = false
		if p.Grounded {
			p.VerticalV = jumpImpulse
			p.Grounded = false
			emit(EventCue, map[string]any{"playerId": p.ID, "cue": "jump"})
		}
	}
	if !p.Grounded {
		p.VerticalV += gravityAccel * dt
		p.Y += p.VerticalV * dt
		if p.Y <= playerStandingY {
			p.Y = playerStandingY
			p.VerticalV = 0
			p.Grounded = true
			emit(EventCue, map[string]any{"playerId": p.ID, "cue": "land"})
		}
	}

	// Footstep cadence. Sprinting shortens the interval.
	if moving && p.Grounded {
		interval := footstepInterval
		if sprinting {
			interval = footstepSprintInt
		}
		p.footstepClock += dt
		if p.footstepClock >= interval {
			p.footstepClock -= interval
			emit(EventCue, map[string]any{"playerId": p.ID, "cue": "footstep", "sprinting": sprinting})
		}
	} else {
		p.footstepClock = 0
	}

	if after := p.position(); after != posBefore {
		emit(EventPositionUpdated, map[string]any{"playerId": p.ID, "x": after.X, "y": after.Y, "z": after.Z})
	}
}
