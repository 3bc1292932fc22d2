package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	ai "scraphunt/server/internal/ai"
	geo "scraphunt/server/internal/geo"
	"scraphunt/server/logging"
	behaviorlog "scraphunt/server/logging/behavior"
	simlog "scraphunt/server/logging/simulation"
)

// CommandType identifies the staged command kinds the hub queues for a tick.
type CommandType string

const (
	CommandMove      CommandType = "move"
	CommandHeartbeat CommandType = "heartbeat"
	CommandDamage    CommandType = "damage"
	CommandCapture   CommandType = "capture"
)

// Command is one staged input. Commands are collected between ticks and
// applied at the start of Step in arrival order.
type Command struct {
	OriginTick uint64
	ActorID    string
	Type       CommandType
	IssuedAt   time.Time
	Move       *MoveCommand
	Heartbeat  *HeartbeatCommand
	Damage     *DamageCommand
	Capture    *CaptureCommand
}

// MoveCommand carries the hunter's movement intent for subsequent ticks.
type MoveCommand struct {
	DX     float64
	DZ     float64
	Sprint bool
	Jump   bool
}

// HeartbeatCommand updates connectivity metadata for the controller.
type HeartbeatCommand struct {
	ReceivedAt time.Time
	ClientSent int64
	RTT        time.Duration
}

// DamageCommand applies damage to an agent or the hunter.
type DamageCommand struct {
	TargetID string
	Amount   float64
}

// CaptureCommand attempts to capture a weakened agent instead of
// destroying it.
type CaptureCommand struct {
	TargetID string
}

// World owns the authoritative simulation state.
type World struct {
	player    *playerState
	agents    map[string]*agentState
	colliders *geo.ColliderSet
	library   *ai.Library
	config    worldConfig
	rng       *rand.Rand
	seed      string
	publisher logging.Publisher

	currentTick uint64
	telemetry   *telemetryCounters
	journal     eventJournal

	lastHeartbeat time.Time
	lastRTT       time.Duration

	destroyedCount int
	concluded      bool
}

func newWorld(cfg worldConfig, publisher logging.Publisher) *World {
	normalized := cfg.normalized()

	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	w := &World{
		agents:    make(map[string]*agentState),
		library:   ai.GlobalLibrary,
		config:    normalized,
		rng:       newSubsystemRNG(normalized.Seed, "world"),
		seed:      normalized.Seed,
		publisher: publisher,
	}
	w.colliders = geo.NewColliderSet(generateCompound(normalized))
	w.player = newPlayerState("hunter-1", geo.Vec3{X: normalized.Width / 2, Z: normalized.Depth / 2})
	w.spawnInitialAgents()
	return w
}

// spawnInitialAgents places the configured archetype counts around the
// compound, outside the spawn safe radius and clear of geometry.
func (w *World) spawnInitialAgents() {
	rng := newSubsystemRNG(w.seed, "agents.spawn")

	archetypes := make([]string, 0, len(w.config.Agents))
	for name := range w.config.Agents {
		archetypes = append(archetypes, name)
	}
	sort.Strings(archetypes)

	serial := 0
	for _, archetype := range archetypes {
		profile := w.library.ProfileForArchetype(archetype)
		if profile == nil {
			continue
		}
		for i := 0; i < w.config.Agents[archetype]; i++ {
			serial++
			pos, ok := w.findAgentSpawn(rng)
			if !ok {
				continue
			}
			agent := &agentState{
				body: body{
					X:         pos.X,
					Z:         pos.Z,
					Radius:    agentRadius,
					Height:    agentHeight,
					MoveSpeed: profile.MoveSpeed,
				},
				ID:        fmt.Sprintf("agent-%d", serial),
				Archetype: profile.Archetype,
				Health:    profile.MaxHealth,
				MaxHealth: profile.MaxHealth,
				State:     ai.StateIdle,
			}
			w.agents[agent.ID] = agent
		}
	}
}

func (w *World) findAgentSpawn(rng *rand.Rand) (geo.Vec3, bool) {
	centerX := w.config.Width / 2
	centerZ := w.config.Depth / 2
	for attempt := 0; attempt < 30; attempt++ {
		x := spawnMargin + rng.Float64()*(w.config.Width-2*spawnMargin)
		z := spawnMargin + rng.Float64()*(w.config.Depth-2*spawnMargin)
		if math.Hypot(x-centerX, z-centerZ) < spawnSafeRadius {
			continue
		}
		blocked := false
		for _, c := range w.colliders.Colliders() {
			if c.Kind.Blocking() && c.CircleOverlapsPlanar(x, z, agentRadius*2) {
				blocked = true
				break
			}
		}
		if !blocked {
			return geo.Vec3{X: x, Z: z}, true
		}
	}
	return geo.Vec3{}, false
}

// Step advances the simulation by a single tick applying all staged commands.
func (w *World) Step(tick uint64, now time.Time, dt float64, commands []Command) {
	if dt <= 0 {
		dt = 1.0 / float64(tickRate)
	}

	w.currentTick = tick

	for _, cmd := range commands {
		switch cmd.Type {
		case CommandMove:
			if cmd.Move == nil || w.player == nil {
				continue
			}
			dx := cmd.Move.DX
			dz := cmd.Move.DZ
			length := math.Hypot(dx, dz)
			if length > 1 {
				dx /= length
				dz /= length
			}
			w.player.intent.MoveX = dx
			w.player.intent.MoveZ = dz
			w.player.intent.Sprint = cmd.Move.Sprint
			if cmd.Move.Jump {
				w.player.intent.JumpQueued = true
			}
		case CommandHeartbeat:
			if cmd.Heartbeat == nil {
				continue
			}
			w.lastHeartbeat = cmd.Heartbeat.ReceivedAt
			w.lastRTT = cmd.Heartbeat.RTT
		case CommandDamage:
			if cmd.Damage == nil {
				continue
			}
			w.applyDamage(cmd.Damage.TargetID, cmd.Damage.Amount)
		case CommandCapture:
			if cmd.Capture == nil {
				continue
			}
			w.attemptCapture(cmd.Capture.TargetID)
		}
	}

	w.runBehavior(tick, dt)

	w.stepPlayer(dt, func(kind EventKind, payload map[string]any) {
		w.journal.append(tick, kind, payload)
	})

	w.reapDestroyedAgents(tick)
}

// runBehavior bridges world entities into the executor's adapter structs
// and runs one behavior pass. Hooks close over the world so all movement
// flows through the collision resolver.
func (w *World) runBehavior(tick uint64, dt float64) {
	if w.library == nil || len(w.agents) == 0 || w.player == nil {
		return
	}

	ids := make([]string, 0, len(w.agents))
	for id := range w.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	aiAgents := make([]*ai.Agent, 0, len(ids))
	for _, id := range ids {
		agent := w.agents[id]
		if agent == nil || agent.Health <= 0 {
			continue
		}
		// Resolve the live profile by archetype so a hot reload can never
		// remap an agent onto a different archetype's profile.
		profile := w.library.ProfileForArchetype(agent.Archetype)
		if profile == nil {
			continue
		}
		aiAgents = append(aiAgents, &ai.Agent{
			ID:             agent.ID,
			Profile:        profile,
			State:          &agent.State,
			StateTimer:     &agent.StateTimer,
			LastChangeTick: &agent.LastChangeTick,
			Position: ai.PositionRef{
				X: &agent.X,
				Z: &agent.Z,
			},
			EyeHeight:       agentEyeHeight,
			Health:          agent.Health,
			MaxHealth:       agent.MaxHealth,
			RecentlyDamaged: &agent.RecentlyDamaged,
			CanSeeTarget:    &agent.CanSeeTarget,
			LastSeen:        &agent.LastSeen,
			Waypoints:       &agent.Waypoints,
			WaypointIndex:   &agent.WaypointIndex,
			HidingSpot:      &agent.HidingSpot,
			Hooks: ai.Hooks{
				MoveToward: func(target geo.Vec3, speedMult float64) {
					rays := moveBodyToward(&agent.body, target, dt, w.colliders, speedMult)
					if w.telemetry != nil {
						w.telemetry.AddRaycasts(rays)
					}
				},
				Face: func(target geo.Vec3) {
					dir := geo.PlanarDirection(agent.position(), target)
					if dir.Length() > 0 {
						agent.Yaw = geo.YawOf(dir)
					}
				},
				SetYaw: func(yaw float64) {
					agent.Yaw = yaw
				},
			},
		})
	}
	if len(aiAgents) == 0 {
		return
	}

	ai.Run(ai.RunConfig{
		Tick:      tick,
		Delta:     dt,
		Target:    w.player.eyePosition(),
		Colliders: w.colliders,
		Agents:    aiAgents,
		RandomFloat: func() float64 {
			return w.randomFloat()
		},
		RandomAngle: func() float64 {
			return w.randomAngle()
		},
		RandomDistance: func(min, max float64) float64 {
			return w.randomDistance(min, max)
		},
		OnStateChange: func(agentID string, from, to ai.State) {
			w.journal.append(tick, EventStateChanged, map[string]any{
				"agentId": agentID,
				"from":    from.String(),
				"to":      to.String(),
			})
			agent := w.agents[agentID]
			payload := behaviorlog.StateChangedPayload{From: from.String(), To: to.String()}
			if agent != nil {
				payload.Archetype = agent.Archetype
				payload.SeesTarget = agent.CanSeeTarget
			}
			behaviorlog.StateChanged(context.Background(), w.publisher, tick, agentID, payload)
			if w.telemetry != nil {
				w.telemetry.IncrementStateTransitions()
			}
		},
		EmitCue: func(agentID string, cue string) {
			w.journal.append(tick, EventCue, map[string]any{
				"agentId": agentID,
				"cue":     cue,
			})
			behaviorlog.Cue(context.Background(), w.publisher, tick, agentID, cue)
			if w.telemetry != nil {
				w.telemetry.IncrementCues()
			}
		},
	})
}

// applyDamage decrements health and arms the hide override. The agent is
// reaped at the end of the tick if health reaches zero.
func (w *World) applyDamage(targetID string, amount float64) {
	if amount <= 0 {
		return
	}
	if w.player != nil && targetID == w.player.ID {
		w.player.Health -= amount
		if w.player.Health < 0 {
			w.player.Health = 0
		}
		w.journal.append(w.currentTick, EventHealthUpdated, map[string]any{
			"targetId": targetID,
			"health":   w.player.Health,
		})
		return
	}
	agent, ok := w.agents[targetID]
	if !ok {
		return
	}
	agent.Health -= amount
	if agent.Health < 0 {
		agent.Health = 0
	}
	agent.RecentlyDamaged = true
	w.journal.append(w.currentTick, EventHealthUpdated, map[string]any{
		"targetId": targetID,
		"health":   agent.Health,
	})
}

// attemptCapture succeeds only against weakened agents. A captured agent
// leaves the simulation like a destroyed one but is reported separately.
func (w *World) attemptCapture(targetID string) bool {
	agent, ok := w.agents[targetID]
	if !ok {
		return false
	}
	if agent.healthFraction() > captureHealthFraction {
		return false
	}
	w.removeAgent(agent, "captured")
	return true
}

func (w *World) reapDestroyedAgents(tick uint64) {
	destroyed := make([]*agentState, 0)
	for _, agent := range w.agents {
		if agent.Health <= 0 {
			destroyed = append(destroyed, agent)
		}
	}
	sort.Slice(destroyed, func(i, j int) bool { return destroyed[i].ID < destroyed[j].ID })
	for _, agent := range destroyed {
		w.removeAgent(agent, "destroyed")
	}
}

func (w *World) removeAgent(agent *agentState, reason string) {
	if agent == nil {
		return
	}
	if _, ok := w.agents[agent.ID]; !ok {
		return
	}
	delete(w.agents, agent.ID)
	w.destroyedCount++

	w.journal.append(w.currentTick, EventAgentDestroyed, map[string]any{
		"agentId": agent.ID,
		"reason":  reason,
	})
	behaviorlog.AgentDestroyed(context.Background(), w.publisher, w.currentTick, agent.ID, behaviorlog.AgentDestroyedPayload{
		Archetype: agent.Archetype,
		State:     agent.State.String(),
	})
	if w.telemetry != nil {
		w.telemetry.IncrementAgentsDestroyed()
	}

	if len(w.agents) == 0 && !w.concluded {
		w.concluded = true
		w.journal.append(w.currentTick, EventAllTargetsNeutralized, map[string]any{
			"agentsDestroyed": w.destroyedCount,
		})
		simlog.HuntConcluded(context.Background(), w.publisher, w.currentTick, simlog.HuntConcludedPayload{
			AgentsDestroyed: w.destroyedCount,
		})
	}
}

// Snapshot copies the hunter and agents into broadcast-friendly structs.
// Agents are sorted by ID so broadcasts are stable across ticks.
func (w *World) Snapshot() (Player, []Agent) {
	var player Player
	if w.player != nil {
		player = w.player.snapshot()
	}
	agents := make([]Agent, 0, len(w.agents))
	for _, agent := range w.agents {
		agents = append(agents, agent.snapshot())
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return player, agents
}

// DrainEvents returns the events accumulated since the previous drain.
func (w *World) DrainEvents() []Event {
	return w.journal.drain()
}

// AgentsRemaining reports the number of live hostile agents.
func (w *World) AgentsRemaining() int {
	return len(w.agents)
}

// Concluded reports whether the compound has been cleared.
func (w *World) Concluded() bool {
	return w.concluded
}

// ReplaceProfileLibrary swaps the behavior profile library. Agents resolve
// their live profile by archetype each tick; an archetype missing from the
// new library leaves its agents inert until a matching profile returns.
func (w *World) ReplaceProfileLibrary(lib *ai.Library) {
	if lib == nil {
		return
	}
	w.library = lib
	if w.telemetry != nil {
		w.telemetry.IncrementProfileReloads()
	}
}
