package ai

import geo "scraphunt/server/internal/geo"

const (
	idleToPatrolSeconds = 3.0
	hidingHoldSeconds   = 5.0
	fleeGiveUpSeconds   = 4.0
	fleeRangeFactor     = 1.5
	fleeStepDistance    = 10.0

	chaseSpeedMult = 1.2
	fleeSpeedMult  = 1.5

	waypointArriveRadius = 0.5
	hidingArriveRadius   = 0.5

	idleNudgeChance   = 0.02
	searchNudgeChance = 0.05
)

// Run evaluates one behavior tick for every agent in the config, in order.
// Perception is recomputed exactly once per agent before transition
// evaluation; the cached result is the single source of truth for the rest of
// the tick.
func Run(cfg RunConfig) {
	for _, agent := range cfg.Agents {
		if agent == nil {
			continue
		}
		runAgent(cfg, agent)
	}
}

func runAgent(cfg RunConfig, a *Agent) {
	if a.Profile == nil || a.State == nil || a.StateTimer == nil || a.CanSeeTarget == nil {
		return
	}

	*a.StateTimer += cfg.Delta

	pos := a.Position.Value()
	eye := pos
	eye.Y = a.EyeHeight

	visible := IsTargetVisible(eye, cfg.Target, cfg.Colliders, a.Profile.Detection)
	*a.CanSeeTarget = visible
	if visible && a.LastSeen != nil {
		*a.LastSeen = cfg.Target
	}

	dist := geo.PlanarDistance(pos, cfg.Target)

	next := nextState(cfg, a, visible, dist)
	if next != *a.State {
		transition(cfg, a, next)
	}

	behave(cfg, a, pos, visible)
}

// nextState applies the override rules and the transition table in priority
// order and returns the state for this tick.
func nextState(cfg RunConfig, a *Agent, visible bool, dist float64) State {
	p := a.Profile
	current := *a.State

	// Flee override preempts everything else this tick.
	if a.MaxHealth > 0 && a.Health/a.MaxHealth < p.FleeHealth && visible && draw(cfg, p.Weight(StateFleeing)) {
		return StateFleeing
	}

	// Hide override consumes the damage flag only when the draw succeeds; a
	// failed draw leaves it set for the next tick.
	if a.RecentlyDamaged != nil && *a.RecentlyDamaged {
		if draw(cfg, p.HideChance*p.Weight(StateHiding)) {
			*a.RecentlyDamaged = false
			return StateHiding
		}
	}

	switch current {
	case StateIdle:
		if *a.StateTimer > idleToPatrolSeconds {
			return StatePatrolling
		}
		if visible && dist < p.Detection {
			return StateChasing
		}
	case StatePatrolling:
		if visible && dist < p.Detection {
			return StateChasing
		}
	case StateSearching:
		if *a.StateTimer > p.SearchSecs {
			return StatePatrolling
		}
		if visible && dist < p.Detection {
			return StateChasing
		}
	case StateChasing:
		if visible && dist < p.AttackRange {
			return StateShooting
		}
		if !visible {
			return StateSearching
		}
	case StateShooting:
		if dist > p.AttackRange {
			return StateChasing
		}
		if !visible {
			return StateSearching
		}
	case StateHiding:
		if *a.StateTimer > hidingHoldSeconds && !visible {
			return StatePatrolling
		}
		if visible && dist < p.AttackRange {
			return StateShooting
		}
	case StateFleeing:
		if dist > p.Detection*fleeRangeFactor || *a.StateTimer > fleeGiveUpSeconds {
			return StateHiding
		}
	}
	return current
}

func transition(cfg RunConfig, a *Agent, to State) {
	from := *a.State
	if to == from {
		return
	}
	if from == StateHiding && a.HidingSpot != nil {
		a.HidingSpot.Valid = false
	}
	*a.State = to
	*a.StateTimer = 0
	if a.LastChangeTick != nil {
		*a.LastChangeTick = cfg.Tick
	}

	switch to {
	case StateChasing, StateSearching:
		emitCue(cfg, a.ID, CueDetect)
	case StateFleeing:
		emitCue(cfg, a.ID, CueHit)
	}
	if cfg.OnStateChange != nil {
		cfg.OnStateChange(a.ID, from, to)
	}
}

func behave(cfg RunConfig, a *Agent, pos geo.Vec3, visible bool) {
	switch *a.State {
	case StateIdle:
		if draw(cfg, idleNudgeChance) && a.Hooks.SetYaw != nil && cfg.RandomAngle != nil {
			a.Hooks.SetYaw(cfg.RandomAngle())
		}
	case StatePatrolling:
		patrol(cfg, a, pos)
	case StateSearching:
		if a.LastSeen != nil {
			moveToward(a, *a.LastSeen, 1.0)
		}
		if draw(cfg, searchNudgeChance) && a.Hooks.SetYaw != nil && cfg.RandomAngle != nil {
			a.Hooks.SetYaw(cfg.RandomAngle())
		}
	case StateChasing:
		moveToward(a, cfg.Target, chaseSpeedMult)
	case StateShooting:
		// Attack resolution is external; the agent only holds facing.
		if a.Hooks.Face != nil {
			a.Hooks.Face(cfg.Target)
		}
	case StateHiding:
		hide(cfg, a, pos)
	case StateFleeing:
		flee(cfg, a, pos)
	}
}

// patrol lazily generates the route once, then walks it, wrapping the index
// modulo route length.
func patrol(cfg RunConfig, a *Agent, pos geo.Vec3) {
	if a.Waypoints == nil || a.WaypointIndex == nil {
		return
	}
	if len(*a.Waypoints) == 0 {
		*a.Waypoints = GeneratePatrolRoute(pos, cfg.RandomFloat, cfg.RandomDistance)
		*a.WaypointIndex = 0
	}
	count := len(*a.Waypoints)
	if count == 0 {
		return
	}
	idx := *a.WaypointIndex % count
	wp := (*a.Waypoints)[idx]
	if geo.PlanarDistance(pos, wp) < waypointArriveRadius {
		idx = (idx + 1) % count
		*a.WaypointIndex = idx
		wp = (*a.Waypoints)[idx]
	}
	moveToward(a, wp, 1.0)
}

// hide finds cover lazily, keeps the chosen spot until reached or the state
// exits, and falls back to flee behavior for the tick when no cover exists.
func hide(cfg RunConfig, a *Agent, pos geo.Vec3) {
	if a.HidingSpot == nil {
		flee(cfg, a, pos)
		return
	}
	if !a.HidingSpot.Valid {
		if spot, ok := FindHidingSpot(pos, cfg.Target, cfg.Colliders, cfg.RandomAngle, cfg.RandomDistance); ok {
			a.HidingSpot.Point = spot
			a.HidingSpot.Valid = true
		}
	}
	if !a.HidingSpot.Valid {
		flee(cfg, a, pos)
		return
	}
	if geo.PlanarDistance(pos, a.HidingSpot.Point) < hidingArriveRadius {
		a.HidingSpot.Valid = false
		return
	}
	moveToward(a, a.HidingSpot.Point, 1.0)
}

// flee runs away along the target-to-agent vector, extrapolated a fixed step
// ahead.
func flee(cfg RunConfig, a *Agent, pos geo.Vec3) {
	away := pos.Sub(cfg.Target)
	away.Y = 0
	away = away.Normalize()
	if away == (geo.Vec3{}) {
		if cfg.RandomAngle == nil {
			return
		}
		away = geo.HeadingVec(cfg.RandomAngle())
	}
	dest := pos.Add(away.Scale(fleeStepDistance))
	moveToward(a, dest, fleeSpeedMult)
}

func moveToward(a *Agent, target geo.Vec3, mult float64) {
	if a.Hooks.MoveToward == nil {
		return
	}
	a.Hooks.MoveToward(target, mult)
}

func draw(cfg RunConfig, probability float64) bool {
	if probability <= 0 || cfg.RandomFloat == nil {
		return false
	}
	return cfg.RandomFloat() < probability
}

func emitCue(cfg RunConfig, agentID, cue string) {
	if cfg.EmitCue == nil {
		return
	}
	cfg.EmitCue(agentID, cue)
}
