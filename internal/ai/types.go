package ai

import geo "scraphunt/server/internal/geo"

// PositionRef exposes direct references to an agent's planar coordinates.
type PositionRef struct {
	X *float64
	Z *float64
}

// Value resolves the referenced position at ground height.
func (r PositionRef) Value() geo.Vec3 {
	v := geo.Vec3{}
	if r.X != nil {
		v.X = *r.X
	}
	if r.Z != nil {
		v.Z = *r.Z
	}
	return v
}

// OptionalPoint is a point that may be unset. Hiding spots use it so a chosen
// spot is never recomputed until cleared.
type OptionalPoint struct {
	Point geo.Vec3
	Valid bool
}

// Hooks bundles the callbacks the executor uses to drive locomotion. The
// world side owns the collision resolver; the executor only expresses intent.
type Hooks struct {
	MoveToward func(target geo.Vec3, speedMult float64)
	Face       func(target geo.Vec3)
	SetYaw     func(yaw float64)
}

// Agent exposes the runtime state required by the behavior executor while
// hiding the world's entity type behind references and adapters.
type Agent struct {
	ID              string
	Profile         *Profile
	State           *State
	StateTimer      *float64
	LastChangeTick  *uint64
	Position        PositionRef
	EyeHeight       float64
	Health          float64
	MaxHealth       float64
	RecentlyDamaged *bool
	CanSeeTarget    *bool
	LastSeen        *geo.Vec3
	Waypoints       *[]geo.Vec3
	WaypointIndex   *int
	HidingSpot      *OptionalPoint
	Hooks           Hooks
}

// RunConfig carries everything one behavior pass needs: the tick inputs, the
// immutable collider snapshot, the agents to evaluate, injected randomness,
// and the event hooks. All randomness flows through the callbacks so tests
// can force or forbid draws.
type RunConfig struct {
	Tick      uint64
	Delta     float64
	Target    geo.Vec3
	Colliders *geo.ColliderSet
	Agents    []*Agent

	RandomFloat    func() float64
	RandomAngle    func() float64
	RandomDistance func(min, max float64) float64

	OnStateChange func(agentID string, from, to State)
	EmitCue       func(agentID string, cue string)
}

// Audio cue names delivered to the external audio collaborator.
const (
	CueDetect = "detect"
	CueHit    = "hit"
)
