package main

import (
	ai "scraphunt/server/internal/ai"
	geo "scraphunt/server/internal/geo"
)

// Agent is the broadcast-friendly snapshot of one hostile agent.
type Agent struct {
	ID        string  `json:"id"`
	Archetype string  `json:"archetype"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Yaw       float64 `json:"yaw"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	State     string  `json:"state"`
}

// agentState is the authoritative per-agent record mutated by the behavior
// executor and the locomotion resolver.
type agentState struct {
	body
	ID        string
	Archetype string
	Health    float64
	MaxHealth float64

	State          ai.State
	StateTimer     float64
	LastChangeTick uint64

	CanSeeTarget    bool
	LastSeen        geo.Vec3
	RecentlyDamaged bool

	Waypoints     []geo.Vec3
	WaypointIndex int
	HidingSpot    ai.OptionalPoint
}

func (s *agentState) snapshot() Agent {
	return Agent{
		ID:        s.ID,
		Archetype: s.Archetype,
		X:         s.X,
		Y:         s.Y,
		Z:         s.Z,
		Yaw:       s.Yaw,
		Health:    s.Health,
		MaxHealth: s.MaxHealth,
		State:     s.State.String(),
	}
}

func (s *agentState) healthFraction() float64 {
	if s.MaxHealth <= 0 {
		return 0
	}
	return s.Health / s.MaxHealth
}
