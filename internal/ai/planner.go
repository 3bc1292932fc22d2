package ai

import (
	"math"

	geo "scraphunt/server/internal/geo"
)

const (
	patrolMinPoints = 3
	patrolMaxPoints = 7
	patrolMinRadius = 10.0
	patrolMaxRadius = 15.0

	hidingAttempts    = 8
	hidingMinDistance = 5.0
	hidingMaxDistance = 10.0
)

// GeneratePatrolRoute produces evenly spaced waypoints on a circle of
// randomized radius centered on the agent's current position. The route is
// generated once per agent; the caller keeps it until the agent is destroyed.
func GeneratePatrolRoute(center geo.Vec3, randomFloat func() float64, randomDistance func(min, max float64) float64) []geo.Vec3 {
	if randomFloat == nil || randomDistance == nil {
		return nil
	}
	count := patrolMinPoints + int(randomFloat()*float64(patrolMaxPoints-patrolMinPoints+1))
	if count > patrolMaxPoints {
		count = patrolMaxPoints
	}
	radius := randomDistance(patrolMinRadius, patrolMaxRadius)
	phase := randomFloat() * 2 * math.Pi

	route := make([]geo.Vec3, 0, count)
	for i := 0; i < count; i++ {
		angle := phase + float64(i)*2*math.Pi/float64(count)
		route = append(route, geo.Vec3{
			X: center.X + math.Cos(angle)*radius,
			Y: 0,
			Z: center.Z + math.Sin(angle)*radius,
		})
	}
	return route
}

// FindHidingSpot samples up to eight candidate points around the agent and
// returns the first one with a wall or door between it and the target. The
// search is first-qualifying, not best-qualifying. When no candidate
// qualifies the caller falls back to flee behavior for the tick.
func FindHidingSpot(pos, target geo.Vec3, set *geo.ColliderSet, randomAngle func() float64, randomDistance func(min, max float64) float64) (geo.Vec3, bool) {
	if randomAngle == nil || randomDistance == nil {
		return geo.Vec3{}, false
	}
	for attempt := 0; attempt < hidingAttempts; attempt++ {
		angle := randomAngle()
		dist := randomDistance(hidingMinDistance, hidingMaxDistance)
		candidate := geo.Vec3{
			X: pos.X + math.Cos(angle)*dist,
			Y: pos.Y,
			Z: pos.Z + math.Sin(angle)*dist,
		}
		if coversFrom(candidate, target, set) {
			return candidate, true
		}
	}
	return geo.Vec3{}, false
}

// coversFrom reports whether blocking geometry sits between the candidate and
// the target.
func coversFrom(candidate, target geo.Vec3, set *geo.ColliderSet) bool {
	toTarget := target.Sub(candidate)
	dist := toTarget.Length()
	if dist == 0 {
		return false
	}
	for _, hit := range set.CastRay(candidate, toTarget) {
		if !hit.Blocking() {
			continue
		}
		return hit.Distance < dist
	}
	return false
}
