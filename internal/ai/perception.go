package ai

import geo "scraphunt/server/internal/geo"

// IsTargetVisible decides line of sight between an agent eye position and the
// target, gated by detection range. No ray is cast when the target is out of
// range. The walk over ordered hits ignores non-blocking geometry; a wall or
// door strictly closer than the target occludes it. Visibility requires a hit
// at or beyond the target distance. A scan that exhausts without one, an
// empty intersection list included, fails closed so agents act blind rather
// than omniscient. Inside the compound the perimeter always terminates an
// unobstructed ray.
func IsTargetVisible(eye, target geo.Vec3, set *geo.ColliderSet, detectionRange float64) bool {
	if detectionRange <= 0 {
		return false
	}
	toTarget := target.Sub(eye)
	dist := toTarget.Length()
	if dist > detectionRange {
		return false
	}
	if dist == 0 {
		return true
	}

	hits := set.CastRay(eye, toTarget)
	for _, hit := range hits {
		if hit.Distance >= dist {
			// Nothing blocking closer than the target.
			return true
		}
		if hit.Blocking() {
			return false
		}
	}
	return false
}
