package main

import (
	geo "scraphunt/server/internal/geo"
)

// body is the mobile-entity core shared by agents and the player: a planar
// position with height, a facing yaw, and the collision envelope used by the
// sweep.
type body struct {
	X         float64
	Y         float64
	Z         float64
	Yaw       float64
	Radius    float64
	Height    float64
	MoveSpeed float64
}

func (b *body) position() geo.Vec3 {
	return geo.Vec3{X: b.X, Y: b.Y, Z: b.Z}
}

// moveBodyToward steers the body at the target point, updates its yaw from
// the travel direction, and applies the collision-resolved displacement. It
// returns the number of sweep rays cast while resolving the move.
func moveBodyToward(b *body, target geo.Vec3, dt float64, set *geo.ColliderSet, mult float64) int {
	if b == nil || dt <= 0 {
		return 0
	}
	dir := geo.PlanarDirection(b.position(), target)
	if dir == (geo.Vec3{}) {
		return 0
	}
	b.Yaw = geo.YawOf(dir)
	return applyDisplacement(b, dir, b.MoveSpeed*mult*dt*moveScale, set)
}

// moveBodyDirection is the player variant: the input layer supplies the
// travel direction instead of a destination point.
func moveBodyDirection(b *body, dir geo.Vec3, dt float64, set *geo.ColliderSet, mult float64) int {
	if b == nil || dt <= 0 {
		return 0
	}
	dir.Y = 0
	dir = dir.Normalize()
	if dir == (geo.Vec3{}) {
		return 0
	}
	b.Yaw = geo.YawOf(dir)
	return applyDisplacement(b, dir, b.MoveSpeed*mult*dt*moveScale, set)
}

// applyDisplacement moves the full distance when the sweep is clear and
// otherwise decomposes into per-axis components, applying whichever passes
// independently. Blocked diagonals slide along the open axis instead of
// stopping dead. Returns the total ray count fired across the sweeps.
func applyDisplacement(b *body, dir geo.Vec3, dist float64, set *geo.ColliderSet) int {
	if dist <= 0 {
		return 0
	}
	blocked, rays := sweepBlocked(b, dir, set)
	if !blocked {
		b.X += dir.X * dist
		b.Z += dir.Z * dist
		return rays
	}

	if dir.X != 0 {
		xDir := geo.Vec3{X: sign(dir.X)}
		xBlocked, xRays := sweepBlocked(b, xDir, set)
		rays += xRays
		if !xBlocked {
			b.X += dir.X * dist
		}
	}
	if dir.Z != 0 {
		zDir := geo.Vec3{Z: sign(dir.Z)}
		zBlocked, zRays := sweepBlocked(b, zDir, set)
		rays += zRays
		if !zBlocked {
			b.Z += dir.Z * dist
		}
	}
	return rays
}

// sweepBlocked samples rays fanned around the travel heading at three height
// bands of the collision envelope. Any blocking hit inside the clearance
// radius blocks the path. The second return is the number of rays cast.
func sweepBlocked(b *body, dir geo.Vec3, set *geo.ColliderSet) (bool, int) {
	if set == nil || set.Len() == 0 {
		return false, 0
	}
	clearance := b.Radius * clearanceFactor
	heading := geo.YawOf(dir)
	heights := [3]float64{0.15, b.Height * 0.5, b.Height * 0.9}

	rays := 0
	for i := 0; i < sweepRayCount; i++ {
		offset := -sweepArc/2 + sweepArc*float64(i)/float64(sweepRayCount-1)
		rayDir := geo.HeadingVec(heading + offset)
		for _, h := range heights {
			origin := geo.Vec3{X: b.X, Y: h, Z: b.Z}
			rays++
			for _, hit := range set.CastRay(origin, rayDir) {
				if !hit.Blocking() {
					continue
				}
				if hit.Distance < clearance {
					return true, rays
				}
				break
			}
		}
	}
	return false, rays
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
