package geo

import (
	"math"
	"sort"
)

// RayHit is one intersection reported by CastRay.
type RayHit struct {
	Distance float64
	Kind     ColliderKind
	ID       string
}

// Blocking reports whether the hit geometry obstructs sight and movement.
func (h RayHit) Blocking() bool {
	return h.Kind.Blocking()
}

// CastRay intersects a ray against the snapshot and returns every hit ordered
// by distance, nearest first. A nil or empty set, or a zero direction, yields
// an empty result; callers must treat that as "nothing to report" and apply
// their own range checks rather than assuming a clear path.
func (s *ColliderSet) CastRay(origin, dir Vec3) []RayHit {
	if s == nil || len(s.colliders) == 0 {
		return nil
	}
	dir = dir.Normalize()
	if dir == (Vec3{}) {
		return nil
	}

	hits := make([]RayHit, 0, 4)
	for _, c := range s.colliders {
		dist, ok := rayBoxDistance(origin, dir, c)
		if !ok {
			continue
		}
		hits = append(hits, RayHit{Distance: dist, Kind: c.Kind, ID: c.ID})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// rayBoxDistance runs the slab test for one axis-aligned box. It reports the
// entry distance along the ray, or 0 when the origin starts inside the box.
func rayBoxDistance(origin, dir Vec3, c Collider) (float64, bool) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	axes := [3][3]float64{
		{origin.X, dir.X, 0},
		{origin.Y, dir.Y, 0},
		{origin.Z, dir.Z, 0},
	}
	mins := [3]float64{c.Min.X, c.Min.Y, c.Min.Z}
	maxs := [3]float64{c.Max.X, c.Max.Y, c.Max.Z}

	for i := 0; i < 3; i++ {
		o := axes[i][0]
		d := axes[i][1]
		if d == 0 {
			if o < mins[i] || o > maxs[i] {
				return 0, false
			}
			continue
		}
		t1 := (mins[i] - o) / d
		t2 := (maxs[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, false
		}
	}

	if tFar < 0 {
		return 0, false
	}
	if tNear < 0 {
		// Origin inside the box.
		return 0, true
	}
	return tNear, true
}
