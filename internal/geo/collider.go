package geo

// ColliderKind classifies static world geometry for ray queries. Walls and
// doors block movement and sight; debris is reported but never blocks.
type ColliderKind uint8

const (
	KindWall ColliderKind = iota
	KindDoor
	KindDebris
)

// String returns the wire name used in snapshots and configs.
func (k ColliderKind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindDoor:
		return "door"
	case KindDebris:
		return "debris"
	default:
		return "unknown"
	}
}

// Blocking reports whether geometry of this kind obstructs movement and
// line of sight.
func (k ColliderKind) Blocking() bool {
	return k == KindWall || k == KindDoor
}

// Collider is one axis-aligned box of static world geometry.
type Collider struct {
	ID   string       `json:"id"`
	Kind ColliderKind `json:"kind"`
	Min  Vec3         `json:"min"`
	Max  Vec3         `json:"max"`
}

// Contains reports whether the point lies inside the box.
func (c Collider) Contains(p Vec3) bool {
	return p.X >= c.Min.X && p.X <= c.Max.X &&
		p.Y >= c.Min.Y && p.Y <= c.Max.Y &&
		p.Z >= c.Min.Z && p.Z <= c.Max.Z
}

// OverlapsPlanar checks for X/Z footprint overlap with optional padding.
func (c Collider) OverlapsPlanar(other Collider, padding float64) bool {
	return c.Min.X-padding < other.Max.X+padding &&
		c.Max.X+padding > other.Min.X-padding &&
		c.Min.Z-padding < other.Max.Z+padding &&
		c.Max.Z+padding > other.Min.Z-padding
}

// CircleOverlapsPlanar reports whether a circle on the X/Z plane intersects
// the box footprint.
func (c Collider) CircleOverlapsPlanar(cx, cz, radius float64) bool {
	closestX := Clamp(cx, c.Min.X, c.Max.X)
	closestZ := Clamp(cz, c.Min.Z, c.Max.Z)
	dx := cx - closestX
	dz := cz - closestZ
	return dx*dx+dz*dz < radius*radius
}

// ColliderSet is an immutable snapshot of the static geometry for one tick.
// The simulation replaces the whole snapshot between ticks; nothing mutates a
// set after construction.
type ColliderSet struct {
	colliders []Collider
}

// NewColliderSet copies the provided geometry into a fresh snapshot.
func NewColliderSet(colliders []Collider) *ColliderSet {
	copied := make([]Collider, len(colliders))
	copy(copied, colliders)
	return &ColliderSet{colliders: copied}
}

// Colliders returns a copy of the snapshot contents for broadcasting.
func (s *ColliderSet) Colliders() []Collider {
	if s == nil {
		return nil
	}
	copied := make([]Collider, len(s.colliders))
	copy(copied, s.colliders)
	return copied
}

// Len reports the number of colliders in the snapshot.
func (s *ColliderSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.colliders)
}
