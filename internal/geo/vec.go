package geo

import "math"

// Vec3 is a point or direction in world space. Y is up; agents move on the
// X/Z plane.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector, or the zero vector when the input has no
// length.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

// PlanarDistance measures distance on the X/Z plane, ignoring height.
func PlanarDistance(a, b Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// PlanarDirection returns the unit direction from a to b projected onto the
// X/Z plane.
func PlanarDirection(a, b Vec3) Vec3 {
	return Vec3{X: b.X - a.X, Z: b.Z - a.Z}.Normalize()
}

// YawOf reports the heading angle of a direction on the X/Z plane.
func YawOf(dir Vec3) float64 {
	return math.Atan2(dir.Z, dir.X)
}

// HeadingVec converts a yaw angle back into a planar unit direction.
func HeadingVec(yaw float64) Vec3 {
	return Vec3{X: math.Cos(yaw), Z: math.Sin(yaw)}
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
