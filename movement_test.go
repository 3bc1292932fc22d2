package main

import (
	"math"
	"testing"

	geo "scraphunt/server/internal/geo"
)

func testBody(x, z float64) *body {
	return &body{X: x, Z: z, Radius: agentRadius, Height: agentHeight, MoveSpeed: 5}
}

func wallSet(walls ...geo.Collider) *geo.ColliderSet {
	return geo.NewColliderSet(walls)
}

func wallAt(id string, minX, minZ, maxX, maxZ float64) geo.Collider {
	return geo.Collider{
		ID:   id,
		Kind: geo.KindWall,
		Min:  geo.Vec3{X: minX, Y: 0, Z: minZ},
		Max:  geo.Vec3{X: maxX, Y: wallHeight, Z: maxZ},
	}
}

func TestOpenGroundFullDisplacement(t *testing.T) {
	b := testBody(5, 5)
	dt := 0.1

	moveBodyDirection(b, geo.Vec3{X: 1}, dt, wallSet(), 1.0)

	want := b.MoveSpeed * dt
	if math.Abs(b.X-(5+want)) > 1e-9 {
		t.Fatalf("expected X=%v, got %v", 5+want, b.X)
	}
	if b.Z != 5 {
		t.Fatalf("expected Z unchanged, got %v", b.Z)
	}
}

func TestMoveTowardSetsYaw(t *testing.T) {
	b := testBody(0, 0)

	moveBodyToward(b, geo.Vec3{X: 0, Z: 10}, 0.1, nil, 1.0)

	if math.Abs(b.Yaw-math.Pi/2) > 1e-9 {
		t.Fatalf("expected yaw %v facing +Z, got %v", math.Pi/2, b.Yaw)
	}
	if b.Z <= 0 {
		t.Fatalf("expected movement toward +Z, got Z=%v", b.Z)
	}
}

func TestDiagonalSlidesAlongBlockedAxis(t *testing.T) {
	// Wall just ahead on +Z; a diagonal move should keep its X component
	// and drop the Z component instead of stopping dead.
	set := wallSet(wallAt("wall-north", 0, 5.5, 10, 6))
	b := testBody(5, 5)
	dt := 0.1

	moveBodyDirection(b, geo.Vec3{X: 1, Z: 1}, dt, set, 1.0)

	if b.Z != 5 {
		t.Fatalf("expected Z held at wall, got %v", b.Z)
	}
	wantX := 5 + (1/math.Sqrt2)*b.MoveSpeed*dt
	if math.Abs(b.X-wantX) > 1e-9 {
		t.Fatalf("expected X=%v after slide, got %v", wantX, b.X)
	}
}

func TestCornerBlocksBothAxes(t *testing.T) {
	set := wallSet(
		wallAt("wall-north", 0, 5.5, 10, 6),
		wallAt("wall-east", 5.5, 0, 6, 10),
	)
	b := testBody(5, 5)

	moveBodyDirection(b, geo.Vec3{X: 1, Z: 1}, 0.1, set, 1.0)

	if b.X != 5 || b.Z != 5 {
		t.Fatalf("expected no movement in corner, got (%v, %v)", b.X, b.Z)
	}
}

func TestDebrisNeverBlocksMovement(t *testing.T) {
	debris := geo.Collider{
		ID:   "debris-1",
		Kind: geo.KindDebris,
		Min:  geo.Vec3{X: 0, Y: 0, Z: 5.2},
		Max:  geo.Vec3{X: 10, Y: 0.6, Z: 5.6},
	}
	b := testBody(5, 5)
	dt := 0.1

	moveBodyDirection(b, geo.Vec3{Z: 1}, dt, wallSet(debris), 1.0)

	want := 5 + b.MoveSpeed*dt
	if math.Abs(b.Z-want) > 1e-9 {
		t.Fatalf("expected debris to be walkable, Z=%v want %v", b.Z, want)
	}
}

func TestNilColliderSetNeverBlocks(t *testing.T) {
	b := testBody(2, 2)
	dt := 0.1

	moveBodyDirection(b, geo.Vec3{X: -1}, dt, nil, 1.0)

	want := 2 - b.MoveSpeed*dt
	if math.Abs(b.X-want) > 1e-9 {
		t.Fatalf("expected full move with nil colliders, X=%v want %v", b.X, want)
	}
}
