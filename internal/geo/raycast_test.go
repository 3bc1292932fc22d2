package geo

import (
	"math"
	"testing"
)

func wall(id string, minX, minZ, maxX, maxZ float64) Collider {
	return Collider{
		ID:   id,
		Kind: KindWall,
		Min:  Vec3{X: minX, Y: 0, Z: minZ},
		Max:  Vec3{X: maxX, Y: 3, Z: maxZ},
	}
}

func TestCastRayOrdersHitsByDistance(t *testing.T) {
	set := NewColliderSet([]Collider{
		wall("far", 20, -1, 21, 1),
		wall("near", 5, -1, 6, 1),
		wall("mid", 12, -1, 13, 1),
	})

	hits := set.CastRay(Vec3{Y: 1}, Vec3{X: 1})
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	order := []string{"near", "mid", "far"}
	for i, want := range order {
		if hits[i].ID != want {
			t.Fatalf("hit %d: expected %s, got %s", i, want, hits[i].ID)
		}
	}
	if math.Abs(hits[0].Distance-5) > 1e-9 {
		t.Fatalf("expected nearest hit at distance 5, got %.4f", hits[0].Distance)
	}
}

func TestCastRayMissesGeometryBehindOrigin(t *testing.T) {
	set := NewColliderSet([]Collider{wall("behind", -6, -1, -5, 1)})
	if hits := set.CastRay(Vec3{Y: 1}, Vec3{X: 1}); len(hits) != 0 {
		t.Fatalf("expected no hits for geometry behind the ray, got %d", len(hits))
	}
}

func TestCastRayRespectsHeight(t *testing.T) {
	low := Collider{ID: "crate", Kind: KindDebris, Min: Vec3{X: 4, Y: 0, Z: -1}, Max: Vec3{X: 5, Y: 0.8, Z: 1}}
	set := NewColliderSet([]Collider{low})

	if hits := set.CastRay(Vec3{Y: 1.5}, Vec3{X: 1}); len(hits) != 0 {
		t.Fatalf("horizontal ray above the crate should miss, got %d hits", len(hits))
	}
	if hits := set.CastRay(Vec3{Y: 0.4}, Vec3{X: 1}); len(hits) != 1 {
		t.Fatalf("horizontal ray through the crate should hit, got %d hits", len(hits))
	}
}

func TestCastRayFailsOpen(t *testing.T) {
	var nilSet *ColliderSet
	if hits := nilSet.CastRay(Vec3{}, Vec3{X: 1}); hits != nil {
		t.Fatalf("nil set should report nothing, got %v", hits)
	}
	empty := NewColliderSet(nil)
	if hits := empty.CastRay(Vec3{}, Vec3{X: 1}); len(hits) != 0 {
		t.Fatalf("empty set should report nothing, got %v", hits)
	}
	set := NewColliderSet([]Collider{wall("w", 1, -1, 2, 1)})
	if hits := set.CastRay(Vec3{}, Vec3{}); len(hits) != 0 {
		t.Fatalf("zero direction should report nothing, got %v", hits)
	}
}

func TestCastRayOriginInsideBoxReportsZeroDistance(t *testing.T) {
	set := NewColliderSet([]Collider{wall("around", -1, -1, 1, 1)})
	hits := set.CastRay(Vec3{Y: 1}, Vec3{X: 1})
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit from inside, got %d", len(hits))
	}
	if hits[0].Distance != 0 {
		t.Fatalf("expected zero distance from inside, got %.4f", hits[0].Distance)
	}
}

func TestBlockingKinds(t *testing.T) {
	if !KindWall.Blocking() || !KindDoor.Blocking() {
		t.Fatalf("walls and doors must block")
	}
	if KindDebris.Blocking() {
		t.Fatalf("debris must not block")
	}
}

func TestCastRayDeterministicForFixedSet(t *testing.T) {
	set := NewColliderSet([]Collider{
		wall("a", 5, -2, 6, 2),
		wall("b", 9, -2, 10, 2),
	})
	first := set.CastRay(Vec3{Y: 1}, Vec3{X: 1})
	for i := 0; i < 10; i++ {
		again := set.CastRay(Vec3{Y: 1}, Vec3{X: 1})
		if len(again) != len(first) {
			t.Fatalf("hit count changed between identical casts")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("hit %d changed between identical casts: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}
