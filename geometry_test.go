package main

import (
	"reflect"
	"strings"
	"testing"

	geo "scraphunt/server/internal/geo"
)

func TestCompoundHasSealedPerimeter(t *testing.T) {
	cfg := defaultWorldConfig()
	colliders := generateCompound(cfg)

	perimeter := 0
	for _, c := range colliders {
		if strings.HasPrefix(c.ID, "perimeter-") {
			perimeter++
			if c.Kind != geo.KindWall {
				t.Fatalf("perimeter %s must be a wall, got %v", c.ID, c.Kind)
			}
			if c.Max.Y != wallHeight {
				t.Fatalf("perimeter %s has height %v, want %v", c.ID, c.Max.Y, wallHeight)
			}
		}
	}
	if perimeter != 4 {
		t.Fatalf("expected 4 perimeter walls, got %d", perimeter)
	}
}

func TestCompoundGenerationIsDeterministic(t *testing.T) {
	cfg := worldConfig{Seed: "layout", InteriorWalls: 6, Doors: 2, Debris: 8}.normalized()

	a := generateCompound(cfg)
	b := generateCompound(cfg)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed must produce identical layouts")
	}
}

func TestDifferentSeedsProduceDifferentLayouts(t *testing.T) {
	base := worldConfig{InteriorWalls: 6, Debris: 8}
	cfgA := base
	cfgA.Seed = "alpha"
	cfgB := base
	cfgB.Seed = "beta"

	a := generateCompound(cfgA.normalized())
	b := generateCompound(cfgB.normalized())

	if reflect.DeepEqual(a, b) {
		t.Fatalf("different seeds produced identical layouts")
	}
}

func TestInteriorWallsKeepSpawnAreaClear(t *testing.T) {
	cfg := worldConfig{Seed: "spawn-clear", InteriorWalls: 12}.normalized()
	colliders := generateCompound(cfg)

	centerX, centerZ := cfg.Width/2, cfg.Depth/2
	for _, c := range colliders {
		if !strings.HasPrefix(c.ID, "wall-") {
			continue
		}
		if c.CircleOverlapsPlanar(centerX, centerZ, spawnSafeRadius) {
			t.Fatalf("wall %s intrudes on the spawn area", c.ID)
		}
	}
}

func TestDebrisIsNeverBlocking(t *testing.T) {
	cfg := worldConfig{Seed: "debris", Debris: 10}.normalized()
	colliders := generateCompound(cfg)

	found := 0
	for _, c := range colliders {
		if c.Kind != geo.KindDebris {
			continue
		}
		found++
		if c.Kind.Blocking() {
			t.Fatalf("debris %s must not block", c.ID)
		}
		if c.Max.Y > wallHeight {
			t.Fatalf("debris %s taller than walls", c.ID)
		}
	}
	if found == 0 {
		t.Fatalf("expected debris in the layout")
	}
}

func TestDoorsAttachToInteriorWalls(t *testing.T) {
	cfg := worldConfig{Seed: "doors", InteriorWalls: 8, Doors: 3}.normalized()
	colliders := generateCompound(cfg)

	doors := 0
	for _, c := range colliders {
		if c.Kind != geo.KindDoor {
			continue
		}
		doors++
		if !c.Kind.Blocking() {
			t.Fatalf("door %s must block movement", c.ID)
		}
	}
	if doors != 3 {
		t.Fatalf("expected 3 doors, got %d", doors)
	}
}
