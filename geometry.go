package main

import (
	"fmt"
	"math/rand"

	geo "scraphunt/server/internal/geo"
)

const (
	interiorWallMinLen = 6.0
	interiorWallMaxLen = 18.0
	doorWidth          = 2.5
	doorHeight         = 2.2
	debrisMinSize      = 0.8
	debrisMaxSize      = 2.2
	debrisHeight       = 0.6
)

// generateCompound lays out the play area: a walled perimeter, randomly
// placed interior walls, door gaps, and non-blocking debris. Placement is
// deterministic for a given seed.
func generateCompound(cfg worldConfig) []geo.Collider {
	width := cfg.Width
	depth := cfg.Depth
	colliders := make([]geo.Collider, 0, 4+cfg.InteriorWalls+cfg.Doors+cfg.Debris)

	// Perimeter walls enclose the compound.
	colliders = append(colliders,
		wallCollider("perimeter-north", 0, -wallThickness, width, 0),
		wallCollider("perimeter-south", 0, depth, width, depth+wallThickness),
		wallCollider("perimeter-west", -wallThickness, 0, 0, depth),
		wallCollider("perimeter-east", width, 0, width+wallThickness, depth),
	)

	centerX := width / 2
	centerZ := depth / 2

	wallRNG := newSubsystemRNG(cfg.Seed, "compound.walls")
	interior := generateInteriorWalls(cfg, wallRNG, centerX, centerZ)
	colliders = append(colliders, interior...)

	doorRNG := newSubsystemRNG(cfg.Seed, "compound.doors")
	colliders = append(colliders, generateDoors(cfg, doorRNG, interior)...)

	debrisRNG := newSubsystemRNG(cfg.Seed, "compound.debris")
	colliders = append(colliders, generateDebris(cfg, debrisRNG, colliders, centerX, centerZ)...)

	return colliders
}

func generateInteriorWalls(cfg worldConfig, rng *rand.Rand, centerX, centerZ float64) []geo.Collider {
	if cfg.InteriorWalls <= 0 || rng == nil {
		return nil
	}

	walls := make([]geo.Collider, 0, cfg.InteriorWalls)
	attempts := 0
	maxAttempts := cfg.InteriorWalls * 20

	for len(walls) < cfg.InteriorWalls && attempts < maxAttempts {
		attempts++

		length := interiorWallMinLen + rng.Float64()*(interiorWallMaxLen-interiorWallMinLen)
		horizontal := rng.Float64() < 0.5

		spanX, spanZ := length, wallThickness
		if !horizontal {
			spanX, spanZ = wallThickness, length
		}

		maxX := cfg.Width - spawnMargin - spanX
		maxZ := cfg.Depth - spawnMargin - spanZ
		if maxX <= spawnMargin || maxZ <= spawnMargin {
			break
		}

		x := spawnMargin + rng.Float64()*(maxX-spawnMargin)
		z := spawnMargin + rng.Float64()*(maxZ-spawnMargin)

		candidate := wallCollider(fmt.Sprintf("wall-%d", len(walls)+1), x, z, x+spanX, z+spanZ)

		// Keep the spawn area open.
		if candidate.CircleOverlapsPlanar(centerX, centerZ, spawnSafeRadius) {
			continue
		}

		overlaps := false
		for _, wall := range walls {
			if candidate.OverlapsPlanar(wall, playerRadius*2) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		walls = append(walls, candidate)
	}

	return walls
}

// generateDoors punches door colliders next to interior walls. Doors block
// movement like walls but are tagged separately so clients can render and
// eventually animate them.
func generateDoors(cfg worldConfig, rng *rand.Rand, walls []geo.Collider) []geo.Collider {
	if cfg.Doors <= 0 || rng == nil || len(walls) == 0 {
		return nil
	}

	doors := make([]geo.Collider, 0, cfg.Doors)
	for i := 0; i < cfg.Doors; i++ {
		wall := walls[rng.Intn(len(walls))]
		spanX := wall.Max.X - wall.Min.X
		horizontal := spanX > wall.Max.Z-wall.Min.Z

		var min, max geo.Vec3
		if horizontal {
			x := wall.Min.X + rng.Float64()*maxf(spanX-doorWidth, 0)
			min = geo.Vec3{X: x, Y: 0, Z: wall.Max.Z}
			max = geo.Vec3{X: x + doorWidth, Y: doorHeight, Z: wall.Max.Z + wallThickness}
		} else {
			spanZ := wall.Max.Z - wall.Min.Z
			z := wall.Min.Z + rng.Float64()*maxf(spanZ-doorWidth, 0)
			min = geo.Vec3{X: wall.Max.X, Y: 0, Z: z}
			max = geo.Vec3{X: wall.Max.X + wallThickness, Y: doorHeight, Z: z + doorWidth}
		}

		doors = append(doors, geo.Collider{
			ID:   fmt.Sprintf("door-%d", len(doors)+1),
			Kind: geo.KindDoor,
			Min:  min,
			Max:  max,
		})
	}
	return doors
}

// generateDebris scatters low scrap piles. Debris never blocks movement or
// sight, it exists for atmosphere and client audio cues.
func generateDebris(cfg worldConfig, rng *rand.Rand, existing []geo.Collider, centerX, centerZ float64) []geo.Collider {
	if cfg.Debris <= 0 || rng == nil {
		return nil
	}

	debris := make([]geo.Collider, 0, cfg.Debris)
	attempts := 0
	maxAttempts := cfg.Debris * 20

	for len(debris) < cfg.Debris && attempts < maxAttempts {
		attempts++

		size := debrisMinSize + rng.Float64()*(debrisMaxSize-debrisMinSize)
		maxX := cfg.Width - spawnMargin - size
		maxZ := cfg.Depth - spawnMargin - size
		if maxX <= spawnMargin || maxZ <= spawnMargin {
			break
		}

		x := spawnMargin + rng.Float64()*(maxX-spawnMargin)
		z := spawnMargin + rng.Float64()*(maxZ-spawnMargin)

		candidate := geo.Collider{
			ID:   fmt.Sprintf("debris-%d", len(debris)+1),
			Kind: geo.KindDebris,
			Min:  geo.Vec3{X: x, Y: 0, Z: z},
			Max:  geo.Vec3{X: x + size, Y: debrisHeight, Z: z + size},
		}

		if candidate.CircleOverlapsPlanar(centerX, centerZ, spawnSafeRadius) {
			continue
		}

		overlaps := false
		for _, other := range existing {
			if candidate.OverlapsPlanar(other, 0) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			for _, other := range debris {
				if candidate.OverlapsPlanar(other, 0) {
					overlaps = true
					break
				}
			}
		}
		if overlaps {
			continue
		}

		debris = append(debris, candidate)
	}

	return debris
}

func wallCollider(id string, minX, minZ, maxX, maxZ float64) geo.Collider {
	return geo.Collider{
		ID:   id,
		Kind: geo.KindWall,
		Min:  geo.Vec3{X: minX, Y: 0, Z: minZ},
		Max:  geo.Vec3{X: maxX, Y: wallHeight, Z: maxZ},
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
