package main

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// deterministicSeed folds the root seed and a subsystem label into a
// stable 64-bit seed so each subsystem draws from its own stream.
func deterministicSeed(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func newSubsystemRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeed(rootSeed, label)))
}

func (w *World) randomFloat() float64 {
	if w != nil && w.rng != nil {
		return w.rng.Float64()
	}
	return rand.Float64()
}

func (w *World) randomAngle() float64 {
	return w.randomFloat() * 2 * math.Pi
}

func (w *World) randomDistance(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + w.randomFloat()*(max-min)
}
