package main

import (
	"math"
	"time"
)

const (
	writeWait         = 10 * time.Second
	tickRate          = 15 // ticks per second (10–20 Hz)
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	// Compound dimensions in world units (meters). X spans width, Z depth.
	defaultWorldWidth = 120.0
	defaultWorldDepth = 90.0
	wallHeight        = 3.0
	wallThickness     = 0.5
	spawnSafeRadius   = 8.0
	spawnMargin       = 3.0

	// Locomotion. Displacement = direction * speed * multiplier * dt * moveScale.
	moveScale        = 1.0
	clearanceFactor  = 1.2
	sweepRayCount    = 8
	sweepArc         = math.Pi / 2
	negligibleIntent = 0.1

	// Player kinematics.
	playerMoveSpeed  = 5.0
	playerMaxHealth  = 100.0
	playerRadius     = 0.45
	playerHeight     = 1.8
	playerStandingY  = 1.7 // camera/eye height while grounded
	gravityAccel     = -24.0
	jumpImpulse      = 8.5
	sprintMultiplier = 1.6

	staminaMax        = 100.0
	sprintDrainRate   = 22.0 // per second while sprinting
	staminaRegenRate  = 14.0 // per second otherwise
	footstepInterval  = 0.5
	footstepSprintInt = 0.34

	// Agents.
	agentRadius    = 0.5
	agentHeight    = 2.0
	agentEyeHeight = 1.6

	// Capture succeeds only against a weakened agent.
	captureHealthFraction = 0.35
)
