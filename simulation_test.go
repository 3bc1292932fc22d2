package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ai "scraphunt/server/internal/ai"
	geo "scraphunt/server/internal/geo"
	"scraphunt/server/logging"
)

// testPerimeter seals the fixture arena the way the compound perimeter does,
// so unobstructed sight rays terminate on geometry instead of escaping.
func testPerimeter() []geo.Collider {
	return []geo.Collider{
		{ID: "wall-north", Kind: geo.KindWall, Min: geo.Vec3{X: -60, Y: 0, Z: -60}, Max: geo.Vec3{X: 60, Y: wallHeight, Z: -59.5}},
		{ID: "wall-south", Kind: geo.KindWall, Min: geo.Vec3{X: -60, Y: 0, Z: 59.5}, Max: geo.Vec3{X: 60, Y: wallHeight, Z: 60}},
		{ID: "wall-west", Kind: geo.KindWall, Min: geo.Vec3{X: -60, Y: 0, Z: -60}, Max: geo.Vec3{X: -59.5, Y: wallHeight, Z: 60}},
		{ID: "wall-east", Kind: geo.KindWall, Min: geo.Vec3{X: 59.5, Y: 0, Z: -60}, Max: geo.Vec3{X: 60, Y: wallHeight, Z: 60}},
	}
}

func newSimFixture(t *testing.T) *World {
	t.Helper()
	w := &World{
		agents:    make(map[string]*agentState),
		library:   ai.GlobalLibrary,
		config:    defaultWorldConfig(),
		rng:       newSubsystemRNG("sim-test", "world"),
		seed:      "sim-test",
		publisher: logging.NopPublisher(),
		colliders: geo.NewColliderSet(testPerimeter()),
	}
	w.player = newPlayerState("hunter-1", geo.Vec3{X: 0, Z: 0})
	return w
}

func addSentinel(t *testing.T, w *World, id string, x, z float64) *agentState {
	t.Helper()
	profile := ai.GlobalLibrary.ProfileForArchetype("sentinel")
	if profile == nil {
		t.Fatalf("sentinel profile missing")
	}
	agent := &agentState{
		body: body{
			X:         x,
			Z:         z,
			Radius:    agentRadius,
			Height:    agentHeight,
			MoveSpeed: profile.MoveSpeed,
		},
		ID:        id,
		Archetype: profile.Archetype,
		Health:    profile.MaxHealth,
		MaxHealth: profile.MaxHealth,
		State:     ai.StateIdle,
	}
	w.agents[id] = agent
	return agent
}

func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestStepDrivesIdleAgentIntoChase(t *testing.T) {
	w := newSimFixture(t)
	agent := addSentinel(t, w, "agent-1", 10, 0)

	w.Step(1, time.Now(), 1.0/float64(tickRate), nil)

	if agent.State != ai.StateChasing {
		t.Fatalf("expected chasing, got %v", agent.State)
	}
	if agent.X >= 10 {
		t.Fatalf("expected movement toward hunter, X=%v", agent.X)
	}

	events := w.DrainEvents()
	changes := eventsOfKind(events, EventStateChanged)
	if len(changes) != 1 {
		t.Fatalf("expected one stateChanged event, got %d", len(changes))
	}
	if changes[0].Payload["from"] != "idle" || changes[0].Payload["to"] != "chasing" {
		t.Fatalf("unexpected transition payload: %+v", changes[0].Payload)
	}
	if changes[0].TraceID == "" {
		t.Fatalf("expected trace id on event")
	}
	cues := eventsOfKind(events, EventCue)
	if len(cues) != 1 || cues[0].Payload["cue"] != ai.CueDetect {
		t.Fatalf("expected detect cue, got %+v", cues)
	}
}

func writeProfileFile(t *testing.T, dir, name, payload string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(payload), 0o644); err != nil {
		t.Fatalf("write profile %s: %v", name, err)
	}
}

func TestReloadedLibraryResolvesByArchetype(t *testing.T) {
	w := newSimFixture(t)
	agent := addSentinel(t, w, "agent-1", 10, 0)

	// The reload reorders compile-time profile slots: two foreign archetypes
	// with huge detection ranges sort ahead of a near-blind sentinel.
	dir := t.TempDir()
	writeProfileFile(t, dir, "aardvark.json", `{
		"archetype": "aardvark", "move_speed": 3, "max_health": 100,
		"detection_range": 50, "attack_range": 5,
		"flee_health_threshold": 0.1, "hide_chance": 0.2,
		"search_duration_seconds": 5
	}`)
	writeProfileFile(t, dir, "bobcat.json", `{
		"archetype": "bobcat", "move_speed": 3, "max_health": 100,
		"detection_range": 50, "attack_range": 5,
		"flee_health_threshold": 0.1, "hide_chance": 0.2,
		"search_duration_seconds": 5
	}`)
	writeProfileFile(t, dir, "sentinel.json", `{
		"archetype": "sentinel", "move_speed": 3, "max_health": 100,
		"detection_range": 1, "attack_range": 0.5,
		"flee_health_threshold": 0.1, "hide_chance": 0.2,
		"search_duration_seconds": 5
	}`)
	lib, err := ai.LoadLibraryDir(dir)
	if err != nil {
		t.Fatalf("load profile dir: %v", err)
	}
	w.ReplaceProfileLibrary(lib)

	w.Step(1, time.Now(), 1.0/float64(tickRate), nil)
	if agent.State != ai.StateIdle {
		t.Fatalf("agent adopted a foreign profile after reload, state %v", agent.State)
	}
	if agent.X != 10 || agent.Z != 0 {
		t.Fatalf("near-blind sentinel must hold position, got (%v, %v)", agent.X, agent.Z)
	}

	// Dropping the archetype entirely leaves its agents inert, not remapped.
	dir2 := t.TempDir()
	writeProfileFile(t, dir2, "aardvark.json", `{
		"archetype": "aardvark", "move_speed": 3, "max_health": 100,
		"detection_range": 50, "attack_range": 5,
		"flee_health_threshold": 0.1, "hide_chance": 0.2,
		"search_duration_seconds": 5
	}`)
	lib2, err := ai.LoadLibraryDir(dir2)
	if err != nil {
		t.Fatalf("load second profile dir: %v", err)
	}
	w.ReplaceProfileLibrary(lib2)

	w.Step(2, time.Now(), 1.0/float64(tickRate), nil)
	if agent.State != ai.StateIdle || agent.X != 10 || agent.Z != 0 {
		t.Fatalf("agent without a profile must stay inert, state %v at (%v, %v)", agent.State, agent.X, agent.Z)
	}
}

func TestApplyDamageArmsHideOverride(t *testing.T) {
	w := newSimFixture(t)
	agent := addSentinel(t, w, "agent-1", 30, 30)

	w.applyDamage("agent-1", 25)

	if agent.Health != 75 {
		t.Fatalf("expected health 75, got %v", agent.Health)
	}
	if !agent.RecentlyDamaged {
		t.Fatalf("expected damage flag armed")
	}

	events := eventsOfKind(w.DrainEvents(), EventHealthUpdated)
	if len(events) != 1 || events[0].Payload["targetId"] != "agent-1" {
		t.Fatalf("expected healthUpdated for agent-1, got %+v", events)
	}
}

func TestDamageToUnknownTargetIsIgnored(t *testing.T) {
	w := newSimFixture(t)
	addSentinel(t, w, "agent-1", 30, 30)

	w.applyDamage("agent-99", 25)

	if events := w.DrainEvents(); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestDestroyedAgentIsReapedAndReported(t *testing.T) {
	w := newSimFixture(t)
	addSentinel(t, w, "agent-1", 30, 30)

	w.applyDamage("agent-1", 1000)
	w.Step(1, time.Now(), 1.0/float64(tickRate), nil)

	if w.AgentsRemaining() != 0 {
		t.Fatalf("expected agent reaped, %d remain", w.AgentsRemaining())
	}
	if !w.Concluded() {
		t.Fatalf("expected hunt concluded after last agent")
	}

	events := w.DrainEvents()
	destroyed := eventsOfKind(events, EventAgentDestroyed)
	if len(destroyed) != 1 || destroyed[0].Payload["agentId"] != "agent-1" {
		t.Fatalf("expected agentDestroyed for agent-1, got %+v", destroyed)
	}
	cleared := eventsOfKind(events, EventAllTargetsNeutralized)
	if len(cleared) != 1 {
		t.Fatalf("expected allTargetsNeutralized once, got %d", len(cleared))
	}

	// healthUpdated precedes the destruction report in the journal.
	healthIdx, destroyedIdx := -1, -1
	for i, e := range events {
		switch e.Kind {
		case EventHealthUpdated:
			healthIdx = i
		case EventAgentDestroyed:
			destroyedIdx = i
		}
	}
	if healthIdx == -1 || destroyedIdx == -1 || healthIdx > destroyedIdx {
		t.Fatalf("expected healthUpdated before agentDestroyed, order %d/%d", healthIdx, destroyedIdx)
	}
}

func TestAllTargetsNeutralizedFiresOnce(t *testing.T) {
	w := newSimFixture(t)
	addSentinel(t, w, "agent-1", 30, 30)
	addSentinel(t, w, "agent-2", 40, 40)

	w.applyDamage("agent-1", 1000)
	w.Step(1, time.Now(), 1.0/float64(tickRate), nil)
	if len(eventsOfKind(w.DrainEvents(), EventAllTargetsNeutralized)) != 0 {
		t.Fatalf("hunt should not conclude with agents remaining")
	}

	w.applyDamage("agent-2", 1000)
	w.Step(2, time.Now(), 1.0/float64(tickRate), nil)
	if len(eventsOfKind(w.DrainEvents(), EventAllTargetsNeutralized)) != 1 {
		t.Fatalf("expected conclusion after last agent")
	}

	w.Step(3, time.Now(), 1.0/float64(tickRate), nil)
	if len(eventsOfKind(w.DrainEvents(), EventAllTargetsNeutralized)) != 0 {
		t.Fatalf("conclusion must not repeat")
	}
}

func TestCaptureRequiresWeakenedAgent(t *testing.T) {
	w := newSimFixture(t)
	agent := addSentinel(t, w, "agent-1", 30, 30)

	if w.attemptCapture("agent-1") {
		t.Fatalf("capture must fail at full health")
	}
	if w.AgentsRemaining() != 1 {
		t.Fatalf("failed capture must not remove the agent")
	}

	agent.Health = agent.MaxHealth * captureHealthFraction * 0.9
	if !w.attemptCapture("agent-1") {
		t.Fatalf("capture should succeed below the threshold")
	}
	if w.AgentsRemaining() != 0 {
		t.Fatalf("captured agent should leave the simulation")
	}

	destroyed := eventsOfKind(w.DrainEvents(), EventAgentDestroyed)
	if len(destroyed) != 1 || destroyed[0].Payload["reason"] != "captured" {
		t.Fatalf("expected captured reason, got %+v", destroyed)
	}
}

func TestMoveCommandCoalescesIntoIntent(t *testing.T) {
	w := newSimFixture(t)

	w.Step(1, time.Now(), 1.0/float64(tickRate), []Command{{
		Type: CommandMove,
		Move: &MoveCommand{DX: 3, DZ: 4, Sprint: true},
	}})

	// Oversized vectors are normalized before they reach locomotion.
	if w.player.intent.MoveX != 0.6 || w.player.intent.MoveZ != 0.8 {
		t.Fatalf("expected normalized intent, got (%v, %v)", w.player.intent.MoveX, w.player.intent.MoveZ)
	}
	if !w.player.intent.Sprint {
		t.Fatalf("expected sprint intent retained")
	}
	if w.player.X <= 0 {
		t.Fatalf("expected player displaced this tick, X=%v", w.player.X)
	}
}

func TestStepRecordsSweepRaysInTelemetry(t *testing.T) {
	w := newSimFixture(t)
	w.telemetry = newTelemetryCounters()
	addSentinel(t, w, "agent-1", 10, 0)

	w.Step(1, time.Now(), 1.0/float64(tickRate), []Command{{
		Type: CommandMove,
		Move: &MoveCommand{DX: 1},
	}})

	if got := w.telemetry.Snapshot().Raycasts; got == 0 {
		t.Fatalf("expected sweep rays recorded in telemetry")
	}
}

func TestSnapshotSortsAgentsByID(t *testing.T) {
	w := newSimFixture(t)
	addSentinel(t, w, "agent-2", 40, 40)
	addSentinel(t, w, "agent-1", 30, 30)

	_, agents := w.Snapshot()
	if len(agents) != 2 || agents[0].ID != "agent-1" || agents[1].ID != "agent-2" {
		t.Fatalf("expected sorted snapshot, got %+v", agents)
	}
}

func TestNewWorldSpawnsConfiguredAgents(t *testing.T) {
	cfg := worldConfig{
		Seed:   "spawn-test",
		Width:  60,
		Depth:  60,
		Agents: map[string]int{"sentinel": 2, "lurker": 1},
	}
	w := newWorld(cfg, logging.NopPublisher())

	if w.AgentsRemaining() != 3 {
		t.Fatalf("expected 3 agents, got %d", w.AgentsRemaining())
	}
	centerX, centerZ := cfg.Width/2, cfg.Depth/2
	for _, agent := range w.agents {
		if geo.PlanarDistance(agent.position(), geo.Vec3{X: centerX, Z: centerZ}) < spawnSafeRadius {
			t.Fatalf("agent %s spawned inside the safe radius", agent.ID)
		}
	}
}

func TestDeterministicWorldsMatch(t *testing.T) {
	cfg := worldConfig{Seed: "determinism", Width: 60, Depth: 60, Agents: map[string]int{"sentinel": 2}}

	a := newWorld(cfg, logging.NopPublisher())
	b := newWorld(cfg, logging.NopPublisher())

	_, agentsA := a.Snapshot()
	_, agentsB := b.Snapshot()
	if len(agentsA) != len(agentsB) {
		t.Fatalf("agent counts differ: %d vs %d", len(agentsA), len(agentsB))
	}
	for i := range agentsA {
		if agentsA[i] != agentsB[i] {
			t.Fatalf("agent %d differs: %+v vs %+v", i, agentsA[i], agentsB[i])
		}
	}
}
