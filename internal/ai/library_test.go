package ai

import (
	"strings"
	"testing"
)

func TestEmbeddedLibraryLoads(t *testing.T) {
	lib, err := LoadLibrary()
	if err != nil {
		t.Fatalf("load embedded library: %v", err)
	}
	for _, archetype := range []string{"sentinel", "skirmisher", "lurker"} {
		profile := lib.ProfileForArchetype(archetype)
		if profile == nil {
			t.Fatalf("missing embedded profile %q", archetype)
		}
		if profile.Detection <= 0 || profile.AttackRange <= 0 {
			t.Fatalf("%q: ranges not compiled", archetype)
		}
		if lib.ProfileByID(profile.ID()) != profile {
			t.Fatalf("%q: ID lookup does not round-trip", archetype)
		}
	}
}

func TestProfileLookupIsCaseInsensitive(t *testing.T) {
	if GlobalLibrary.ProfileForArchetype("  Sentinel ") == nil {
		t.Fatalf("archetype lookup must trim and lowercase")
	}
}

func TestCompileRejectsUnknownStateWeight(t *testing.T) {
	lib := newLibrary()
	err := lib.addProfile("bad.json", []byte(`{
		"archetype": "bad",
		"move_speed": 3,
		"max_health": 50,
		"detection_range": 10,
		"attack_range": 4,
		"flee_health_threshold": 0.3,
		"hide_chance": 0.5,
		"search_duration_seconds": 5,
		"state_weights": {"ambushing": 0.5}
	}`))
	if err == nil || !strings.Contains(err.Error(), "unknown state") {
		t.Fatalf("expected unknown state error, got %v", err)
	}
}

func TestCompileRejectsOutOfRangeValues(t *testing.T) {
	cases := map[string]string{
		"attack beyond detection": `{
			"archetype": "bad", "move_speed": 3, "max_health": 50,
			"detection_range": 10, "attack_range": 12,
			"flee_health_threshold": 0.3, "hide_chance": 0.5,
			"search_duration_seconds": 5
		}`,
		"weight above one": `{
			"archetype": "bad", "move_speed": 3, "max_health": 50,
			"detection_range": 10, "attack_range": 4,
			"flee_health_threshold": 0.3, "hide_chance": 0.5,
			"search_duration_seconds": 5,
			"state_weights": {"fleeing": 1.5}
		}`,
		"negative hide chance": `{
			"archetype": "bad", "move_speed": 3, "max_health": 50,
			"detection_range": 10, "attack_range": 4,
			"flee_health_threshold": 0.3, "hide_chance": -0.1,
			"search_duration_seconds": 5
		}`,
	}
	for name, payload := range cases {
		lib := newLibrary()
		if err := lib.addProfile("bad.json", []byte(payload)); err == nil {
			t.Fatalf("%s: expected compile error", name)
		}
	}
}

func TestDuplicateArchetypeRejected(t *testing.T) {
	payload := []byte(`{
		"archetype": "twin", "move_speed": 3, "max_health": 50,
		"detection_range": 10, "attack_range": 4,
		"flee_health_threshold": 0.3, "hide_chance": 0.5,
		"search_duration_seconds": 5
	}`)
	lib := newLibrary()
	if err := lib.addProfile("a.json", payload); err != nil {
		t.Fatalf("first profile should compile: %v", err)
	}
	if err := lib.addProfile("b.json", payload); err == nil {
		t.Fatalf("duplicate archetype must be rejected")
	}
}
