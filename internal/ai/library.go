package ai

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed configs/*.json
var embeddedConfigs embed.FS

// GlobalLibrary provides the default authoring profiles bundled with the
// server.
var GlobalLibrary = MustLoadLibrary()

// Library stores compiled behavior profiles indexed by archetype name and
// numeric ID.
type Library struct {
	profilesByID   map[uint16]*Profile
	profilesByName map[string]*Profile
	nextID         uint16
}

// Profile is an immutable per-archetype behavior configuration compiled from
// an authoring file.
type Profile struct {
	id          uint16
	Archetype   string
	MoveSpeed   float64
	MaxHealth   float64
	Detection   float64
	AttackRange float64
	FleeHealth  float64
	HideChance  float64
	SearchSecs  float64
	weights     [stateCount]float64
}

// ID exposes the numeric identifier assigned when the profile was compiled.
func (p *Profile) ID() uint16 {
	if p == nil {
		return 0
	}
	return p.id
}

// Weight returns the transition weight configured for the given state. The
// weight is the final draw probability for probabilistic transitions into
// that state, optionally pre-multiplied by a contextual chance such as
// HideChance.
func (p *Profile) Weight(s State) float64 {
	if p == nil || !s.Valid() {
		return 0
	}
	return p.weights[s]
}

// AuthoringProfile models the JSON contract for designer-authored behavior
// profiles. It is shared with the schema generator so tooling can validate
// authored files.
type AuthoringProfile struct {
	Archetype    string             `json:"archetype" jsonschema:"title=Archetype name,pattern=^[a-z0-9\\-]+$,description=Agent archetype this profile applies to"`
	MoveSpeed    float64            `json:"move_speed" jsonschema:"description=Base locomotion speed in units per second"`
	MaxHealth    float64            `json:"max_health" jsonschema:"description=Spawn health for agents of this archetype"`
	Detection    float64            `json:"detection_range" jsonschema:"description=Maximum distance at which the target can be perceived"`
	AttackRange  float64            `json:"attack_range" jsonschema:"description=Distance within which the agent holds position and shoots"`
	FleeHealth   float64            `json:"flee_health_threshold" jsonschema:"description=Health fraction below which the flee override may fire"`
	HideChance   float64            `json:"hide_chance" jsonschema:"description=Contextual chance multiplied into the hiding weight after damage"`
	SearchSecs   float64            `json:"search_duration_seconds" jsonschema:"description=Seconds spent searching before giving up"`
	StateWeights map[string]float64 `json:"state_weights" jsonschema:"description=Draw probability per state for probabilistic transitions"`
}

// MustLoadLibrary loads the embedded authoring profiles or panics on failure.
func MustLoadLibrary() *Library {
	lib, err := LoadLibrary()
	if err != nil {
		panic(fmt.Errorf("ai: load library: %w", err))
	}
	return lib
}

// LoadLibrary compiles the embedded authoring profiles into a runtime
// library instance.
func LoadLibrary() (*Library, error) {
	entries, err := fs.ReadDir(embeddedConfigs, "configs")
	if err != nil {
		return nil, fmt.Errorf("ai: read configs: %w", err)
	}
	lib := newLibrary()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fs.ReadFile(embeddedConfigs, "configs/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("ai: read %q: %w", entry.Name(), err)
		}
		if err := lib.addProfile(entry.Name(), data); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// LoadLibraryDir compiles authoring profiles from a directory on disk. Used
// by the profile hot-reload path; the returned library replaces the active
// one strictly between ticks.
func LoadLibraryDir(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai: read profile dir: %w", err)
	}
	lib := newLibrary()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai: read %q: %w", entry.Name(), err)
		}
		if err := lib.addProfile(entry.Name(), data); err != nil {
			return nil, err
		}
	}
	if len(lib.profilesByName) == 0 {
		return nil, fmt.Errorf("ai: no profiles in %q", dir)
	}
	return lib, nil
}

func newLibrary() *Library {
	return &Library{
		profilesByID:   make(map[uint16]*Profile),
		profilesByName: make(map[string]*Profile),
	}
}

func (l *Library) addProfile(name string, data []byte) error {
	var authoring AuthoringProfile
	if err := json.Unmarshal(data, &authoring); err != nil {
		return fmt.Errorf("ai: decode %q: %w", name, err)
	}
	compiled, err := compileProfile(l.allocateID(), authoring)
	if err != nil {
		return fmt.Errorf("ai: compile %q: %w", name, err)
	}
	key := strings.TrimSpace(strings.ToLower(authoring.Archetype))
	if _, exists := l.profilesByName[key]; exists {
		return fmt.Errorf("ai: duplicate archetype %q", authoring.Archetype)
	}
	l.profilesByID[compiled.id] = compiled
	l.profilesByName[key] = compiled
	return nil
}

func (l *Library) allocateID() uint16 {
	l.nextID++
	if l.nextID == 0 {
		l.nextID++
	}
	return l.nextID
}

// ProfileForArchetype retrieves the compiled profile for an archetype name.
func (l *Library) ProfileForArchetype(name string) *Profile {
	if l == nil {
		return nil
	}
	return l.profilesByName[strings.TrimSpace(strings.ToLower(name))]
}

// ProfileByID retrieves the compiled profile for a numeric ID.
func (l *Library) ProfileByID(id uint16) *Profile {
	if l == nil {
		return nil
	}
	return l.profilesByID[id]
}

// Archetypes lists the archetype names in the library.
func (l *Library) Archetypes() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.profilesByName))
	for name := range l.profilesByName {
		names = append(names, name)
	}
	return names
}

func compileProfile(id uint16, authoring AuthoringProfile) (*Profile, error) {
	archetype := strings.TrimSpace(authoring.Archetype)
	if archetype == "" {
		return nil, fmt.Errorf("missing archetype")
	}
	if authoring.Detection <= 0 {
		return nil, fmt.Errorf("detection_range must be positive")
	}
	if authoring.AttackRange <= 0 || authoring.AttackRange > authoring.Detection {
		return nil, fmt.Errorf("attack_range must be positive and within detection_range")
	}
	if authoring.FleeHealth < 0 || authoring.FleeHealth > 1 {
		return nil, fmt.Errorf("flee_health_threshold must be within [0, 1]")
	}
	if authoring.HideChance < 0 || authoring.HideChance > 1 {
		return nil, fmt.Errorf("hide_chance must be within [0, 1]")
	}
	if authoring.SearchSecs <= 0 {
		return nil, fmt.Errorf("search_duration_seconds must be positive")
	}
	if authoring.MoveSpeed <= 0 {
		return nil, fmt.Errorf("move_speed must be positive")
	}
	if authoring.MaxHealth <= 0 {
		return nil, fmt.Errorf("max_health must be positive")
	}

	compiled := &Profile{
		id:          id,
		Archetype:   archetype,
		MoveSpeed:   authoring.MoveSpeed,
		MaxHealth:   authoring.MaxHealth,
		Detection:   authoring.Detection,
		AttackRange: authoring.AttackRange,
		FleeHealth:  authoring.FleeHealth,
		HideChance:  authoring.HideChance,
		SearchSecs:  authoring.SearchSecs,
	}
	for name, weight := range authoring.StateWeights {
		state, err := ParseState(strings.TrimSpace(strings.ToLower(name)))
		if err != nil {
			return nil, fmt.Errorf("state_weights: %w", err)
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("state_weights[%s] must be within [0, 1]", name)
		}
		compiled.weights[state] = weight
	}
	return compiled, nil
}
