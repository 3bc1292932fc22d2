package ai

import "fmt"

// State enumerates the behavior states an agent can occupy. An agent is in
// exactly one state at a time.
type State uint8

const (
	StateIdle State = iota
	StatePatrolling
	StateSearching
	StateChasing
	StateShooting
	StateHiding
	StateFleeing

	stateCount = int(StateFleeing) + 1
)

var stateNames = [stateCount]string{
	"idle",
	"patrolling",
	"searching",
	"chasing",
	"shooting",
	"hiding",
	"fleeing",
}

// String returns the wire name used in configs, events, and logs.
func (s State) String() string {
	if int(s) >= stateCount {
		return "unknown"
	}
	return stateNames[s]
}

// Valid reports whether the value is a member of the defined enumeration.
func (s State) Valid() bool {
	return int(s) < stateCount
}

// ParseState resolves a config name back to a state value.
func ParseState(name string) (State, error) {
	for i, candidate := range stateNames {
		if candidate == name {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}
