// Package workflow defines the modal lifecycle state machine used by the
// admin screen: which phases exist and which events may move between them.
package workflow

// Phase is the lifecycle stage of the admin modal.
type Phase int

const (
	PhaseIdle       Phase = iota // modal closed
	PhaseOpen                    // modal shown, nothing in flight
	PhaseSubmitting              // modal shown, at least one mutation in flight
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOpen:
		return "open"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Event is something that moves the modal between phases.
type Event string

const (
	EventOpen   Event = "open"   // user picked an action
	EventClose  Event = "close"  // user dismissed the modal
	EventSubmit Event = "submit" // a mutation started
	EventSettle Event = "settle" // a mutation finished, success or failure
)

// Machine validates and applies phase transitions.
type Machine struct {
	table map[Phase]map[Event]Phase
}

// DefaultMachine returns the machine built from AllTransitions.
func DefaultMachine() *Machine {
	m := &Machine{table: make(map[Phase]map[Event]Phase)}
	for _, t := range AllTransitions() {
		if m.table[t.From] == nil {
			m.table[t.From] = make(map[Event]Phase)
		}
		m.table[t.From][t.Event] = t.To
	}
	return m
}

// IsValidTransition reports whether ev is allowed in phase from.
func (m *Machine) IsValidTransition(from Phase, ev Event) bool {
	_, ok := m.table[from][ev]
	return ok
}

// Apply returns the phase reached by firing ev in from.
func (m *Machine) Apply(from Phase, ev Event) (Phase, error) {
	to, ok := m.table[from][ev]
	if !ok {
		return from, &TransitionError{From: from, Event: ev, Reason: "not allowed"}
	}
	return to, nil
}
