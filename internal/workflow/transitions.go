package workflow

// Transition is a single edge of the modal state machine.
type Transition struct {
	From  Phase
	Event Event
	To    Phase
}

// AllTransitions returns all valid phase transitions
// This defines the complete modal state machine
func AllTransitions() []*Transition {
	return []*Transition{
		// From idle
		{From: PhaseIdle, Event: EventOpen, To: PhaseOpen},
		{From: PhaseIdle, Event: EventClose, To: PhaseIdle},
		// A mutation started before the modal was closed can still land here.
		{From: PhaseIdle, Event: EventSettle, To: PhaseIdle},

		// From open
		{From: PhaseOpen, Event: EventOpen, To: PhaseOpen},
		{From: PhaseOpen, Event: EventClose, To: PhaseIdle},
		{From: PhaseOpen, Event: EventSubmit, To: PhaseSubmitting},
		{From: PhaseOpen, Event: EventSettle, To: PhaseIdle},

		// From submitting. Overlapping mutations are allowed and the last
		// one to settle decides the final state.
		{From: PhaseSubmitting, Event: EventOpen, To: PhaseSubmitting},
		{From: PhaseSubmitting, Event: EventSubmit, To: PhaseSubmitting},
		{From: PhaseSubmitting, Event: EventClose, To: PhaseIdle},
		{From: PhaseSubmitting, Event: EventSettle, To: PhaseIdle},
	}
}

// GetEventsFrom returns all events accepted in the given phase
func GetEventsFrom(p Phase) []Event {
	var events []Event
	for _, t := range AllTransitions() {
		if t.From == p {
			events = append(events, t.Event)
		}
	}
	return events
}

// AllPhases returns all phases in lifecycle order
func AllPhases() []Phase {
	return []Phase{PhaseIdle, PhaseOpen, PhaseSubmitting}
}
