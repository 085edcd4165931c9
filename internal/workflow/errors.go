package workflow

import "fmt"

// TransitionError represents an event that is not allowed in the current phase
type TransitionError struct {
	From   Phase
	Event  Event
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s: %s", e.Event, e.From, e.Reason)
}
