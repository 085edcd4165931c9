package admin

import "fmt"

// Action is the operation the modal is set up for.
type Action int

const (
	ActionCreate Action = iota
	ActionView
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionView:
		return "view"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Valid reports whether a is one of the declared actions.
func (a Action) Valid() bool {
	return a >= ActionCreate && a <= ActionDelete
}

// TargetsPost reports whether the action works on an existing post id.
func (a Action) TargetsPost() bool {
	return a == ActionView || a == ActionUpdate || a == ActionDelete
}

// ParseAction converts a name like "update" into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "create":
		return ActionCreate, nil
	case "view":
		return ActionView, nil
	case "update", "edit":
		return ActionUpdate, nil
	case "delete":
		return ActionDelete, nil
	default:
		return ActionCreate, fmt.Errorf("unknown action %q", s)
	}
}
