package admin

import "github.com/marcus/postadmin/internal/models"

// Mutation identifies which write a MutationSettledMsg belongs to.
type Mutation int

const (
	MutationCreate Mutation = iota
	MutationUpdate
	MutationDelete
)

func (m Mutation) String() string {
	switch m {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// SuccessMessage is the notification text shown when the mutation succeeds.
func (m Mutation) SuccessMessage() string {
	switch m {
	case MutationCreate:
		return "Create successfully"
	case MutationUpdate:
		return "Update successfully"
	case MutationDelete:
		return "Delete successfully"
	default:
		return "Done"
	}
}

// PostFetchedMsg carries the result of loading the selected post.
type PostFetchedMsg struct {
	ID   string
	Post *models.Post
	Err  error
}

// MutationSettledMsg is delivered once a create, update or delete finishes.
type MutationSettledMsg struct {
	Mutation Mutation
	ID       string
	Post     *models.Post // nil for deletes and failures
	Err      error
}
