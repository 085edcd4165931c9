package admin

import (
	"fmt"

	"github.com/marcus/postadmin/internal/models"
)

// FormKind selects which body the modal renders.
type FormKind int

const (
	FormCreate FormKind = iota // empty post form, submit -> Submit
	FormUpdate                 // post form prefilled from the selected post
	FormView                   // read-only post card
	FormDelete                 // confirmation, confirm -> TriggerDelete
)

func (k FormKind) String() string {
	switch k {
	case FormCreate:
		return "create"
	case FormUpdate:
		return "update"
	case FormView:
		return "view"
	case FormDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// FormContent describes the modal body.
type FormContent struct {
	Kind FormKind
	// Values prefill the update form and fill the view card. Fields are
	// empty strings until the post has loaded.
	Values models.PostInput
	// CreatedAt is the formatted creation date for the view card.
	CreatedAt    string
	IsLoading    bool
	IsSubmitting bool
}

// Submits reports whether the body is a form wired to Submit.
func (f FormContent) Submits() bool {
	return f.Kind == FormCreate || f.Kind == FormUpdate
}

// Confirms reports whether the body is a confirmation wired to TriggerDelete.
func (f FormContent) Confirms() bool {
	return f.Kind == FormDelete
}

// FormConfig is the modal title plus its body.
type FormConfig struct {
	Title   string
	Content FormContent
}

// BuildFormConfig maps an action and the cached post (nil while loading) to
// the modal configuration.
func BuildFormConfig(action Action, post *models.Post, loading, submitting bool, dateFormat string) FormConfig {
	content := FormContent{IsLoading: loading, IsSubmitting: submitting}

	switch action {
	case ActionCreate:
		content.Kind = FormCreate
		return FormConfig{Title: "Create Post", Content: content}

	case ActionUpdate:
		content.Kind = FormUpdate
		content.Values = postValues(post)
		return FormConfig{Title: "Update Post", Content: content}

	case ActionView:
		content.Kind = FormView
		content.Values = postValues(post)
		if post != nil && !post.CreatedAt.IsZero() {
			content.CreatedAt = post.CreatedAt.Local().Format(dateFormat)
		}
		return FormConfig{Title: "View Post", Content: content}

	case ActionDelete:
		content.Kind = FormDelete
		return FormConfig{Title: "Delete Post", Content: content}
	}

	panic(fmt.Sprintf("admin: no form for %s", action))
}

// FormConfig returns the modal configuration for the current selection.
func (c *Controller) FormConfig() FormConfig {
	return BuildFormConfig(c.action, c.post, c.loading, c.IsSubmitting(), c.dateFormat)
}

func postValues(post *models.Post) models.PostInput {
	if post == nil {
		return models.PostInput{}
	}
	return post.Input()
}
