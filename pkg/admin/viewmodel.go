package admin

import "github.com/marcus/postadmin/internal/models"

// Crumb is one breadcrumb entry.
type Crumb struct {
	Title string
	URL   string
}

// Breadcrumb returns the trail for the posts screen.
func Breadcrumb() []Crumb {
	return []Crumb{{Title: "Posts", URL: "/posts"}}
}

// ViewModel is everything a renderer needs for one frame.
type ViewModel struct {
	IsOpen       bool
	Breadcrumb   []Crumb
	Columns      []Column
	SelectedPost *models.Post
	Action       Action
	IsSubmitting bool
	IsLoading    bool
	FormConfig   FormConfig
	SelectedID   string
}

// ViewModel snapshots the controller for rendering. Open and Close stay
// methods on the controller.
func (c *Controller) ViewModel() ViewModel {
	return ViewModel{
		IsOpen:       c.IsOpen(),
		Breadcrumb:   Breadcrumb(),
		Columns:      c.Columns(),
		SelectedPost: c.post,
		Action:       c.action,
		IsSubmitting: c.IsSubmitting(),
		IsLoading:    c.loading,
		FormConfig:   c.FormConfig(),
		SelectedID:   c.id,
	}
}
