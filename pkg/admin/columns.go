package admin

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/postadmin/internal/models"
)

// ColumnKind tells the table renderer how to draw a column.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnDate
	ColumnActions
)

// Column describes one table column.
type Column struct {
	Key      string
	Header   string
	Kind     ColumnKind
	Sortable bool
	// Actions returns the row triggers. Set only on the actions column.
	Actions func(id string) []RowAction
}

// RowAction is a trigger rendered in the actions cell of a row.
type RowAction struct {
	Label  string
	Action Action
	// Trigger opens the modal for this row.
	Trigger func() tea.Cmd
}

// Column keys in display order.
const (
	ColumnKeyTitle     = "title"
	ColumnKeyContent   = "content"
	ColumnKeyCreatedAt = "createdAt"
	ColumnKeyActions   = "actions"
)

// emptyCell is shown for blank text and zero dates.
const emptyCell = "-"

// Columns returns the four table columns: Title, Content, Created At and
// Actions. The set does not depend on the loaded rows.
func (c *Controller) Columns() []Column {
	return []Column{
		{Key: ColumnKeyTitle, Header: "Title", Kind: ColumnText, Sortable: true},
		{Key: ColumnKeyContent, Header: "Content", Kind: ColumnText, Sortable: true},
		{Key: ColumnKeyCreatedAt, Header: "Created At", Kind: ColumnDate, Sortable: true},
		{Key: ColumnKeyActions, Header: "Actions", Kind: ColumnActions, Actions: c.RowActions},
	}
}

// RowActions returns the view, edit and delete triggers for a post id.
func (c *Controller) RowActions(id string) []RowAction {
	return []RowAction{
		{Label: "View", Action: ActionView, Trigger: func() tea.Cmd { return c.Open(ActionView, id) }},
		{Label: "Edit", Action: ActionUpdate, Trigger: func() tea.Cmd { return c.Open(ActionUpdate, id) }},
		{Label: "Delete", Action: ActionDelete, Trigger: func() tea.Cmd { return c.Open(ActionDelete, id) }},
	}
}

// Cell renders the column value for p. The actions column has no text.
func (col Column) Cell(p models.Post, dateFormat string) string {
	switch col.Key {
	case ColumnKeyTitle:
		return displayValue(p.Title)
	case ColumnKeyContent:
		return displayValue(p.Content)
	case ColumnKeyCreatedAt:
		if p.CreatedAt.IsZero() {
			return emptyCell
		}
		return p.CreatedAt.Local().Format(dateFormat)
	}
	return ""
}

// Less orders two posts by this column. It returns false for columns that
// are not sortable.
func (col Column) Less(a, b models.Post) bool {
	switch col.Key {
	case ColumnKeyTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case ColumnKeyContent:
		return strings.ToLower(a.Content) < strings.ToLower(b.Content)
	case ColumnKeyCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return false
}

func displayValue(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return emptyCell
	}
	return s
}
