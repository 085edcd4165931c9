package console

import (
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/pkg/admin"
)

// sortState is the active column sort. Column -1 keeps server order
// (newest first).
type sortState struct {
	Column int
	Desc   bool
}

// next cycles none -> col asc -> col desc -> next col asc ... -> none over
// the sortable columns.
func (s sortState) next(cols []admin.Column) sortState {
	sortable := make([]int, 0, len(cols))
	for i, c := range cols {
		if c.Sortable {
			sortable = append(sortable, i)
		}
	}
	if len(sortable) == 0 {
		return sortState{Column: -1}
	}
	if s.Column < 0 {
		return sortState{Column: sortable[0]}
	}
	if !s.Desc {
		return sortState{Column: s.Column, Desc: true}
	}
	for i, idx := range sortable {
		if idx == s.Column && i+1 < len(sortable) {
			return sortState{Column: sortable[i+1]}
		}
	}
	return sortState{Column: -1}
}

// postSource adapts posts to fuzzy.Source.
type postSource []models.Post

func (s postSource) String(i int) string { return s[i].Title + " " + s[i].Content }
func (s postSource) Len() int            { return len(s) }

// visiblePosts applies the filter query then the sort. A fuzzy match keeps
// score order unless a column sort is active.
func visiblePosts(posts []models.Post, query string, cols []admin.Column, st sortState) []models.Post {
	var out []models.Post
	if query == "" {
		out = append(out, posts...)
	} else {
		for _, match := range fuzzy.FindFrom(query, postSource(posts)) {
			out = append(out, posts[match.Index])
		}
	}

	if st.Column >= 0 && st.Column < len(cols) {
		col := cols[st.Column]
		sort.SliceStable(out, func(i, j int) bool {
			if st.Desc {
				return col.Less(out[j], out[i])
			}
			return col.Less(out[i], out[j])
		})
	}
	return out
}

// actionsCell lists the row triggers with their shortcut keys.
func actionsCell(actions []admin.RowAction) string {
	var cell string
	for i, a := range actions {
		if i > 0 {
			cell += " "
		}
		switch a.Action {
		case admin.ActionView:
			cell += "[v]iew"
		case admin.ActionUpdate:
			cell += "[e]dit"
		case admin.ActionDelete:
			cell += "[d]el"
		default:
			cell += a.Label
		}
	}
	return cell
}

const (
	actionsWidth = 20
	dateWidth    = 14
	minTextWidth = 10
)

// columnWidths splits the table width across the four columns. Title takes
// a third of the text space and content the rest.
func columnWidths(total int) []int {
	// Each column gets one cell of padding on both sides.
	text := total - actionsWidth - dateWidth - 8
	if text < 2*minTextWidth {
		text = 2 * minTextWidth
	}
	title := text / 3
	return []int{title, text - title, dateWidth, actionsWidth}
}

// tableColumns turns controller columns into widget columns with a sort
// marker on the active header.
func tableColumns(cols []admin.Column, widths []int, st sortState) []table.Column {
	out := make([]table.Column, len(cols))
	for i, c := range cols {
		title := c.Header
		if i == st.Column {
			if st.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		out[i] = table.Column{Title: title, Width: widths[i]}
	}
	return out
}

// tableRows renders each post through the column cells.
func tableRows(posts []models.Post, cols []admin.Column, widths []int, dateFormat string) []table.Row {
	rows := make([]table.Row, len(posts))
	for r, p := range posts {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			var cell string
			if c.Kind == admin.ColumnActions {
				cell = actionsCell(c.Actions(p.ID))
			} else {
				cell = c.Cell(p, dateFormat)
			}
			row[i] = ansi.Truncate(cell, widths[i], "…")
		}
		rows[r] = row
	}
	return rows
}
