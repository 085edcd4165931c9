package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/postadmin/internal/models"
)

// minTableWidth keeps the post table readable in narrow pipes.
const minTableWidth = 60

// PostTable writes posts as a bordered table no wider than width.
func PostTable(w io.Writer, posts []models.Post, dateFormat string, width int) {
	if len(posts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No posts"))
		return
	}
	width = max(width, minTableWidth)

	// id + created + borders; title and content share the rest.
	text := width - 18 - len(dateFormat) - 13
	titleWidth := max(10, text/3)
	contentWidth := max(10, text-titleWidth)

	rows := make([][]string, len(posts))
	for i, p := range posts {
		rows[i] = []string{
			p.ID,
			ansi.Truncate(oneLine(p.Title), titleWidth, "…"),
			ansi.Truncate(oneLine(p.Content), contentWidth, "…"),
			p.CreatedAt.Local().Format(dateFormat),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "TITLE", "CONTENT", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return labelStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d posts", len(posts))))
}

// PostDetail writes one post. body is the content as it should be shown,
// already rendered when the caller wants markdown styling.
func PostDetail(w io.Writer, p models.Post, dateFormat, body string) {
	fmt.Fprintln(w, labelStyle.Render(p.Title))
	fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("ID:     "), p.ID)
	fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("Created:"), p.CreatedAt.Local().Format(dateFormat))
	if !p.UpdatedAt.IsZero() && !p.UpdatedAt.Equal(p.CreatedAt) {
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("Updated:"), p.UpdatedAt.Local().Format(dateFormat))
	}
	if body != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, body)
	}
}

// oneLine collapses runs of whitespace so cells stay on one row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
