package console

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/postadmin/pkg/admin"
)

// markdownRenderer caches a glamour renderer per wrap width.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func (r *markdownRenderer) render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		r.renderer, r.width = tr, width
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// renderCard draws the read-only view of a post.
func renderCard(content admin.FormContent, md *markdownRenderer, width int) string {
	if content.IsLoading {
		return subtleStyle.Render("Loading post…")
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Title"), content.Values.Title),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Created At"), content.CreatedAt),
		"",
	}
	if body := md.render(content.Values.Content, width); body != "" {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}
