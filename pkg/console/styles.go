package console

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/postadmin/pkg/console/modal"
)

var (
	primaryColor = modal.Primary
	errorColor   = modal.Error
	successColor = lipgloss.Color("42")
	mutedColor   = modal.Muted

	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	breadcrumbStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	subtleStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle      = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	successStyle    = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	filterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	labelStyle      = lipgloss.NewStyle().Foreground(mutedColor).Width(12)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}
