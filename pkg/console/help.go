package console

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/postadmin/pkg/console/modal"
)

// createHelpModal builds the keyboard reference shown on '?'.
// Built on open so the source line reflects the current store.
func (m *Model) createHelpModal() *modal.Modal {
	md := modal.New("Post admin", modal.WithWidth(60))

	md.AddSection(modal.Text(
		"Browse, create, edit and delete posts.\n" +
			"Connected to: " + m.source))

	md.AddSection(modal.Spacer())

	var sb strings.Builder
	sb.WriteString("KEYBOARD SHORTCUTS:\n")
	for _, column := range m.keys.FullHelp() {
		for _, b := range column {
			h := b.Help()
			sb.WriteString("  ")
			sb.WriteString(padRight(h.Key, 10))
			sb.WriteString(h.Desc)
			sb.WriteString("\n")
		}
	}
	md.AddSection(modal.Text(strings.TrimRight(sb.String(), "\n")))

	md.AddSection(modal.Spacer())
	md.AddSection(modal.Buttons(modal.Btn(" Close ", "close")))

	return md
}

func padRight(s string, n int) string {
	w := ansi.StringWidth(s)
	if w >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-w)
}
