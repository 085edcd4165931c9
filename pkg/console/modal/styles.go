package modal

import "github.com/charmbracelet/lipgloss"

// Palette shared with the console styles.
var (
	Primary     = lipgloss.Color("212")
	Error       = lipgloss.Color("196")
	Warning     = lipgloss.Color("214")
	Info        = lipgloss.Color("45")
	Muted       = lipgloss.Color("241")
	BgSecondary = lipgloss.Color("235")
)

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	ButtonFocused = Button.
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true)

	ButtonHover = Button.
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("245"))

	ButtonDanger = Button

	ButtonDangerFocused = Button.
				Foreground(lipgloss.Color("255")).
				Background(Error).
				Bold(true)

	ButtonDangerHover = Button.
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("203"))
)

var (
	ModalTitle = lipgloss.NewStyle().Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	Body       = lipgloss.NewStyle()
)

// List styles
var (
	ListItemNormal = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	ListItemSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))

	ListItemFocused = ListItemSelected.Bold(true)

	ListCursor = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)
