package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Variant selects the border and accent color of a modal.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// Section is one block of modal content.
type Section interface {
	// Render draws the section at contentWidth. focusID and hoverID name the
	// focused and hovered elements so the section can style them.
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update handles a message while focusID is focused and returns an
	// action id when the message triggers one.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// RenderedSection is the output of Section.Render.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// FocusableInfo locates a focusable element relative to its section.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the modal width including border and padding.
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w > 0 {
			m.width = w
		}
	}
}

func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints shows or hides the key hints line.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action returned by Enter when the focused
// element does not produce one itself.
func WithPrimaryAction(actionID string) Option {
	return func(m *Modal) { m.primaryAction = actionID }
}

// Modal is a declarative dialog built from sections.
type Modal struct {
	title         string
	width         int
	variant       Variant
	showHints     bool
	primaryAction string

	sections []Section
	focusIDs []string
	focusIdx int
}

const defaultWidth = 50

// New creates an empty modal.
func New(title string, opts ...Option) *Modal {
	m := &Modal{title: title, width: defaultWidth, showHints: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends s and returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	m.focusIDs = nil
	return m
}

// Title returns the modal title.
func (m *Modal) Title() string { return m.title }

// FocusedID returns the id of the focused element, or "".
func (m *Modal) FocusedID() string {
	m.collectFocusables()
	if len(m.focusIDs) == 0 {
		return ""
	}
	return m.focusIDs[m.focusIdx]
}

// SetFocus focuses the element with id, if present.
func (m *Modal) SetFocus(id string) {
	m.collectFocusables()
	for i, fid := range m.focusIDs {
		if fid == id {
			m.focusIdx = i
			return
		}
	}
}

func (m *Modal) contentWidth() int {
	// border (2) + horizontal padding (2*2)
	return max(10, m.width-6)
}

func (m *Modal) collectFocusables() {
	if m.focusIDs != nil {
		return
	}
	ids := []string{}
	for _, s := range m.sections {
		for _, f := range s.Render(m.contentWidth(), "", "").Focusables {
			ids = append(ids, f.ID)
		}
	}
	m.focusIDs = ids
	m.focusIdx = clamp(m.focusIdx, 0, max(0, len(ids)-1))
}

// HandleKey routes a key press. It returns the triggered action id, or ""
// when the key only moved focus or edited a section.
func (m *Modal) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	m.collectFocusables()
	focusID := m.FocusedID()

	switch msg.String() {
	case "esc":
		return "cancel", nil
	case "tab", "right":
		if len(m.focusIDs) > 0 {
			m.focusIdx = (m.focusIdx + 1) % len(m.focusIDs)
		}
		return "", nil
	case "shift+tab", "left":
		if len(m.focusIDs) > 0 {
			m.focusIdx = (m.focusIdx - 1 + len(m.focusIDs)) % len(m.focusIDs)
		}
		return "", nil
	}

	for _, s := range m.sections {
		if action, cmd := s.Update(msg, focusID); action != "" || cmd != nil {
			return action, cmd
		}
	}

	if msg.String() == "enter" {
		return m.primaryAction, nil
	}
	return "", nil
}

func (m *Modal) borderColor() lipgloss.Color {
	switch m.variant {
	case VariantDanger:
		return Error
	case VariantWarning:
		return Warning
	case VariantInfo:
		return Info
	default:
		return Primary
	}
}

// View renders the modal box without positioning it.
func (m *Modal) View() string {
	m.collectFocusables()
	focusID := m.FocusedID()
	width := m.contentWidth()

	parts := []string{ModalTitle.Foreground(m.borderColor()).Render(ansi.Truncate(m.title, width, "…")), ""}
	for _, s := range m.sections {
		parts = append(parts, s.Render(width, focusID, "").Content)
	}
	if m.showHints {
		parts = append(parts, "", MutedText.Render("tab focus · enter select · esc close"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor()).
		Background(BgSecondary).
		Padding(1, 2).
		Width(m.width - 2).
		Render(strings.Join(parts, "\n"))
}

// Render renders the modal centered on a screenW x screenH canvas.
func (m *Modal) Render(screenW, screenH int) string {
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, m.View())
}

// ============================================================================
// Built-in sections
// ============================================================================

type textSection struct {
	text string
}

// Text renders static text, wrapped to the modal width.
func Text(s string) Section { return textSection{text: s} }

func (t textSection) Render(contentWidth int, _, _ string) RenderedSection {
	return RenderedSection{Content: Body.Render(ansi.Wordwrap(t.text, contentWidth, " -"))}
}

func (textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

type spacerSection struct{}

// Spacer renders a blank line.
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: ""}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

type customSection struct {
	render func(contentWidth int) string
}

// Custom renders arbitrary content. It has no focusable elements.
func Custom(render func(contentWidth int) string) Section {
	return customSection{render: render}
}

func (c customSection) Render(contentWidth int, _, _ string) RenderedSection {
	return RenderedSection{Content: c.render(contentWidth)}
}

func (customSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// ButtonDef describes one button.
type ButtonDef struct {
	Label  string
	ID     string
	danger bool
}

// ButtonOption configures a ButtonDef.
type ButtonOption func(*ButtonDef)

// BtnDanger styles the button as destructive.
func BtnDanger() ButtonOption {
	return func(b *ButtonDef) { b.danger = true }
}

// Btn defines a button whose press returns id as the action.
func Btn(label, id string, opts ...ButtonOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons renders a row of buttons.
func Buttons(btns ...ButtonDef) Section {
	return buttonsSection{buttons: btns}
}

func (s buttonsSection) Render(_ int, focusID, hoverID string) RenderedSection {
	var rendered []string
	var focusables []FocusableInfo
	x := 0
	for i, b := range s.buttons {
		style := Button
		switch {
		case b.ID == focusID && b.danger:
			style = ButtonDangerFocused
		case b.ID == focusID:
			style = ButtonFocused
		case b.ID == hoverID && b.danger:
			style = ButtonDangerHover
		case b.ID == hoverID:
			style = ButtonHover
		case b.danger:
			style = ButtonDanger
		}
		r := style.Render(b.Label)
		if i > 0 {
			rendered = append(rendered, "  ")
			x += 2
		}
		rendered = append(rendered, r)
		w := lipgloss.Width(r)
		focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		x += w
	}
	return RenderedSection{
		Content:    lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		Focusables: focusables,
	}
}

func (s buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID {
			return b.ID, nil
		}
	}
	return "", nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
