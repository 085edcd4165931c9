package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// ListItem is one selectable row of a List section.
type ListItem struct {
	ID    string // returned as the action when the item is chosen
	Label string
}

// ListOption configures a List section.
type ListOption func(*listSection)

type listSection struct {
	id           string
	items        []ListItem
	selectedIdx  *int
	maxVisible   int
	scrollOffset int
}

// List creates a selectable list. selectedIdx is owned by the caller so the
// selection survives re-rendering; it may be nil for a read-only list.
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) Section {
	s := &listSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
		maxVisible:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxVisible sets how many rows are shown before scrolling.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

func (s *listSection) selected() int {
	if s.selectedIdx == nil {
		return -1
	}
	return *s.selectedIdx
}

func (s *listSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: MutedText.Render("(no items)")}
	}

	visible := min(s.maxVisible, len(s.items))
	sel := max(0, s.selected())

	// Keep the selection in view.
	if sel < s.scrollOffset {
		s.scrollOffset = sel
	} else if sel >= s.scrollOffset+visible {
		s.scrollOffset = sel - visible + 1
	}
	s.scrollOffset = clamp(s.scrollOffset, 0, max(0, len(s.items)-visible))

	focused := focusID == s.id
	lines := make([]string, 0, visible+2)

	if s.scrollOffset > 0 {
		lines = append(lines, MutedText.Render("↑ more above"))
	}
	for i := s.scrollOffset; i < s.scrollOffset+visible && i < len(s.items); i++ {
		item := s.items[i]
		isSelected := i == s.selected()

		style := ListItemNormal
		cursor := "  "
		if isSelected {
			cursor = ListCursor.Render("> ")
			style = ListItemSelected
			if focused {
				style = ListItemFocused
			}
		}
		lines = append(lines, cursor+style.Render(ansi.Truncate(item.Label, contentWidth-2, "…")))
	}
	if s.scrollOffset+visible < len(s.items) {
		lines = append(lines, MutedText.Render("↓ more below"))
	}

	// The list is a single focusable so Tab moves past it in one step.
	return RenderedSection{
		Content: strings.Join(lines, "\n"),
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: len(lines),
		}},
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || focusID != s.id || s.selectedIdx == nil || len(s.items) == 0 {
		return "", nil
	}

	switch key.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}
	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}
	case "home", "g":
		*s.selectedIdx = 0
	case "end", "G":
		*s.selectedIdx = len(s.items) - 1
	case "enter":
		if i := *s.selectedIdx; i >= 0 && i < len(s.items) {
			return s.items[i].ID, nil
		}
	}
	return "", nil
}
