package console

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/marcus/postadmin/internal/models"
)

// formSubmittedMsg and formAbortedMsg replace huh's default tea.Quit so the
// form can live inside the admin screen.
type (
	formSubmittedMsg struct{}
	formAbortedMsg   struct{}
)

// postForm is the create/update form. values is bound to the huh fields.
type postForm struct {
	form   *huh.Form
	values *models.PostInput
	sent   bool // submitted to the controller
}

func newPostForm(initial models.PostInput, width int) *postForm {
	values := &models.PostInput{Title: initial.Title, Content: initial.Content}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				CharLimit(models.MaxTitleLength).
				Value(&values.Title).
				Validate(required("title")),
			huh.NewText().
				Key("content").
				Title("Content").
				Description("Markdown").
				Lines(8).
				Value(&values.Content).
				Validate(required("content")),
		),
	).WithWidth(width).WithShowHelp(true)

	form.SubmitCmd = func() tea.Msg { return formSubmittedMsg{} }
	form.CancelCmd = func() tea.Msg { return formAbortedMsg{} }

	return &postForm{form: form, values: values}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func (f *postForm) Init() tea.Cmd { return f.form.Init() }

func (f *postForm) Update(msg tea.Msg) tea.Cmd {
	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}
	return cmd
}

func (f *postForm) View() string { return f.form.View() }

func (f *postForm) State() huh.FormState { return f.form.State }

// Input returns the entered values.
func (f *postForm) Input() models.PostInput { return *f.values }

// formModalDimensions returns the content width and height for the form
// modal.
func (m Model) formModalDimensions() (int, int) {
	modalWidth := m.width * 80 / 100
	if modalWidth > 90 {
		modalWidth = 90
	}
	if modalWidth < 50 {
		modalWidth = 50
	}

	modalHeight := m.height * 85 / 100
	if modalHeight > 35 {
		modalHeight = 35
	}
	if modalHeight < 20 {
		modalHeight = 20
	}

	return modalWidth, modalHeight
}
