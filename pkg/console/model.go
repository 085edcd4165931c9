package console

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/store"
	"github.com/marcus/postadmin/pkg/admin"
	"github.com/marcus/postadmin/pkg/console/modal"
)

// Default screen size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Options configures the admin screen.
type Options struct {
	DateFormat string
	// Source names the store in the header, e.g. "local" or a server URL.
	Source string
	// Timeout bounds each collection load.
	Timeout time.Duration
	Logger  *slog.Logger
	// Open, when set, opens that modal as soon as the screen starts.
	Open *OpenRequest
}

// OpenRequest names a modal to open on start.
type OpenRequest struct {
	Action admin.Action
	ID     string
}

type openRequestMsg OpenRequest

// Model is the Bubble Tea model for the post admin screen.
type Model struct {
	ctrl       *admin.Controller
	collection *Collection
	logger     *slog.Logger
	source     string
	start      *OpenRequest

	keys   keyMap
	help   help.Model
	table  table.Model
	filter textinput.Model

	filtering bool
	sort      sortState

	posts   []models.Post // as loaded
	visible []models.Post // after filter and sort, in table order
	loaded  bool
	loadErr error

	width  int
	height int

	// Modal state mirrors the controller selection. modalKey identifies
	// the selection the modal was built for.
	modal    *modal.Modal
	modalKey string
	form     *postForm
	md       *markdownRenderer

	menu        *modal.Modal
	menuIdx     *int
	menuActions []admin.RowAction

	helpModal *modal.Modal

	status        string
	statusIsError bool
	statusSeq     int
}

// New builds the admin screen over s.
func New(s store.PostStore, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	source := opts.Source
	if source == "" {
		source = "local"
	}

	collection := NewCollection(s, opts.Timeout)
	ctrl := admin.New(s, admin.NotifierFunc(toast), collection, admin.Options{
		DateFormat: opts.DateFormat,
		Logger:     logger,
	})

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter posts"
	filter.CharLimit = 100

	t := table.New(
		table.WithFocused(true),
		table.WithKeyMap(tableKeyMap()),
		table.WithStyles(tableStyles()),
	)

	m := Model{
		ctrl:       ctrl,
		collection: collection,
		logger:     logger,
		source:     source,
		start:      opts.Open,
		keys:       defaultKeyMap(),
		help:       help.New(),
		table:      t,
		filter:     filter,
		sort:       sortState{Column: -1},
		md:         &markdownRenderer{},
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.resize()
	return m
}

// Controller exposes the state controller behind the screen.
func (m Model) Controller() *admin.Controller { return m.ctrl }

func (m Model) Init() tea.Cmd {
	if m.start == nil {
		return m.collection.Load()
	}
	req := *m.start
	return tea.Batch(m.collection.Load(), func() tea.Msg { return openRequestMsg(req) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case PostsLoadedMsg:
		m.applyPosts(msg)
		return m, nil

	case ToastMsg:
		cmd := m.setStatus(msg.Notification)
		return m, cmd

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
			m.statusIsError = false
		}
		return m, nil

	case admin.PostFetchedMsg, admin.MutationSettledMsg:
		cmd := m.ctrl.Update(msg)
		syncCmd := m.syncModal()
		return m, tea.Batch(cmd, syncCmd)

	case openRequestMsg:
		return m.open(msg.Action, msg.ID)

	case formSubmittedMsg:
		cmd := m.checkForm()
		return m, cmd

	case formAbortedMsg:
		m.closeModal()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and huh's internal messages.
	var cmds []tea.Cmd
	if m.form != nil {
		cmds = append(cmds, m.form.Update(msg), m.checkForm())
	}
	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.helpModal != nil:
		action, cmd := m.helpModal.HandleKey(msg)
		if action == "close" || action == "cancel" {
			m.helpModal = nil
		}
		return m, cmd
	case m.menu != nil:
		return m.handleMenuKey(msg)
	case m.ctrl.IsOpen():
		return m.handleModalKey(msg)
	case m.filtering:
		return m.handleFilterKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Create):
		return m.open(admin.ActionCreate, "")

	case key.Matches(msg, m.keys.View):
		if p, ok := m.selectedPost(); ok {
			return m.open(admin.ActionView, p.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.selectedPost(); ok {
			return m.open(admin.ActionUpdate, p.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedPost(); ok {
			return m.open(admin.ActionDelete, p.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Actions):
		m.openMenu()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Sort):
		m.sort = m.sort.next(m.ctrl.Columns())
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if p, ok := m.selectedPost(); ok {
			return m, copyPostCmd(p, m.ctrl.DateFormat())
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.collection.Load()

	case key.Matches(msg, m.keys.Help):
		m.helpModal = m.createHelpModal()
		return m, nil

	case key.Matches(msg, m.keys.Close):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refreshTable()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refreshTable()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshTable()
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Close) {
		m.closeModal()
		return m, nil
	}

	content := m.ctrl.FormConfig().Content
	if content.IsSubmitting {
		return m, nil
	}

	switch content.Kind {
	case admin.FormCreate, admin.FormUpdate:
		if m.form == nil {
			return m, nil
		}
		cmd := m.form.Update(msg)
		submitCmd := m.checkForm()
		return m, tea.Batch(cmd, submitCmd)

	case admin.FormView, admin.FormDelete:
		if m.modal == nil {
			return m, nil
		}
		action, cmd := m.modal.HandleKey(msg)
		switch action {
		case "edit":
			next, openCmd := m.open(admin.ActionUpdate, m.ctrl.SelectedID())
			return next, tea.Batch(cmd, openCmd)
		case "delete":
			return m, tea.Batch(cmd, m.ctrl.TriggerDelete())
		case "close", "cancel":
			m.closeModal()
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.menu.HandleKey(msg)
	switch action {
	case "":
		return m, cmd
	case "cancel":
		m.closeMenu()
		return m, cmd
	}

	i, err := strconv.Atoi(action)
	actions := m.menuActions
	m.closeMenu()
	if err != nil || i < 0 || i >= len(actions) {
		return m, cmd
	}
	openCmd := actions[i].Trigger()
	syncCmd := m.syncModal()
	return m, tea.Batch(cmd, openCmd, syncCmd)
}

// open asks the controller for a selection and rebuilds the modal for it.
func (m Model) open(action admin.Action, id string) (tea.Model, tea.Cmd) {
	m.logger.Debug("open modal", "action", action, "id", id)
	cmd := m.ctrl.Open(action, id)
	syncCmd := m.syncModal()
	return m, tea.Batch(cmd, syncCmd)
}

func (m *Model) closeModal() {
	m.ctrl.Close()
	m.clearModal()
}

func (m *Model) clearModal() {
	m.modal = nil
	m.modalKey = ""
	m.form = nil
}

func (m *Model) openMenu() {
	p, ok := m.selectedPost()
	if !ok {
		return
	}
	m.menuActions = m.ctrl.RowActions(p.ID)
	items := make([]modal.ListItem, len(m.menuActions))
	for i, a := range m.menuActions {
		items[i] = modal.ListItem{ID: strconv.Itoa(i), Label: a.Label}
	}
	idx := 0
	m.menuIdx = &idx
	m.menu = modal.New(ansi.Truncate(p.Title, 30, "…"), modal.WithWidth(40)).
		AddSection(modal.List("actions", items, m.menuIdx))
}

func (m *Model) closeMenu() {
	m.menu = nil
	m.menuIdx = nil
	m.menuActions = nil
}

// checkForm submits a completed form once and closes an aborted one.
func (m *Model) checkForm() tea.Cmd {
	if m.form == nil || m.form.sent {
		return nil
	}
	switch m.form.State() {
	case huh.StateCompleted:
		m.form.sent = true
		in := m.form.Input()
		m.logger.Debug("submit post form", "action", m.ctrl.Action(), "id", m.ctrl.SelectedID())
		return m.ctrl.Submit(in)
	case huh.StateAborted:
		m.closeModal()
	}
	return nil
}

// syncModal rebuilds the modal when the controller selection changed.
func (m *Model) syncModal() tea.Cmd {
	if !m.ctrl.IsOpen() {
		m.clearModal()
		return nil
	}

	cfg := m.ctrl.FormConfig()
	k := fmt.Sprintf("%s:%s:%t", m.ctrl.Action(), m.ctrl.SelectedID(), cfg.Content.IsLoading)
	if k == m.modalKey {
		return nil
	}
	m.modalKey = k
	m.form = nil

	width, _ := m.formModalDimensions()

	switch cfg.Content.Kind {
	case admin.FormCreate, admin.FormUpdate:
		var form *postForm
		if !cfg.Content.IsLoading {
			form = newPostForm(cfg.Content.Values, width-6)
			m.form = form
		}
		m.modal = formModal(cfg.Title, width, m.ctrl, form)
		if form != nil {
			return form.Init()
		}
	case admin.FormView:
		m.modal = viewModal(cfg.Title, width, m.ctrl, m.md)
	case admin.FormDelete:
		m.modal = m.deleteModal(cfg.Title)
	}
	return nil
}

func formModal(title string, width int, ctrl *admin.Controller, form *postForm) *modal.Modal {
	return modal.New(title, modal.WithWidth(width), modal.WithHints(false)).
		AddSection(modal.Custom(func(int) string {
			switch {
			case form == nil:
				return subtleStyle.Render("Loading post…")
			case ctrl.IsSubmitting():
				return subtleStyle.Render("Saving…")
			}
			return form.View()
		}))
}

func viewModal(title string, width int, ctrl *admin.Controller, md *markdownRenderer) *modal.Modal {
	return modal.New(title, modal.WithWidth(width), modal.WithVariant(modal.VariantInfo)).
		AddSection(modal.Custom(func(contentWidth int) string {
			return renderCard(ctrl.FormConfig().Content, md, contentWidth)
		})).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" Edit ", "edit"),
			modal.Btn(" Close ", "close"),
		))
}

func (m *Model) deleteModal(title string) *modal.Modal {
	name := "this post"
	if p, ok := m.postByID(m.ctrl.SelectedID()); ok && p.Title != "" {
		name = strconv.Quote(p.Title)
	}
	ctrl := m.ctrl
	return modal.New(title, modal.WithVariant(modal.VariantDanger)).
		AddSection(modal.Text("Delete " + name + "? This cannot be undone.")).
		AddSection(modal.Custom(func(int) string {
			if ctrl.IsSubmitting() {
				return subtleStyle.Render("Deleting…")
			}
			return ""
		})).
		AddSection(modal.Buttons(
			modal.Btn(" Delete ", "delete", modal.BtnDanger()),
			modal.Btn(" Cancel ", "cancel"),
		))
}

func (m *Model) applyPosts(msg PostsLoadedMsg) {
	if msg.Err != nil {
		m.logger.Warn("load posts failed", "err", msg.Err)
		m.loadErr = msg.Err
		return
	}
	m.loadErr = nil
	m.loaded = true
	m.posts = msg.Posts
	m.refreshTable()
}

func (m *Model) setStatus(n admin.Notification) tea.Cmd {
	m.statusSeq++
	text := n.Message
	if n.Detail != "" {
		text += ": " + n.Detail
	}
	m.status = text
	m.statusIsError = n.Level == admin.LevelError
	return clearStatusAfter(m.statusSeq)
}

// chromeHeight is the rows taken by header, filter, status and help lines.
const chromeHeight = 6

func (m *Model) resize() {
	m.help.Width = m.width
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(3, m.height-chromeHeight))
	m.refreshTable()
}

// refreshTable rebuilds rows from posts and keeps the cursor on the same
// post when it is still visible.
func (m *Model) refreshTable() {
	selected := ""
	if p, ok := m.selectedPost(); ok {
		selected = p.ID
	}

	cols := m.ctrl.Columns()
	widths := columnWidths(m.width)
	m.visible = visiblePosts(m.posts, m.filter.Value(), cols, m.sort)

	m.table.SetRows(nil)
	m.table.SetColumns(tableColumns(cols, widths, m.sort))
	m.table.SetRows(tableRows(m.visible, cols, widths, m.ctrl.DateFormat()))

	cursor := 0
	for i, p := range m.visible {
		if p.ID == selected {
			cursor = i
			break
		}
	}
	m.table.SetCursor(cursor)
}

func (m Model) selectedPost() (models.Post, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return models.Post{}, false
	}
	return m.visible[i], true
}

func (m Model) postByID(id string) (models.Post, bool) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (m Model) View() string {
	switch {
	case m.helpModal != nil:
		return m.helpModal.Render(m.width, m.height)
	case m.menu != nil:
		return m.menu.Render(m.width, m.height)
	case m.ctrl.IsOpen() && m.modal != nil:
		return m.modal.Render(m.width, m.height)
	}
	return m.renderBase()
}

func (m Model) renderBase() string {
	var sb strings.Builder

	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		sb.WriteString(filterStyle.Render(m.filter.View()))
	}
	sb.WriteString("\n")

	switch {
	case m.loadErr != nil && !m.loaded:
		sb.WriteString(errorStyle.Render("Failed to load posts: " + m.loadErr.Error()))
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render("Press r to retry."))
	case !m.loaded:
		sb.WriteString(subtleStyle.Render("Loading posts…"))
	case len(m.posts) == 0:
		sb.WriteString(subtleStyle.Render("No posts yet. Press n to create one."))
	case len(m.visible) == 0:
		sb.WriteString(subtleStyle.Render("No posts match the filter."))
	default:
		sb.WriteString(m.table.View())
	}
	sb.WriteString("\n")

	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderHeader() string {
	crumbs := m.ctrl.ViewModel().Breadcrumb
	titles := make([]string, len(crumbs))
	for i, c := range crumbs {
		titles[i] = c.Title
	}

	count := fmt.Sprintf("%d posts", len(m.posts))
	if len(m.visible) != len(m.posts) {
		count = fmt.Sprintf("%d of %d posts", len(m.visible), len(m.posts))
	}

	return titleStyle.Render("postadmin") + " " +
		breadcrumbStyle.Render(strings.Join(titles, " › ")) + " " +
		subtleStyle.Render("· "+count+" · "+m.source)
}

func (m Model) renderStatus() string {
	switch {
	case m.status == "":
		if m.loadErr != nil && m.loaded {
			return errorStyle.Render("✗ reload failed: " + m.loadErr.Error())
		}
		return ""
	case m.statusIsError:
		return errorStyle.Render("✗ " + m.status)
	default:
		return successStyle.Render("✓ " + m.status)
	}
}
