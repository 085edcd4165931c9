package console

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/pkg/admin"
)

func post(id, title, content string) models.Post {
	return models.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: time.Date(2026, 1, 2, 12, 0, 0, 0, time.Local),
	}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T in %#v", zero, msgs)
	return zero
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// loaded returns a model with the store's posts already in the table.
func loaded(t *testing.T, s *memStore) Model {
	t.Helper()
	m := New(s, Options{
		DateFormat: "2006-01-02",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	msgs := collect(m.Init())
	m, _ = update(m, find[PostsLoadedMsg](t, msgs))
	return m
}

func TestInitLoadsPosts(t *testing.T) {
	m := loaded(t, newMemStore(post("p1", "First", "Hello world"), post("p2", "Second", "More")))

	if len(m.visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(m.visible))
	}
	view := m.View()
	for _, want := range []string{"Posts", "2 posts", "First", "Second", "2026-01-02", "[v]iew"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyAndErrorStates(t *testing.T) {
	m := loaded(t, newMemStore())
	if !strings.Contains(m.View(), "No posts yet") {
		t.Error("empty state not shown")
	}

	s := newMemStore()
	s.listErr = errBoom
	m = loaded(t, s)
	if !strings.Contains(m.View(), "Failed to load posts: boom") {
		t.Errorf("load error not shown:\n%s", m.View())
	}
}

func TestViewModalLoadsThenShowsPost(t *testing.T) {
	m := loaded(t, newMemStore(post("p1", "First", "Hello world")))

	m, cmd := update(m, press("v"))
	if !m.ctrl.IsOpen() || m.ctrl.Action() != admin.ActionView || m.ctrl.SelectedID() != "p1" {
		t.Fatalf("selection = %+v", m.ctrl.Selection())
	}
	if !strings.Contains(m.View(), "Loading post") {
		t.Error("loading state not shown")
	}

	m, _ = update(m, find[admin.PostFetchedMsg](t, collect(cmd)))
	view := m.View()
	for _, want := range []string{"View Post", "First", "Created At", "2026-01-02", "Hello"} {
		if !strings.Contains(view, want) {
			t.Errorf("view card missing %q", want)
		}
	}

	// Edit button has focus and switches to the prefilled update form.
	m, _ = update(m, press("enter"))
	if m.ctrl.Action() != admin.ActionUpdate {
		t.Fatalf("action = %v, want update", m.ctrl.Action())
	}
	if m.form == nil {
		t.Fatal("update form not built from cached post")
	}
	if got := m.form.Input(); got.Title != "First" || got.Content != "Hello world" {
		t.Errorf("form values = %+v", got)
	}
}

func TestEscClosesModal(t *testing.T) {
	m := loaded(t, newMemStore(post("p1", "First", "Hello")))

	m, _ = update(m, press("n"))
	if !m.ctrl.IsOpen() || m.form == nil {
		t.Fatal("create modal not open")
	}
	if !strings.Contains(m.View(), "Create Post") {
		t.Error("create title not shown")
	}

	m, _ = update(m, press("esc"))
	if m.ctrl.IsOpen() || m.modal != nil || m.form != nil {
		t.Error("modal still open after esc")
	}
}

func TestCreateSubmitsOnce(t *testing.T) {
	s := newMemStore(post("p1", "First", "Hello"))
	m := loaded(t, s)

	m, _ = update(m, press("n"))
	m.form.values.Title = "Fresh"
	m.form.values.Content = "Body"
	m.form.form.State = huh.StateCompleted

	m, cmd := update(m, formSubmittedMsg{})
	if !m.ctrl.IsSubmitting() {
		t.Fatal("controller not submitting")
	}
	if !strings.Contains(m.View(), "Saving") {
		t.Error("saving state not shown")
	}
	m, again := update(m, formSubmittedMsg{})
	if again != nil {
		t.Error("second completion submitted again")
	}

	m, cmd = update(m, find[admin.MutationSettledMsg](t, collect(cmd)))
	if m.ctrl.IsOpen() || m.modal != nil {
		t.Error("modal open after settle")
	}
	msgs := collect(cmd)
	m, _ = update(m, find[ToastMsg](t, msgs))
	m, _ = update(m, find[PostsLoadedMsg](t, msgs))

	if s.creates != 1 {
		t.Errorf("creates = %d, want 1", s.creates)
	}
	if m.status != "Create successfully" || m.statusIsError {
		t.Errorf("status = %q (error %v)", m.status, m.statusIsError)
	}
	if len(m.visible) != 2 || m.visible[0].Title != "Fresh" {
		t.Errorf("table not reloaded: %+v", m.visible)
	}
}

func TestMutationFailureShowsError(t *testing.T) {
	s := newMemStore(post("p1", "First", "Hello"))
	s.mutErr = errBoom
	m := loaded(t, s)

	m, _ = update(m, press("n"))
	m.form.form.State = huh.StateCompleted
	m, cmd := update(m, formSubmittedMsg{})
	m, cmd = update(m, find[admin.MutationSettledMsg](t, collect(cmd)))
	m, _ = update(m, find[ToastMsg](t, collect(cmd)))

	if m.ctrl.IsOpen() {
		t.Error("modal open after failure")
	}
	if !m.statusIsError || !strings.Contains(m.View(), admin.GenericErrorMessage) {
		t.Errorf("status = %q", m.status)
	}
}

func TestDeleteConfirm(t *testing.T) {
	s := newMemStore(post("p1", "First", "Hello"), post("p2", "Second", "World"))
	m := loaded(t, s)

	m, _ = update(m, press("d"))
	if m.ctrl.Action() != admin.ActionDelete {
		t.Fatalf("action = %v", m.ctrl.Action())
	}
	if !strings.Contains(m.View(), `Delete "First"?`) {
		t.Errorf("confirmation missing:\n%s", m.View())
	}

	m, cmd := update(m, press("enter"))
	if !m.ctrl.IsSubmitting() || !strings.Contains(m.View(), "Deleting") {
		t.Fatal("delete not in flight")
	}

	m, cmd = update(m, find[admin.MutationSettledMsg](t, collect(cmd)))
	msgs := collect(cmd)
	m, _ = update(m, find[ToastMsg](t, msgs))
	m, _ = update(m, find[PostsLoadedMsg](t, msgs))

	if len(s.deletes) != 1 || s.deletes[0] != "p1" {
		t.Errorf("deletes = %v", s.deletes)
	}
	if m.status != "Delete successfully" {
		t.Errorf("status = %q", m.status)
	}
	if len(m.visible) != 1 || m.visible[0].ID != "p2" {
		t.Errorf("visible = %+v", m.visible)
	}
}

func TestDeleteCancel(t *testing.T) {
	s := newMemStore(post("p1", "First", "Hello"))
	m := loaded(t, s)

	m, _ = update(m, press("d"))
	m, _ = update(m, press("tab"))
	m, _ = update(m, press("enter"))

	if m.ctrl.IsOpen() {
		t.Error("modal open after cancel")
	}
	if len(s.deletes) != 0 {
		t.Errorf("deletes = %v", s.deletes)
	}
}

func TestActionsMenu(t *testing.T) {
	m := loaded(t, newMemStore(post("p1", "First", "Hello")))

	m, _ = update(m, press("a"))
	if m.menu == nil {
		t.Fatal("menu not open")
	}
	for _, want := range []string{"View", "Edit", "Delete"} {
		if !strings.Contains(m.View(), want) {
			t.Errorf("menu missing %q", want)
		}
	}

	m, _ = update(m, press("down"))
	m, _ = update(m, press("enter"))
	if m.menu != nil {
		t.Error("menu still open")
	}
	if !m.ctrl.IsOpen() || m.ctrl.Action() != admin.ActionUpdate || m.ctrl.SelectedID() != "p1" {
		t.Errorf("selection = %+v", m.ctrl.Selection())
	}
}

func TestActionsWithoutRowsIgnored(t *testing.T) {
	m := loaded(t, newMemStore())
	for _, k := range []string{"v", "e", "d", "a", "y"} {
		var cmd tea.Cmd
		m, cmd = update(m, press(k))
		if m.ctrl.IsOpen() || m.menu != nil || cmd != nil {
			t.Errorf("key %q acted on an empty table", k)
		}
	}
}

func TestFilter(t *testing.T) {
	m := loaded(t, newMemStore(post("p1", "First", "Hello"), post("p2", "Second", "World")))

	m, _ = update(m, press("/"))
	if !m.filtering {
		t.Fatal("filter not focused")
	}
	m, _ = update(m, press("eco"))
	if len(m.visible) != 1 || m.visible[0].ID != "p2" {
		t.Fatalf("visible = %+v", m.visible)
	}
	if !strings.Contains(m.View(), "1 of 2 posts") {
		t.Error("filtered count missing")
	}

	// Keys typed while filtering do not trigger actions.
	if m.ctrl.IsOpen() {
		t.Error("filter text opened a modal")
	}

	m, _ = update(m, press("esc"))
	if m.filtering || len(m.visible) != 2 {
		t.Errorf("filter not cleared: filtering=%v visible=%d", m.filtering, len(m.visible))
	}
}

func TestSortCycles(t *testing.T) {
	m := loaded(t, newMemStore(post("p1", "Beta", "x"), post("p2", "Alpha", "y")))

	titles := func() string {
		var out []string
		for _, p := range m.visible {
			out = append(out, p.Title)
		}
		return strings.Join(out, ",")
	}

	steps := []string{"Alpha,Beta", "Beta,Alpha"}
	for _, want := range steps {
		m, _ = update(m, press("s"))
		if got := titles(); got != want {
			t.Errorf("titles = %s, want %s", got, want)
		}
	}
	if !strings.Contains(m.View(), "Title ▼") {
		t.Error("sort marker missing")
	}
}

func TestSortStateNext(t *testing.T) {
	cols := []admin.Column{{Sortable: true}, {Sortable: true}, {Sortable: false}}

	var seq []sortState
	st := sortState{Column: -1}
	for range 5 {
		st = st.next(cols)
		seq = append(seq, st)
	}
	want := []sortState{{0, false}, {0, true}, {1, false}, {1, true}, {-1, false}}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, seq[i], want[i])
		}
	}
}

func TestStatusClears(t *testing.T) {
	m := loaded(t, newMemStore())

	m, _ = update(m, ToastMsg{Notification: admin.Notification{Level: admin.LevelSuccess, Message: "one"}})
	stale := m.statusSeq
	m, _ = update(m, ToastMsg{Notification: admin.Notification{Level: admin.LevelError, Message: "two", Detail: "title is required"}})

	m, _ = update(m, ClearStatusMsg{Seq: stale})
	if m.status != "two: title is required" {
		t.Fatalf("stale clear removed status: %q", m.status)
	}
	m, _ = update(m, ClearStatusMsg{Seq: m.statusSeq})
	if m.status != "" {
		t.Errorf("status = %q, want cleared", m.status)
	}
}

func TestCopyPost(t *testing.T) {
	var copied string
	orig := clipboardWriter
	clipboardWriter = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWriter = orig })

	m := loaded(t, newMemStore(post("p1", "First", "Hello")))
	_, cmd := update(m, press("y"))
	toast := find[ToastMsg](t, collect(cmd))

	if toast.Level != admin.LevelSuccess {
		t.Errorf("toast = %+v", toast)
	}
	for _, want := range []string{"# First", "`p1`", "**Created:** 2026-01-02", "Hello"} {
		if !strings.Contains(copied, want) {
			t.Errorf("copied text missing %q:\n%s", want, copied)
		}
	}
}

func TestHelpModal(t *testing.T) {
	m := loaded(t, newMemStore())

	m, _ = update(m, press("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Fatal("help modal not shown")
	}
	m, _ = update(m, press("enter"))
	if m.helpModal != nil {
		t.Error("help modal still open")
	}
}

func TestColumnWidths(t *testing.T) {
	w := columnWidths(120)
	if len(w) != 4 {
		t.Fatalf("widths = %v", w)
	}
	if w[2] != dateWidth || w[3] != actionsWidth {
		t.Errorf("fixed widths = %v", w)
	}
	if w[0] >= w[1] {
		t.Errorf("title %d should be narrower than content %d", w[0], w[1])
	}

	narrow := columnWidths(10)
	if narrow[0] < minTextWidth/2 || narrow[1] < minTextWidth {
		t.Errorf("narrow widths = %v", narrow)
	}
}

func TestOpenOnStart(t *testing.T) {
	s := newMemStore(post("p1", "First", "Hello world"))
	m := New(s, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Open:   &OpenRequest{Action: admin.ActionView, ID: "p1"},
	})

	msgs := collect(m.Init())
	m, _ = update(m, find[PostsLoadedMsg](t, msgs))
	m, cmd := update(m, find[openRequestMsg](t, msgs))

	ctrl := m.Controller()
	if !ctrl.IsOpen() || ctrl.Action() != admin.ActionView || ctrl.SelectedID() != "p1" {
		t.Fatalf("selection = %+v", ctrl.Selection())
	}
	m, _ = update(m, find[admin.PostFetchedMsg](t, collect(cmd)))
	if !strings.Contains(m.View(), "View Post") || !strings.Contains(m.View(), "Hello") {
		t.Errorf("view card missing content:\n%s", m.View())
	}
	if ctrl.DateFormat() != models.DefaultDateFormat {
		t.Errorf("DateFormat = %q, want default", ctrl.DateFormat())
	}
}
