package admin

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/store"
	"github.com/marcus/postadmin/internal/workflow"
)

var testCreatedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)

func newTestController(s *fakeStore) (*Controller, *recorder) {
	rec := &recorder{}
	c := New(s, rec, rec, Options{
		DateFormat: "2006-01-02",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return c, rec
}

// run executes cmd and returns its message, failing when cmd is nil.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func samplePost(id, title, content string) models.Post {
	return models.Post{ID: id, Title: title, Content: content, CreatedAt: testCreatedAt}
}

func TestNewDefaults(t *testing.T) {
	c, _ := newTestController(newFakeStore())

	want := Selection{Action: ActionCreate, ID: "", IsOpen: false, IsSubmitting: false}
	if got := c.Selection(); got != want {
		t.Errorf("Selection() = %+v, want %+v", got, want)
	}
	if c.Phase() != workflow.PhaseIdle {
		t.Errorf("Phase() = %s, want idle", c.Phase())
	}
}

func TestFormConfigPerAction(t *testing.T) {
	tests := []struct {
		action Action
		title  string
		kind   FormKind
	}{
		{ActionCreate, "Create Post", FormCreate},
		{ActionView, "View Post", FormView},
		{ActionUpdate, "Update Post", FormUpdate},
		{ActionDelete, "Delete Post", FormDelete},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			c, _ := newTestController(newFakeStore(samplePost("9", "T", "C")))
			c.Open(tt.action, "9")

			cfg := c.FormConfig()
			if cfg.Title != tt.title {
				t.Errorf("Title = %q, want %q", cfg.Title, tt.title)
			}
			if cfg.Content.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", cfg.Content.Kind, tt.kind)
			}
			if cfg.Content.Submits() != (tt.kind == FormCreate || tt.kind == FormUpdate) {
				t.Errorf("Submits() wrong for %s", tt.kind)
			}
			if cfg.Content.Confirms() != (tt.kind == FormDelete) {
				t.Errorf("Confirms() wrong for %s", tt.kind)
			}
		})
	}
}

func TestOpenCreateThenClose(t *testing.T) {
	s := newFakeStore()
	c, _ := newTestController(s)

	if cmd := c.Open(ActionCreate, ""); cmd != nil {
		t.Error("CREATE should not fetch")
	}
	if !c.IsOpen() {
		t.Fatal("modal should be open")
	}

	c.Close()
	if c.IsOpen() || c.SelectedID() != "" {
		t.Errorf("after Close: open=%v id=%q", c.IsOpen(), c.SelectedID())
	}
	if len(s.gets) != 0 {
		t.Errorf("gets = %v, want none", s.gets)
	}
}

func TestOpenCreateDropsID(t *testing.T) {
	c, _ := newTestController(newFakeStore())

	if cmd := c.Open(ActionCreate, "42"); cmd != nil {
		t.Error("CREATE must not fetch even when given an id")
	}
	if c.SelectedID() != "" {
		t.Errorf("id = %q, CREATE implies an empty id", c.SelectedID())
	}
}

func TestCloseKeepsAction(t *testing.T) {
	c, _ := newTestController(newFakeStore(samplePost("3", "a", "b")))
	c.Open(ActionDelete, "3")
	c.Close()

	if c.Action() != ActionDelete {
		t.Errorf("Action() = %s, Close should not reset it", c.Action())
	}
}

func TestReopenReplacesSelection(t *testing.T) {
	s := newFakeStore(samplePost("1", "one", "1"), samplePost("2", "two", "2"))
	c, _ := newTestController(s)

	c.Update(run(t, c.Open(ActionView, "1")))
	c.Update(run(t, c.Open(ActionUpdate, "2")))

	if c.Action() != ActionUpdate || c.SelectedID() != "2" {
		t.Errorf("selection = %+v", c.Selection())
	}
	if c.FormConfig().Content.Values.Title != "two" {
		t.Errorf("form shows %q, want post 2", c.FormConfig().Content.Values.Title)
	}
}

func TestOpenSameIDUsesCache(t *testing.T) {
	s := newFakeStore(samplePost("5", "Hello", "World"))
	c, _ := newTestController(s)

	c.Update(run(t, c.Open(ActionView, "5")))
	if cmd := c.Open(ActionUpdate, "5"); cmd != nil {
		t.Error("switching action on the cached id should not refetch")
	}
	if len(s.gets) != 1 {
		t.Errorf("gets = %v, want one", s.gets)
	}
	if c.FormConfig().Content.Values.Title != "Hello" {
		t.Error("update form should be prefilled from the cache")
	}
}

func TestUpdateSuccess(t *testing.T) {
	s := newFakeStore(samplePost("42", "Old", "Old body"))
	c, rec := newTestController(s)

	c.Update(run(t, c.Open(ActionUpdate, "42")))

	in := models.PostInput{Title: "New", Content: "New body"}
	cmd := c.Submit(in)
	if !c.IsSubmitting() {
		t.Error("IsSubmitting should be true while the mutation is in flight")
	}
	c.Update(run(t, cmd))

	if len(s.updates) != 1 || s.updates[0] != "42" || s.inputs[0] != in {
		t.Errorf("updates = %v inputs = %v", s.updates, s.inputs)
	}
	if len(rec.notes) != 1 || rec.notes[0].Level != LevelSuccess || rec.notes[0].Message != "Update successfully" {
		t.Errorf("notes = %+v", rec.notes)
	}
	if len(rec.invalidations) != 1 || rec.invalidations[0] != PostsKey {
		t.Errorf("invalidations = %v", rec.invalidations)
	}
	sel := c.Selection()
	if sel.IsOpen || sel.ID != "" || sel.IsSubmitting {
		t.Errorf("after settle: %+v", sel)
	}
}

func TestCreateSuccess(t *testing.T) {
	s := newFakeStore()
	c, rec := newTestController(s)

	c.Open(ActionCreate, "")
	c.Update(run(t, c.Submit(models.PostInput{Title: "T", Content: "C"})))

	if len(s.creates) != 1 {
		t.Fatalf("creates = %v", s.creates)
	}
	if len(rec.notes) != 1 || rec.notes[0].Message != "Create successfully" {
		t.Errorf("notes = %+v", rec.notes)
	}
	if len(rec.invalidations) != 1 {
		t.Errorf("invalidations = %v", rec.invalidations)
	}
}

func TestMutationFailureClosesModal(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		fire   func(c *Controller) tea.Cmd
	}{
		{"create", ActionCreate, func(c *Controller) tea.Cmd {
			return c.Submit(models.PostInput{Title: "T", Content: "C"})
		}},
		{"update", ActionUpdate, func(c *Controller) tea.Cmd {
			return c.Submit(models.PostInput{Title: "T", Content: "C"})
		}},
		{"delete", ActionDelete, func(c *Controller) tea.Cmd {
			return c.TriggerDelete()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeStore(samplePost("8", "t", "c"))
			s.err = &store.NetworkError{Op: tt.name, Err: errors.New("connection reset")}
			c, rec := newTestController(s)

			c.Open(tt.action, "8")
			c.Update(run(t, tt.fire(c)))

			if len(rec.notes) != 1 {
				t.Fatalf("notes = %+v, want exactly one", rec.notes)
			}
			if rec.notes[0].Level != LevelError || rec.notes[0].Message != GenericErrorMessage {
				t.Errorf("note = %+v", rec.notes[0])
			}
			if len(rec.invalidations) != 0 {
				t.Errorf("failure must not invalidate: %v", rec.invalidations)
			}
			if c.IsOpen() || c.IsSubmitting() || c.SelectedID() != "" {
				t.Errorf("after failure: %+v", c.Selection())
			}
		})
	}
}

func TestValidationFailureCarriesDetail(t *testing.T) {
	s := newFakeStore()
	s.err = &store.ValidationError{Fields: []models.FieldError{{Field: "title", Message: "title is required"}}}
	c, rec := newTestController(s)

	c.Open(ActionCreate, "")
	c.Update(run(t, c.Submit(models.PostInput{})))

	if len(rec.notes) != 1 {
		t.Fatalf("notes = %+v", rec.notes)
	}
	if rec.notes[0].Message != GenericErrorMessage || rec.notes[0].Detail != "title is required" {
		t.Errorf("note = %+v", rec.notes[0])
	}
}

func TestTriggerDelete(t *testing.T) {
	s := newFakeStore(samplePost("7", "t", "c"))
	c, rec := newTestController(s)

	c.Open(ActionDelete, "7")
	c.Update(run(t, c.TriggerDelete()))

	if len(s.deletes) != 1 || s.deletes[0] != "7" {
		t.Errorf("deletes = %v, want [7]", s.deletes)
	}
	if len(rec.notes) != 1 || rec.notes[0].Message != "Delete successfully" {
		t.Errorf("notes = %+v", rec.notes)
	}
}

func TestTriggerDeleteGuards(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		id     string
	}{
		{"empty id", ActionDelete, ""},
		{"view action", ActionView, "7"},
		{"update action", ActionUpdate, "7"},
		{"create action", ActionCreate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeStore(samplePost("7", "t", "c"))
			c, _ := newTestController(s)
			c.Open(tt.action, tt.id)

			if cmd := c.TriggerDelete(); cmd != nil {
				t.Error("TriggerDelete should be a no-op")
			}
			if len(s.deletes) != 0 {
				t.Errorf("deletes = %v", s.deletes)
			}
		})
	}
}

func TestTriggerDeleteAfterClose(t *testing.T) {
	s := newFakeStore(samplePost("7", "t", "c"))
	c, _ := newTestController(s)

	c.Open(ActionDelete, "7")
	c.Close()
	if cmd := c.TriggerDelete(); cmd != nil {
		t.Error("closed modal has no id to delete")
	}
}

func TestSubmitIgnoredForViewAndDelete(t *testing.T) {
	for _, action := range []Action{ActionView, ActionDelete} {
		s := newFakeStore(samplePost("1", "t", "c"))
		c, _ := newTestController(s)
		c.Open(action, "1")

		if cmd := c.Submit(models.PostInput{Title: "x", Content: "y"}); cmd != nil {
			t.Errorf("%s: Submit returned a command", action)
		}
		if c.IsSubmitting() {
			t.Errorf("%s: Submit should not start a mutation", action)
		}
	}
}

func TestSubmitWhileClosedRejected(t *testing.T) {
	s := newFakeStore()
	c, _ := newTestController(s)

	if cmd := c.Submit(models.PostInput{Title: "x", Content: "y"}); cmd != nil {
		t.Error("Submit with the modal closed should be rejected")
	}
	if c.IsSubmitting() {
		t.Error("closed modal cannot be submitting")
	}
}

func TestOverlappingMutations(t *testing.T) {
	s := newFakeStore()
	c, rec := newTestController(s)

	c.Open(ActionCreate, "")
	first := c.Submit(models.PostInput{Title: "a", Content: "a"})
	second := c.Submit(models.PostInput{Title: "b", Content: "b"})
	if first == nil || second == nil {
		t.Fatal("overlapping submits must both run")
	}

	c.Update(run(t, first))
	if c.IsOpen() || c.IsSubmitting() {
		t.Errorf("first settle should close the modal: %+v", c.Selection())
	}

	c.Update(run(t, second))
	if c.IsOpen() {
		t.Error("late settle should leave the modal closed")
	}
	if len(rec.notes) != 2 || len(rec.invalidations) != 2 {
		t.Errorf("notes=%d invalidations=%d, want 2 each", len(rec.notes), len(rec.invalidations))
	}
}

func TestViewPendingThenResolved(t *testing.T) {
	s := newFakeStore(samplePost("5", "Hello", "World"))
	c, _ := newTestController(s)

	cmd := c.Open(ActionView, "5")

	cfg := c.FormConfig()
	if cfg.Content.Values.Title != "" || cfg.Content.Values.Content != "" || cfg.Content.CreatedAt != "" {
		t.Errorf("pending form shows %+v, want empty strings", cfg.Content)
	}
	if !c.IsLoading() || !cfg.Content.IsLoading {
		t.Error("IsLoading should be true while the fetch is pending")
	}

	c.Update(run(t, cmd))

	cfg = c.FormConfig()
	if cfg.Content.Values.Title != "Hello" || cfg.Content.Values.Content != "World" {
		t.Errorf("resolved form shows %+v", cfg.Content.Values)
	}
	if cfg.Content.CreatedAt != "2026-03-14" {
		t.Errorf("CreatedAt = %q", cfg.Content.CreatedAt)
	}
	if c.IsLoading() {
		t.Error("IsLoading should be false once resolved")
	}
	if c.SelectedPost() == nil || c.SelectedPost().ID != "5" {
		t.Errorf("SelectedPost = %+v", c.SelectedPost())
	}
}

func TestStaleFetchIgnored(t *testing.T) {
	s := newFakeStore(samplePost("1", "one", "1"), samplePost("2", "two", "2"))
	c, _ := newTestController(s)

	first := c.Open(ActionView, "1")
	second := c.Open(ActionView, "2")

	c.Update(run(t, first))
	if c.SelectedPost() != nil || !c.IsLoading() {
		t.Error("result for a deselected id must be dropped")
	}

	c.Update(run(t, second))
	if c.SelectedPost() == nil || c.SelectedPost().Title != "two" {
		t.Errorf("SelectedPost = %+v", c.SelectedPost())
	}
}

func TestFetchAfterCloseIgnored(t *testing.T) {
	s := newFakeStore(samplePost("1", "one", "1"))
	c, _ := newTestController(s)

	cmd := c.Open(ActionView, "1")
	c.Close()
	c.Update(run(t, cmd))

	if c.SelectedPost() != nil {
		t.Error("closing drops the selection; late fetch must not repopulate it")
	}
}

func TestFetchFailureNotifies(t *testing.T) {
	s := newFakeStore()
	c, rec := newTestController(s)

	c.Update(run(t, c.Open(ActionView, "missing")))

	if len(rec.notes) != 1 || rec.notes[0].Message != GenericErrorMessage {
		t.Errorf("notes = %+v", rec.notes)
	}
	if c.IsLoading() {
		t.Error("failed fetch should stop loading")
	}
	if !c.IsOpen() {
		t.Error("fetch failure keeps the modal open with empty fields")
	}
	if c.FormConfig().Content.Values.Title != "" {
		t.Error("failed fetch should fall back to empty strings")
	}
}

func TestOpenUnknownActionIgnored(t *testing.T) {
	c, _ := newTestController(newFakeStore())
	if cmd := c.Open(Action(42), "1"); cmd != nil {
		t.Error("unknown action should not fetch")
	}
	if c.IsOpen() {
		t.Error("unknown action should not open the modal")
	}
}

func TestNilCollaborators(t *testing.T) {
	c := New(newFakeStore(), nil, nil, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	c.Open(ActionCreate, "")
	c.Update(run(t, c.Submit(models.PostInput{Title: "t", Content: "c"})))

	if c.IsOpen() {
		t.Error("modal should close without a notifier or invalidator")
	}
}

func TestUpdateIgnoresUnrelatedMessages(t *testing.T) {
	c, _ := newTestController(newFakeStore())
	if cmd := c.Update(tea.KeyMsg{}); cmd != nil {
		t.Error("unrelated messages should produce no command")
	}
}

func TestViewModel(t *testing.T) {
	s := newFakeStore(samplePost("5", "Hello", "World"))
	c, _ := newTestController(s)
	c.Update(run(t, c.Open(ActionUpdate, "5")))

	vm := c.ViewModel()
	if !vm.IsOpen || vm.Action != ActionUpdate || vm.SelectedID != "5" {
		t.Errorf("vm = %+v", vm)
	}
	if vm.IsLoading || vm.IsSubmitting {
		t.Error("nothing should be in flight")
	}
	if len(vm.Breadcrumb) != 1 || vm.Breadcrumb[0] != (Crumb{Title: "Posts", URL: "/posts"}) {
		t.Errorf("breadcrumb = %+v", vm.Breadcrumb)
	}
	if len(vm.Columns) != 4 {
		t.Errorf("columns = %d", len(vm.Columns))
	}
	if vm.FormConfig.Title != "Update Post" || vm.FormConfig.Content.Values.Title != "Hello" {
		t.Errorf("form = %+v", vm.FormConfig)
	}
	if vm.SelectedPost == nil || vm.SelectedPost.ID != "5" {
		t.Errorf("selected post = %+v", vm.SelectedPost)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"create", ActionCreate, false},
		{"view", ActionView, false},
		{"update", ActionUpdate, false},
		{"edit", ActionUpdate, false},
		{"delete", ActionDelete, false},
		{"publish", ActionCreate, true},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseAction(%q) = %s, %v", tt.in, got, err)
		}
	}
}
