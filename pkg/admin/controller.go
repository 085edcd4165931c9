package admin

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/singleflight"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/store"
	"github.com/marcus/postadmin/internal/workflow"
)

// Options configures a Controller.
type Options struct {
	// DateFormat is the layout for Created At cells and the view card.
	DateFormat string
	Logger     *slog.Logger
}

// Selection is a snapshot of the modal state.
type Selection struct {
	Action       Action
	ID           string
	IsOpen       bool
	IsSubmitting bool
}

// Controller coordinates the post admin modal. It is not safe for concurrent
// use: call its methods from a single event loop and feed every message it
// produces back through Update.
type Controller struct {
	store       store.PostStore
	notifier    Notifier
	invalidator Invalidator
	machine     *workflow.Machine
	logger      *slog.Logger
	dateFormat  string

	phase   workflow.Phase
	action  Action
	id      string
	post    *models.Post // cached copy of the post behind id
	loading bool

	fetches singleflight.Group
}

// New returns a closed controller with the default CREATE selection.
// notifier and invalidator may be nil.
func New(s store.PostStore, notifier Notifier, invalidator Invalidator, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dateFormat := opts.DateFormat
	if dateFormat == "" {
		dateFormat = models.DefaultDateFormat
	}

	return &Controller{
		store:       s,
		notifier:    notifier,
		invalidator: invalidator,
		machine:     workflow.DefaultMachine(),
		logger:      logger,
		dateFormat:  dateFormat,
		phase:       workflow.PhaseIdle,
		action:      ActionCreate,
	}
}

// Open shows the modal for action. CREATE never carries an id. Reopening
// replaces the current selection. When id is set and not already cached,
// the returned command loads the post.
func (c *Controller) Open(action Action, id string) tea.Cmd {
	if !action.Valid() {
		c.logger.Warn("ignored open with unknown action", "action", action)
		return nil
	}
	if !action.TargetsPost() {
		id = ""
	}

	c.fire(workflow.EventOpen)
	c.action = action

	prev := c.id
	c.id = id

	if id == "" {
		c.post = nil
		c.loading = false
		return nil
	}
	if id == prev && (c.post != nil || c.loading) {
		return nil
	}

	c.post = nil
	c.loading = true
	return c.fetch(id)
}

// Close hides the modal and drops the selected id. The action is kept.
func (c *Controller) Close() {
	c.fire(workflow.EventClose)
	c.id = ""
	c.post = nil
	c.loading = false
}

// Submit runs the mutation for the current action: create for CREATE,
// update of the selected id for UPDATE. Other actions do not submit.
func (c *Controller) Submit(in models.PostInput) tea.Cmd {
	switch c.action {
	case ActionCreate:
		return c.mutate(MutationCreate, "", func(ctx context.Context) (*models.Post, error) {
			return c.store.Create(ctx, in)
		})
	case ActionUpdate:
		id := c.id
		return c.mutate(MutationUpdate, id, func(ctx context.Context) (*models.Post, error) {
			return c.store.Update(ctx, id, in)
		})
	default:
		return nil
	}
}

// TriggerDelete deletes the selected post. It is a no-op unless the
// selection is DELETE with an id.
func (c *Controller) TriggerDelete() tea.Cmd {
	if c.action != ActionDelete || c.id == "" {
		return nil
	}
	id := c.id
	return c.mutate(MutationDelete, id, func(ctx context.Context) (*models.Post, error) {
		return nil, c.store.Delete(ctx, id)
	})
}

// Update applies fetch and mutation results. Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PostFetchedMsg:
		return c.handleFetched(msg)
	case MutationSettledMsg:
		return c.handleSettled(msg)
	}
	return nil
}

func (c *Controller) handleFetched(msg PostFetchedMsg) tea.Cmd {
	// A result for an id that is no longer selected is dropped.
	if msg.ID != c.id || !c.loading {
		return nil
	}
	c.loading = false

	if msg.Err != nil {
		c.logger.Warn("fetch post failed", "id", msg.ID, "err", msg.Err)
		c.post = nil
		return c.notify(failure(msg.Err))
	}
	c.post = msg.Post
	return nil
}

func (c *Controller) handleSettled(msg MutationSettledMsg) tea.Cmd {
	c.fire(workflow.EventSettle)
	c.Close()

	if msg.Err != nil {
		c.logger.Error("mutation failed", "mutation", msg.Mutation, "id", msg.ID, "err", msg.Err)
		return c.notify(failure(msg.Err))
	}

	c.logger.Info("mutation succeeded", "mutation", msg.Mutation, "id", msg.ID)
	var cmds []tea.Cmd
	if c.invalidator != nil {
		cmds = append(cmds, c.invalidator.Invalidate(PostsKey))
	}
	cmds = append(cmds, c.notify(Notification{Level: LevelSuccess, Message: msg.Mutation.SuccessMessage()}))
	return tea.Batch(cmds...)
}

func (c *Controller) mutate(kind Mutation, id string, fn func(context.Context) (*models.Post, error)) tea.Cmd {
	if !c.fire(workflow.EventSubmit) {
		return nil
	}
	c.logger.Debug("mutation started", "mutation", kind, "id", id)

	return func() tea.Msg {
		post, err := fn(context.Background())
		return MutationSettledMsg{Mutation: kind, ID: id, Post: post, Err: err}
	}
}

// fetch loads id off the event loop. Concurrent loads of the same id share
// one store call.
func (c *Controller) fetch(id string) tea.Cmd {
	return func() tea.Msg {
		v, err, _ := c.fetches.Do(id, func() (any, error) {
			return c.store.Get(context.Background(), id)
		})
		post, _ := v.(*models.Post)
		return PostFetchedMsg{ID: id, Post: post, Err: err}
	}
}

func (c *Controller) notify(n Notification) tea.Cmd {
	if c.notifier == nil {
		return nil
	}
	return c.notifier.Notify(n)
}

// fire applies ev to the modal phase. Rejected events leave the phase as is.
func (c *Controller) fire(ev workflow.Event) bool {
	next, err := c.machine.Apply(c.phase, ev)
	if err != nil {
		c.logger.Debug("modal event rejected", "err", err)
		return false
	}
	c.phase = next
	return true
}

// Selection returns the current modal state.
func (c *Controller) Selection() Selection {
	return Selection{
		Action:       c.action,
		ID:           c.id,
		IsOpen:       c.IsOpen(),
		IsSubmitting: c.IsSubmitting(),
	}
}

func (c *Controller) Phase() workflow.Phase { return c.phase }
func (c *Controller) Action() Action        { return c.action }
func (c *Controller) SelectedID() string    { return c.id }
func (c *Controller) IsOpen() bool          { return c.phase != workflow.PhaseIdle }
func (c *Controller) IsSubmitting() bool    { return c.phase == workflow.PhaseSubmitting }
func (c *Controller) IsLoading() bool       { return c.loading }
func (c *Controller) DateFormat() string    { return c.dateFormat }

// SelectedPost returns the cached post for the selected id, or nil while it
// is loading or when nothing is selected.
func (c *Controller) SelectedPost() *models.Post { return c.post }
