package console

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/store"
	"github.com/marcus/postadmin/pkg/admin"
)

// PostsLoadedMsg carries a fresh copy of the post collection.
type PostsLoadedMsg struct {
	Posts []models.Post
	Err   error
}

// Collection loads the post list and reloads it when invalidated.
type Collection struct {
	store   store.PostStore
	timeout time.Duration
}

// NewCollection returns a loader for s. Each load is bounded by timeout.
func NewCollection(s store.PostStore, timeout time.Duration) *Collection {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Collection{store: s, timeout: timeout}
}

// Load fetches every post off the event loop.
func (c *Collection) Load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		posts, err := c.store.List(ctx, store.ListOptions{})
		return PostsLoadedMsg{Posts: posts, Err: err}
	}
}

// Invalidate reloads the posts collection. Other keys are ignored.
func (c *Collection) Invalidate(key string) tea.Cmd {
	if key != admin.PostsKey {
		return nil
	}
	return c.Load()
}

// ToastMsg shows a notification on the status line.
type ToastMsg struct {
	admin.Notification
}

// ClearStatusMsg clears the status line if it still shows toast Seq.
type ClearStatusMsg struct {
	Seq int
}

// toastDuration is how long a toast stays on screen.
const toastDuration = 2 * time.Second

// toast delivers a controller notification to the status line.
func toast(n admin.Notification) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Notification: n} }
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
