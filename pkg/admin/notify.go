package admin

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/postadmin/internal/store"
)

// PostsKey names the post collection for invalidation.
const PostsKey = "posts"

// GenericErrorMessage is shown for every failed fetch or mutation.
const GenericErrorMessage = "An error occurred"

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notification is user feedback emitted after a fetch or mutation.
type Notification struct {
	Level   Level
	Message string
	// Detail carries validation feedback when the store supplied any.
	Detail string
}

// Notifier shows notifications to the user. The returned command may be nil.
type Notifier interface {
	Notify(n Notification) tea.Cmd
}

// Invalidator marks a cached collection stale so it is reloaded. The returned
// command may be nil; callers do not wait for the reload.
type Invalidator interface {
	Invalidate(key string) tea.Cmd
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification) tea.Cmd

func (f NotifierFunc) Notify(n Notification) tea.Cmd { return f(n) }

func failure(err error) Notification {
	n := Notification{Level: LevelError, Message: GenericErrorMessage}
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		n.Detail = verr.Error()
	}
	return n
}
