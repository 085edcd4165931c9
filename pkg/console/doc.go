// Package console is the terminal admin screen for posts: a sortable,
// filterable table with a modal for viewing, creating, editing and
// deleting the selected post. All modal state lives in an
// admin.Controller; this package renders it and routes keys to it.
package console
