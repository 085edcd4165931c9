// Package store defines the PostStore boundary used by the admin screen and
// the typed errors every implementation reports.
package store

import (
	"context"

	"github.com/marcus/postadmin/internal/models"
)

// PostStore is asynchronous CRUD over posts keyed by id.
type PostStore interface {
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, opts ListOptions) ([]models.Post, error)
	Create(ctx context.Context, in models.PostInput) (*models.Post, error)
	Update(ctx context.Context, id string, in models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// ListOptions filters List results.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// Counter is implemented by stores that can report the total number of posts
// matching a search, for pagination.
type Counter interface {
	Count(ctx context.Context, search string) (int, error)
}
