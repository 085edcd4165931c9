package store

import (
	"context"
	"errors"

	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/internal/models"
)

// Local serves posts straight from the SQLite database.
type Local struct {
	db *db.DB
}

// NewLocal returns a PostStore backed by database.
func NewLocal(database *db.DB) *Local {
	return &Local{db: database}
}

func (l *Local) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := l.db.GetPost(ctx, id)
	return post, mapDBError(id, err)
}

func (l *Local) List(ctx context.Context, opts ListOptions) ([]models.Post, error) {
	return l.db.ListPosts(ctx, db.ListPostsOptions{
		Search: opts.Search,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

func (l *Local) Count(ctx context.Context, search string) (int, error) {
	return l.db.CountPosts(ctx, search)
}

func (l *Local) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	in, err := Validate(in)
	if err != nil {
		return nil, err
	}
	return l.db.CreatePost(ctx, in)
}

func (l *Local) Update(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	in, err := Validate(in)
	if err != nil {
		return nil, err
	}
	post, err := l.db.UpdatePost(ctx, id, in)
	return post, mapDBError(id, err)
}

func (l *Local) Delete(ctx context.Context, id string) error {
	return mapDBError(id, l.db.DeletePost(ctx, id))
}

func mapDBError(id string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return err
}
