package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/store"
)

// memStore is an ordered in-memory store.PostStore.
type memStore struct {
	mu      sync.Mutex
	posts   []models.Post
	nextID  int
	listErr error
	mutErr  error
	creates int
	deletes []string
}

func newMemStore(posts ...models.Post) *memStore {
	return &memStore{posts: posts, nextID: len(posts) + 1}
}

func (s *memStore) Get(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &store.NotFoundError{ID: id}
}

func (s *memStore) List(_ context.Context, _ store.ListOptions) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]models.Post(nil), s.posts...), nil
}

func (s *memStore) Create(_ context.Context, in models.PostInput) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.mutErr != nil {
		return nil, s.mutErr
	}
	p := models.Post{
		ID:        fmt.Sprintf("p%d", s.nextID),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	s.nextID++
	s.posts = append([]models.Post{p}, s.posts...)
	return &p, nil
}

func (s *memStore) Update(_ context.Context, id string, in models.PostInput) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutErr != nil {
		return nil, s.mutErr
	}
	for i, p := range s.posts {
		if p.ID == id {
			s.posts[i].Title, s.posts[i].Content = in.Title, in.Content
			out := s.posts[i]
			return &out, nil
		}
	}
	return nil, &store.NotFoundError{ID: id}
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.mutErr != nil {
		return s.mutErr
	}
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return &store.NotFoundError{ID: id}
}

var errBoom = errors.New("boom")
