package admin

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/store"
)

// fakeStore is an in-memory store.PostStore that records every call.
type fakeStore struct {
	mu    sync.Mutex
	posts map[string]models.Post

	// err, when set, is returned by every mutation.
	err error
	// getErr, when set, is returned by Get.
	getErr error

	gets    []string
	creates []models.PostInput
	updates []string
	inputs  []models.PostInput
	deletes []string
}

func newFakeStore(posts ...models.Post) *fakeStore {
	s := &fakeStore{posts: make(map[string]models.Post)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets = append(s.gets, id)
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, &store.NotFoundError{ID: id}
	}
	return &p, nil
}

func (s *fakeStore) List(_ context.Context, _ store.ListOptions) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, in models.PostInput) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, in)
	if s.err != nil {
		return nil, s.err
	}
	p := models.Post{ID: "new", Title: in.Title, Content: in.Content, CreatedAt: time.Now()}
	s.posts[p.ID] = p
	return &p, nil
}

func (s *fakeStore) Update(_ context.Context, id string, in models.PostInput) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, id)
	s.inputs = append(s.inputs, in)
	if s.err != nil {
		return nil, s.err
	}
	p := s.posts[id]
	p.Title, p.Content = in.Title, in.Content
	s.posts[id] = p
	return &p, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.err != nil {
		return s.err
	}
	delete(s.posts, id)
	return nil
}

// recorder captures notifications and invalidations.
type recorder struct {
	notes         []Notification
	invalidations []string
}

func (r *recorder) Notify(n Notification) tea.Cmd {
	r.notes = append(r.notes, n)
	return nil
}

func (r *recorder) Invalidate(key string) tea.Cmd {
	r.invalidations = append(r.invalidations, key)
	return nil
}
