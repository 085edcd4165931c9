package serve

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/marcus/postadmin/internal/store"
)

// ============================================================================
// GET /health
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, HealthResponse{Status: "ok", InstanceID: s.instanceID}, http.StatusOK)
}

// ============================================================================
// GET /v1/posts
// ============================================================================

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, offset := DefaultLimit, 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, ErrValidation, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, ErrValidation, "offset must be an integer", http.StatusBadRequest)
			return
		}
		offset = n
	}
	if errs := ValidatePagination(limit, offset); len(errs) > 0 {
		WriteValidation(w, errs)
		return
	}

	search := q.Get("search")
	posts, err := s.store.List(r.Context(), store.ListOptions{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		s.writeStoreError(w, err, "list posts")
		return
	}

	total := offset + len(posts)
	if c, ok := s.store.(store.Counter); ok {
		if n, err := c.Count(r.Context(), search); err == nil {
			total = n
		} else {
			s.logger.Warn("count posts", "err", err)
		}
	}

	WriteSuccess(w, PostListResponse{
		Items:      PostsToDTOs(posts),
		Pagination: PaginationDTO{Limit: limit, Offset: offset, Total: total},
	}, http.StatusOK)
}

// ============================================================================
// GET /v1/posts/{id}
// ============================================================================

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	post, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "get post")
		return
	}
	WriteSuccess(w, PostResponse{Post: PostToDTO(post)}, http.StatusOK)
}

// ============================================================================
// POST /v1/posts
// ============================================================================

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var body PostCreateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, ErrValidation, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	in, err := store.Validate(body.Input())
	if err != nil {
		s.writeStoreError(w, err, "create post")
		return
	}

	post, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, err, "create post")
		return
	}
	WriteSuccess(w, PostResponse{Post: PostToDTO(post)}, http.StatusCreated)
}

// ============================================================================
// PATCH /v1/posts/{id}
// ============================================================================

// handleUpdatePost applies a partial update: absent fields keep their
// stored value.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body PostUpdateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, ErrValidation, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "get post for update")
		return
	}

	in, err := store.Validate(body.Apply(existing.Input()))
	if err != nil {
		s.writeStoreError(w, err, "update post")
		return
	}

	post, err := s.store.Update(r.Context(), id, in)
	if err != nil {
		s.writeStoreError(w, err, "update post")
		return
	}
	WriteSuccess(w, PostResponse{Post: PostToDTO(post)}, http.StatusOK)
}

// ============================================================================
// DELETE /v1/posts/{id}
// ============================================================================

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "delete post")
		return
	}
	WriteSuccess(w, map[string]any{"deleted": id}, http.StatusOK)
}

// writeStoreError maps typed store errors onto the error envelope.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, op string) {
	var verr *store.ValidationError
	var nerr *store.NotFoundError
	switch {
	case errors.As(err, &verr):
		WriteValidation(w, verr.Fields)
	case errors.As(err, &nerr):
		WriteError(w, ErrNotFound, nerr.Error(), http.StatusNotFound)
	default:
		s.logger.Error(op, "err", err)
		WriteError(w, ErrInternal, "failed to "+op, http.StatusInternalServerError)
	}
}
