// Package serve provides the HTTP API for posts, including response
// envelopes, DTOs with explicit JSON serialization, and request validation
// helpers.
package serve

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/marcus/postadmin/internal/models"
)

// ============================================================================
// Response Envelope
// ============================================================================

// Envelope is the standard response wrapper for all API responses.
// Success: {"ok": true, "data": {...}}
// Error:   {"ok": false, "error": {"code": "...", "message": "...", "details": ...}}
type Envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ErrorPayload   `json:"error,omitempty"`
}

// ErrorPayload holds structured error information.
type ErrorPayload struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []models.FieldError `json:"details,omitempty"`
}

// Standard error codes mapped to HTTP status codes.
const (
	ErrValidation   = "validation_error" // 400
	ErrNotFound     = "not_found"        // 404
	ErrUnauthorized = "unauthorized"     // 401
	ErrInternal     = "internal"         // 500
)

// WriteSuccess writes a JSON success envelope with the given data and status.
func WriteSuccess(w http.ResponseWriter, data any, status int) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal success response", "err", err)
		WriteError(w, ErrInternal, "failed to encode response", http.StatusInternalServerError)
		return
	}
	writeEnvelope(w, Envelope{OK: true, Data: raw}, status)
}

// WriteError writes a JSON error envelope.
func WriteError(w http.ResponseWriter, code, message string, status int) {
	writeEnvelope(w, Envelope{
		Error: &ErrorPayload{Code: code, Message: message},
	}, status)
}

// WriteValidation writes a 400 validation_error response with field-level
// details.
func WriteValidation(w http.ResponseWriter, fields []models.FieldError) {
	writeEnvelope(w, Envelope{
		Error: &ErrorPayload{
			Code:    ErrValidation,
			Message: "Validation failed",
			Details: fields,
		},
	}, http.StatusBadRequest)
}

func writeEnvelope(w http.ResponseWriter, env Envelope, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("write response", "err", err, "ok", env.OK)
	}
}

// ============================================================================
// Post DTO
// ============================================================================

// PostDTO is the API representation of a post. Timestamps are RFC3339 with
// nanoseconds in UTC.
type PostDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PostToDTO converts a models.Post for the wire.
func PostToDTO(p *models.Post) PostDTO {
	return PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// PostsToDTOs converts a slice of posts. The result is never nil so it
// serializes as [].
func PostsToDTOs(posts []models.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = PostToDTO(&posts[i])
	}
	return dtos
}

// Model converts the DTO back into a models.Post.
func (d PostDTO) Model() (models.Post, error) {
	created, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("parse created_at %q: %w", d.CreatedAt, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, d.UpdatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("parse updated_at %q: %w", d.UpdatedAt, err)
	}
	return models.Post{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// HealthResponse is the data payload of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`
}

// PostResponse is the data payload of single-post responses.
type PostResponse struct {
	Post PostDTO `json:"post"`
}

// ============================================================================
// Pagination DTO
// ============================================================================

// PaginationDTO describes the pagination state returned alongside list
// results.
type PaginationDTO struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// PostListResponse is the data payload of GET /v1/posts.
type PostListResponse struct {
	Items      []PostDTO     `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}

// ============================================================================
// Request Bodies
// ============================================================================

// PostCreateBody is the JSON body for creating a post.
type PostCreateBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Input returns the body as store input.
func (b PostCreateBody) Input() models.PostInput {
	return models.PostInput{Title: b.Title, Content: b.Content}
}

// PostUpdateBody is the JSON body for updating a post. Absent fields keep
// their stored value.
type PostUpdateBody struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Apply overlays the present fields on in.
func (b PostUpdateBody) Apply(in models.PostInput) models.PostInput {
	if b.Title != nil {
		in.Title = *b.Title
	}
	if b.Content != nil {
		in.Content = *b.Content
	}
	return in
}

// ============================================================================
// Validation Helpers
// ============================================================================

// Pagination bounds for list queries.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// ValidatePagination validates limit and offset query parameters.
func ValidatePagination(limit, offset int) []models.FieldError {
	var errs []models.FieldError

	if limit < 1 || limit > MaxLimit {
		errs = append(errs, models.FieldError{
			Field:   "limit",
			Rule:    "range",
			Message: fmt.Sprintf("limit must be between 1 and %d, got %d", MaxLimit, limit),
		})
	}

	if offset < 0 {
		errs = append(errs, models.FieldError{
			Field:   "offset",
			Rule:    "min",
			Message: fmt.Sprintf("offset must be >= 0, got %d", offset),
		})
	}

	return errs
}
