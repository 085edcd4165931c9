// Package client implements store.PostStore against the postadmin HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/serve"
	"github.com/marcus/postadmin/internal/store"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Client talks to a postadmin server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for baseURL. token may be empty when the server runs
// without auth.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ store.PostStore = (*Client)(nil)

func (c *Client) Get(ctx context.Context, id string) (*models.Post, error) {
	var data serve.PostResponse
	if err := c.do(ctx, "get", http.MethodGet, postPath(id), nil, &data, id); err != nil {
		return nil, err
	}
	return toModel(data.Post)
}

// List pages through the server, serve.MaxLimit posts per request, until
// opts.Limit posts are collected or a short page comes back. A zero Limit
// returns every post.
func (c *Client) List(ctx context.Context, opts store.ListOptions) ([]models.Post, error) {
	posts := []models.Post{}
	offset := opts.Offset
	for {
		size := serve.MaxLimit
		if opts.Limit > 0 {
			size = min(size, opts.Limit-len(posts))
		}
		page, err := c.listPage(ctx, opts.Search, size, offset)
		if err != nil {
			return nil, err
		}
		posts = append(posts, page...)
		if len(page) < size || (opts.Limit > 0 && len(posts) >= opts.Limit) {
			return posts, nil
		}
		offset += len(page)
	}
}

func (c *Client) listPage(ctx context.Context, search string, limit, offset int) ([]models.Post, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var data serve.PostListResponse
	if err := c.do(ctx, "list", http.MethodGet, "/v1/posts?"+q.Encode(), nil, &data, ""); err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(data.Items))
	for _, dto := range data.Items {
		p, err := dto.Model()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (c *Client) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	body := serve.PostCreateBody{Title: in.Title, Content: in.Content}
	var data serve.PostResponse
	if err := c.do(ctx, "create", http.MethodPost, "/v1/posts", body, &data, ""); err != nil {
		return nil, err
	}
	return toModel(data.Post)
}

// Update sends both fields, so the stored post is fully replaced.
func (c *Client) Update(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	body := serve.PostUpdateBody{Title: &in.Title, Content: &in.Content}
	var data serve.PostResponse
	if err := c.do(ctx, "update", http.MethodPatch, postPath(id), body, &data, id); err != nil {
		return nil, err
	}
	return toModel(data.Post)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, postPath(id), nil, nil, id)
}

// Ping checks that the server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/health", nil, nil, "")
}

// do performs one API call and decodes the envelope data into out. Transport
// failures become NetworkError; error envelopes map onto the store errors.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, id string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &store.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env serve.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return envelopeError(op, resp.StatusCode, nil, id)
		}
		return &store.NetworkError{Op: op, Err: fmt.Errorf("http %d: decode response: %w", resp.StatusCode, err)}
	}

	if !env.OK || resp.StatusCode >= 400 {
		return envelopeError(op, resp.StatusCode, env.Error, id)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}

func envelopeError(op string, status int, payload *serve.ErrorPayload, id string) error {
	code, msg := "", http.StatusText(status)
	if payload != nil {
		code, msg = payload.Code, payload.Message
	}

	switch {
	case code == serve.ErrValidation || status == http.StatusBadRequest:
		fields := []models.FieldError{{Message: msg}}
		if payload != nil && len(payload.Details) > 0 {
			fields = payload.Details
		}
		return &store.ValidationError{Fields: fields}
	case code == serve.ErrNotFound || status == http.StatusNotFound:
		return &store.NotFoundError{ID: id}
	default:
		return fmt.Errorf("%s: http %d: %s", op, status, msg)
	}
}

func postPath(id string) string {
	return "/v1/posts/" + url.PathEscape(id)
}

func toModel(dto serve.PostDTO) (*models.Post, error) {
	p, err := dto.Model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}
