package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcus/postadmin/internal/models"
)

// timeNow is replaced in tests for deterministic timestamps.
var timeNow = time.Now

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const postColumns = `id, title, content, created_at, updated_at`

// ListPostsOptions filters and pages ListPosts results.
type ListPostsOptions struct {
	Search string // case-insensitive substring match on title or content
	Limit  int    // 0 = no limit
	Offset int
}

// CreatePost inserts a new post and returns it with its generated ID and
// timestamps.
func (db *DB) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	id, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	now := timeNow().UTC()
	post := &models.Post{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Content, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return post, nil
}

// GetPost returns the post with the given ID or an error wrapping ErrNotFound.
func (db *DB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	id = NormalizePostID(id)
	row := db.conn.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// ListPosts returns posts, newest first.
func (db *DB) ListPosts(ctx context.Context, opts ListPostsOptions) ([]models.Post, error) {
	where, args := searchClause(opts.Search)
	query := `SELECT ` + postColumns + ` FROM posts` + where + ` ORDER BY created_at DESC, id`

	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// UpdatePost replaces the editable fields of a post.
func (db *DB) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	id = NormalizePostID(id)
	now := timeNow().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		in.Title, in.Content, formatTime(now), id)
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	return db.GetPost(ctx, id)
}

// DeletePost removes a post permanently.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	id = NormalizePostID(id)

	res, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// CountPosts returns the number of posts matching search, or all posts when
// search is blank.
func (db *DB) CountPosts(ctx context.Context, search string) (int, error) {
	where, args := searchClause(search)
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func searchClause(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	pattern := "%" + escapeLike(search) + "%"
	return ` WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'`, []any{pattern, pattern}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var createdAt, updatedAt string
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &post, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
