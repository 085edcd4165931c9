package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest title a post may carry, in runes.
const MaxTitleLength = 200

// Post is a blog post as stored by a PostStore.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput holds the user-editable fields of a post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FieldError describes a single validation failure on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize trims surrounding whitespace from the title. Content is kept
// verbatim since it is markdown.
func (in PostInput) Normalize() PostInput {
	in.Title = strings.TrimSpace(in.Title)
	return in
}

// Validate checks the input and returns every failing field.
func (in PostInput) Validate() []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		errs = append(errs, FieldError{Field: "title", Rule: "required", Message: "title is required"})
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs = append(errs, FieldError{
			Field:   "title",
			Rule:    "max_length",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		})
	}

	if strings.TrimSpace(in.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Rule: "required", Message: "content is required"})
	}

	return errs
}

// Input returns the editable fields of the post.
func (p Post) Input() PostInput {
	return PostInput{Title: p.Title, Content: p.Content}
}
