package store

import (
	"fmt"
	"strings"

	"github.com/marcus/postadmin/internal/models"
)

// NetworkError reports a failure to reach the store.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports rejected input.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Message
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// NotFoundError reports a post id the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post not found: %s", e.ID)
}

// Validate normalizes in and returns a *ValidationError if any field fails.
func Validate(in models.PostInput) (models.PostInput, error) {
	in = in.Normalize()
	if errs := in.Validate(); len(errs) > 0 {
		return in, &ValidationError{Fields: errs}
	}
	return in, nil
}
