package db

import (
	"strings"

	"github.com/google/uuid"
)

const idPrefix = "post-"

// NormalizePostID ensures a post ID has the post- prefix
// Accepts bare IDs like "1b4e28ba" and returns "post-1b4e28ba"
func NormalizePostID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, idPrefix) {
		return idPrefix + id
	}
	return id
}

// idGenerator is the function used to generate post IDs.
// It can be replaced in tests to control ID generation.
var idGenerator = defaultGenerateID

func defaultGenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return idPrefix + id.String(), nil
}
