package db

import (
	"sort"
	"strings"

	"github.com/marcus/postadmin/internal/models"
)

// SearchResult holds a post with relevance scoring for ranked search
type SearchResult struct {
	Post       models.Post
	Score      int    // Higher = better match (0-100)
	MatchField string // Primary field that matched: 'id', 'title', 'content'
}

// RankPosts scores posts against query and orders them best match first.
// Ties keep newest first. Posts that do not match at all score 0 and sort
// last.
func RankPosts(posts []models.Post, query string) []SearchResult {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	results := make([]SearchResult, 0, len(posts))

	for _, post := range posts {
		score := 0
		matchField := ""

		titleLower := strings.ToLower(post.Title)

		// Score by match quality (highest wins)
		switch {
		case queryLower == "":
		case strings.EqualFold(post.ID, queryLower):
			score, matchField = 100, "id"
		case strings.EqualFold(post.Title, queryLower):
			score, matchField = 80, "title"
		case strings.HasPrefix(titleLower, queryLower):
			score, matchField = 70, "title"
		case strings.Contains(titleLower, queryLower):
			score, matchField = 60, "title"
		case strings.Contains(strings.ToLower(post.Content), queryLower):
			score, matchField = 40, "content"
		}

		results = append(results, SearchResult{
			Post:       post,
			Score:      score,
			MatchField: matchField,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Post.CreatedAt.After(results[j].Post.CreatedAt)
	})

	return results
}
