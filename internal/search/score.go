// Package search ranks tasks against a free-text query and runs debounced
// searches for the UI.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/tgienger/honeydo/internal/filter"
	"github.com/tgienger/honeydo/internal/models"
)

// Score weights
const (
	scoreTitle       = 100
	scoreTitlePrefix = 50
	scoreDescription = 50
	scoreCategory    = 30
	scorePerTag      = 25
	scorePerSupply   = 20
	scorePerPriority = 5
	scoreUrgent      = 15
	scoreOverdue     = 10
)

// Result is a matched task and its relevance score
type Result struct {
	Task  models.Task
	Score int
}

// Normalize trims and lowercases a raw query
func Normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// searchableText joins every field a query can match against
func searchableText(t *models.Task) string {
	parts := []string{t.Title, t.Description, t.Notes, t.CategoryName()}
	for _, s := range t.Supplies {
		parts = append(parts, s.Name)
	}
	for _, tag := range t.Tags {
		parts = append(parts, tag.Name)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// MatchesQuery reports whether every whitespace-separated token of q occurs
// in the task's searchable text. q must already be normalized.
func MatchesQuery(t *models.Task, q string) bool {
	text := searchableText(t)
	for _, word := range strings.Fields(q) {
		if !strings.Contains(text, word) {
			return false
		}
	}
	return true
}

// Score ranks a task that already matched q. Each signal tests the whole
// query, not its tokens.
func Score(t *models.Task, q string, now time.Time) int {
	score := 0

	title := strings.ToLower(t.Title)
	if strings.Contains(title, q) {
		score += scoreTitle
		if strings.HasPrefix(title, q) {
			score += scoreTitlePrefix
		}
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		score += scoreDescription
	}
	if t.Category != nil && strings.Contains(strings.ToLower(t.Category.Name), q) {
		score += scoreCategory
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag.Name), q) {
			score += scorePerTag
		}
	}
	for _, s := range t.Supplies {
		if strings.Contains(strings.ToLower(s.Name), q) {
			score += scorePerSupply
		}
	}

	score += scorePerPriority * t.Priority
	if t.IsUrgent(now) {
		score += scoreUrgent
	}
	if t.IsOverdue(now) {
		score += scoreOverdue
	}
	return score
}

// Rank filters tasks by criteria and query, scores the survivors and sorts
// them by score, highest first. Equal scores keep their order in tasks.
func Rank(tasks []models.Task, query string, c filter.Criteria, now time.Time) []Result {
	q := Normalize(query)
	results := make([]Result, 0)
	for i := range tasks {
		t := &tasks[i]
		if !c.Matches(t, now) || !MatchesQuery(t, q) {
			continue
		}
		results = append(results, Result{Task: *t, Score: Score(t, q, now)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
