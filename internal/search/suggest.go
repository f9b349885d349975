package search

import (
	"strings"
	"unicode/utf8"

	"github.com/tgienger/honeydo/internal/models"
)

const (
	MaxSuggestions       = 8
	maxTaskSuggestions   = 5
	minFilterPhraseQuery = 2
)

// filterPhrases are offered as suggestions once the query has two or more characters
var filterPhrases = []string{"high priority", "overdue", "today", "completed", "in progress"}

// SuggestionKind says where a suggestion came from
type SuggestionKind int

const (
	SuggestCategory SuggestionKind = iota
	SuggestTag
	SuggestTask
	SuggestFilter
)

func (k SuggestionKind) String() string {
	switch k {
	case SuggestCategory:
		return "Category"
	case SuggestTag:
		return "Tag"
	case SuggestTask:
		return "Task"
	case SuggestFilter:
		return "Filter"
	}
	return ""
}

type Suggestion struct {
	Kind     SuggestionKind
	Text     string
	Icon     string
	Subtitle string
}

// Suggest builds typeahead entries for q: matching categories, then tags,
// then titles among the first five tasks, then filter phrases. The list is
// cut to MaxSuggestions keeping that group order.
func Suggest(q string, categories []models.Category, tags []models.Tag, tasks []models.Task) []Suggestion {
	q = Normalize(q)
	if q == "" {
		return nil
	}

	var out []Suggestion
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, Suggestion{Kind: SuggestCategory, Text: c.Name, Icon: c.Icon, Subtitle: SuggestCategory.String()})
		}
	}
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, Suggestion{Kind: SuggestTag, Text: t.Name, Icon: "🏷️", Subtitle: SuggestTag.String()})
		}
	}
	if len(tasks) > maxTaskSuggestions {
		tasks = tasks[:maxTaskSuggestions]
	}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, Suggestion{Kind: SuggestTask, Text: t.Title, Icon: t.Status.Icon(), Subtitle: SuggestTask.String()})
		}
	}
	if utf8.RuneCountInString(q) >= minFilterPhraseQuery {
		for _, phrase := range filterPhrases {
			if strings.Contains(phrase, q) {
				out = append(out, Suggestion{Kind: SuggestFilter, Text: phrase, Icon: "🔍", Subtitle: SuggestFilter.String()})
			}
		}
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}
