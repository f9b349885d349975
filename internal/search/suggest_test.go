package search

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/honeydo/internal/models"
)

func suggestionTexts(s []Suggestion) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		out = append(out, x.Text)
	}
	return out
}

func TestSuggest_GroupOrder(t *testing.T) {
	categories := []models.Category{
		{ID: uuid.New(), Name: "Outdoor", Icon: "🌳"},
		{ID: uuid.New(), Name: "Kitchen", Icon: "🍳"},
	}
	tags := []models.Tag{{ID: uuid.New(), Name: "doors"}, {ID: uuid.New(), Name: "urgent"}}
	tasks := []models.Task{
		*models.NewTask("Fix door hinge", "", 3, testNow),
		*models.NewTask("Mow lawn", "", 3, testNow),
	}

	got := Suggest("Do", categories, tags, tasks)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Outdoor", "doors", "Fix door hinge"}, suggestionTexts(got))
	assert.Equal(t, SuggestCategory, got[0].Kind)
	assert.Equal(t, "🌳", got[0].Icon)
	assert.Equal(t, "Category", got[0].Subtitle)
	assert.Equal(t, SuggestTag, got[1].Kind)
	assert.Equal(t, "🏷️", got[1].Icon)
	assert.Equal(t, SuggestTask, got[2].Kind)
	assert.Equal(t, models.StatusToDo.Icon(), got[2].Icon)
}

func TestSuggest_FilterPhrases(t *testing.T) {
	got := Suggest("o", nil, nil, nil)
	assert.Empty(t, got, "phrases need at least two characters")

	got = Suggest("ov", nil, nil, nil)
	assert.Equal(t, []string{"overdue"}, suggestionTexts(got))
	assert.Equal(t, SuggestFilter, got[0].Kind)

	got = Suggest("pr", nil, nil, nil)
	assert.Equal(t, []string{"high priority", "in progress"}, suggestionTexts(got))
}

func TestSuggest_OnlyFirstFiveTasks(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 7; i++ {
		tasks = append(tasks, *models.NewTask(fmt.Sprintf("clean %d", i), "", 3, testNow))
	}
	got := Suggest("clean", nil, nil, tasks)
	assert.Equal(t, []string{"clean 0", "clean 1", "clean 2", "clean 3", "clean 4"}, suggestionTexts(got))
}

func TestSuggest_TruncatesToEight(t *testing.T) {
	var categories []models.Category
	var tags []models.Tag
	for i := 0; i < 5; i++ {
		categories = append(categories, models.Category{ID: uuid.New(), Name: fmt.Sprintf("today cat %d", i)})
		tags = append(tags, models.Tag{ID: uuid.New(), Name: fmt.Sprintf("today tag %d", i)})
	}
	got := Suggest("today", categories, tags, nil)
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "today cat 0", got[0].Text)
	assert.Equal(t, "today tag 2", got[7].Text)
}

func TestSuggest_EmptyQuery(t *testing.T) {
	assert.Nil(t, Suggest("  ", []models.Category{{Name: "x"}}, nil, nil))
}
