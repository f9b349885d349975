package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/search"
	"github.com/tgienger/honeydo/internal/storage/memory"
	"github.com/tgienger/honeydo/internal/ui"
)

var (
	_ repository.Store = (*memory.Storage)(nil)
	_ search.Settings  = (*memory.Storage)(nil)
	_ ui.Settings      = (*memory.Storage)(nil)
)

var now = time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)

func TestStorage_TasksKeepInsertionOrder(t *testing.T) {
	s := memory.NewMemoryStorage()
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, s.SaveTask(ctx, models.NewTask(title, "", 3, now)))
	}

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "third", tasks[2].Title)

	// re-saving keeps its first position
	tasks[0].Title = "first (edited)"
	require.NoError(t, s.SaveTask(ctx, &tasks[0]))
	tasks, _ = s.Tasks(ctx)
	assert.Equal(t, "first (edited)", tasks[0].Title)
}

func TestStorage_ResolvesTaxonomyOnRead(t *testing.T) {
	s := memory.NewMemoryStorage()
	ctx := context.Background()

	cat := models.Category{ID: uuid.New(), Name: "Kitchen", CreatedAt: now}
	tag := models.Tag{ID: uuid.New(), Name: "urgent", CreatedAt: now}
	require.NoError(t, s.SaveCategory(ctx, &cat))
	require.NoError(t, s.SaveTag(ctx, &tag))

	task := models.NewTask("Fix sink", "", 3, now)
	task.Category = &cat
	task.Tags = []models.Tag{tag}
	require.NoError(t, s.SaveTask(ctx, task))

	cat.Name = "Kitchen & Pantry"
	require.NoError(t, s.SaveCategory(ctx, &cat))

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	require.NotNil(t, tasks[0].Category)
	assert.Equal(t, "Kitchen & Pantry", tasks[0].Category.Name)
	require.Len(t, tasks[0].Tags, 1)

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))
	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	tasks, _ = s.Tasks(ctx)
	assert.Nil(t, tasks[0].Category)
	assert.Empty(t, tasks[0].Tags)
}

func TestStorage_ReturnsCopies(t *testing.T) {
	s := memory.NewMemoryStorage()
	ctx := context.Background()
	task := models.NewTask("Paint fence", "", 3, now)
	require.NoError(t, s.SaveTask(ctx, task))

	task.Title = "changed after save"
	tasks, _ := s.Tasks(ctx)
	assert.Equal(t, "Paint fence", tasks[0].Title)
}

func TestStorage_Errors(t *testing.T) {
	s := memory.NewMemoryStorage()

	err := s.SaveTask(context.Background(), &models.Task{Title: "no id"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Tasks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_Settings(t *testing.T) {
	s := memory.NewMemoryStorage()

	v, err := s.GetSetting("last_category_id")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetSetting("last_category_id", "abc"))
	v, _ = s.GetSetting("last_category_id")
	assert.Equal(t, "abc", v)

	list := []string{"sink", "fence"}
	require.NoError(t, s.SetStringList("recent_searches", list))
	list[0] = "mutated"
	got, err := s.GetStringList("recent_searches")
	require.NoError(t, err)
	assert.Equal(t, []string{"sink", "fence"}, got)
}
