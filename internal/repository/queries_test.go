package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/honeydo/internal/models"
)

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

// seedQueryTasks builds a fixed set of tasks around testNow (Wednesday 09:00 UTC)
func seedQueryTasks(t *testing.T) []models.Task {
	t.Helper()
	mk := func(title string, priority int, created time.Duration, due *time.Time, status models.Status) models.Task {
		task := models.NewTask(title, "", priority, testNow.Add(created))
		task.DueAt = due
		task.SetStatus(status, testNow.Add(created))
		return *task
	}
	return []models.Task{
		mk("overdue-old", 2, -100*time.Hour, ptrTime(testNow.Add(-72*time.Hour)), models.StatusToDo),
		mk("overdue-recent", 3, -48*time.Hour, ptrTime(testNow.Add(-20*time.Hour)), models.StatusInProgress),
		mk("done-late", 5, -96*time.Hour, ptrTime(testNow.Add(-24*time.Hour)), models.StatusCompleted),
		mk("today-evening", 4, -1*time.Hour, ptrTime(testNow.Add(10*time.Hour)), models.StatusToDo),
		mk("saturday", 1, -3*time.Hour, ptrTime(testNow.Add(3*24*time.Hour)), models.StatusToDo),
		mk("next-week", 5, -5*time.Hour, ptrTime(testNow.Add(5*24*time.Hour)), models.StatusToDo),
		mk("someday", 4, -2*time.Hour, nil, models.StatusOnHold),
		mk("someday-done", 1, -30*time.Hour, nil, models.StatusCompleted),
	}
}

func TestQueries(t *testing.T) {
	tasks := seedQueryTasks(t)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "overdue oldest due first", query: Overdue(), want: []string{"overdue-old", "overdue-recent"}},
		{name: "due today", query: DueToday(), want: []string{"today-evening"}},
		{name: "due this week", query: DueThisWeek(time.Sunday), want: []string{"overdue-old", "overdue-recent", "today-evening", "saturday"}},
		{name: "due this week starting monday", query: DueThisWeek(time.Monday), want: []string{"overdue-recent", "today-evening", "saturday"}},
		{name: "no due date newest first", query: NoDueDate(), want: []string{"someday", "someday-done"}},
		{name: "high priority", query: HighPriority(), want: []string{"done-late", "next-week", "today-evening", "someday"}},
		{name: "completed most recent first", query: Completed(), want: []string{"someday-done", "done-late"}},
		{name: "by status", query: ByStatus(models.StatusToDo), want: []string{"today-evening", "saturday", "next-week", "overdue-old"}},
		{name: "by priority", query: ByPriority(1), want: []string{"saturday", "someday-done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(tt.query.Apply(tasks, testNow)))
		})
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(seedQueryTasks(t), testNow)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 2, stats.Overdue)
	assert.Equal(t, 1, stats.DueToday)
	assert.InDelta(t, 0.25, stats.CompletionRate, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, testNow)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.CompletionRate)
}

func TestManager_StatsKitchenSink(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)

	due := testNow.Add(12 * time.Hour) // 21:00 the same day
	task := m.CreateTask(ctx, TaskInput{Title: "Fix Kitchen Sink", Priority: 4, DueAt: &due})
	require.NotNil(t, task)
	wrench := m.AddSupply(ctx, task, SupplyInput{Name: "Wrench"})
	obtained := true
	m.UpdateSupply(ctx, task, wrench.ID, SupplyPatch{IsObtained: &obtained})

	assert.True(t, task.IsUrgent(testNow))
	assert.False(t, task.IsOverdue(testNow))

	stats := m.Stats(ctx)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 0, stats.Overdue)

	assert.Equal(t, []string{"Fix Kitchen Sink"}, titles(m.Run(ctx, DueToday())))
}

func TestSortTasks(t *testing.T) {
	tasks := seedQueryTasks(t)

	SortTasks(tasks, SortTitle)
	assert.Equal(t, "done-late", tasks[0].Title)

	SortTasks(tasks, SortPriority)
	assert.Equal(t, 5, tasks[0].Priority)
	assert.Equal(t, 1, tasks[len(tasks)-1].Priority)

	SortTasks(tasks, SortDateCreated)
	assert.Equal(t, "today-evening", tasks[0].Title)

	SortTasks(tasks, SortStatus)
	assert.Equal(t, models.StatusCompleted, tasks[0].Status)
	assert.Equal(t, "Priority", SortPriority.String())
}
