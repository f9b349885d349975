package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/storage/memory"
)

var testNow = time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC) // a Wednesday

// Test helpers
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupManager(t *testing.T, opts ...Option) (*Manager, *memory.Storage, *time.Time) {
	t.Helper()
	now := testNow
	store := memory.NewMemoryStorage()
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return now }),
	}, opts...)
	return New(store, opts...), store, &now
}

func ptrTime(t time.Time) *time.Time { return &t }

// brokenStore fails every call
type brokenStore struct{}

var errDisk = errors.New("disk on fire")

func (brokenStore) Tasks(context.Context) ([]models.Task, error) { return nil, errDisk }
func (brokenStore) Task(context.Context, uuid.UUID) (*models.Task, error) { return nil, errDisk }
func (brokenStore) SaveTask(context.Context, *models.Task) error { return errDisk }
func (brokenStore) DeleteTask(context.Context, uuid.UUID) error { return errDisk }
func (brokenStore) Categories(context.Context) ([]models.Category, error) { return nil, errDisk }
func (brokenStore) SaveCategory(context.Context, *models.Category) error { return errDisk }
func (brokenStore) DeleteCategory(context.Context, uuid.UUID) error { return errDisk }
func (brokenStore) Tags(context.Context) ([]models.Tag, error) { return nil, errDisk }
func (brokenStore) SaveTag(context.Context, *models.Tag) error { return errDisk }
func (brokenStore) DeleteTag(context.Context, uuid.UUID) error { return errDisk }
func (brokenStore) Templates(context.Context) ([]models.Template, error) { return nil, errDisk }
func (brokenStore) SaveTemplate(context.Context, *models.Template) error { return errDisk }
func (brokenStore) DeleteTemplate(context.Context, uuid.UUID) error { return errDisk }

func TestManager_CreateTask(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)

	tests := []struct {
		name         string
		input        TaskInput
		wantNil      bool
		wantTitle    string
		wantPriority int
	}{
		{name: "trims title", input: TaskInput{Title: "  Fix sink  ", Priority: 3}, wantTitle: "Fix sink", wantPriority: 3},
		{name: "clamps low priority", input: TaskInput{Title: "a", Priority: -5}, wantTitle: "a", wantPriority: 1},
		{name: "clamps high priority", input: TaskInput{Title: "b", Priority: 99}, wantTitle: "b", wantPriority: 5},
		{name: "empty title", input: TaskInput{Title: "   "}, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := m.CreateTask(ctx, tt.input)
			if tt.wantNil {
				assert.Nil(t, task)
				return
			}
			require.NotNil(t, task)
			assert.Equal(t, tt.wantTitle, task.Title)
			assert.Equal(t, tt.wantPriority, task.Priority)
			assert.Equal(t, testNow, task.CreatedAt)
			assert.Equal(t, models.StatusToDo, task.Status)
			assert.NotNil(t, m.Task(ctx, task.ID))
		})
	}
	assert.Len(t, m.Tasks(ctx), 3)
}

func TestManager_CreateTaskCompletedStampsCompletedAt(t *testing.T) {
	m, _, _ := setupManager(t)
	task := m.CreateTask(context.Background(), TaskInput{Title: "done already", Status: models.StatusCompleted})
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
}

func TestManager_UpdateStatusInvariant(t *testing.T) {
	ctx := context.Background()
	m, _, now := setupManager(t)
	task := m.CreateTask(ctx, TaskInput{Title: "Paint fence"})

	for _, s := range models.Statuses {
		m.UpdateStatus(ctx, task, s)
		stored := m.Task(ctx, task.ID)
		require.NotNil(t, stored)
		if s == models.StatusCompleted {
			assert.NotNil(t, task.CompletedAt)
			assert.NotNil(t, stored.CompletedAt)
		} else {
			assert.Nil(t, task.CompletedAt, s.String())
			assert.Nil(t, stored.CompletedAt, s.String())
		}
	}

	// Applying the same non-completed status twice is observably idempotent
	m.UpdateStatus(ctx, task, models.StatusOnHold)
	first := *m.Task(ctx, task.ID)
	m.UpdateStatus(ctx, task, models.StatusOnHold)
	second := *m.Task(ctx, task.ID)
	assert.Equal(t, first, second)

	// Re-completing resets the timestamp
	m.CompleteTask(ctx, task)
	firstDone := *task.CompletedAt
	*now = now.Add(time.Hour)
	m.CompleteTask(ctx, task)
	assert.True(t, task.CompletedAt.After(firstDone))
}

func TestManager_UpdateTaskReappliesInvariants(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	task := m.CreateTask(ctx, TaskInput{Title: "Clean gutters"})

	task.Priority = 42
	task.Status = models.StatusCompleted
	task.Supplies = append(task.Supplies, models.Supply{ID: uuid.New(), Name: "Ladder", Quantity: -2})
	m.UpdateTask(ctx, task)

	stored := m.Task(ctx, task.ID)
	require.NotNil(t, stored)
	assert.Equal(t, 5, stored.Priority)
	assert.NotNil(t, stored.CompletedAt)
	require.Len(t, stored.Supplies, 1)
	assert.Equal(t, 1, stored.Supplies[0].Quantity)
	assert.Equal(t, task.ID, stored.Supplies[0].TaskID)

	task.Status = models.StatusInProgress
	m.UpdateTask(ctx, task)
	assert.Nil(t, m.Task(ctx, task.ID).CompletedAt)
}

func TestManager_Supplies(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	task := m.CreateTask(ctx, TaskInput{Title: "Fix Kitchen Sink", Priority: 4})

	wrench := m.AddSupply(ctx, task, SupplyInput{Name: "Wrench", Quantity: 0})
	require.NotNil(t, wrench)
	assert.Equal(t, 1, wrench.Quantity)
	sealant := m.AddSupply(ctx, task, SupplyInput{Name: "Pipe sealant", Quantity: 2})
	require.NotNil(t, sealant)
	assert.Nil(t, m.AddSupply(ctx, task, SupplyInput{Name: " "}))

	obtained := true
	qty := -3
	m.UpdateSupply(ctx, task, wrench.ID, SupplyPatch{IsObtained: &obtained, Quantity: &qty})

	stored := m.Task(ctx, task.ID)
	require.Len(t, stored.Supplies, 2)
	assert.True(t, stored.Supplies[0].IsObtained)
	assert.Equal(t, 1, stored.Supplies[0].Quantity)

	m.DeleteSupply(ctx, task, sealant.ID)
	stored = m.Task(ctx, task.ID)
	require.Len(t, stored.Supplies, 1)
	assert.Equal(t, "Wrench", stored.Supplies[0].Name)
}

func TestManager_DeleteTaskCascadesSupplies(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	task := m.CreateTask(ctx, TaskInput{Title: "Fix sink"})
	m.AddSupply(ctx, task, SupplyInput{Name: "Wrench"})

	m.DeleteTask(ctx, task)
	assert.Nil(t, m.Task(ctx, task.ID))
	assert.Empty(t, m.Tasks(ctx))
}

func TestManager_DeleteCategoryClearsReferences(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	home := m.CreateCategory(ctx, "Home", "🏠", "blue")
	work := m.CreateCategory(ctx, "Work", "💼", "orange")

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c"} {
		task := m.CreateTask(ctx, TaskInput{Title: title, Category: home})
		ids = append(ids, task.ID)
	}
	other := m.CreateTask(ctx, TaskInput{Title: "d", Category: work})
	tpl := m.CreateTemplateFromTask(ctx, m.Task(ctx, ids[0]), "")

	m.DeleteCategory(ctx, home)

	assert.Len(t, m.Tasks(ctx), 4)
	for _, id := range ids {
		task := m.Task(ctx, id)
		require.NotNil(t, task)
		assert.Nil(t, task.Category)
	}
	require.NotNil(t, m.Task(ctx, other.ID).Category)
	assert.Equal(t, "Work", m.Task(ctx, other.ID).Category.Name)
	assert.Len(t, m.Categories(ctx), 1)

	tpls := m.Templates(ctx)
	require.Len(t, tpls, 1)
	assert.Equal(t, tpl.ID, tpls[0].ID)
	assert.Nil(t, tpls[0].Category)
}

func TestManager_DeleteTagRemovesFromTasks(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	urgent := m.CreateTag(ctx, "Urgent", "red")
	diy := m.CreateTag(ctx, "DIY", "green")
	task := m.CreateTask(ctx, TaskInput{Title: "Fix sink", Tags: []models.Tag{*urgent, *diy}})
	m.CreateTemplateFromTask(ctx, task, "sink")

	m.DeleteTag(ctx, urgent)

	stored := m.Task(ctx, task.ID)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, diy.ID, stored.Tags[0].ID)
	assert.Len(t, m.Tags(ctx), 1)
	assert.Len(t, m.Templates(ctx)[0].Tags, 1)
}

func TestManager_Duplicate(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	tag := m.CreateTag(ctx, "DIY", "green")
	task := m.CreateTask(ctx, TaskInput{Title: "Fix sink", Priority: 4, Tags: []models.Tag{*tag}})
	m.AddSupply(ctx, task, SupplyInput{Name: "Wrench", Quantity: 2})
	m.CompleteTask(ctx, task)

	dup := m.Duplicate(ctx, task)
	require.NotNil(t, dup)
	assert.Equal(t, "Fix sink (Copy)", dup.Title)
	assert.NotEqual(t, task.ID, dup.ID)
	assert.Equal(t, models.StatusToDo, dup.Status)
	assert.Nil(t, dup.CompletedAt)
	assert.Equal(t, 4, dup.Priority)
	require.Len(t, dup.Supplies, 1)
	assert.NotEqual(t, task.Supplies[0].ID, dup.Supplies[0].ID)
	assert.Equal(t, dup.ID, dup.Supplies[0].TaskID)
	assert.True(t, dup.HasTag(tag.ID))
	assert.Len(t, m.Tasks(ctx), 2)
}

func TestManager_Templates(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	task := m.CreateTask(ctx, TaskInput{Title: "Mow lawn", Description: "front and back", Priority: 2})
	m.AddSupply(ctx, task, SupplyInput{Name: "Fuel"})

	lawn := m.CreateTemplateFromTask(ctx, task, "")
	assert.Equal(t, "Mow lawn Template", lawn.Name)
	other := m.CreateTemplateFromTask(ctx, task, "Weekly chores")

	created := m.InstantiateTemplate(ctx, other)
	require.NotNil(t, created)
	assert.Equal(t, "Mow lawn", created.Title)
	require.Len(t, created.Supplies, 1)
	assert.Equal(t, "Fuel", created.Supplies[0].Name)

	tpls := m.Templates(ctx)
	require.Len(t, tpls, 2)
	assert.Equal(t, other.ID, tpls[0].ID, "most used first")
	assert.Equal(t, 1, tpls[0].UseCount)

	found := m.SearchTemplates(ctx, "WEEKLY")
	require.Len(t, found, 1)
	assert.Equal(t, other.ID, found[0].ID)
	assert.Len(t, m.SearchTemplates(ctx, "back"), 2)

	m.DeleteTemplate(ctx, lawn)
	assert.Len(t, m.Templates(ctx), 1)
}

func TestManager_StoreErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	var seen []error
	m := New(brokenStore{},
		WithLogger(quietLogger()),
		OnStoreError(func(err error) { seen = append(seen, err) }),
	)

	assert.Empty(t, m.Tasks(ctx))
	assert.NotNil(t, m.Tasks(ctx))
	assert.Empty(t, m.Categories(ctx))
	assert.Empty(t, m.Tags(ctx))
	assert.Empty(t, m.Templates(ctx))
	assert.Nil(t, m.Task(ctx, uuid.New()))

	task := m.CreateTask(ctx, TaskInput{Title: "still returned"})
	require.NotNil(t, task)
	m.UpdateStatus(ctx, task, models.StatusCompleted)
	assert.NotNil(t, task.CompletedAt)
	m.DeleteTask(ctx, task)

	stats := m.Stats(ctx)
	assert.Equal(t, Stats{}, stats)

	require.NotEmpty(t, seen)
	assert.True(t, errors.Is(seen[0], ErrStoreRead))
	assert.True(t, errors.Is(seen[len(seen)-1], ErrStoreRead))
	var writes int
	for _, err := range seen {
		var se *StoreError
		require.True(t, errors.As(err, &se))
		assert.ErrorIs(t, err, errDisk)
		if errors.Is(err, ErrStoreWrite) {
			writes++
		}
	}
	assert.Equal(t, 3, writes)
}

func TestManager_TaskLookup(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	home := m.CreateCategory(ctx, "Home", "", "")

	assert.Nil(t, m.Task(ctx, uuid.New()))

	task := m.CreateTask(ctx, TaskInput{Title: "Fix sink", Category: home})
	got := m.Task(ctx, task.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Fix sink", got.Title)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Home", got.Category.Name)

	got.Title = "changed"
	assert.Equal(t, "Fix sink", m.Task(ctx, task.ID).Title)
}

func TestManager_SetTaskCategory(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	home := m.CreateCategory(ctx, "Home", "", "")
	task := m.CreateTask(ctx, TaskInput{Title: "Fix sink"})

	m.SetTaskCategory(ctx, task, home)
	require.NotNil(t, m.Task(ctx, task.ID).Category)
	assert.Equal(t, home.ID, m.Task(ctx, task.ID).Category.ID)

	m.SetTaskCategory(ctx, task, nil)
	assert.Nil(t, m.Task(ctx, task.ID).Category)
}

func TestManager_SupplyCostsClampToZero(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t)
	task := m.CreateTask(ctx, TaskInput{Title: "Fix sink"})

	refund := -12.5
	tape := m.AddSupply(ctx, task, SupplyInput{Name: "Tape", EstimatedCost: &refund})
	require.NotNil(t, tape)
	require.NotNil(t, tape.EstimatedCost)
	assert.Equal(t, 0.0, *tape.EstimatedCost)

	free := m.AddSupply(ctx, task, SupplyInput{Name: "Rag"})
	assert.Nil(t, free.EstimatedCost)

	m.UpdateSupply(ctx, task, tape.ID, SupplyPatch{ActualCost: &refund})
	stored := m.Task(ctx, task.ID)
	require.NotNil(t, stored.Supplies[0].ActualCost)
	assert.Equal(t, 0.0, *stored.Supplies[0].ActualCost)
	assert.Nil(t, stored.Supplies[1].ActualCost)
}
