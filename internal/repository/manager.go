package repository

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// Manager owns every mutation of the task graph. It keeps the model
// invariants (priority, quantity, CompletedAt) and repairs references on
// delete. Store failures are logged and turned into empty results or no-ops.
type Manager struct {
	store        Store
	logger       *slog.Logger
	now          func() time.Time
	weekStart    time.Weekday
	onStoreError func(error)
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for store diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithWeekStart sets the first day of the week used by DueThisWeek
func WithWeekStart(d time.Weekday) Option {
	return func(m *Manager) { m.weekStart = d }
}

// OnStoreError registers a hook called with every swallowed *StoreError
func OnStoreError(fn func(error)) Option {
	return func(m *Manager) { m.onStoreError = fn }
}

// New creates a Manager over the given store
func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		logger:    slog.Default(),
		now:       time.Now,
		weekStart: time.Sunday,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the manager's current time
func (m *Manager) Now() time.Time { return m.now() }

// WeekStart returns the configured first day of the week
func (m *Manager) WeekStart() time.Weekday { return m.weekStart }

func (m *Manager) fail(err *StoreError) {
	m.logger.Error("store operation failed", "op", err.Op, "kind", err.Kind.Error(), "err", err.Err)
	if m.onStoreError != nil {
		m.onStoreError(err)
	}
}

// TaskInput holds the fields for a new task
type TaskInput struct {
	Title           string
	Description     string
	Notes           string
	Priority        int
	Status          models.Status
	DueAt           *time.Time
	Category        *models.Category
	Tags            []models.Tag
	ReminderEnabled bool
}

// Tasks returns every task, newest first. This is the default order used
// for search ties and suggestions.
func (m *Manager) Tasks(ctx context.Context) []models.Task {
	tasks, err := m.store.Tasks(ctx)
	if err != nil {
		m.fail(readError("list tasks", err))
		return []models.Task{}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// Task returns the task with the given ID, or nil
func (m *Manager) Task(ctx context.Context, id uuid.UUID) *models.Task {
	task, err := m.store.Task(ctx, id)
	if err != nil {
		m.fail(readError("get task", err))
		return nil
	}
	return task
}

// CreateTask builds and saves a task. It returns nil when the title is empty
// after trimming.
func (m *Manager) CreateTask(ctx context.Context, in TaskInput) *models.Task {
	now := m.now()
	task := models.NewTask(in.Title, in.Description, in.Priority, now)
	if task.Title == "" {
		m.logger.Warn("ignoring task with empty title")
		return nil
	}
	task.Notes = in.Notes
	task.DueAt = in.DueAt
	task.Category = in.Category
	task.Tags = append([]models.Tag(nil), in.Tags...)
	task.ReminderEnabled = in.ReminderEnabled
	task.SetStatus(in.Status, now)

	m.save(ctx, "create task", task)
	return task
}

// UpdateTask saves scalar and relationship edits made to task. Priority is
// re-clamped and CompletedAt re-aligned with the status.
func (m *Manager) UpdateTask(ctx context.Context, task *models.Task) {
	task.Title = models.NormalizeTitle(task.Title)
	if task.Title == "" {
		m.logger.Warn("ignoring update with empty title", "task", task.ID)
		return
	}
	task.Priority = models.ClampPriority(task.Priority)
	switch {
	case task.Status == models.StatusCompleted && task.CompletedAt == nil:
		task.SetStatus(models.StatusCompleted, m.now())
	case task.Status != models.StatusCompleted:
		task.CompletedAt = nil
	}
	for i := range task.Supplies {
		task.Supplies[i].TaskID = task.ID
		task.Supplies[i].Quantity = models.ClampQuantity(task.Supplies[i].Quantity)
	}
	m.save(ctx, "update task", task)
}

// UpdateStatus moves the task to status. Completing always stamps a fresh
// CompletedAt, including when the task was already completed.
func (m *Manager) UpdateStatus(ctx context.Context, task *models.Task, status models.Status) {
	task.SetStatus(status, m.now())
	m.save(ctx, "update status", task)
}

// CompleteTask marks the task completed
func (m *Manager) CompleteTask(ctx context.Context, task *models.Task) {
	m.UpdateStatus(ctx, task, models.StatusCompleted)
}

// DeleteTask removes the task together with its supplies
func (m *Manager) DeleteTask(ctx context.Context, task *models.Task) {
	if err := m.store.DeleteTask(ctx, task.ID); err != nil {
		m.fail(writeError("delete task", err))
		return
	}
	task.Supplies = nil
}

// Duplicate saves a copy of task with " (Copy)" appended to the title. The
// copy gets new supplies and shares the tag and category references.
func (m *Manager) Duplicate(ctx context.Context, task *models.Task) *models.Task {
	now := m.now()
	dup := models.NewTask(task.Title+" (Copy)", task.Description, task.Priority, now)
	dup.Notes = task.Notes
	dup.ReminderEnabled = task.ReminderEnabled
	if task.DueAt != nil {
		due := *task.DueAt
		dup.DueAt = &due
	}
	dup.Category = task.Category
	dup.Tags = append([]models.Tag(nil), task.Tags...)
	for _, s := range task.Supplies {
		s = s.Clone()
		s.ID = uuid.New()
		s.TaskID = dup.ID
		dup.Supplies = append(dup.Supplies, s)
	}
	m.save(ctx, "duplicate task", dup)
	return dup
}

// SetTaskTags replaces the tag set of task
func (m *Manager) SetTaskTags(ctx context.Context, task *models.Task, tags []models.Tag) {
	task.Tags = append([]models.Tag(nil), tags...)
	m.save(ctx, "set task tags", task)
}

// SetTaskCategory assigns (or clears, with nil) the task's category
func (m *Manager) SetTaskCategory(ctx context.Context, task *models.Task, c *models.Category) {
	task.Category = c
	m.save(ctx, "set task category", task)
}

func (m *Manager) save(ctx context.Context, op string, task *models.Task) {
	if err := m.store.SaveTask(ctx, task); err != nil {
		m.fail(writeError(op, err))
	}
}
