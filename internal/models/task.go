package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UrgentWindow is how far ahead a due date makes a task urgent
const UrgentWindow = 24 * time.Hour

// Task represents a single to-do item
type Task struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Priority        int
	Status          Status
	CreatedAt       time.Time
	CompletedAt     *time.Time
	DueAt           *time.Time
	Category        *Category // nil when uncategorized
	Tags            []Tag
	Supplies        []Supply
	Notes           string
	IsTemplate      bool
	TemplateName    string
	ReminderEnabled bool
}

// NewTask builds a task with a fresh identity. The title is trimmed and the
// priority clamped.
func NewTask(title, description string, priority int, now time.Time) *Task {
	return &Task{
		ID:          uuid.New(),
		Title:       NormalizeTitle(title),
		Description: description,
		Priority:    ClampPriority(priority),
		Status:      StatusToDo,
		CreatedAt:   now,
	}
}

// NormalizeTitle trims surrounding whitespace from a title
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// IsCompleted reports whether the task is in the Completed state
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the task has a due date in the past and is not completed.
// Every overdue check in the application goes through this method.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueAt == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueAt.Before(now)
}

// IsUrgent reports whether the due date is in the future but within UrgentWindow
func (t *Task) IsUrgent(now time.Time) bool {
	if t.DueAt == nil {
		return false
	}
	until := t.DueAt.Sub(now)
	return until > 0 && until <= UrgentWindow
}

// IsDueOn reports whether the due date falls on the same calendar day as day
func (t *Task) IsDueOn(day time.Time) bool {
	return t.DueAt != nil && SameDay(*t.DueAt, day)
}

// IsDueInWeekOf reports whether the due date falls in the calendar week containing day
func (t *Task) IsDueInWeekOf(day time.Time, weekStart time.Weekday) bool {
	return t.DueAt != nil && SameWeek(*t.DueAt, day, weekStart)
}

// SetStatus changes the status and keeps CompletedAt consistent with it:
// set to now when completed, cleared otherwise.
func (t *Task) SetStatus(s Status, now time.Time) {
	t.Status = s
	if s == StatusCompleted {
		completed := now
		t.CompletedAt = &completed
		return
	}
	t.CompletedAt = nil
}

// HasTag reports whether the task carries the tag with the given ID
func (t *Task) HasTag(id uuid.UUID) bool {
	for _, tag := range t.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// CategoryName returns the category name or "" when uncategorized
func (t *Task) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

// PriorityHearts renders the priority as five hearts
func (t *Task) PriorityHearts() string {
	p := ClampPriority(t.Priority)
	return strings.Repeat("♥", p) + strings.Repeat("♡", MaxPriority-p)
}

// Clone returns a deep copy of the task. Supplies, tags and the category are
// copied by value so the clone can be mutated independently.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}
	if t.DueAt != nil {
		v := *t.DueAt
		c.DueAt = &v
	}
	if t.Category != nil {
		v := *t.Category
		c.Category = &v
	}
	c.Tags = append([]Tag(nil), t.Tags...)
	if t.Supplies != nil {
		c.Supplies = make([]Supply, len(t.Supplies))
		for i, s := range t.Supplies {
			c.Supplies[i] = s.Clone()
		}
	}
	return &c
}
