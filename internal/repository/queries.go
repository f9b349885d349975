package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tgienger/honeydo/internal/models"
)

// Query is a canned task query: a predicate plus the order of its results
type Query struct {
	Name  string
	Match func(t *models.Task, now time.Time) bool
	Less  func(a, b *models.Task) bool
}

// Apply returns the tasks matching q, stably sorted by q's order
func (q Query) Apply(tasks []models.Task, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if q.Match(&tasks[i], now) {
			out = append(out, tasks[i])
		}
	}
	if q.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return q.Less(&out[i], &out[j]) })
	}
	return out
}

// Run fetches every task and applies q at the manager's current time
func (m *Manager) Run(ctx context.Context, q Query) []models.Task {
	return q.Apply(m.Tasks(ctx), m.now())
}

func newestFirst(a, b *models.Task) bool { return a.CreatedAt.After(b.CreatedAt) }

func dueSoonestFirst(a, b *models.Task) bool {
	if a.DueAt == nil || b.DueAt == nil {
		return a.DueAt != nil
	}
	return a.DueAt.Before(*b.DueAt)
}

// ByStatus matches tasks in status s, newest first
func ByStatus(s models.Status) Query {
	return Query{
		Name:  "status:" + s.String(),
		Match: func(t *models.Task, _ time.Time) bool { return t.Status == s },
		Less:  newestFirst,
	}
}

// ByPriority matches tasks with exactly priority p, newest first
func ByPriority(p int) Query {
	return Query{
		Name:  "priority",
		Match: func(t *models.Task, _ time.Time) bool { return t.Priority == p },
		Less:  newestFirst,
	}
}

// Overdue matches tasks past their due date that are not completed, oldest due date first
func Overdue() Query {
	return Query{
		Name:  "overdue",
		Match: func(t *models.Task, now time.Time) bool { return t.IsOverdue(now) },
		Less:  dueSoonestFirst,
	}
}

// DueToday matches open tasks due on now's calendar day
func DueToday() Query {
	return Query{
		Name: "due today",
		Match: func(t *models.Task, now time.Time) bool {
			return !t.IsCompleted() && t.IsDueOn(now)
		},
		Less: dueSoonestFirst,
	}
}

// DueThisWeek matches open tasks due in now's calendar week
func DueThisWeek(weekStart time.Weekday) Query {
	return Query{
		Name: "due this week",
		Match: func(t *models.Task, now time.Time) bool {
			return !t.IsCompleted() && t.IsDueInWeekOf(now, weekStart)
		},
		Less: dueSoonestFirst,
	}
}

// NoDueDate matches tasks without a due date, newest first
func NoDueDate() Query {
	return Query{
		Name:  "no due date",
		Match: func(t *models.Task, _ time.Time) bool { return t.DueAt == nil },
		Less:  newestFirst,
	}
}

// HighPriorityThreshold is the lowest priority counted as high
const HighPriorityThreshold = 4

// HighPriority matches tasks with priority 4 or 5, highest first
func HighPriority() Query {
	return Query{
		Name:  "high priority",
		Match: func(t *models.Task, _ time.Time) bool { return t.Priority >= HighPriorityThreshold },
		Less:  func(a, b *models.Task) bool { return a.Priority > b.Priority },
	}
}

// Completed matches completed tasks, most recently completed first
func Completed() Query {
	return Query{
		Name:  "completed",
		Match: func(t *models.Task, _ time.Time) bool { return t.IsCompleted() },
		Less: func(a, b *models.Task) bool {
			if a.CompletedAt == nil || b.CompletedAt == nil {
				return a.CompletedAt != nil
			}
			return a.CompletedAt.After(*b.CompletedAt)
		},
	}
}

// Stats is the aggregate view shown above the task list
type Stats struct {
	Total          int
	Completed      int
	Overdue        int
	DueToday       int
	CompletionRate float64
}

// ComputeStats aggregates tasks at time now
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)
	overdue, today, completed := Overdue(), DueToday(), Completed()
	for i := range tasks {
		t := &tasks[i]
		if completed.Match(t, now) {
			s.Completed++
		}
		if overdue.Match(t, now) {
			s.Overdue++
		}
		if today.Match(t, now) {
			s.DueToday++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
	}
	return s
}

// Stats aggregates every stored task
func (m *Manager) Stats(ctx context.Context) Stats {
	return ComputeStats(m.Tasks(ctx), m.now())
}

// SortOption is a user-selectable ordering of the task list
type SortOption int

const (
	SortDateCreated SortOption = iota
	SortPriority
	SortStatus
	SortTitle
)

// SortOptions lists the options in menu order
var SortOptions = []SortOption{SortDateCreated, SortPriority, SortStatus, SortTitle}

func (o SortOption) String() string {
	switch o {
	case SortPriority:
		return "Priority"
	case SortStatus:
		return "Status"
	case SortTitle:
		return "Title"
	}
	return "Date Created"
}

// SortTasks stably sorts tasks in place by o
func SortTasks(tasks []models.Task, o SortOption) {
	var less func(a, b *models.Task) bool
	switch o {
	case SortPriority:
		less = func(a, b *models.Task) bool { return a.Priority > b.Priority }
	case SortStatus:
		less = func(a, b *models.Task) bool { return a.Status.String() < b.Status.String() }
	case SortTitle:
		less = func(a, b *models.Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		less = newestFirst
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(&tasks[i], &tasks[j]) })
}
