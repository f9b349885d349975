// Package filter decides whether a task passes a set of search criteria.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
)

// QuickFilter is one of the canned filters offered above the task list
type QuickFilter int

const (
	QuickNone QuickFilter = iota
	QuickAll
	QuickToday
	QuickOverdue
	QuickThisWeek
	QuickNoDueDate
	QuickHighPriority
	QuickCompleted
)

// QuickFilters lists the selectable quick filters in menu order
var QuickFilters = []QuickFilter{
	QuickAll, QuickToday, QuickOverdue, QuickThisWeek, QuickNoDueDate, QuickHighPriority, QuickCompleted,
}

// Label is the text shown for the filter. Applying a quick filter also
// puts this text in the search box.
func (q QuickFilter) Label() string {
	switch q {
	case QuickAll:
		return "All Tasks"
	case QuickToday:
		return "Due Today"
	case QuickOverdue:
		return "Overdue"
	case QuickThisWeek:
		return "This Week"
	case QuickNoDueDate:
		return "No Due Date"
	case QuickHighPriority:
		return "High Priority"
	case QuickCompleted:
		return "Completed"
	}
	return ""
}

func (q QuickFilter) String() string { return q.Label() }

func (q QuickFilter) Icon() string {
	switch q {
	case QuickAll:
		return "📋"
	case QuickToday:
		return "📅"
	case QuickOverdue:
		return "⚠️"
	case QuickThisWeek:
		return "🗓️"
	case QuickNoDueDate:
		return "∞"
	case QuickHighPriority:
		return "🔥"
	case QuickCompleted:
		return "✅"
	}
	return ""
}

// ParseQuickFilter accepts a label ("Due Today") or a short name ("today", "high-priority")
func ParseQuickFilter(v string) (QuickFilter, error) {
	norm := normalizeName(v)
	if norm == "" || norm == "none" {
		return QuickNone, nil
	}
	aliases := map[string]QuickFilter{
		"all": QuickAll, "today": QuickToday, "thisweek": QuickThisWeek, "week": QuickThisWeek,
		"overdue": QuickOverdue, "noduedate": QuickNoDueDate, "highpriority": QuickHighPriority,
		"completed": QuickCompleted, "done": QuickCompleted,
	}
	if q, ok := aliases[norm]; ok {
		return q, nil
	}
	for _, q := range QuickFilters {
		if normalizeName(q.Label()) == norm {
			return q, nil
		}
	}
	return QuickNone, fmt.Errorf("unknown quick filter %q", v)
}

func normalizeName(v string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(v)))
}

// IDSet is a set of category or tag IDs. An empty set places no constraint.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Toggle adds id when absent and removes it when present
func (s IDSet) Toggle(id uuid.UUID) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Criteria is the full set of filters applied before text search. The zero
// value is not useful; start from Default.
type Criteria struct {
	Quick       QuickFilter
	Categories  IDSet
	Tags        IDSet
	Statuses    map[models.Status]struct{}
	MinPriority int
	MaxPriority int
	Window      DateWindow
	Range       *DateRange // only read for WindowCustom
	WeekStart   time.Weekday
}

// Default returns criteria that match every task
func Default() Criteria {
	return Criteria{
		Categories:  IDSet{},
		Tags:        IDSet{},
		Statuses:    map[models.Status]struct{}{},
		MinPriority: models.MinPriority,
		MaxPriority: models.MaxPriority,
		Window:      WindowAny,
		WeekStart:   time.Sunday,
	}
}

// Clone returns a copy that shares no maps with c
func (c Criteria) Clone() Criteria {
	out := c
	out.Categories = NewIDSet()
	for id := range c.Categories {
		out.Categories[id] = struct{}{}
	}
	out.Tags = NewIDSet()
	for id := range c.Tags {
		out.Tags[id] = struct{}{}
	}
	out.Statuses = make(map[models.Status]struct{}, len(c.Statuses))
	for s := range c.Statuses {
		out.Statuses[s] = struct{}{}
	}
	if c.Range != nil {
		r := *c.Range
		out.Range = &r
	}
	return out
}

// ToggleStatus adds or removes s from the allowed statuses
func (c *Criteria) ToggleStatus(s models.Status) {
	if c.Statuses == nil {
		c.Statuses = map[models.Status]struct{}{}
	}
	if _, ok := c.Statuses[s]; ok {
		delete(c.Statuses, s)
		return
	}
	c.Statuses[s] = struct{}{}
}

// HasActive reports whether any criterion narrows the result set
func (c Criteria) HasActive() bool {
	return c.Quick != QuickNone ||
		len(c.Categories) > 0 ||
		len(c.Tags) > 0 ||
		len(c.Statuses) > 0 ||
		c.MinPriority != models.MinPriority ||
		c.MaxPriority != models.MaxPriority ||
		c.Window != WindowAny
}

// Matches reports whether task passes every criterion. Checks run cheapest
// first and stop at the first failure.
func (c Criteria) Matches(task *models.Task, now time.Time) bool {
	if len(c.Statuses) > 0 {
		if _, ok := c.Statuses[task.Status]; !ok {
			return false
		}
	}
	if task.Priority < c.MinPriority || task.Priority > c.MaxPriority {
		return false
	}
	if len(c.Categories) > 0 {
		if task.Category == nil || !c.Categories.Has(task.Category.ID) {
			return false
		}
	}
	if len(c.Tags) > 0 && !c.anyTag(task) {
		return false
	}
	if !c.matchesQuick(task, now) {
		return false
	}
	return c.Window.matches(task, now, c.Range, c.WeekStart)
}

func (c Criteria) anyTag(task *models.Task) bool {
	for _, tag := range task.Tags {
		if c.Tags.Has(tag.ID) {
			return true
		}
	}
	return false
}

// matchesQuick shares its predicates with the repository's canned queries
// so a quick filter and the matching query never disagree
func (c Criteria) matchesQuick(task *models.Task, now time.Time) bool {
	var q repository.Query
	switch c.Quick {
	case QuickNone, QuickAll:
		return true
	case QuickToday:
		q = repository.DueToday()
	case QuickOverdue:
		q = repository.Overdue()
	case QuickThisWeek:
		q = repository.DueThisWeek(c.WeekStart)
	case QuickNoDueDate:
		q = repository.NoDueDate()
	case QuickHighPriority:
		q = repository.HighPriority()
	case QuickCompleted:
		q = repository.Completed()
	default:
		return true
	}
	return q.Match(task, now)
}
