package filter

import (
	"fmt"
	"time"

	"github.com/tgienger/honeydo/internal/models"
)

// DateWindow classifies a task by its due date
type DateWindow int

const (
	WindowAny DateWindow = iota
	WindowToday
	WindowTomorrow
	WindowThisWeek
	WindowNextWeek
	WindowOverdue
	WindowNoDueDate
	WindowCustom
)

var DateWindows = []DateWindow{
	WindowAny, WindowToday, WindowTomorrow, WindowThisWeek, WindowNextWeek, WindowOverdue, WindowNoDueDate, WindowCustom,
}

func (w DateWindow) String() string {
	switch w {
	case WindowToday:
		return "Today"
	case WindowTomorrow:
		return "Tomorrow"
	case WindowThisWeek:
		return "This Week"
	case WindowNextWeek:
		return "Next Week"
	case WindowOverdue:
		return "Overdue"
	case WindowNoDueDate:
		return "No Due Date"
	case WindowCustom:
		return "Custom Range"
	}
	return "Any Date"
}

func (w DateWindow) Icon() string {
	switch w {
	case WindowToday:
		return "🎯"
	case WindowTomorrow:
		return "➡️"
	case WindowThisWeek:
		return "🗓️"
	case WindowNextWeek:
		return "⏭️"
	case WindowOverdue:
		return "⚠️"
	case WindowNoDueDate:
		return "∞"
	case WindowCustom:
		return "📊"
	}
	return "📅"
}

// ParseDateWindow accepts a label ("Next Week") or a short name ("next-week")
func ParseDateWindow(v string) (DateWindow, error) {
	norm := normalizeName(v)
	if norm == "" || norm == "any" {
		return WindowAny, nil
	}
	if norm == "custom" {
		return WindowCustom, nil
	}
	for _, w := range DateWindows {
		if normalizeName(w.String()) == norm {
			return w, nil
		}
	}
	return WindowAny, fmt.Errorf("unknown date window %q", v)
}

// DateRange is an inclusive due date range
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (w DateWindow) matches(task *models.Task, now time.Time, r *DateRange, weekStart time.Weekday) bool {
	switch w {
	case WindowAny:
		return true
	case WindowNoDueDate:
		return task.DueAt == nil
	case WindowOverdue:
		return task.IsOverdue(now)
	case WindowCustom:
		if r == nil {
			return true
		}
		return task.DueAt != nil && r.Contains(*task.DueAt)
	}

	if task.DueAt == nil {
		return false
	}
	switch w {
	case WindowToday:
		return task.IsDueOn(now)
	case WindowTomorrow:
		return task.IsDueOn(now.AddDate(0, 0, 1))
	case WindowThisWeek:
		return task.IsDueInWeekOf(now, weekStart)
	case WindowNextWeek:
		return task.IsDueInWeekOf(now.AddDate(0, 0, 7), weekStart)
	}
	return false
}
