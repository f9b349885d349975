package models

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task
type Status int

const (
	StatusToDo Status = iota
	StatusInProgress
	StatusCompleted
	StatusOnHold
	StatusCancelled
)

// Statuses lists every status in display order
var Statuses = []Status{StatusToDo, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled}

func (s Status) String() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusOnHold:
		return "On Hold"
	case StatusCancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Icon returns the glyph shown next to the status
func (s Status) Icon() string {
	switch s {
	case StatusToDo:
		return "🐝"
	case StatusInProgress:
		return "🍯"
	case StatusCompleted:
		return "✅"
	case StatusOnHold:
		return "⏸️"
	case StatusCancelled:
		return "❌"
	}
	return "?"
}

// Color returns the named color key for the status
func (s Status) Color() string {
	switch s {
	case StatusToDo:
		return "yellow"
	case StatusInProgress:
		return "orange"
	case StatusCompleted:
		return "green"
	case StatusOnHold:
		return "gray"
	case StatusCancelled:
		return "red"
	}
	return ""
}

// Next returns the status after s, wrapping around
func (s Status) Next() Status {
	return Statuses[(int(s)+1)%len(Statuses)]
}

// ParseStatus accepts the display form ("In Progress") or a snake/dash form ("in_progress")
func ParseStatus(v string) (Status, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(v)))
	for _, s := range Statuses {
		if strings.ToLower(s.String()) == norm {
			return s, nil
		}
	}
	if norm == "todo" {
		return StatusToDo, nil
	}
	return StatusToDo, fmt.Errorf("unknown status %q", v)
}
