package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplyTemplate is the supply blueprint stored on a template
type SupplyTemplate struct {
	ID            uuid.UUID
	TemplateID    uuid.UUID
	Name          string
	Quantity      int
	EstimatedCost *float64
	Supplier      *string
}

// Template is a reusable task definition
type Template struct {
	ID          uuid.UUID
	Name        string
	Title       string
	Description string
	Priority    int
	Category    *Category
	Tags        []Tag
	Supplies    []SupplyTemplate
	CreatedAt   time.Time
	UseCount    int
}

// Instantiate creates a new ToDo task from the template and bumps UseCount.
// Each supply template becomes a new supply owned by the returned task.
func (tpl *Template) Instantiate(now time.Time) *Task {
	task := NewTask(tpl.Title, tpl.Description, tpl.Priority, now)
	if tpl.Category != nil {
		c := *tpl.Category
		task.Category = &c
	}
	task.Tags = append([]Tag(nil), tpl.Tags...)
	for _, st := range tpl.Supplies {
		task.Supplies = append(task.Supplies, Supply{
			ID:            uuid.New(),
			TaskID:        task.ID,
			Name:          st.Name,
			Quantity:      ClampQuantity(st.Quantity),
			EstimatedCost: clonePtr(st.EstimatedCost),
			Supplier:      clonePtr(st.Supplier),
		})
	}
	tpl.UseCount++
	return task
}

// TemplateFromTask captures the reusable fields of a task. Status, dates,
// notes and obtained flags are not carried over.
func TemplateFromTask(task *Task, name string, now time.Time) *Template {
	tpl := &Template{
		ID:          uuid.New(),
		Name:        name,
		Title:       task.Title,
		Description: task.Description,
		Priority:    ClampPriority(task.Priority),
		Tags:        append([]Tag(nil), task.Tags...),
		CreatedAt:   now,
	}
	if task.Category != nil {
		c := *task.Category
		tpl.Category = &c
	}
	for _, s := range task.Supplies {
		tpl.Supplies = append(tpl.Supplies, SupplyTemplate{
			ID:            uuid.New(),
			TemplateID:    tpl.ID,
			Name:          s.Name,
			Quantity:      ClampQuantity(s.Quantity),
			EstimatedCost: clonePtr(s.EstimatedCost),
			Supplier:      clonePtr(s.Supplier),
		})
	}
	return tpl
}
