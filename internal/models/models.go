package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinPriority = 1
	MaxPriority = 5
)

// ClampPriority returns p clamped to [MinPriority, MaxPriority]
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// ClampQuantity returns q, or 1 when q is below 1
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// Category groups tasks. Tasks refer to it by ID; deleting a category
// clears the reference on its tasks instead of deleting them.
type Category struct {
	ID        uuid.UUID
	Name      string
	Icon      string
	Color     string
	CreatedAt time.Time
}

// Tag is a label that can be applied to many tasks
type Tag struct {
	ID        uuid.UUID
	Name      string
	Color     string
	CreatedAt time.Time
}

// Supply is a shopping-list item owned by exactly one task
type Supply struct {
	ID            uuid.UUID
	TaskID        uuid.UUID
	Name          string
	Quantity      int
	IsObtained    bool
	EstimatedCost *float64
	ActualCost    *float64
	Supplier      *string
	Notes         string
}

// Clone copies the supply along with its optional cost and supplier values
func (s Supply) Clone() Supply {
	c := s
	c.EstimatedCost = clonePtr(s.EstimatedCost)
	c.ActualCost = clonePtr(s.ActualCost)
	c.Supplier = clonePtr(s.Supplier)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// TotalEstimatedCost is the estimated unit cost times the quantity, 0 when unknown
func (s Supply) TotalEstimatedCost() float64 {
	if s.EstimatedCost == nil {
		return 0
	}
	return *s.EstimatedCost * float64(s.Quantity)
}

// TotalActualCost is the actual unit cost times the quantity, 0 when unknown
func (s Supply) TotalActualCost() float64 {
	if s.ActualCost == nil {
		return 0
	}
	return *s.ActualCost * float64(s.Quantity)
}
