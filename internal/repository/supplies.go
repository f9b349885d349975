package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// SupplyInput holds the fields for a new supply
type SupplyInput struct {
	Name          string
	Quantity      int
	EstimatedCost *float64
	Supplier      *string
	Notes         string
}

// SupplyPatch lists the supply fields to change; nil fields are left alone
type SupplyPatch struct {
	Name       *string
	Quantity   *int
	IsObtained *bool
	ActualCost *float64
}

// AddSupply appends a new supply to task and saves the task
func (m *Manager) AddSupply(ctx context.Context, task *models.Task, in SupplyInput) *models.Supply {
	name := models.NormalizeTitle(in.Name)
	if name == "" {
		return nil
	}
	task.Supplies = append(task.Supplies, models.Supply{
		ID:            uuid.New(),
		TaskID:        task.ID,
		Name:          name,
		Quantity:      models.ClampQuantity(in.Quantity),
		EstimatedCost: nonNegative(in.EstimatedCost),
		Supplier:      in.Supplier,
		Notes:         in.Notes,
	})
	m.save(ctx, "add supply", task)
	return &task.Supplies[len(task.Supplies)-1]
}

// UpdateSupply applies patch to the supply with the given ID
func (m *Manager) UpdateSupply(ctx context.Context, task *models.Task, supplyID uuid.UUID, patch SupplyPatch) {
	for i := range task.Supplies {
		s := &task.Supplies[i]
		if s.ID != supplyID {
			continue
		}
		if patch.Name != nil && models.NormalizeTitle(*patch.Name) != "" {
			s.Name = models.NormalizeTitle(*patch.Name)
		}
		if patch.Quantity != nil {
			s.Quantity = models.ClampQuantity(*patch.Quantity)
		}
		if patch.IsObtained != nil {
			s.IsObtained = *patch.IsObtained
		}
		if patch.ActualCost != nil {
			s.ActualCost = nonNegative(patch.ActualCost)
		}
		m.save(ctx, "update supply", task)
		return
	}
}

// DeleteSupply removes the supply from task
func (m *Manager) DeleteSupply(ctx context.Context, task *models.Task, supplyID uuid.UUID) {
	kept := task.Supplies[:0]
	for _, s := range task.Supplies {
		if s.ID != supplyID {
			kept = append(kept, s)
		}
	}
	task.Supplies = kept
	m.save(ctx, "delete supply", task)
}

// nonNegative clamps a negative cost to zero; nil stays unknown
func nonNegative(v *float64) *float64 {
	if v == nil || *v >= 0 {
		return v
	}
	zero := 0.0
	return &zero
}
