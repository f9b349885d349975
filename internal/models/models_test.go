package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPriority(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{99, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPriority(tt.in), "ClampPriority(%d)", tt.in)
	}
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0))
	assert.Equal(t, 1, ClampQuantity(-3))
	assert.Equal(t, 1, ClampQuantity(1))
	assert.Equal(t, 7, ClampQuantity(7))
}

func TestTask_OverdueAndUrgent(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name        string
		due         *time.Time
		status      Status
		wantOverdue bool
		wantUrgent  bool
	}{
		{name: "no due date", due: nil},
		{name: "due in 12h", due: at(12 * time.Hour), wantUrgent: true},
		{name: "due in exactly 24h", due: at(24 * time.Hour), wantUrgent: true},
		{name: "due in 25h", due: at(25 * time.Hour)},
		{name: "due now", due: at(0)},
		{name: "past due", due: at(-time.Hour), wantOverdue: true},
		{name: "past due but completed", due: at(-time.Hour), status: StatusCompleted},
		{name: "past due on hold", due: at(-time.Hour), status: StatusOnHold, wantOverdue: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueAt: tt.due, Status: tt.status}
			assert.Equal(t, tt.wantOverdue, task.IsOverdue(now))
			assert.Equal(t, tt.wantUrgent, task.IsUrgent(now))
		})
	}
}

func TestTask_SetStatusKeepsCompletedAt(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	task := NewTask("  Mow lawn ", "", 9, now)
	assert.Equal(t, "Mow lawn", task.Title)
	assert.Equal(t, MaxPriority, task.Priority)

	for _, s := range Statuses {
		task.SetStatus(s, now)
		if s == StatusCompleted {
			require.NotNil(t, task.CompletedAt)
			assert.Equal(t, now, *task.CompletedAt)
		} else {
			assert.Nil(t, task.CompletedAt, s.String())
		}
	}

	later := now.Add(time.Hour)
	task.SetStatus(StatusCompleted, now)
	task.SetStatus(StatusCompleted, later)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, later, *task.CompletedAt)
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	_, err = ParseStatus("finished")
	assert.Error(t, err)
}

func TestTemplate_Instantiate(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	cat := &Category{ID: uuid.New(), Name: "Home"}
	tag := Tag{ID: uuid.New(), Name: "DIY"}
	tpl := &Template{
		ID:       uuid.New(),
		Name:     "Sink",
		Title:    "Fix sink",
		Priority: 4,
		Category: cat,
		Tags:     []Tag{tag},
		Supplies: []SupplyTemplate{{ID: uuid.New(), Name: "Wrench", Quantity: 0}},
	}

	first := tpl.Instantiate(now)
	second := tpl.Instantiate(now)

	assert.Equal(t, 2, tpl.UseCount)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StatusToDo, first.Status)
	assert.Equal(t, now, first.CreatedAt)
	assert.Equal(t, "Fix sink", first.Title)
	require.NotNil(t, first.Category)
	assert.Equal(t, cat.ID, first.Category.ID)
	assert.True(t, first.HasTag(tag.ID))
	require.Len(t, first.Supplies, 1)
	assert.Equal(t, first.ID, first.Supplies[0].TaskID)
	assert.Equal(t, 1, first.Supplies[0].Quantity)
	assert.NotEqual(t, first.Supplies[0].ID, second.Supplies[0].ID)
}

func TestTemplateFromTask(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	task := NewTask("Paint fence", "two coats", 2, now)
	task.Notes = "not copied"
	task.Supplies = []Supply{{ID: uuid.New(), TaskID: task.ID, Name: "Paint", Quantity: 3, IsObtained: true}}

	tpl := TemplateFromTask(task, "Fence", now)
	assert.Equal(t, "Fence", tpl.Name)
	assert.Equal(t, "Paint fence", tpl.Title)
	assert.Equal(t, "two coats", tpl.Description)
	require.Len(t, tpl.Supplies, 1)
	assert.Equal(t, tpl.ID, tpl.Supplies[0].TemplateID)
	assert.Equal(t, 3, tpl.Supplies[0].Quantity)
	assert.Zero(t, tpl.UseCount)
}

func TestSupplyCosts(t *testing.T) {
	cost := 2.5
	s := Supply{Quantity: 4, EstimatedCost: &cost}
	assert.InDelta(t, 10.0, s.TotalEstimatedCost(), 0.0001)
	assert.Zero(t, s.TotalActualCost())
}

func TestSameWeek(t *testing.T) {
	// 2025-07-13 is a Sunday
	sun := time.Date(2025, 7, 13, 10, 0, 0, 0, time.UTC)
	sat := time.Date(2025, 7, 19, 23, 0, 0, 0, time.UTC)
	nextSun := time.Date(2025, 7, 20, 0, 30, 0, 0, time.UTC)
	mon := time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC)

	assert.True(t, SameWeek(sat, sun, time.Sunday))
	assert.False(t, SameWeek(nextSun, sun, time.Sunday))
	assert.False(t, SameWeek(sun, mon, time.Monday))
	assert.True(t, SameWeek(nextSun, mon, time.Monday))

	assert.True(t, SameDay(time.Date(2025, 7, 14, 23, 59, 0, 0, time.UTC), mon))
	assert.False(t, SameDay(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), mon))
}

func TestTask_CloneCopiesSupplyValues(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	cost, supplier := 8.5, "Hardware Hank's"
	task := NewTask("Fix sink", "", 3, now)
	task.Supplies = []Supply{{ID: uuid.New(), TaskID: task.ID, Name: "Wrench", Quantity: 1, EstimatedCost: &cost, Supplier: &supplier}}

	c := task.Clone()
	require.Len(t, c.Supplies, 1)
	*c.Supplies[0].EstimatedCost = 99
	*c.Supplies[0].Supplier = "elsewhere"
	c.Supplies[0].Name = "Pliers"

	assert.Equal(t, 8.5, *task.Supplies[0].EstimatedCost)
	assert.Equal(t, "Hardware Hank's", *task.Supplies[0].Supplier)
	assert.Equal(t, "Wrench", task.Supplies[0].Name)
	assert.Nil(t, c.Supplies[0].ActualCost)
}

func TestTemplate_RoundTripDoesNotShareCosts(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	cost := 4.0
	task := NewTask("Mow lawn", "", 3, now)
	task.Supplies = []Supply{{ID: uuid.New(), Name: "Fuel", Quantity: 2, EstimatedCost: &cost}}

	tpl := TemplateFromTask(task, "Mowing", now)
	*tpl.Supplies[0].EstimatedCost = 5
	assert.Equal(t, 4.0, cost)

	out := tpl.Instantiate(now)
	*out.Supplies[0].EstimatedCost = 6
	assert.Equal(t, 5.0, *tpl.Supplies[0].EstimatedCost)
}
