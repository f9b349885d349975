package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// Categories returns every category ordered by name
func (m *Manager) Categories(ctx context.Context) []models.Category {
	cats, err := m.store.Categories(ctx)
	if err != nil {
		m.fail(readError("list categories", err))
		return []models.Category{}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
	return cats
}

// CreateCategory saves a new category. Empty names are ignored.
func (m *Manager) CreateCategory(ctx context.Context, name, icon, color string) *models.Category {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	c := &models.Category{ID: uuid.New(), Name: name, Icon: icon, Color: color, CreatedAt: m.now()}
	if err := m.store.SaveCategory(ctx, c); err != nil {
		m.fail(writeError("create category", err))
	}
	return c
}

// UpdateCategory saves edits to a category
func (m *Manager) UpdateCategory(ctx context.Context, c *models.Category) {
	if err := m.store.SaveCategory(ctx, c); err != nil {
		m.fail(writeError("update category", err))
	}
}

// DeleteCategory clears the category on every task and template that
// references it, then deletes it. Tasks are never deleted.
func (m *Manager) DeleteCategory(ctx context.Context, c *models.Category) {
	tasks, err := m.store.Tasks(ctx)
	if err != nil {
		m.fail(readError("delete category", err))
		return
	}
	for i := range tasks {
		if tasks[i].Category == nil || tasks[i].Category.ID != c.ID {
			continue
		}
		tasks[i].Category = nil
		if err := m.store.SaveTask(ctx, &tasks[i]); err != nil {
			m.fail(writeError("delete category", err))
			return
		}
	}

	tpls, err := m.store.Templates(ctx)
	if err != nil {
		m.fail(readError("delete category", err))
		return
	}
	for i := range tpls {
		if tpls[i].Category == nil || tpls[i].Category.ID != c.ID {
			continue
		}
		tpls[i].Category = nil
		if err := m.store.SaveTemplate(ctx, &tpls[i]); err != nil {
			m.fail(writeError("delete category", err))
			return
		}
	}

	if err := m.store.DeleteCategory(ctx, c.ID); err != nil {
		m.fail(writeError("delete category", err))
	}
}

// Tags returns every tag ordered by name
func (m *Manager) Tags(ctx context.Context) []models.Tag {
	tags, err := m.store.Tags(ctx)
	if err != nil {
		m.fail(readError("list tags", err))
		return []models.Tag{}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags
}

// CreateTag saves a new tag. Empty names are ignored.
func (m *Manager) CreateTag(ctx context.Context, name, color string) *models.Tag {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	t := &models.Tag{ID: uuid.New(), Name: name, Color: color, CreatedAt: m.now()}
	if err := m.store.SaveTag(ctx, t); err != nil {
		m.fail(writeError("create tag", err))
	}
	return t
}

// UpdateTag saves edits to a tag
func (m *Manager) UpdateTag(ctx context.Context, t *models.Tag) {
	if err := m.store.SaveTag(ctx, t); err != nil {
		m.fail(writeError("update tag", err))
	}
}

// DeleteTag removes the tag from every task and template, then deletes it
func (m *Manager) DeleteTag(ctx context.Context, t *models.Tag) {
	tasks, err := m.store.Tasks(ctx)
	if err != nil {
		m.fail(readError("delete tag", err))
		return
	}
	for i := range tasks {
		if !tasks[i].HasTag(t.ID) {
			continue
		}
		tasks[i].Tags = withoutTag(tasks[i].Tags, t.ID)
		if err := m.store.SaveTask(ctx, &tasks[i]); err != nil {
			m.fail(writeError("delete tag", err))
			return
		}
	}

	tpls, err := m.store.Templates(ctx)
	if err != nil {
		m.fail(readError("delete tag", err))
		return
	}
	for i := range tpls {
		before := len(tpls[i].Tags)
		tpls[i].Tags = withoutTag(tpls[i].Tags, t.ID)
		if len(tpls[i].Tags) == before {
			continue
		}
		if err := m.store.SaveTemplate(ctx, &tpls[i]); err != nil {
			m.fail(writeError("delete tag", err))
			return
		}
	}

	if err := m.store.DeleteTag(ctx, t.ID); err != nil {
		m.fail(writeError("delete tag", err))
	}
}

func withoutTag(tags []models.Tag, id uuid.UUID) []models.Tag {
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
