package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/tgienger/honeydo/internal/models"
)

// Templates returns every template, most used first
func (m *Manager) Templates(ctx context.Context) []models.Template {
	tpls, err := m.store.Templates(ctx)
	if err != nil {
		m.fail(readError("list templates", err))
		return []models.Template{}
	}
	sort.SliceStable(tpls, func(i, j int) bool {
		return tpls[i].UseCount > tpls[j].UseCount
	})
	return tpls
}

// SearchTemplates returns templates whose name, title or description
// contains text (case-insensitive), most used first
func (m *Manager) SearchTemplates(ctx context.Context, text string) []models.Template {
	tpls := m.Templates(ctx)
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return tpls
	}
	out := tpls[:0]
	for _, tpl := range tpls {
		if strings.Contains(strings.ToLower(tpl.Name), q) ||
			strings.Contains(strings.ToLower(tpl.Title), q) ||
			strings.Contains(strings.ToLower(tpl.Description), q) {
			out = append(out, tpl)
		}
	}
	return out
}

// InstantiateTemplate saves a new task created from tpl and the template's
// bumped use count
func (m *Manager) InstantiateTemplate(ctx context.Context, tpl *models.Template) *models.Task {
	task := tpl.Instantiate(m.now())
	m.save(ctx, "instantiate template", task)
	if err := m.store.SaveTemplate(ctx, tpl); err != nil {
		m.fail(writeError("instantiate template", err))
	}
	return task
}

// CreateTemplateFromTask saves a template built from task. An empty name
// defaults to "<title> Template".
func (m *Manager) CreateTemplateFromTask(ctx context.Context, task *models.Task, name string) *models.Template {
	name = strings.TrimSpace(name)
	if name == "" {
		name = task.Title + " Template"
	}
	tpl := models.TemplateFromTask(task, name, m.now())
	if err := m.store.SaveTemplate(ctx, tpl); err != nil {
		m.fail(writeError("create template", err))
	}
	return tpl
}

// DeleteTemplate removes a template and its supply templates
func (m *Manager) DeleteTemplate(ctx context.Context, tpl *models.Template) {
	if err := m.store.DeleteTemplate(ctx, tpl.ID); err != nil {
		m.fail(writeError("delete template", err))
	}
}
