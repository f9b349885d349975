package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/ui/styles"
)

const (
	dueLayout       = "2006-01-02 15:04"
	dueDateLayout   = "2006-01-02"
	defaultPriority = 3
)

// parseDue reads "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in loc. A date without
// a time is due at the end of that day. Blank input means no due date.
func parseDue(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dueLayout, v, loc); err == nil {
		return &t, nil
	}
	d, err := time.ParseInLocation(dueDateLayout, v, loc)
	if err != nil {
		return nil, fmt.Errorf("due date must look like %s", dueLayout)
	}
	end := d.Add(23*time.Hour + 59*time.Minute)
	return &end, nil
}

// parsePriority reads a 1-5 priority; blank means the default
func parsePriority(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultPriority, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < models.MinPriority || p > models.MaxPriority {
		return 0, fmt.Errorf("priority must be %d-%d", models.MinPriority, models.MaxPriority)
	}
	return p, nil
}

// formatDue renders t relative to now, dropping the year when it matches
func formatDue(t, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case models.SameDay(t, now):
		return "today " + t.Format("15:04")
	case models.SameDay(t, now.AddDate(0, 0, 1)):
		return "tomorrow " + t.Format("15:04")
	case t.Year() == now.Year():
		return t.Format("Mon Jan 2 15:04")
	}
	return t.Format("Jan 2 2006 15:04")
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTarget = nil
	v.editFocusIdx = fieldTitle
	v.editTagCursor = 0
	v.editTags = nil
	v.editReminder = false
	v.editErr = ""
	v.editCategory = v.categoryIndex(v.category)
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editNotes.Reset()
	v.editPriority.SetValue(strconv.Itoa(defaultPriority))
	v.editDue.Reset()
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task *models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTarget = task
	v.editFocusIdx = fieldTitle
	v.editTagCursor = 0
	v.editErr = ""
	v.editReminder = task.ReminderEnabled
	v.editCategory = v.categoryIndex(task.Category)
	// Copy existing tags
	v.editTags = make([]uuid.UUID, len(task.Tags))
	for i, t := range task.Tags {
		v.editTags[i] = t.ID
	}
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editNotes.SetValue(task.Notes)
	v.editPriority.SetValue(strconv.Itoa(task.Priority))
	v.editDue.Reset()
	if task.DueAt != nil {
		v.editDue.SetValue(task.DueAt.In(time.Local).Format(dueLayout))
	}
	v.updateEditFocus()
}

func (v *TaskListView) categoryIndex(c *models.Category) int {
	if c == nil {
		return -1
	}
	for i, cat := range v.categories {
		if cat.ID == c.ID {
			return i
		}
	}
	return -1
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editNotes.Blur()
	v.editPriority.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldNotes:
		v.editNotes.Focus()
	case fieldPriority:
		v.editPriority.Focus()
	case fieldDue:
		v.editDue.Focus()
	}
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case msg.String() == "ctrl+r":
		v.editReminder = !v.editReminder
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldTitle, fieldPriority, fieldDue, fieldCategory:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case fieldTags:
			v.toggleEditTag()
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		}
		// For textareas (desc/notes), let enter pass through for newlines

	case key.Matches(msg, v.keys.Toggle):
		if v.editFocusIdx == fieldTags {
			v.toggleEditTag()
			return v, nil
		}

	case msg.String() == "left", msg.String() == "right":
		if v.editFocusIdx == fieldCategory {
			// -1 is "none", so the ring has len+1 positions
			n := len(v.categories) + 1
			step := 1
			if msg.String() == "left" {
				step = n - 1
			}
			v.editCategory = (v.editCategory+1+step)%n - 1
			return v, nil
		}

	case key.Matches(msg, v.keys.Up):
		if v.editFocusIdx == fieldTags && v.editTagCursor > 0 {
			v.editTagCursor--
			return v, nil
		}

	case key.Matches(msg, v.keys.Down):
		if v.editFocusIdx == fieldTags && v.editTagCursor < len(v.tags)-1 {
			v.editTagCursor++
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldNotes:
		v.editNotes, cmd = v.editNotes.Update(msg)
	case fieldPriority:
		v.editPriority, cmd = v.editPriority.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

// toggleEditTag toggles the currently selected tag in the edit form
func (v *TaskListView) toggleEditTag() {
	if v.editTagCursor >= len(v.tags) {
		return
	}
	tagID := v.tags[v.editTagCursor].ID

	for i, id := range v.editTags {
		if id == tagID {
			v.editTags = append(v.editTags[:i], v.editTags[i+1:]...)
			return
		}
	}
	v.editTags = append(v.editTags, tagID)
}

func (v *TaskListView) selectedEditTags() []models.Tag {
	var out []models.Tag
	for _, tag := range v.tags {
		for _, id := range v.editTags {
			if id == tag.ID {
				out = append(out, tag)
				break
			}
		}
	}
	return out
}

func (v *TaskListView) selectedEditCategory() *models.Category {
	if v.editCategory < 0 || v.editCategory >= len(v.categories) {
		return nil
	}
	c := v.categories[v.editCategory]
	return &c
}

func (v *TaskListView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editErr = "Title is required"
		return nil
	}
	priority, err := parsePriority(v.editPriority.Value())
	if err != nil {
		v.editErr = err.Error()
		return nil
	}
	due, err := parseDue(v.editDue.Value(), time.Local)
	if err != nil {
		v.editErr = err.Error()
		return nil
	}

	ctx := context.Background()
	if v.editingNew {
		task := v.mgr.CreateTask(ctx, repository.TaskInput{
			Title:           title,
			Description:     strings.TrimSpace(v.editDesc.Value()),
			Notes:           strings.TrimSpace(v.editNotes.Value()),
			Priority:        priority,
			DueAt:           due,
			Category:        v.selectedEditCategory(),
			Tags:            v.selectedEditTags(),
			ReminderEnabled: v.editReminder,
		})
		if task != nil {
			v.setStatus("Added "+task.Title, false)
		}
	} else if v.editTarget != nil {
		task := v.editTarget
		task.Title = title
		task.Description = strings.TrimSpace(v.editDesc.Value())
		task.Notes = strings.TrimSpace(v.editNotes.Value())
		task.Priority = priority
		task.DueAt = due
		task.Category = v.selectedEditCategory()
		task.Tags = v.selectedEditTags()
		task.ReminderEnabled = v.editReminder
		v.mgr.UpdateTask(ctx, task)
		if v.viewTask != nil && v.viewTask.ID == task.ID {
			v.viewTask = task
		}
	}

	v.editing = false
	return v.refresh()
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	fieldStyles := make([]lipgloss.Style, fieldCount)
	for i := range fieldStyles {
		fieldStyles[i] = s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	} else {
		fieldStyles[v.editFocusIdx] = s.InputFocused
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	categoryLabel := "None"
	if c := v.selectedEditCategory(); c != nil {
		categoryLabel = strings.TrimSpace(c.Icon + " " + c.Name)
	}

	reminder := "[ ] Reminder"
	if v.editReminder {
		reminder = "[x] Reminder"
	}

	parts := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyles[fieldTitle].Width(inputWidth).Render(v.editTitle.View()),
		"Description:",
		fieldStyles[fieldDesc].Render(v.editDesc.View()),
		"Notes:",
		fieldStyles[fieldNotes].Render(v.editNotes.View()),
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, "Priority (1-5):", fieldStyles[fieldPriority].Width(8).Render(v.editPriority.View())),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, "Due (YYYY-MM-DD HH:MM):", fieldStyles[fieldDue].Width(22).Render(v.editDue.View())),
		),
		"Category:",
		fieldStyles[fieldCategory].Width(inputWidth).Render("◀ " + categoryLabel + " ▶"),
		"Tags:",
		v.renderEditTagSelector(fieldStyles[fieldTags], inputWidth),
		s.TitleMuted.Render(reminder + " (ctrl+r)"),
		"",
		btnStyle.Render(" Save "),
	}
	if v.editErr != "" {
		parts = append(parts, s.StatusError.Render(v.editErr))
	}
	parts = append(parts, s.TitleMuted.Render("Tab: next • ←→: category • Space: toggle tag • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return styles.Overlay(form, v.width, v.height)
}

// renderEditTagSelector renders the inline tag selector for the edit form
func (v *TaskListView) renderEditTagSelector(containerStyle lipgloss.Style, width int) string {
	s := v.styles

	if len(v.tags) == 0 {
		return containerStyle.Width(width).Render(s.TitleMuted.Render("No tags yet (C to manage tags)"))
	}

	var items []string
	for i, tag := range v.tags {
		isSelected := false
		for _, id := range v.editTags {
			if id == tag.ID {
				isSelected = true
				break
			}
		}

		checkbox := "[ ]"
		if isSelected {
			checkbox = "[x]"
		}

		tagColor := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		itemText := checkbox + " " + tagColor.Render("●") + " " + tag.Name

		// Highlight current cursor position when tag section is focused
		if v.editFocusIdx == fieldTags && i == v.editTagCursor {
			items = append(items, s.ListSelected.Render(itemText))
		} else {
			items = append(items, s.ListItem.Render(itemText))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return containerStyle.Width(width).Render(content)
}

// Templates

func (v *TaskListView) startTemplatePicker() {
	v.pickingTemplate = true
	v.templateCursor = 0
	v.templateFilter.Reset()
	v.templateFilter.Focus()
	v.templates = v.mgr.Templates(context.Background())
}

func (v *TaskListView) updatePickingTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.pickingTemplate = false
		v.templateFilter.Blur()
		return v, nil

	case msg.String() == "up":
		if v.templateCursor > 0 {
			v.templateCursor--
		}
		return v, nil

	case msg.String() == "down":
		if v.templateCursor < len(v.templates)-1 {
			v.templateCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.templateCursor < len(v.templates) {
			tpl := v.templates[v.templateCursor]
			task := v.mgr.InstantiateTemplate(ctx, &tpl)
			v.setStatus("Created "+task.Title+" from "+tpl.Name, false)
		}
		v.pickingTemplate = false
		v.templateFilter.Blur()
		return v, v.refresh()

	case msg.String() == "ctrl+d":
		if v.templateCursor < len(v.templates) {
			tpl := v.templates[v.templateCursor]
			v.mgr.DeleteTemplate(ctx, &tpl)
			v.templates = v.mgr.SearchTemplates(ctx, v.templateFilter.Value())
			v.templateCursor = clamp(v.templateCursor, 0, max(len(v.templates)-1, 0))
		}
		return v, nil
	}

	before := v.templateFilter.Value()
	var cmd tea.Cmd
	v.templateFilter, cmd = v.templateFilter.Update(msg)
	if v.templateFilter.Value() != before {
		v.templates = v.mgr.SearchTemplates(ctx, v.templateFilter.Value())
		v.templateCursor = 0
	}
	return v, cmd
}

func (v *TaskListView) startNamingTemplate(task *models.Task) {
	v.namingTemplate = true
	v.editTarget = task
	v.templateName.Reset()
	v.templateName.Placeholder = task.Title + " Template"
	v.templateName.Focus()
}

func (v *TaskListView) updateNamingTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.namingTemplate = false
		v.templateName.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editTarget != nil {
			tpl := v.mgr.CreateTemplateFromTask(context.Background(), v.editTarget, v.templateName.Value())
			v.setStatus("Saved template "+tpl.Name, false)
		}
		v.namingTemplate = false
		v.templateName.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.templateName, cmd = v.templateName.Update(msg)
	return v, cmd
}

func (v *TaskListView) renderNamingTemplate() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Save as Template"),
		"",
		"Name:",
		s.InputFocused.Width(inputWidth).Render(v.templateName.View()),
		"",
		s.TitleMuted.Render("↵: save • Esc: cancel"),
	)

	return styles.Overlay(s.FilterBar.Render(content), v.width, v.height)
}

func (v *TaskListView) renderTemplatePicker() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	var items []string
	if len(v.templates) == 0 {
		items = append(items, s.TitleMuted.Render("No templates. Press T on a task to save one."))
	}
	for i, tpl := range v.templates {
		style := s.ListItem
		if i == v.templateCursor {
			style = s.ListSelected
		}
		line := fmt.Sprintf("%s  %s", tpl.Name, s.TaskMeta.Render(fmt.Sprintf("used %d× • %d supplies", tpl.UseCount, len(tpl.Supplies))))
		items = append(items, style.Width(inputWidth).Render(line))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New from Template"),
		"",
		s.InputFocused.Width(inputWidth).Render(v.templateFilter.View()),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("↑↓: select • ↵: create • Ctrl+D: delete template • Esc: cancel"),
	)

	return styles.Overlay(s.FilterBar.Render(content), v.width, v.height)
}
