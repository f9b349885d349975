package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/search"
	"github.com/tgienger/honeydo/internal/ui/views"
)

const lastCategoryKey = "last_category_id"

// Settings stores small key/value preferences
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Currently active view
type View int

const (
	ViewCategories View = iota
	ViewTasks
)

type App struct {
	mgr          *repository.Manager
	searcher     *search.Searcher
	settings     Settings
	events       *Events
	currentView  View
	categoryList *views.CategoryListView
	taskList     *views.TaskListView
	width        int
	height       int
}

// Creates a new application. events must be the same Events the searcher
// and manager publish to.
func NewApp(mgr *repository.Manager, searcher *search.Searcher, settings Settings, events *Events) *App {
	return &App{
		mgr:          mgr,
		searcher:     searcher,
		settings:     settings,
		events:       events,
		currentView:  ViewTasks,
		categoryList: views.NewCategoryListView(mgr),
	}
}

func (a *App) Init() tea.Cmd {
	listen := tea.Batch(a.waitForSnapshot(), a.waitForError())

	// Reopen the last category, falling back to every task
	var category *models.Category
	if lastID, err := a.settings.GetSetting(lastCategoryKey); err == nil && lastID != "" {
		if id, err := uuid.Parse(lastID); err == nil {
			for _, c := range a.mgr.Categories(context.Background()) {
				if c.ID == id {
					category = &c
					break
				}
			}
		}
	}
	return tea.Batch(listen, a.categoryList.Init(), a.openCategory(category))
}

func (a *App) waitForSnapshot() tea.Cmd {
	ch := a.events.Snapshots()
	return func() tea.Msg {
		return views.SearchUpdated{Snapshot: <-ch}
	}
}

func (a *App) waitForError() tea.Cmd {
	ch := a.events.Errors()
	return func() tea.Msg {
		return views.StoreFailed{Err: <-ch}
	}
}

func (a *App) openCategory(category *models.Category) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.mgr, a.searcher, category)

	// Save as last opened category
	lastID := ""
	if category != nil {
		lastID = category.ID.String()
	}
	a.settings.SetSetting(lastCategoryKey, lastID)

	// Initialize task list with window size
	return tea.Batch(
		a.taskList.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update category list size since it persists
		a.categoryList.Update(msg)

	case views.SelectedCategory:
		return a, a.openCategory(msg.Category)

	case views.BackToCategories:
		a.currentView = ViewCategories
		return a, tea.Batch(
			a.categoryList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.SearchUpdated:
		var cmd tea.Cmd
		if a.taskList != nil {
			_, cmd = a.taskList.Update(msg)
		}
		return a, tea.Batch(cmd, a.waitForSnapshot())

	case views.StoreFailed:
		var cmd tea.Cmd
		if a.taskList != nil {
			_, cmd = a.taskList.Update(msg)
		}
		return a, tea.Batch(cmd, a.waitForError())
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewCategories:
		_, cmd = a.categoryList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	}
	return a.categoryList.View()
}
