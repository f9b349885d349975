package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/filter"
	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/search"
	"github.com/tgienger/honeydo/internal/ui/keys"
	"github.com/tgienger/honeydo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusSearchInput FocusArea = iota
	FocusTaskList
)

// edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldNotes
	fieldPriority
	fieldDue
	fieldCategory
	fieldTags
	fieldSave
	fieldCount
)

// TaskListView shows the tasks of one category, or of every category
type TaskListView struct {
	mgr      *repository.Manager
	searcher *search.Searcher
	category *models.Category // nil = all categories

	tasks      []models.Task // browse list, used while the query is blank
	tags       []models.Tag
	categories []models.Category
	stats      repository.Stats
	snapshot   search.Snapshot

	criteria      filter.Criteria
	sortBy        repository.SortOption
	hideCompleted bool

	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus         FocusArea
	cursor        int
	scrollY       int
	searchInput   textinput.Model
	suggestCursor int // -1 = nothing highlighted
	statusLine    string
	statusIsError bool

	// Tag filter dropdown
	tagDropdownOpen bool
	tagCursor       int

	// Task creation/editing
	editing       bool
	editingNew    bool
	editTarget    *models.Task
	editTitle     textinput.Model
	editDesc      textarea.Model
	editNotes     textarea.Model
	editPriority  textinput.Model
	editDue       textinput.Model
	editFocusIdx  int
	editCategory  int // index into categories, -1 = none
	editTags      []uuid.UUID
	editTagCursor int
	editReminder  bool
	editErr       string

	// Task detail and supplies
	viewingTask    bool
	viewTask       *models.Task
	supplyCursor   int
	addingSupply   bool
	supplyName     textinput.Model
	supplyQty      textinput.Model
	supplyCost     textinput.Model
	supplyFocusIdx int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   uuid.UUID
	deleteTargetName string

	// Templates
	pickingTemplate bool
	templates       []models.Template
	templateFilter  textinput.Model
	templateCursor  int
	namingTemplate  bool
	templateName    textinput.Model

	showHelpPopup bool
}

// NewTaskListView creates a task view scoped to category, or to every task when category is nil
func NewTaskListView(mgr *repository.Manager, searcher *search.Searcher, category *models.Category) *TaskListView {
	s := styles.NewStyles()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search tasks..."
	searchInput.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editNotes := textarea.New()
	editNotes.Placeholder = "Notes"
	editNotes.CharLimit = 5000
	editNotes.SetWidth(50)
	editNotes.SetHeight(3)
	editNotes.ShowLineNumbers = false

	editPriority := textinput.New()
	editPriority.Placeholder = "1-5"
	editPriority.CharLimit = 1

	editDue := textinput.New()
	editDue.Placeholder = dueLayout
	editDue.CharLimit = len(dueLayout)

	supplyName := textinput.New()
	supplyName.Placeholder = "Supply name"
	supplyName.CharLimit = 100

	supplyQty := textinput.New()
	supplyQty.Placeholder = "1"
	supplyQty.CharLimit = 4

	supplyCost := textinput.New()
	supplyCost.Placeholder = "Estimated unit cost (optional)"
	supplyCost.CharLimit = 12

	templateFilter := textinput.New()
	templateFilter.Placeholder = "Filter templates..."
	templateFilter.CharLimit = 100

	templateName := textinput.New()
	templateName.CharLimit = 100

	criteria := filter.Default()
	criteria.WeekStart = mgr.WeekStart()
	if category != nil {
		criteria.Categories = filter.NewIDSet(category.ID)
	}

	return &TaskListView{
		mgr:            mgr,
		searcher:       searcher,
		category:       category,
		criteria:       criteria,
		styles:         s,
		keys:           keys.DefaultKeyMap(),
		focus:          FocusTaskList,
		searchInput:    searchInput,
		suggestCursor:  -1,
		editTitle:      editTitle,
		editDesc:       editDesc,
		editNotes:      editNotes,
		editPriority:   editPriority,
		editDue:        editDue,
		supplyName:     supplyName,
		supplyQty:      supplyQty,
		supplyCost:     supplyCost,
		templateFilter: templateFilter,
		templateName:   templateName,
	}
}

// BackToCategories signals to go back to the category list
type BackToCategories struct{}

// SearchUpdated carries a completed search into the view
type SearchUpdated struct {
	Snapshot search.Snapshot
}

// StoreFailed reports a store error swallowed by the manager
type StoreFailed struct {
	Err error
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	v.searcher.Clear()
	v.searcher.SetCriteria(v.criteria)
	return v.reload()
}

type tasksLoadedMsg struct {
	tasks      []models.Task
	tags       []models.Tag
	categories []models.Category
	stats      repository.Stats
}

// reload fetches the browse list, stats and taxonomy with a copy of the
// current criteria
func (v *TaskListView) reload() tea.Cmd {
	criteria := v.criteria.Clone()
	sortBy := v.sortBy
	category := v.category
	mgr := v.mgr
	return func() tea.Msg {
		ctx := context.Background()
		now := mgr.Now()
		all := mgr.Tasks(ctx)

		var scoped, tasks []models.Task
		for i := range all {
			t := &all[i]
			if category != nil && (t.Category == nil || t.Category.ID != category.ID) {
				continue
			}
			scoped = append(scoped, *t)
			if criteria.Matches(t, now) {
				tasks = append(tasks, *t)
			}
		}
		repository.SortTasks(tasks, sortBy)

		return tasksLoadedMsg{
			tasks:      tasks,
			tags:       mgr.Tags(ctx),
			categories: mgr.Categories(ctx),
			stats:      repository.ComputeStats(scoped, now),
		}
	}
}

// refresh reloads the list and re-runs an active search after a mutation
func (v *TaskListView) refresh() tea.Cmd {
	if v.searching() {
		v.searcher.SetQuery(v.searchInput.Value())
	}
	return v.reload()
}

// applyCriteria hands the criteria to the searcher and reloads the list
func (v *TaskListView) applyCriteria() tea.Cmd {
	v.searcher.SetCriteria(v.criteria)
	v.cursor = 0
	v.scrollY = 0
	return v.reload()
}

func (v *TaskListView) searching() bool {
	return strings.TrimSpace(v.searchInput.Value()) != ""
}

// visible returns the tasks currently listed: ranked results while a query
// is active, the sorted browse list otherwise
func (v *TaskListView) visible() []models.Task {
	if !v.searching() {
		return v.tasks
	}
	out := make([]models.Task, len(v.snapshot.Results))
	for i, r := range v.snapshot.Results {
		out[i] = r.Task
	}
	return out
}

func (v *TaskListView) selected() *models.Task {
	tasks := v.visible()
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return nil
	}
	t := tasks[v.cursor].Clone()
	return t
}

func (v *TaskListView) setStatus(msg string, isErr bool) {
	v.statusLine = msg
	v.statusIsError = isErr
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Update textarea widths dynamically based on content width
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.editNotes.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.tags = msg.tags
		v.categories = msg.categories
		v.stats = msg.stats
		v.clampCursor()
		return v, nil

	case SearchUpdated:
		// results for a query the user has since changed are dropped
		if strings.TrimSpace(msg.Snapshot.Query) != strings.TrimSpace(v.searchInput.Value()) {
			return v, nil
		}
		v.snapshot = msg.Snapshot
		if v.suggestCursor >= len(v.snapshot.Suggestions) {
			v.suggestCursor = -1
		}
		v.clampCursor()
		return v, nil

	case StoreFailed:
		v.setStatus(msg.Err.Error(), true)
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		v.setStatus("", false)

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.namingTemplate {
			return v.updateNamingTemplate(msg)
		}

		if v.pickingTemplate {
			return v.updatePickingTemplate(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.tagDropdownOpen {
			return v.updateTagDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) clampCursor() {
	n := len(v.visible())
	if v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	if v.scrollY > v.cursor {
		v.scrollY = v.cursor
	}
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		return v.updateSearchInput(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.searching() {
			v.searchInput.Reset()
			v.searcher.Clear()
			v.snapshot = search.Snapshot{}
			v.cursor = 0
			v.scrollY = 0
			return v, nil
		}
		return v, func() tea.Msg { return BackToCategories{} }

	case key.Matches(msg, v.keys.Categories):
		return v, func() tea.Msg { return BackToCategories{} }

	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.suggestCursor = -1
		return v, v.searchInput.Focus()

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if task := v.selected(); task != nil {
			v.viewingTask = true
			v.viewTask = task
			v.supplyCursor = 0
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task := v.selected(); task != nil {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.FromTemplate):
		v.startTemplatePicker()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task := v.selected(); task != nil {
			v.askDelete(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.CycleStatus):
		if task := v.selected(); task != nil {
			next := task.Status.Next()
			v.mgr.UpdateStatus(context.Background(), task, next)
			v.setStatus(fmt.Sprintf("%s %s → %s", next.Icon(), task.Title, next), false)
			return v, v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		if task := v.selected(); task != nil {
			v.mgr.CompleteTask(context.Background(), task)
			v.setStatus("✅ Completed "+task.Title, false)
			return v, v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.Duplicate):
		if task := v.selected(); task != nil {
			if dup := v.mgr.Duplicate(context.Background(), task); dup != nil {
				v.setStatus("Duplicated as "+dup.Title, false)
			}
			return v, v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.SaveTemplate):
		if task := v.selected(); task != nil {
			v.startNamingTemplate(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.QuickFilter):
		v.criteria.Quick = nextQuickFilter(v.criteria.Quick)
		return v, v.applyCriteria()

	case key.Matches(msg, v.keys.DateWindow):
		v.criteria.Window = nextDateWindow(v.criteria.Window)
		return v, v.applyCriteria()

	case key.Matches(msg, v.keys.TagFilter):
		v.tagDropdownOpen = true
		v.tagCursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		v.sortBy = repository.SortOptions[(int(v.sortBy)+1)%len(repository.SortOptions)]
		return v, v.reload()

	case key.Matches(msg, v.keys.ShowCompleted):
		v.hideCompleted = !v.hideCompleted
		v.criteria.Statuses = map[models.Status]struct{}{}
		if v.hideCompleted {
			for _, s := range models.Statuses {
				if s != models.StatusCompleted {
					v.criteria.Statuses[s] = struct{}{}
				}
			}
		}
		return v, v.applyCriteria()

	case key.Matches(msg, v.keys.ResetFilters):
		v.hideCompleted = false
		weekStart := v.criteria.WeekStart
		v.criteria = filter.Default()
		v.criteria.WeekStart = weekStart
		if v.category != nil {
			v.criteria.Categories = filter.NewIDSet(v.category.ID)
			return v, v.applyCriteria()
		}
		v.searcher.ResetFilters()
		v.cursor = 0
		v.scrollY = 0
		return v, v.reload()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

// nextQuickFilter cycles none → all quick filters → none
func nextQuickFilter(q filter.QuickFilter) filter.QuickFilter {
	for i, f := range filter.QuickFilters {
		if f == q {
			if i+1 < len(filter.QuickFilters) {
				return filter.QuickFilters[i+1]
			}
			return filter.QuickNone
		}
	}
	return filter.QuickFilters[0]
}

// nextDateWindow cycles the windows that need no range input
func nextDateWindow(w filter.DateWindow) filter.DateWindow {
	var windows []filter.DateWindow
	for _, dw := range filter.DateWindows {
		if dw != filter.WindowCustom {
			windows = append(windows, dw)
		}
	}
	for i, dw := range windows {
		if dw == w {
			return windows[(i+1)%len(windows)]
		}
	}
	return filter.WindowAny
}

func (v *TaskListView) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := v.searchOptions()

	switch {
	case key.Matches(msg, v.keys.Back), msg.String() == "tab":
		v.searchInput.Blur()
		v.focus = FocusTaskList
		v.suggestCursor = -1
		return v, nil

	case msg.String() == "down":
		if v.suggestCursor < len(options)-1 {
			v.suggestCursor++
		}
		return v, nil

	case msg.String() == "up":
		if v.suggestCursor >= 0 {
			v.suggestCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.suggestCursor >= 0 && v.suggestCursor < len(options) {
			return v, v.acceptOption(options[v.suggestCursor])
		}
		v.searcher.Commit()
		v.searchInput.Blur()
		v.focus = FocusTaskList
		v.cursor = 0
		v.scrollY = 0
		return v, nil

	case msg.String() == "ctrl+x":
		// clear recent searches
		if !v.searching() {
			v.searcher.Recent().Clear()
			v.suggestCursor = -1
		}
		return v, nil
	}

	before := v.searchInput.Value()
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	if v.searchInput.Value() != before {
		v.searcher.SetQuery(v.searchInput.Value())
		v.suggestCursor = -1
		v.cursor = 0
		v.scrollY = 0
		if !v.searching() {
			v.snapshot = search.Snapshot{}
		}
	}
	return v, cmd
}

// searchOptions lists what can be picked under the search box: the
// suggestions for the current query, or the recent searches when it is blank
func (v *TaskListView) searchOptions() []search.Suggestion {
	if v.searching() {
		return v.snapshot.Suggestions
	}
	var out []search.Suggestion
	for _, q := range v.searcher.Recent().List() {
		out = append(out, search.Suggestion{Text: q, Icon: "🕘", Subtitle: "Recent"})
	}
	return out
}

// acceptOption applies a picked suggestion. Categories, tags and canned
// phrases become filters; tasks and recent searches become the query.
func (v *TaskListView) acceptOption(opt search.Suggestion) tea.Cmd {
	v.suggestCursor = -1
	setQuery := func(q string) tea.Cmd {
		v.searchInput.SetValue(q)
		v.searchInput.CursorEnd()
		v.searcher.SetQuery(q)
		v.cursor = 0
		v.scrollY = 0
		return nil
	}

	switch {
	case opt.Subtitle == "Recent":
		return setQuery(opt.Text)

	case opt.Kind == search.SuggestCategory:
		for _, c := range v.categories {
			if strings.EqualFold(c.Name, opt.Text) {
				v.criteria.Categories[c.ID] = struct{}{}
			}
		}

	case opt.Kind == search.SuggestTag:
		for _, t := range v.tags {
			if strings.EqualFold(t.Name, opt.Text) {
				v.criteria.Tags[t.ID] = struct{}{}
			}
		}

	case opt.Kind == search.SuggestFilter:
		if q, err := filter.ParseQuickFilter(opt.Text); err == nil {
			v.criteria.Quick = q
		} else if st, err := models.ParseStatus(opt.Text); err == nil {
			v.criteria.Statuses = map[models.Status]struct{}{st: {}}
		}

	default:
		return setQuery(opt.Text)
	}

	v.searchInput.Reset()
	v.searcher.Clear()
	v.snapshot = search.Snapshot{}
	return v.applyCriteria()
}

func (v *TaskListView) updateTagDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tagDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(v.tags) { // +1 for "Any tag" option
			v.tagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Toggle):
		if v.tagCursor == 0 {
			v.criteria.Tags = filter.NewIDSet()
		} else {
			v.criteria.Tags.Toggle(v.tags[v.tagCursor-1].ID)
		}
		return v, v.applyCriteria()
	}

	return v, nil
}

func (v *TaskListView) askDelete(task *models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		v.viewTask = nil
		ctx := context.Background()
		if task := v.mgr.Task(ctx, v.deleteTargetID); task != nil {
			v.mgr.DeleteTask(ctx, task)
			v.setStatus("Deleted "+v.deleteTargetName, false)
		}
		return v, v.refresh()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many three-line task items fit under the header
func (v *TaskListView) visibleItems() int {
	availableHeight := v.height - 14
	if availableHeight < 3 {
		availableHeight = 3
	}
	return max(availableHeight/3, 1)
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.namingTemplate {
		return v.renderNamingTemplate()
	}

	if v.pickingTemplate {
		return v.renderTemplatePicker()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(v.renderTaskList())

	b.WriteString("\n")
	if v.statusLine != "" {
		style := v.styles.StatusBar
		if v.statusIsError {
			style = v.styles.StatusError
		}
		b.WriteString(style.Render(v.statusLine))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) title() string {
	if v.category == nil {
		return "🍯 All Tasks"
	}
	icon := v.category.Icon
	if icon == "" {
		icon = "📁"
	}
	return icon + " " + v.category.Name
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	// Search input - dynamic width
	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-30, 10, 40)
	if isNarrow {
		searchWidth = clamp(contentWidth-4, 10, 40)
	}
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	quickLabel := "Filter"
	if v.criteria.Quick != filter.QuickNone {
		quickLabel = v.criteria.Quick.Icon() + " " + v.criteria.Quick.Label()
	}
	quickBtn := s.Button.Render(quickLabel)
	sortBtn := s.Button.Render("⇅ " + v.sortBy.String())

	var controls string
	if isNarrow {
		controls = lipgloss.JoinVertical(lipgloss.Left, searchBox, quickLabel+"  ⇅ "+v.sortBy.String())
	} else {
		controls = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, " ", quickBtn, " ", sortBtn)
	}

	parts := []string{s.Title.Render(v.title()), v.renderStats(), controls}
	if summary := v.renderFilterSummary(); summary != "" {
		parts = append(parts, summary)
	}
	if v.focus == FocusSearchInput {
		if opts := v.renderSearchOptions(); opts != "" {
			parts = append(parts, opts)
		}
	}
	if v.tagDropdownOpen {
		parts = append(parts, v.renderTagDropdown())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *TaskListView) renderStats() string {
	st := v.stats
	line := fmt.Sprintf("%d tasks • %d done (%.0f%%)", st.Total, st.Completed, st.CompletionRate*100)
	if st.Overdue > 0 {
		line += " • " + v.styles.TaskOverdue.Render(fmt.Sprintf("%d overdue", st.Overdue))
	}
	if st.DueToday > 0 {
		line += fmt.Sprintf(" • %d due today", st.DueToday)
	}
	return v.styles.TaskMeta.Render(line)
}

func (v *TaskListView) renderFilterSummary() string {
	c := v.criteria
	var parts []string
	if c.Window != filter.WindowAny {
		parts = append(parts, c.Window.Icon()+" "+c.Window.String())
	}
	if n := len(c.Tags); n > 0 {
		parts = append(parts, fmt.Sprintf("%d tag(s)", n))
	}
	extraCategories := len(c.Categories)
	if v.category != nil {
		extraCategories--
	}
	if extraCategories > 0 {
		parts = append(parts, fmt.Sprintf("%d categor(ies)", extraCategories))
	}
	if v.hideCompleted {
		parts = append(parts, "hiding done")
	} else if len(c.Statuses) > 0 {
		var names []string
		for _, st := range models.Statuses {
			if _, ok := c.Statuses[st]; ok {
				names = append(names, st.String())
			}
		}
		parts = append(parts, strings.Join(names, "/"))
	}
	if len(parts) == 0 {
		return ""
	}
	return v.styles.TaskMeta.Render("Filters: " + strings.Join(parts, " • ") + "  (R to reset)")
}

func (v *TaskListView) renderSearchOptions() string {
	s := v.styles
	options := v.searchOptions()
	if len(options) == 0 {
		return ""
	}

	heading := "Suggestions"
	if !v.searching() {
		heading = "Recent searches (ctrl+x clears)"
	}
	items := []string{s.SearchSection.Render(heading)}
	for i, opt := range options {
		line := opt.Icon + " " + opt.Text
		if opt.Subtitle != "" && opt.Subtitle != "Recent" {
			line += "  " + s.TaskMeta.Render(opt.Subtitle)
		}
		style := s.ListItem
		if i == v.suggestCursor {
			style = s.ListSelected
		}
		items = append(items, style.Render(line))
	}
	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderTagDropdown() string {
	s := v.styles
	var items []string

	anyStyle := s.ListItem
	if v.tagCursor == 0 {
		anyStyle = s.ListSelected
	}
	items = append(items, anyStyle.Render("Any tag"))

	for i, tag := range v.tags {
		itemStyle := s.ListItem
		if v.tagCursor == i+1 {
			itemStyle = s.ListSelected
		}
		checkbox := "[ ]"
		if v.criteria.Tags.Has(tag.ID) {
			checkbox = "[x]"
		}
		tagColor := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		items = append(items, itemStyle.Render(checkbox+" "+tagColor.Render("●")+" "+tag.Name))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return s.FilterBar.Render(content)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	tasks := v.visible()

	if len(tasks) == 0 {
		switch {
		case v.searching() && v.snapshot.State != search.StateReady:
			return s.TitleMuted.Render("Searching...")
		case v.searching():
			return s.TitleMuted.Render("No matches for \"" + strings.TrimSpace(v.searchInput.Value()) + "\"")
		case v.filtersNarrowed():
			return s.TitleMuted.Render("No tasks match these filters.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(tasks))

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// filtersNarrowed reports whether anything beyond the category scope filters the list
func (v *TaskListView) filtersNarrowed() bool {
	c := v.criteria.Clone()
	if v.category != nil {
		delete(c.Categories, v.category.ID)
	}
	return c.HasActive()
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)
	now := v.mgr.Now()

	title := task.Title
	if task.IsCompleted() {
		title = s.TaskDone.Render(title)
	}
	titleLine := task.Status.Icon() + " " + title + "  " + s.TaskPriority.Render(task.PriorityHearts())

	var meta []string
	if task.Category != nil {
		meta = append(meta, strings.TrimSpace(task.Category.Icon+" "+task.Category.Name))
	}
	if due := v.renderDue(&task, now); due != "" {
		meta = append(meta, due)
	}
	if len(task.Supplies) > 0 {
		obtained := 0
		for _, sp := range task.Supplies {
			if sp.IsObtained {
				obtained++
			}
		}
		meta = append(meta, fmt.Sprintf("🛒 %d/%d", obtained, len(task.Supplies)))
	}
	for _, tag := range task.Tags {
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("#"+tag.Name))
	}
	metaLine := s.TitleMuted.Render("no details")
	if len(meta) > 0 {
		metaLine = strings.Join(meta, "  ")
	}

	var titleStyle, metaStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		metaStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		metaStyle = s.ListItem.Width(width)
	}

	// Return two-line item with margin
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(titleLine), metaStyle.Render(metaLine)) + "\n"
}

// renderDue formats the due date, highlighted when overdue or urgent
func (v *TaskListView) renderDue(task *models.Task, now time.Time) string {
	if task.DueAt == nil {
		return ""
	}
	text := "Due " + formatDue(*task.DueAt, now)
	switch {
	case task.IsOverdue(now):
		return v.styles.TaskOverdue.Render("⚠ " + text)
	case task.IsUrgent(now):
		return v.styles.TaskUrgent.Render("⏰ " + text)
	}
	return text
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	if v.focus == FocusSearchInput {
		return v.styles.Help.Render(
			fmt.Sprintf("%s pick • %s search/apply • %s back to list",
				v.styles.HelpKey.Render("↑↓"),
				v.styles.HelpKey.Render("↵"),
				v.styles.HelpKey.Render("esc"),
			),
		)
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s edit • %s done • %s status • %s search • %s filter • %s sort • %s more",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("o"),
			v.styles.HelpKey.Render("?"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles

	completedLabel := "hide completed"
	if v.hideCompleted {
		completedLabel = "show completed"
	}

	helpItems := []string{
		s.HelpKey.Render("↵") + "      view task & supplies",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("N") + "      new from template",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("s") + "      next status",
		s.HelpKey.Render("c") + "      complete",
		s.HelpKey.Render("y") + "      duplicate",
		s.HelpKey.Render("T") + "      save as template",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      quick filter",
		s.HelpKey.Render("w") + "      due window",
		s.HelpKey.Render("t") + "      filter by tag",
		s.HelpKey.Render("o") + "      sort",
		s.HelpKey.Render("H") + "      " + completedLabel,
		s.HelpKey.Render("R") + "      reset filters",
		s.HelpKey.Render("C") + "      categories & tags",
		s.HelpKey.Render("esc") + "    clear search / back",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	return styles.Overlay(s.FilterBar.Render(content), v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" and its supplies will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return styles.Overlay(content, v.width, v.height)
}
