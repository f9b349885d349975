package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/ui/keys"
	"github.com/tgienger/honeydo/internal/ui/styles"
)

// categoryItem is a list row. A nil category is the "All Tasks" row.
type categoryItem struct {
	category *models.Category
	count    int
}

func (i categoryItem) Title() string {
	if i.category == nil {
		return "🍯 All Tasks"
	}
	icon := i.category.Icon
	if icon == "" {
		icon = "📁"
	}
	return icon + " " + i.category.Name
}

func (i categoryItem) Description() string {
	if i.count == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", i.count)
}

func (i categoryItem) FilterValue() string {
	if i.category == nil {
		return "All Tasks"
	}
	return i.category.Name
}

type tagItem struct {
	tag   models.Tag
	count int
}

func (i tagItem) Title() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(i.tag.Color)).Render("●") + " " + i.tag.Name
}

func (i tagItem) Description() string {
	if i.count == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", i.count)
}

func (i tagItem) FilterValue() string { return i.tag.Name }

type categoryDelegate struct {
	styles *styles.Styles
	width  int
}

func (d categoryDelegate) Height() int                               { return 2 }
func (d categoryDelegate) Spacing() int                              { return 1 }
func (d categoryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d categoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(list.DefaultItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(p.Title()), descStyle.Render(p.Description()))
}

// CategoryListView lists categories and tags. Enter on a category opens its tasks.
type CategoryListView struct {
	mgr        *repository.Manager
	categories list.Model
	tags       list.Model
	delegate   *categoryDelegate
	styles     *styles.Styles
	keys       keys.KeyMap
	width      int
	height     int
	loaded     bool
	showTags   bool

	// create/edit form
	creating   bool
	editingCat *models.Category
	editingTag *models.Tag
	newName    textinput.Model
	newIcon    textinput.Model
	newColor   textinput.Model
	focusIdx   int // 0=name, 1=icon (categories only), 2=color, 3=confirm

	confirmingDelete bool
	deleteCategory   *models.Category
	deleteTag        *models.Tag

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewCategoryListView(mgr *repository.Manager) *CategoryListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Name"
	newName.CharLimit = 100

	newIcon := textinput.New()
	newIcon.Placeholder = "Icon, e.g. 🍳 (optional)"
	newIcon.CharLimit = 8

	newColor := textinput.New()
	newColor.Placeholder = "Color, e.g. #f5b82e (optional)"
	newColor.CharLimit = 16

	delegate := &categoryDelegate{styles: s, width: 80}

	newList := func(title string) list.Model {
		l := list.New([]list.Item{}, delegate, 0, 0)
		l.Title = title
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(true)
		l.Styles.Title = s.Title
		l.SetShowHelp(false)
		return l
	}

	return &CategoryListView{
		mgr:        mgr,
		categories: newList("Categories"),
		tags:       newList("Tags"),
		delegate:   delegate,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		newName:    newName,
		newIcon:    newIcon,
		newColor:   newColor,
	}
}

func (v *CategoryListView) Init() tea.Cmd {
	return v.loadCategories
}

func (v *CategoryListView) loadCategories() tea.Msg {
	ctx := context.Background()
	tasks := v.mgr.Tasks(ctx)
	msg := categoriesLoadedMsg{
		categories:    v.mgr.Categories(ctx),
		tags:          v.mgr.Tags(ctx),
		total:         len(tasks),
		categoryCount: map[uuid.UUID]int{},
		tagCount:      map[uuid.UUID]int{},
	}
	for _, t := range tasks {
		if t.Category != nil {
			msg.categoryCount[t.Category.ID]++
		}
		for _, tag := range t.Tags {
			msg.tagCount[tag.ID]++
		}
	}
	return msg
}

type categoriesLoadedMsg struct {
	categories    []models.Category
	tags          []models.Tag
	total         int
	categoryCount map[uuid.UUID]int
	tagCount      map[uuid.UUID]int
}

// SelectedCategory asks the app to open the task view. A nil Category means every task.
type SelectedCategory struct {
	Category *models.Category
}

func (v *CategoryListView) current() *list.Model {
	if v.showTags {
		return &v.tags
	}
	return &v.categories
}

func (v *CategoryListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Use content width (capped at MaxWidth) for internal layout
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.categories.SetSize(contentWidth-4, msg.Height-6)
		v.tags.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case categoriesLoadedMsg:
		items := []list.Item{categoryItem{count: msg.total}}
		for i := range msg.categories {
			c := msg.categories[i]
			items = append(items, categoryItem{category: &c, count: msg.categoryCount[c.ID]})
		}
		v.categories.SetItems(items)

		tagItems := make([]list.Item, len(msg.tags))
		for i, t := range msg.tags {
			tagItems[i] = tagItem{tag: t, count: msg.tagCount[t.ID]}
		}
		v.tags.SetItems(tagItems)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		// keys typed into the list filter belong to the list
		if v.current().FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			if v.current().FilterState() == list.FilterApplied {
				break
			}
			return v, func() tea.Msg { return SelectedCategory{} }
		case key.Matches(msg, v.keys.Tab):
			v.showTags = !v.showTags
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startForm(nil, nil)
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			switch item := v.current().SelectedItem().(type) {
			case categoryItem:
				if item.category != nil {
					v.startForm(item.category, nil)
					return v, textinput.Blink
				}
			case tagItem:
				tag := item.tag
				v.startForm(nil, &tag)
				return v, textinput.Blink
			}
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.current().SelectedItem().(categoryItem); ok {
				return v, func() tea.Msg {
					return SelectedCategory{Category: item.category}
				}
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			switch item := v.current().SelectedItem().(type) {
			case categoryItem:
				if item.category != nil {
					v.confirmingDelete = true
					v.deleteCategory = item.category
					v.deleteTag = nil
				}
			case tagItem:
				tag := item.tag
				v.confirmingDelete = true
				v.deleteTag = &tag
				v.deleteCategory = nil
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	if v.showTags {
		v.tags, cmd = v.tags.Update(msg)
	} else {
		v.categories, cmd = v.categories.Update(msg)
	}
	return v, cmd
}

func (v *CategoryListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		ctx := context.Background()
		if v.deleteCategory != nil {
			v.mgr.DeleteCategory(ctx, v.deleteCategory)
		}
		if v.deleteTag != nil {
			v.mgr.DeleteTag(ctx, v.deleteTag)
		}
		v.confirmingDelete = false
		return v, v.loadCategories
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// startForm opens the create form, or the edit form when c or t is set
func (v *CategoryListView) startForm(c *models.Category, t *models.Tag) {
	v.creating = true
	v.editingCat = c
	v.editingTag = t
	v.focusIdx = 0
	v.newName.Reset()
	v.newIcon.Reset()
	v.newColor.Reset()
	switch {
	case c != nil:
		v.newName.SetValue(c.Name)
		v.newIcon.SetValue(c.Icon)
		v.newColor.SetValue(c.Color)
	case t != nil:
		v.newName.SetValue(t.Name)
		v.newColor.SetValue(t.Color)
	}
	v.updateFocus()
}

// formFields lists the focus positions the form uses; tags have no icon
func (v *CategoryListView) formFields() []int {
	if v.showTags {
		return []int{0, 2, 3}
	}
	return []int{0, 1, 2, 3}
}

func (v *CategoryListView) moveFocus(dir int) {
	fields := v.formFields()
	pos := 0
	for i, f := range fields {
		if f == v.focusIdx {
			pos = i
		}
	}
	v.focusIdx = fields[(pos+dir+len(fields))%len(fields)]
	v.updateFocus()
}

func (v *CategoryListView) save() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		return nil
	}
	icon := strings.TrimSpace(v.newIcon.Value())
	color := strings.TrimSpace(v.newColor.Value())
	ctx := context.Background()

	switch {
	case v.editingCat != nil:
		c := *v.editingCat
		c.Name, c.Icon, c.Color = name, icon, color
		v.mgr.UpdateCategory(ctx, &c)
	case v.editingTag != nil:
		t := *v.editingTag
		t.Name, t.Color = name, color
		v.mgr.UpdateTag(ctx, &t)
	case v.showTags:
		v.mgr.CreateTag(ctx, name, color)
	default:
		if c := v.mgr.CreateCategory(ctx, name, icon, color); c != nil {
			v.creating = false
			return func() tea.Msg { return SelectedCategory{Category: c} }
		}
	}
	v.creating = false
	return v.loadCategories
}

func (v *CategoryListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case msg.String() == "shift+tab":
		v.moveFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.moveFocus(1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == 3 {
			return v, v.save()
		}
		v.moveFocus(1)
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newIcon, cmd = v.newIcon.Update(msg)
	case 2:
		v.newColor, cmd = v.newColor.Update(msg)
	}
	return v, cmd
}

func (v *CategoryListView) updateFocus() {
	v.newName.Blur()
	v.newIcon.Blur()
	v.newColor.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newIcon.Focus()
	case 2:
		v.newColor.Focus()
	}
}

// View renders the view
func (v *CategoryListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if v.showTags && len(v.tags.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.current().View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *CategoryListView) renderEmpty() string {
	s := v.styles

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Tags"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first tag, tab for categories"),
		"",
		s.ButtonPrimary.Render(" New Tag "),
	)

	return styles.Overlay(content, v.width, v.height)
}

func (v *CategoryListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle, iconStyle, colorStyle := s.Input, s.Input, s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		iconStyle = s.InputFocused
	case 2:
		colorStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	kind := "Category"
	if v.showTags {
		kind = "Tag"
	}
	title, button := "New "+kind, " Create "
	if v.editingCat != nil || v.editingTag != nil {
		title, button = "Edit "+kind, " Save "
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	parts := []string{
		s.Title.Render(title),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
	}
	if !v.showTags {
		parts = append(parts, "Icon:", iconStyle.Width(inputWidth).Render(v.newIcon.View()), "")
	}
	parts = append(parts,
		"Color:",
		colorStyle.Width(inputWidth).Render(v.newColor.View()),
		"",
		btnStyle.Render(button),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return styles.Overlay(form, v.width, v.height)
}

func (v *CategoryListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	other := "tags"
	if v.showTags {
		other = "categories"
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s edit • %s del • %s %s • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("tab"),
			other,
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *CategoryListView) renderHelpPopup() string {
	s := v.styles

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open category",
		s.HelpKey.Render("n") + "      new category / tag",
		s.HelpKey.Render("e") + "      edit",
		s.HelpKey.Render("d") + "      delete",
		s.HelpKey.Render("tab") + "    switch categories / tags",
		s.HelpKey.Render("/") + "      filter list",
		s.HelpKey.Render("esc") + "    all tasks",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	return styles.Overlay(s.FilterBar.Render(content), v.width, v.height)
}

func (v *CategoryListView) renderDeleteConfirm() string {
	s := v.styles

	title, detail := "Delete Category?", ""
	if v.deleteCategory != nil {
		detail = fmt.Sprintf("Tasks in \"%s\" are kept and become uncategorized.", v.deleteCategory.Name)
	}
	if v.deleteTag != nil {
		title = "Delete Tag?"
		detail = fmt.Sprintf("\"%s\" is removed from every task.", v.deleteTag.Name)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return styles.Overlay(content, v.width, v.height)
}
