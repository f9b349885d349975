package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/honeydo/internal/models"
	"github.com/tgienger/honeydo/internal/repository"
	"github.com/tgienger/honeydo/internal/ui/styles"
)

// parseSupply reads the add-supply form. Quantity defaults to 1 and the
// cost is optional.
func parseSupply(name, qty, cost string) (repository.SupplyInput, error) {
	in := repository.SupplyInput{Name: strings.TrimSpace(name), Quantity: 1}
	if in.Name == "" {
		return in, fmt.Errorf("supply name is required")
	}
	if q := strings.TrimSpace(qty); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return in, fmt.Errorf("quantity must be a whole number")
		}
		in.Quantity = n
	}
	if c := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cost), "$")); c != "" {
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return in, fmt.Errorf("cost must be a number")
		}
		in.EstimatedCost = &f
	}
	return in, nil
}

// nextCategory steps through uncategorized, then each category in order
func nextCategory(categories []models.Category, current *models.Category) *models.Category {
	if len(categories) == 0 {
		return nil
	}
	if current == nil {
		return &categories[0]
	}
	for i := range categories {
		if categories[i].ID == current.ID {
			if i == len(categories)-1 {
				return nil
			}
			return &categories[i+1]
		}
	}
	return nil
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.addingSupply {
		return v.updateAddingSupply(msg)
	}

	task := v.viewTask
	ctx := context.Background()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		v.viewTask = nil
		return v, v.refresh()

	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.supplyCursor > 0 {
			v.supplyCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.supplyCursor < len(task.Supplies)-1 {
			v.supplyCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if v.supplyCursor < len(task.Supplies) {
			sp := task.Supplies[v.supplyCursor]
			obtained := !sp.IsObtained
			v.mgr.UpdateSupply(ctx, task, sp.ID, repository.SupplyPatch{IsObtained: &obtained})
		}
		return v, nil

	case msg.String() == "x":
		if v.supplyCursor < len(task.Supplies) {
			v.mgr.DeleteSupply(ctx, task, task.Supplies[v.supplyCursor].ID)
			v.supplyCursor = clamp(v.supplyCursor, 0, max(len(task.Supplies)-1, 0))
		}
		return v, nil

	case msg.String() == "+", msg.String() == "-":
		if v.supplyCursor < len(task.Supplies) {
			sp := task.Supplies[v.supplyCursor]
			qty := sp.Quantity + 1
			if msg.String() == "-" {
				qty = sp.Quantity - 1
			}
			v.mgr.UpdateSupply(ctx, task, sp.ID, repository.SupplyPatch{Quantity: &qty})
		}
		return v, nil

	case key.Matches(msg, v.keys.AddSupply):
		v.addingSupply = true
		v.supplyFocusIdx = 0
		v.supplyName.Reset()
		v.supplyQty.Reset()
		v.supplyCost.Reset()
		v.updateSupplyFocus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.MoveCategory):
		next := nextCategory(v.mgr.Categories(ctx), task.Category)
		v.mgr.SetTaskCategory(ctx, task, next)
		if next == nil {
			v.setStatus("Moved to Uncategorized", false)
		} else {
			v.setStatus("Moved to "+next.Name, false)
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		v.startEditTask(task)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.CycleStatus):
		v.mgr.UpdateStatus(ctx, task, task.Status.Next())
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		v.mgr.CompleteTask(ctx, task)
		return v, nil

	case key.Matches(msg, v.keys.SaveTemplate):
		v.startNamingTemplate(task)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		v.askDelete(task)
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateSupplyFocus() {
	v.supplyName.Blur()
	v.supplyQty.Blur()
	v.supplyCost.Blur()
	switch v.supplyFocusIdx {
	case 0:
		v.supplyName.Focus()
	case 1:
		v.supplyQty.Focus()
	case 2:
		v.supplyCost.Focus()
	}
}

func (v *TaskListView) updateAddingSupply(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.addingSupply = false
		v.editErr = ""
		return v, nil

	case key.Matches(msg, v.keys.Tab), msg.String() == "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = 2
		}
		v.supplyFocusIdx = (v.supplyFocusIdx + step) % 3
		v.updateSupplyFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.supplyFocusIdx < 2 {
			v.supplyFocusIdx++
			v.updateSupplyFocus()
			return v, nil
		}
		in, err := parseSupply(v.supplyName.Value(), v.supplyQty.Value(), v.supplyCost.Value())
		if err != nil {
			v.editErr = err.Error()
			return v, nil
		}
		v.mgr.AddSupply(context.Background(), v.viewTask, in)
		v.supplyCursor = len(v.viewTask.Supplies) - 1
		v.addingSupply = false
		v.editErr = ""
		return v, nil
	}

	var cmd tea.Cmd
	switch v.supplyFocusIdx {
	case 0:
		v.supplyName, cmd = v.supplyName.Update(msg)
	case 1:
		v.supplyQty, cmd = v.supplyQty.Update(msg)
	case 2:
		v.supplyCost, cmd = v.supplyCost.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) renderTaskView() string {
	task := v.viewTask
	if task == nil {
		return ""
	}

	s := v.styles
	now := v.mgr.Now()
	maxContentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(maxContentWidth-10, 20, 70)

	statusStyle := lipgloss.NewStyle().Foreground(styles.StatusColor(task.Status.Color())).Bold(true)
	statusLine := statusStyle.Render(task.Status.Icon() + " " + task.Status.String())
	if task.CompletedAt != nil {
		statusLine += s.TaskMeta.Render("  on " + task.CompletedAt.In(now.Location()).Format("Jan 2 15:04"))
	}

	dueLine := s.TitleMuted.Render("No due date")
	if due := v.renderDue(task, now); due != "" {
		dueLine = due
	}
	if task.ReminderEnabled {
		dueLine += "  🔔"
	}

	categoryLine := s.TitleMuted.Render("Uncategorized")
	if task.Category != nil {
		categoryLine = strings.TrimSpace(task.Category.Icon + " " + task.Category.Name)
	}

	var tagStrs []string
	for _, tag := range task.Tags {
		tagStrs = append(tagStrs, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(tag.Name))
	}
	tagsLine := s.TitleMuted.Render("None")
	if len(tagStrs) > 0 {
		tagsLine = strings.Join(tagStrs, " ")
	}

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}
	notesText := task.Notes
	if notesText == "" {
		notesText = s.TitleMuted.Render("No notes")
	}

	var helpText string
	if v.addingSupply {
		helpText = s.Help.Render(fmt.Sprintf("%s next/save • %s cancel",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("esc"),
		))
	} else {
		helpText = s.Help.Render(fmt.Sprintf("%s add supply • %s got it • %s qty • %s remove • %s move • %s edit • %s status • %s done • %s back",
			s.HelpKey.Render("a"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("+/-"),
			s.HelpKey.Render("x"),
			s.HelpKey.Render("m"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("esc"),
		))
	}

	labelStyle := s.TitleMuted
	parts := []string{
		s.Title.MarginBottom(1).Render(task.Title),
		statusLine + "   " + s.TaskPriority.Render(task.PriorityHearts()),
		dueLine,
		"",
		labelStyle.Render("Category") + "  " + categoryLine,
		labelStyle.Render("Tags") + "      " + tagsLine,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Notes"),
		lipgloss.NewStyle().Width(textWidth).Render(notesText),
		"",
		labelStyle.Render("Supplies"),
		v.renderSupplies(task, textWidth),
	}
	if v.addingSupply {
		parts = append(parts, "", v.renderSupplyForm())
	}
	if v.statusLine != "" && v.statusIsError {
		parts = append(parts, s.StatusError.Render(v.statusLine))
	}
	parts = append(parts, "", helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Return with padding, not centered vertically, but horizontally centered if wide
	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *TaskListView) renderSupplies(task *models.Task, width int) string {
	s := v.styles
	if len(task.Supplies) == 0 {
		return s.TitleMuted.Render("No supplies. Press 'a' to add one.")
	}

	var lines []string
	var estimated, actual float64
	for i, sp := range task.Supplies {
		checkbox := "[ ]"
		if sp.IsObtained {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s %d × %s", checkbox, sp.Quantity, sp.Name)
		if sp.EstimatedCost != nil {
			line += "  " + s.TaskMeta.Render("~"+formatMoney(sp.TotalEstimatedCost()))
		}
		if sp.Supplier != nil && *sp.Supplier != "" {
			line += "  " + s.TaskMeta.Render("@ "+*sp.Supplier)
		}
		style := s.ListItem
		if i == v.supplyCursor && !v.addingSupply {
			style = s.ListSelected
		}
		lines = append(lines, style.Width(width).Render(line))
		estimated += sp.TotalEstimatedCost()
		actual += sp.TotalActualCost()
	}

	total := "Estimated " + formatMoney(estimated)
	if actual > 0 {
		total += " • Spent " + formatMoney(actual)
	}
	lines = append(lines, s.TaskMeta.Render(total))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) renderSupplyForm() string {
	s := v.styles
	inputs := []textinput.Model{v.supplyName, v.supplyQty, v.supplyCost}
	widths := []int{30, 6, 14}
	labels := []string{"Name", "Qty", "Unit cost"}

	var cols []string
	for i, in := range inputs {
		style := s.Input
		if i == v.supplyFocusIdx {
			style = s.InputFocused
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, labels[i]+":", style.Width(widths[i]).Render(in.View())), " ")
	}

	form := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if v.editErr != "" {
		form = lipgloss.JoinVertical(lipgloss.Left, form, s.StatusError.Render(v.editErr))
	}
	return form
}
