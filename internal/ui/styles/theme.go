package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette every style is derived from
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color // honey
	Secondary lipgloss.Color // amber

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Honeycomb is the default theme: warm browns with honey accents
var Honeycomb = Theme{
	Name: "Honeycomb",

	Background:    lipgloss.Color("#1f1a14"),
	Foreground:    lipgloss.Color("#f3e9d2"),
	ForegroundDim: lipgloss.Color("#8a7a63"),

	Primary:   lipgloss.Color("#f5b82e"),
	Secondary: lipgloss.Color("#e08e45"),

	Success: lipgloss.Color("#9ccf6b"),
	Warning: lipgloss.Color("#f0a04b"),
	Error:   lipgloss.Color("#e5534b"),

	Border:      lipgloss.Color("#4a3f30"),
	BorderFocus: lipgloss.Color("#f5b82e"),
	Selection:   lipgloss.Color("#4d3b1a"),
}

// Current holds the active theme
var Current = Honeycomb

// StatusColor maps a task status color key ("yellow", "green", ...) onto
// the theme. Unknown keys render dim.
func StatusColor(key string) lipgloss.Color {
	t := Current
	switch key {
	case "yellow":
		return t.Primary
	case "orange":
		return t.Secondary
	case "green":
		return t.Success
	case "red":
		return t.Error
	}
	return t.ForegroundDim
}

// MaxWidth caps content at a classic terminal width
const MaxWidth = 80

func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally once the terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// Styles are built once per view from Current
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	FilterBar     lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// task rows and detail
	TaskPriority  lipgloss.Style
	TaskDone      lipgloss.Style
	TaskOverdue   lipgloss.Style
	TaskUrgent    lipgloss.Style
	TaskMeta      lipgloss.Style
	SearchSection lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
}

func NewStyles() *Styles {
	t := Current
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	boxed := func(border lipgloss.Color, padX int) lipgloss.Style {
		return fg(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, padX)
	}

	return &Styles{
		Title:      fg(t.Primary).Bold(true),
		TitleMuted: fg(t.ForegroundDim),

		ListItem: fg(t.Foreground).Padding(0, 2),
		ListSelected: fg(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		FilterBar:     lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(t.Border),
		Button:        boxed(t.Border, 2),
		ButtonFocused: boxed(t.BorderFocus, 2).Foreground(t.Primary).Bold(true),
		ButtonPrimary: fg(t.Background).Background(t.Primary).Padding(0, 2).Bold(true),

		TaskPriority:  fg(t.Error),
		TaskDone:      fg(t.ForegroundDim).Strikethrough(true),
		TaskOverdue:   fg(t.Error).Bold(true),
		TaskUrgent:    fg(t.Warning),
		TaskMeta:      fg(t.ForegroundDim),
		SearchSection: fg(t.Secondary).Bold(true),

		Input:        boxed(t.Border, 1),
		InputFocused: boxed(t.BorderFocus, 1),

		Help:    fg(t.ForegroundDim).Padding(1, 2),
		HelpKey: fg(t.Primary).Bold(true),

		StatusBar:   fg(t.ForegroundDim).Padding(0, 1),
		StatusError: fg(t.Error).Padding(0, 1),
	}
}

// Overlay centers a popup in the content area, then the content area in the terminal
func Overlay(content string, terminalWidth, terminalHeight int) string {
	placed := lipgloss.Place(ContentWidth(terminalWidth), terminalHeight, lipgloss.Center, lipgloss.Center, content)
	return CenterView(placed, terminalWidth, terminalHeight)
}
