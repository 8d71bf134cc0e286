package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskhub/internal/model"
)

// Theme defines the color scheme used for command output
type Theme struct {
	Name string

	// Base colors
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color

	// Status colors
	StatusTodo       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	theme Theme

	Header  lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Tag     lipgloss.Style
	DueDate lipgloss.Style
	Overdue lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		theme: t,

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Value: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true),

		Tag: lipgloss.NewStyle().
			Foreground(t.Info),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Overdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(t.Success),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

// Priority returns the style for a task priority
func (s Styles) Priority(p model.Priority) lipgloss.Style {
	c := s.theme.PriorityMedium
	switch p {
	case model.PriorityLow:
		c = s.theme.PriorityLow
	case model.PriorityHigh:
		c = s.theme.PriorityHigh
	}
	return lipgloss.NewStyle().Foreground(c).Bold(p == model.PriorityHigh)
}

// Status returns the style for a task status
func (s Styles) Status(st model.Status) lipgloss.Style {
	c := s.theme.StatusTodo
	switch st {
	case model.StatusInProgress:
		c = s.theme.StatusInProgress
	case model.StatusDone:
		c = s.theme.StatusDone
	}
	return lipgloss.NewStyle().Foreground(c)
}

// TagColor renders a tag name in its own color when it has one
func (s Styles) TagColor(t model.Tag) string {
	if t.Color == nil {
		return s.Tag.Render(t.Name)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(*t.Color)).Render(t.Name)
}

// Default is the theme used when none is configured
const Default = "nord"

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
