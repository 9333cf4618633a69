package ui

import "github.com/charmbracelet/lipgloss"

// Styles are the Lip Gloss styles of the current theme.
type Styles struct {
	Title    lipgloss.Style
	Success  lipgloss.Style
	Pending  lipgloss.Style
	Accent   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Favorite lipgloss.Style

	Selected lipgloss.Style
	Done     lipgloss.Style
	Help     lipgloss.Style

	Frame  lipgloss.Style
	Focus  lipgloss.Style
	Dialog lipgloss.Style
}

var styles Styles

func newStyles(t Theme) Styles {
	frame := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Palette.Frame).
		Padding(0, 1)
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Success:  lipgloss.NewStyle().Foreground(t.Palette.Success),
		Pending:  lipgloss.NewStyle().Foreground(t.Palette.Pending),
		Accent:   lipgloss.NewStyle().Foreground(t.Palette.Accent),
		Muted:    lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(t.Palette.Error).Bold(true),
		Favorite: lipgloss.NewStyle().Foreground(t.Palette.Favorite),

		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),

		Frame:  frame,
		Focus:  frame.BorderForeground(t.Palette.Accent),
		Dialog: frame.BorderForeground(t.Palette.Error).Padding(1, 2),
	}
}

func S() Styles { return styles }
