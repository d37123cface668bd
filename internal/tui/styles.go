package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/hanoi/internal/config"
)

// diskColors holds one colour per disk size, smallest first:
// blue, green, yellow, red, purple, pink, indigo.
var diskColors = []lipgloss.Color{
	lipgloss.Color("33"),
	lipgloss.Color("40"),
	lipgloss.Color("220"),
	lipgloss.Color("196"),
	lipgloss.Color("129"),
	lipgloss.Color("205"),
	lipgloss.Color("61"),
}

// diskColor returns the colour for a disk of the given size.
func diskColor(size int) lipgloss.Color {
	if size < 1 {
		return diskColors[0]
	}
	return diskColors[(size-1)%len(diskColors)]
}

// theme contains all lipgloss styles used by the TUI.
type theme struct {
	Name string

	// Layout styles
	Container lipgloss.Style
	Title     lipgloss.Style
	Divider   lipgloss.Style

	// Board styles
	Rod           lipgloss.Style
	Base          lipgloss.Style
	Label         lipgloss.Style
	LabelCursor   lipgloss.Style
	LabelSelected lipgloss.Style
	Highlight     lipgloss.Style

	// Header styles
	Moves   lipgloss.Style
	Timer   lipgloss.Style
	Running lipgloss.Style

	// Messages
	Banner  lipgloss.Style
	Action  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Stats panel
	StatsBox   lipgloss.Style
	StatsLabel lipgloss.Style
	StatsValue lipgloss.Style

	Footer lipgloss.Style
}

func darkTheme() theme {
	return theme{
		Name: config.ThemeDark,

		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		Divider: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		Rod: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Base: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		LabelCursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		LabelSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82")),
		Highlight: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Moves: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Timer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")),

		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82")),
		Action: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		StatsBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		StatsLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		StatsValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

func lightTheme() theme {
	t := darkTheme()
	t.Name = config.ThemeLight
	t.Container = t.Container.BorderForeground(lipgloss.Color("250"))
	t.Title = t.Title.Foreground(lipgloss.Color("90"))
	t.Divider = t.Divider.Foreground(lipgloss.Color("250"))
	t.Rod = t.Rod.Foreground(lipgloss.Color("240"))
	t.Base = t.Base.Foreground(lipgloss.Color("236"))
	t.Label = t.Label.Foreground(lipgloss.Color("240"))
	t.LabelCursor = t.LabelCursor.Foreground(lipgloss.Color("26"))
	t.LabelSelected = t.LabelSelected.Foreground(lipgloss.Color("28"))
	t.Moves = t.Moves.Foreground(lipgloss.Color("26"))
	t.Timer = t.Timer.Foreground(lipgloss.Color("130"))
	t.Running = t.Running.Foreground(lipgloss.Color("28"))
	t.Banner = t.Banner.Foreground(lipgloss.Color("28"))
	t.Action = t.Action.Foreground(lipgloss.Color("238"))
	t.Warning = t.Warning.Foreground(lipgloss.Color("166"))
	t.Error = t.Error.Foreground(lipgloss.Color("160"))
	t.StatsBox = t.StatsBox.BorderForeground(lipgloss.Color("61"))
	t.StatsLabel = t.StatsLabel.Foreground(lipgloss.Color("240"))
	t.StatsValue = t.StatsValue.Foreground(lipgloss.Color("234"))
	t.Footer = t.Footer.Foreground(lipgloss.Color("240"))
	return t
}

// themeFor returns the theme with the given name, falling back to dark.
func themeFor(name string) theme {
	if name == config.ThemeLight {
		return lightTheme()
	}
	return darkTheme()
}
