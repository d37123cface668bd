package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/hanoi/internal/stats"
)

const (
	minWidth  = 50
	minHeight = 20
)

// View implements tea.Model. This renders the full game screen.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	sections := []string{
		m.theme.Title.Render("Tower of Hanoi"),
		m.renderHeader(),
		m.renderDivider(),
		renderBoard(m.snap, m.theme, m.cursor),
		m.renderStatus(),
		m.renderDivider(),
		m.renderStats(),
		m.renderActions(),
		m.renderFooter(),
	}

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}

	rendered := m.theme.Container.
		Width(safeWidth(m.width - 2)).
		Render(strings.Join(nonEmpty, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

// renderTooSmall renders a message when the terminal is too small.
func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d). Need at least %dx%d.", m.width, m.height, minWidth, minHeight)
	return m.theme.Warning.Render(msg)
}

// renderHeader renders moves on the left and the timer on the right.
func (m model) renderHeader() string {
	w := safeWidth(m.width - 4) // Account for container borders

	moves := m.theme.Moves.Render(fmt.Sprintf("Moves: %d (Min: %d)", m.snap.Moves, m.snap.MinimumMoves))

	timer := "Time: " + stats.FormatDuration(m.snap.ElapsedSeconds)
	if m.snap.Running {
		timer = m.spinner.View() + " " + timer
	}
	timer = m.theme.Timer.Render(timer)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		moves,
		strings.Repeat(" ", max(1, w-lipgloss.Width(moves)-lipgloss.Width(timer))),
		timer,
	)
}

// renderDivider renders a horizontal divider line.
func (m model) renderDivider() string {
	w := safeWidth(m.width - 4) // Account for container borders
	return m.theme.Divider.Render(strings.Repeat("─", w))
}

// renderStatus renders the completion banner or the last error.
func (m model) renderStatus() string {
	switch {
	case m.err != nil:
		return m.theme.Error.Render("Error: " + truncate(m.err.Error(), maxMessageLength))
	case m.snap.Complete:
		return m.theme.Banner.Render(fmt.Sprintf("Completed in %d moves!", m.snap.Moves))
	case !m.snap.Running && m.snap.Moves == 0:
		return m.theme.Action.Render(fmt.Sprintf("Move all %d disks to tower 3. Larger disks never go on smaller ones.", m.snap.DiskCount))
	default:
		return ""
	}
}

// renderStats renders the persistent statistics panel.
func (m model) renderStats() string {
	st := m.snap.Stats
	row := func(label, value string) string {
		return m.theme.StatsLabel.Render(fmt.Sprintf("%-16s", label)) + m.theme.StatsValue.Render(value)
	}

	lines := []string{
		row("Games completed", fmt.Sprint(st.GamesCompleted)),
		row("Best time", st.FormatBestTime()),
		row("Fewest moves", st.FormatFewestMoves()),
		row("Total time", stats.FormatDuration(st.TotalTimeSeconds)),
		row("Last disks", fmt.Sprint(st.LastDiskCount)),
	}
	return m.theme.StatsBox.Render(strings.Join(lines, "\n"))
}

// renderActions renders the recent game events.
func (m model) renderActions() string {
	if len(m.actions) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.actions))
	for _, a := range m.actions {
		lines = append(lines, m.styleFor(a.Severity).Render(a.Text))
	}
	return strings.Join(lines, "\n")
}

// styleFor returns the style for a message severity.
func (m model) styleFor(sev severity) lipgloss.Style {
	switch sev {
	case severityWarning:
		return m.theme.Warning
	case severitySuccess:
		return m.theme.Banner
	case severityError:
		return m.theme.Error
	default:
		return m.theme.Action
	}
}

// renderFooter renders the key help.
func (m model) renderFooter() string {
	return m.theme.Footer.Render(m.help.View(m.keys))
}

// safeWidth returns a width that is at least 1 to prevent negative values.
func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}
