package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/game"
)

// waitForEvent creates a command that waits for the next event from the channel.
// Returns channelClosedMsg if the channel is closed.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

// waitForStatsChange waits for the next notification that the statistics
// record changed. It returns nil once the channel is closed, which ends the
// watch loop.
func waitForStatsChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return statsChangedMsg{}
	}
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.tick.Generation == m.tickGen {
			m.tickPending = false
		}
		m.ctrl.Tick(msg.tick)
		m.refresh()
		cmd := m.scheduleTick()
		return m, cmd

	case spinner.TickMsg:
		// Let the spinner loop die while the timer is stopped.
		if !m.snap.Running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.eventChan)

	case channelClosedMsg:
		m.eventChan = nil
		return m, nil

	case statsChangedMsg:
		m.snap = m.ctrl.ReloadStats(m.ctx)
		slog.Debug("statistics reloaded", "games_completed", m.snap.Stats.GamesCompleted)
		return m, waitForStatsChange(m.statsChange)
	}

	return m, nil
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tower1):
		return m.selectTower(0)
	case key.Matches(msg, m.keys.Tower2):
		return m.selectTower(1)
	case key.Matches(msg, m.keys.Tower3):
		return m.selectTower(2)
	case key.Matches(msg, m.keys.Select):
		return m.selectTower(m.cursor)

	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor + game.TowerCount - 1) % game.TowerCount
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % game.TowerCount
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.snap = m.ctrl.Reset(m.ctx)
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.More):
		return m.changeDisks(m.snap.DiskCount + 1)
	case key.Matches(msg, m.keys.Fewer):
		return m.changeDisks(m.snap.DiskCount - 1)

	case key.Matches(msg, m.keys.Theme):
		if m.theme.Name == lightTheme().Name {
			m.theme = darkTheme()
		} else {
			m.theme = lightTheme()
		}
		m.spinner.Style = m.theme.Running
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// selectTower forwards a tower click to the controller.
func (m model) selectTower(tower int) (tea.Model, tea.Cmd) {
	m.cursor = tower
	wasRunning := m.snap.Running

	snap, err := m.ctrl.HandleSelect(m.ctx, tower)
	m.snap = snap
	m.err = err
	if err != nil {
		slog.Error("select failed", "tower", tower, "error", err)
	}

	cmds := []tea.Cmd{m.scheduleTick()}
	if snap.Running && !wasRunning {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// changeDisks starts a new game with n disks, cycling within the supported range.
func (m model) changeDisks(n int) (tea.Model, tea.Cmd) {
	switch {
	case n > game.MaxDisks:
		n = game.MinDisks
	case n < game.MinDisks:
		n = game.MaxDisks
	}

	snap, err := m.ctrl.ChangeDiskCount(m.ctx, n)
	m.snap = snap
	m.err = err
	return m, nil
}

// scheduleTick returns a command for the controller's next timer tick, or
// nil if the timer is stopped or that tick is already in flight.
func (m *model) scheduleTick() tea.Cmd {
	tk, ok := m.ctrl.PendingTick()
	if !ok {
		return nil
	}
	if m.tickPending && m.tickGen == tk.Generation {
		return nil
	}
	m.tickPending = true
	m.tickGen = tk.Generation
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return tickMsg{tick: tk}
	})
}

// handleEvent records a game event in the recent-actions log.
func (m *model) handleEvent(event events.Event) {
	m.pushAction(Format(event), severityOf(event))
}
