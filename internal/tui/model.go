package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/session"
)

// maxActionLines is how many recent event messages the view keeps.
const maxActionLines = 4

// actionLine is a formatted event for display.
type actionLine struct {
	Text     string
	Severity severity
}

// model is the bubbletea model for the game screen.
type model struct {
	ctx  context.Context
	ctrl *session.Controller
	snap session.Snapshot

	// Message sources
	eventChan   <-chan events.Event
	statsChange <-chan struct{}

	// Timer scheduling: the generation of the tick currently in flight.
	tickInterval time.Duration
	tickPending  bool
	tickGen      uint64

	// UI state
	width   int
	height  int
	cursor  int
	theme   theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	actions []actionLine
	err     error

	onQuit func()
}

// eventMsg wraps an event for the bubbletea message system.
type eventMsg events.Event

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// tickMsg carries a timer token back to the update loop.
type tickMsg struct {
	tick session.Tick
}

// statsChangedMsg signals that the stored statistics changed on disk.
type statsChangedMsg struct{}

// newModel creates a model around a started controller.
func newModel(ctx context.Context, ctrl *session.Controller, cfg modelConfig) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	interval := cfg.tickInterval
	if interval <= 0 {
		interval = time.Second
	}

	th := themeFor(cfg.theme)
	sp.Style = th.Running

	return model{
		ctx:          ctx,
		ctrl:         ctrl,
		snap:         ctrl.Snapshot(),
		eventChan:    cfg.eventChan,
		statsChange:  cfg.statsChange,
		tickInterval: interval,
		theme:        th,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		onQuit:       cfg.onQuit,
	}
}

// modelConfig carries the optional inputs of newModel.
type modelConfig struct {
	theme        string
	tickInterval time.Duration
	eventChan    <-chan events.Event
	statsChange  <-chan struct{}
	onQuit       func()
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.eventChan != nil {
		cmds = append(cmds, waitForEvent(m.eventChan))
	}
	if m.statsChange != nil {
		cmds = append(cmds, waitForStatsChange(m.statsChange))
	}
	return tea.Batch(cmds...)
}

// Update, handleKey and handleEvent are implemented in update.go
// View is implemented in view.go

// refresh re-reads the controller snapshot.
func (m *model) refresh() {
	m.snap = m.ctrl.Snapshot()
}

// pushAction appends a message to the recent-actions log.
func (m *model) pushAction(text string, sev severity) {
	if text == "" {
		return
	}
	m.actions = append(m.actions, actionLine{Text: text, Severity: sev})
	if len(m.actions) > maxActionLines {
		m.actions = m.actions[len(m.actions)-maxActionLines:]
	}
}
