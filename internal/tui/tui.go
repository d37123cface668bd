// Package tui provides the interactive game screen built on bubbletea and a
// line-oriented fallback for terminals that cannot host it.
package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/session"
)

// TUI drives a session controller from the terminal.
type TUI struct {
	ctrl         *session.Controller
	eventChan    <-chan events.Event
	statsChange  <-chan struct{}
	theme        string
	tickInterval time.Duration
	altScreen    bool
	forceTUI     bool
	onQuit       func()
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a new TUI for ctrl. The controller must already be started.
func New(ctrl *session.Controller, opts ...Option) *TUI {
	t := &TUI{
		ctrl:         ctrl,
		tickInterval: time.Second,
		altScreen:    true,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithEvents sets the channel of game events shown as recent actions.
func WithEvents(ch <-chan events.Event) Option {
	return func(t *TUI) {
		t.eventChan = ch
	}
}

// WithStatsChanges sets a channel that signals external statistics changes.
func WithStatsChanges(ch <-chan struct{}) Option {
	return func(t *TUI) {
		t.statsChange = ch
	}
}

// WithTheme selects the colour theme ("dark" or "light").
func WithTheme(name string) Option {
	return func(t *TUI) {
		t.theme = name
	}
}

// WithTickInterval sets the timer tick interval. It is one second in play;
// tests shorten it.
func WithTickInterval(d time.Duration) Option {
	return func(t *TUI) {
		if d > 0 {
			t.tickInterval = d
		}
	}
}

// WithAltScreen controls whether the full-screen UI uses the alternate screen.
func WithAltScreen(enabled bool) Option {
	return func(t *TUI) {
		t.altScreen = enabled
	}
}

// WithForceTUI runs the full-screen UI even when the terminal check fails.
func WithForceTUI(force bool) Option {
	return func(t *TUI) {
		t.forceTUI = force
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// Run starts the game and blocks until the user quits or ctx is done.
// Without an interactive terminal it falls back to line mode on stdin/stdout.
func (t *TUI) Run(ctx context.Context) error {
	if !t.forceTUI && (!isTerminal() || terminalTooSmall()) {
		return t.RunSimple(ctx, os.Stdin, os.Stdout)
	}

	m := newModel(ctx, t.ctrl, t.modelConfig())

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (t *TUI) modelConfig() modelConfig {
	return modelConfig{
		theme:        t.theme,
		tickInterval: t.tickInterval,
		eventChan:    t.eventChan,
		statsChange:  t.statsChange,
		onQuit:       t.onQuit,
	}
}
