// Package session runs one Tower of Hanoi game at a time on top of the rule
// engine: it owns the puzzle, the elapsed-seconds timer and the link to the
// persisted player statistics.
//
// A Controller is driven from a single goroutine. Timer ticks arrive as
// values on that same goroutine (a bubbletea message or a select case), so
// no locking is needed and a stale tick can always be recognised and dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/game"
	"github.com/npratt/hanoi/internal/stats"
)

// ErrUnsupportedDiskCount is returned for disk counts outside game.MinDisks..game.MaxDisks.
var ErrUnsupportedDiskCount = errors.New("unsupported disk count")

// Emitter receives game events. *events.Router satisfies it.
type Emitter interface {
	Emit(event events.Event)
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	Towers         [game.TowerCount][]int
	DiskCount      int
	Moves          int
	MinimumMoves   int
	ElapsedSeconds int
	Running        bool
	Complete       bool
	Selected       int
	Stats          stats.PlayerStatistics
	SessionID      string
}

// HasSelection reports whether a source tower is selected.
func (s Snapshot) HasSelection() bool {
	return s.Selected != game.NoSelection
}

// Controller owns the active game.
type Controller struct {
	store   *stats.Store
	emitter Emitter
	logger  *slog.Logger
	newID   func() string

	state     game.State
	timer     Timer
	stats     stats.PlayerStatistics
	sessionID string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithEmitter sets where game events are sent.
func WithEmitter(e Emitter) Option {
	return func(c *Controller) {
		c.emitter = e
	}
}

// WithDiskCount sets the disk count of the first game. Unsupported values
// are ignored.
func WithDiskCount(n int) Option {
	return func(c *Controller) {
		if game.ValidDiskCount(n) {
			c.state = game.NewGame(n)
		}
	}
}

// WithIDGenerator overrides how session ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// New creates a controller over store with a fresh game.
func New(store *stats.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: slog.Default(),
		newID:  uuid.NewString,
		state:  game.NewGame(game.MinDisks),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats = store.Current()
	c.sessionID = c.newID()
	return c
}

// Start loads the persisted statistics. It is called once before the first
// intent is handled.
func (c *Controller) Start(ctx context.Context) {
	c.stats = c.store.Load(ctx)
	c.logger.Debug("session started",
		"session_id", c.sessionID,
		"disks", c.state.DiskCount,
		"games_completed", c.stats.GamesCompleted)
}

// ReloadStats re-reads the statistics record, for example after another
// process changed it.
func (c *Controller) ReloadStats(ctx context.Context) Snapshot {
	c.stats = c.store.Load(ctx)
	return c.Snapshot()
}

// HandleSelect applies a click on tower. The first click of a fresh game
// starts the timer. The click that completes the puzzle stops it and records
// the result. A failed statistics write is returned, but the game and the
// in-memory statistics have already advanced.
func (c *Controller) HandleSelect(ctx context.Context, tower int) (Snapshot, error) {
	if c.state.Complete {
		return c.Snapshot(), nil
	}

	if !c.timer.Running() && c.state.Moves == 0 {
		c.timer.Start()
		c.emit(&events.GameStartEvent{
			BaseEvent:    events.NewBaseEvent(events.EventGameStart, c.sessionID),
			DiskCount:    c.state.DiskCount,
			MinimumMoves: game.MinimumMoves(c.state.DiskCount),
		})
	}

	prev := c.state
	next, action := game.Step(prev, tower)
	c.state = next
	c.emitAction(prev, next, tower, action)

	if prev.Complete || !next.Complete {
		return c.Snapshot(), nil
	}

	c.timer.Stop()
	elapsed := c.timer.Elapsed()
	c.logger.Info("puzzle complete",
		"session_id", c.sessionID,
		"disks", next.DiskCount,
		"moves", next.Moves,
		"elapsed_seconds", elapsed)
	c.emit(&events.GameCompleteEvent{
		BaseEvent:      events.NewBaseEvent(events.EventGameComplete, c.sessionID),
		DiskCount:      next.DiskCount,
		Moves:          next.Moves,
		MinimumMoves:   game.MinimumMoves(next.DiskCount),
		ElapsedSeconds: elapsed,
	})

	rec, err := c.store.RecordCompletion(ctx, elapsed, next.Moves, next.DiskCount)
	c.stats = rec
	if err != nil {
		c.logger.Error("failed to save statistics", "session_id", c.sessionID, "error", err)
		c.emit(&events.ErrorEvent{
			BaseEvent: events.NewBaseEvent(events.EventError, c.sessionID),
			Message:   err.Error(),
		})
		return c.Snapshot(), fmt.Errorf("record completion: %w", err)
	}

	c.emit(&events.StatsUpdatedEvent{
		BaseEvent:        events.NewBaseEvent(events.EventStatsUpdated, c.sessionID),
		GamesCompleted:   rec.GamesCompleted,
		BestTimeSeconds:  rec.BestTimeSeconds,
		FewestMoves:      rec.FewestMoves,
		TotalTimeSeconds: rec.TotalTimeSeconds,
	})
	return c.Snapshot(), nil
}

// Reset starts a new game with the current disk count.
func (c *Controller) Reset(_ context.Context) Snapshot {
	c.reset(c.state.DiskCount)
	return c.Snapshot()
}

// ChangeDiskCount starts a new game with n disks.
func (c *Controller) ChangeDiskCount(_ context.Context, n int) (Snapshot, error) {
	if !game.ValidDiskCount(n) {
		return c.Snapshot(), fmt.Errorf("%w: %d (supported %d-%d)", ErrUnsupportedDiskCount, n, game.MinDisks, game.MaxDisks)
	}
	c.reset(n)
	return c.Snapshot(), nil
}

func (c *Controller) reset(diskCount int) {
	abandoned := c.state.Moves > 0 && !c.state.Complete

	c.timer.Reset()
	c.state = game.NewGame(diskCount)
	c.sessionID = c.newID()

	c.logger.Debug("game reset", "session_id", c.sessionID, "disks", diskCount, "abandoned", abandoned)
	c.emit(&events.GameResetEvent{
		BaseEvent: events.NewBaseEvent(events.EventGameReset, c.sessionID),
		DiskCount: diskCount,
		Abandoned: abandoned,
	})
}

// Tick counts one second if tk belongs to the running timer. Ticks from a
// stopped or reset timer are ignored. It reports whether the tick counted.
func (c *Controller) Tick(tk Tick) bool {
	return c.timer.Accept(tk)
}

// PendingTick returns the token for the next tick the driver should
// schedule, and false when the timer is not running.
func (c *Controller) PendingTick() (Tick, bool) {
	return c.timer.Pending()
}

// Snapshot returns a copy of the session for rendering.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		DiskCount:      c.state.DiskCount,
		Moves:          c.state.Moves,
		MinimumMoves:   game.MinimumMoves(c.state.DiskCount),
		ElapsedSeconds: c.timer.Elapsed(),
		Running:        c.timer.Running(),
		Complete:       c.state.Complete,
		Selected:       c.state.Selected,
		Stats:          c.stats.Clone(),
		SessionID:      c.sessionID,
	}
	for i, t := range c.state.Towers {
		snap.Towers[i] = append([]int(nil), t...)
	}
	return snap
}

func (c *Controller) emitAction(prev, next game.State, tower int, action game.Action) {
	base := func(t events.EventType) events.BaseEvent {
		return events.NewBaseEvent(t, c.sessionID)
	}

	switch action {
	case game.ActionSelected:
		c.emit(&events.TowerEvent{BaseEvent: base(events.EventTowerSelected), Tower: tower})
	case game.ActionDeselected:
		c.emit(&events.TowerEvent{BaseEvent: base(events.EventTowerDeselected), Tower: tower})
	case game.ActionMoved:
		disk, _ := next.Top(tower)
		c.logger.Debug("disk moved", "disk", disk, "from", prev.Selected, "to", tower, "moves", next.Moves)
		c.emit(&events.MoveEvent{
			BaseEvent: base(events.EventDiskMoved),
			From:      prev.Selected,
			To:        tower,
			Disk:      disk,
			Moves:     next.Moves,
		})
	case game.ActionRejected:
		disk, _ := prev.Top(prev.Selected)
		c.logger.Debug("move rejected", "disk", disk, "from", prev.Selected, "to", tower)
		c.emit(&events.MoveEvent{
			BaseEvent: base(events.EventMoveRejected),
			From:      prev.Selected,
			To:        tower,
			Disk:      disk,
			Moves:     next.Moves,
		})
	}
}

func (c *Controller) emit(event events.Event) {
	if c.emitter != nil {
		c.emitter.Emit(event)
	}
}
