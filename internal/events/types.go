// Package events defines the game event taxonomy, a channel-based router and
// the JSONL sink that records a play history for `hanoi events`.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

const (
	// Game lifecycle
	EventGameStart    EventType = "game.start"
	EventGameReset    EventType = "game.reset"
	EventGameComplete EventType = "game.complete"

	// Tower interaction
	EventTowerSelected   EventType = "tower.selected"
	EventTowerDeselected EventType = "tower.deselected"
	EventDiskMoved       EventType = "disk.moved"
	EventMoveRejected    EventType = "move.rejected"

	// Statistics
	EventStatsUpdated EventType = "stats.updated"

	// Errors
	EventError EventType = "error"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Session() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// NewBaseEvent stamps an event of type t for session id.
func NewBaseEvent(t EventType, sessionID string) BaseEvent {
	return BaseEvent{
		EventType: t,
		Time:      time.Now(),
		SessionID: sessionID,
	}
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Session returns the id of the game session that produced the event.
func (e BaseEvent) Session() string {
	return e.SessionID
}

// GameStartEvent is emitted when the timer starts for a new game.
type GameStartEvent struct {
	BaseEvent
	DiskCount    int `json:"disk_count"`
	MinimumMoves int `json:"minimum_moves"`
}

// GameResetEvent is emitted when the board is reset.
type GameResetEvent struct {
	BaseEvent
	DiskCount int  `json:"disk_count"`
	Abandoned bool `json:"abandoned"` // the previous game had moves but was not finished
}

// GameCompleteEvent is emitted when every disk reaches the target tower.
type GameCompleteEvent struct {
	BaseEvent
	DiskCount      int `json:"disk_count"`
	Moves          int `json:"moves"`
	MinimumMoves   int `json:"minimum_moves"`
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// TowerEvent is emitted when a tower is selected or deselected.
type TowerEvent struct {
	BaseEvent
	Tower int `json:"tower"`
}

// MoveEvent is emitted for accepted and rejected moves.
type MoveEvent struct {
	BaseEvent
	From  int `json:"from"`
	To    int `json:"to"`
	Disk  int `json:"disk"`
	Moves int `json:"moves"`
}

// StatsUpdatedEvent is emitted after the player record has been saved.
type StatsUpdatedEvent struct {
	BaseEvent
	GamesCompleted   int  `json:"games_completed"`
	BestTimeSeconds  *int `json:"best_time_seconds"`
	FewestMoves      *int `json:"fewest_moves"`
	TotalTimeSeconds int  `json:"total_time_seconds"`
}

// ErrorEvent is emitted for recoverable failures.
type ErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
}
