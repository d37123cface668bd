// Package game implements the Tower of Hanoi rules: puzzle construction,
// the two-phase select/move transition, and win detection.
//
// All functions are pure. A State is treated as an immutable value; every
// transition returns a new State and never mutates the towers of its input.
package game

import (
	"fmt"
	"strings"
)

// Puzzle dimensions.
const (
	// TowerCount is the number of towers on the board.
	TowerCount = 3
	// MinDisks is the smallest supported disk count.
	MinDisks = 3
	// MaxDisks is the largest supported disk count.
	MaxDisks = 7
	// TargetTower is the tower that must hold every disk to finish.
	TargetTower = TowerCount - 1
)

// NoSelection marks a State with no source tower selected.
const NoSelection = -1

// Tower is a stack of disk sizes ordered bottom to top.
// The last element is the top disk.
type Tower []int

// Top returns the top disk of the tower and whether the tower is non-empty.
func (t Tower) Top() (int, bool) {
	if len(t) == 0 {
		return 0, false
	}
	return t[len(t)-1], true
}

// State is a snapshot of one puzzle.
type State struct {
	Towers    [TowerCount]Tower
	DiskCount int
	Moves     int
	Selected  int
	Complete  bool
}

// Action describes what a call to Step did.
type Action int

const (
	// ActionNone means the input was ignored.
	ActionNone Action = iota
	// ActionSelected means a source tower was selected.
	ActionSelected
	// ActionDeselected means the selected tower was clicked again.
	ActionDeselected
	// ActionMoved means a disk moved to the destination tower.
	ActionMoved
	// ActionRejected means the move was illegal and the selection was cancelled.
	ActionRejected
)

func (a Action) String() string {
	switch a {
	case ActionSelected:
		return "selected"
	case ActionDeselected:
		return "deselected"
	case ActionMoved:
		return "moved"
	case ActionRejected:
		return "rejected"
	default:
		return "none"
	}
}

// SupportedDiskCounts returns the disk counts a game can be started with.
func SupportedDiskCounts() []int {
	out := make([]int, 0, MaxDisks-MinDisks+1)
	for n := MinDisks; n <= MaxDisks; n++ {
		out = append(out, n)
	}
	return out
}

// ValidDiskCount reports whether n is a supported disk count.
func ValidDiskCount(n int) bool {
	return n >= MinDisks && n <= MaxDisks
}

// MinimumMoves returns the length of the optimal solution, 2^n - 1.
func MinimumMoves(diskCount int) int {
	return 1<<diskCount - 1
}

// NewGame returns a fresh puzzle with every disk stacked on tower 0.
//
// diskCount must satisfy ValidDiskCount. Callers only offer the supported
// set, so an out-of-range value is a programming error and panics.
func NewGame(diskCount int) State {
	if !ValidDiskCount(diskCount) {
		panic(fmt.Sprintf("game: unsupported disk count %d (want %d..%d)", diskCount, MinDisks, MaxDisks))
	}

	first := make(Tower, diskCount)
	for i := range first {
		first[i] = diskCount - i
	}

	return State{
		Towers:    [TowerCount]Tower{first, {}, {}},
		DiskCount: diskCount,
		Selected:  NoSelection,
	}
}

// HasSelection reports whether a source tower is selected.
func (s State) HasSelection() bool {
	return s.Selected != NoSelection
}

// Top returns the top disk of tower i.
func (s State) Top(i int) (int, bool) {
	if i < 0 || i >= TowerCount {
		return 0, false
	}
	return s.Towers[i].Top()
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	for i, t := range s.Towers {
		out.Towers[i] = append(Tower{}, t...)
	}
	return out
}

// String renders the towers bottom to top, e.g. "[[3 2 1] [] []]".
func (s State) String() string {
	parts := make([]string, TowerCount)
	for i, t := range s.Towers {
		parts[i] = fmt.Sprint([]int(t))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// SelectOrMove applies one tower selection to s. See Step.
func SelectOrMove(s State, tower int) State {
	next, _ := Step(s, tower)
	return next
}

// Step applies one tower selection and reports what happened.
//
// A completed puzzle ignores all input. With nothing selected, a non-empty
// tower becomes the source. Selecting the source again deselects it.
// Selecting another tower moves the source's top disk there if the
// destination is empty or its top disk is larger; otherwise the selection is
// cancelled without moving.
func Step(s State, tower int) (State, Action) {
	if s.Complete || tower < 0 || tower >= TowerCount {
		return s, ActionNone
	}

	if !s.HasSelection() {
		if len(s.Towers[tower]) == 0 {
			return s, ActionNone
		}
		s.Selected = tower
		return s, ActionSelected
	}

	if s.Selected == tower {
		s.Selected = NoSelection
		return s, ActionDeselected
	}

	from := s.Selected
	s.Selected = NoSelection

	disk, ok := s.Towers[from].Top()
	if !ok {
		return s, ActionRejected
	}
	if top, ok := s.Towers[tower].Top(); ok && top < disk {
		return s, ActionRejected
	}

	// Copy on write so earlier snapshots keep their towers.
	src := s.Towers[from]
	s.Towers[from] = append(Tower{}, src[:len(src)-1]...)
	s.Towers[tower] = append(append(Tower{}, s.Towers[tower]...), disk)
	s.Moves++
	s.Complete = len(s.Towers[TargetTower]) == s.DiskCount
	return s, ActionMoved
}
