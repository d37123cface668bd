package game

import (
	"errors"
	"fmt"
)

// ErrInvalidState is wrapped by every error returned from Validate.
var ErrInvalidState = errors.New("invalid puzzle state")

// Validate checks the puzzle invariants: every tower strictly decreasing from
// bottom to top, each disk 1..DiskCount present exactly once, a selection that
// points at a non-empty tower, and Complete set exactly when the target tower
// holds every disk.
func Validate(s State) error {
	if !ValidDiskCount(s.DiskCount) {
		return fmt.Errorf("%w: disk count %d", ErrInvalidState, s.DiskCount)
	}
	if s.Moves < 0 {
		return fmt.Errorf("%w: negative move count %d", ErrInvalidState, s.Moves)
	}

	seen := make([]bool, s.DiskCount+1)
	total := 0
	for i, t := range s.Towers {
		for j, d := range t {
			if d < 1 || d > s.DiskCount {
				return fmt.Errorf("%w: tower %d holds disk %d", ErrInvalidState, i, d)
			}
			if seen[d] {
				return fmt.Errorf("%w: disk %d appears twice", ErrInvalidState, d)
			}
			seen[d] = true
			if j > 0 && t[j-1] <= d {
				return fmt.Errorf("%w: tower %d has disk %d on top of %d", ErrInvalidState, i, d, t[j-1])
			}
		}
		total += len(t)
	}
	if total != s.DiskCount {
		return fmt.Errorf("%w: %d disks on the board, want %d", ErrInvalidState, total, s.DiskCount)
	}

	if s.HasSelection() {
		if s.Selected < 0 || s.Selected >= TowerCount {
			return fmt.Errorf("%w: selected tower %d", ErrInvalidState, s.Selected)
		}
		if len(s.Towers[s.Selected]) == 0 {
			return fmt.Errorf("%w: selected tower %d is empty", ErrInvalidState, s.Selected)
		}
	}

	if want := len(s.Towers[TargetTower]) == s.DiskCount; s.Complete != want {
		return fmt.Errorf("%w: complete = %v, want %v", ErrInvalidState, s.Complete, want)
	}
	return nil
}
