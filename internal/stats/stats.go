// Package stats tracks the persisted player record: games completed, best
// time, fewest moves, total play time and the disk count of the last win.
package stats

import "fmt"

// PlayerStatistics is the single persisted player record.
//
// The JSON names match the record format written by earlier versions of the
// game so existing records load unchanged.
type PlayerStatistics struct {
	GamesCompleted   int  `json:"gamesCompleted"`
	BestTimeSeconds  *int `json:"bestTime"`
	FewestMoves      *int `json:"fewestMoves"`
	TotalTimeSeconds int  `json:"totalTime"`
	LastDiskCount    int  `json:"lastDisks"`
}

// Default returns the record used before any game has been completed.
func Default(lastDiskCount int) PlayerStatistics {
	return PlayerStatistics{LastDiskCount: lastDiskCount}
}

// Record folds one completed game into prev and returns the new record.
// prev is not modified.
func Record(prev PlayerStatistics, elapsedSeconds, moves, diskCount int) PlayerStatistics {
	best := elapsedSeconds
	if prev.BestTimeSeconds != nil && *prev.BestTimeSeconds < best {
		best = *prev.BestTimeSeconds
	}
	fewest := moves
	if prev.FewestMoves != nil && *prev.FewestMoves < fewest {
		fewest = *prev.FewestMoves
	}

	return PlayerStatistics{
		GamesCompleted:   prev.GamesCompleted + 1,
		BestTimeSeconds:  &best,
		FewestMoves:      &fewest,
		TotalTimeSeconds: prev.TotalTimeSeconds + elapsedSeconds,
		LastDiskCount:    diskCount,
	}
}

// Clone returns a copy that shares no pointers with s.
func (s PlayerStatistics) Clone() PlayerStatistics {
	out := s
	if s.BestTimeSeconds != nil {
		v := *s.BestTimeSeconds
		out.BestTimeSeconds = &v
	}
	if s.FewestMoves != nil {
		v := *s.FewestMoves
		out.FewestMoves = &v
	}
	return out
}

// AverageTimeSeconds returns the mean completion time, or 0 before the first win.
func (s PlayerStatistics) AverageTimeSeconds() int {
	if s.GamesCompleted == 0 {
		return 0
	}
	return s.TotalTimeSeconds / s.GamesCompleted
}

func (s PlayerStatistics) valid() bool {
	if s.GamesCompleted < 0 || s.TotalTimeSeconds < 0 {
		return false
	}
	if s.BestTimeSeconds != nil && *s.BestTimeSeconds < 0 {
		return false
	}
	if s.FewestMoves != nil && *s.FewestMoves < 0 {
		return false
	}
	return true
}

// FormatDuration renders seconds as MM:SS. Minutes are not wrapped at an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatBestTime renders the best time, or "--:--" when unset.
func (s PlayerStatistics) FormatBestTime() string {
	if s.BestTimeSeconds == nil {
		return "--:--"
	}
	return FormatDuration(*s.BestTimeSeconds)
}

// FormatFewestMoves renders the fewest moves, or "--" when unset.
func (s PlayerStatistics) FormatFewestMoves() string {
	if s.FewestMoves == nil {
		return "--"
	}
	return fmt.Sprint(*s.FewestMoves)
}
