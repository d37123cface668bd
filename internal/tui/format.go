package tui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/stats"
)

const (
	maxMessageLength  = 100
	truncateIndicator = "..."
)

// severity classifies a formatted event for styling.
type severity int

const (
	severityInfo severity = iota
	severityWarning
	severitySuccess
	severityError
)

// Format converts an event to a one-line human-readable message.
// Towers are numbered from 1. Returns empty string for nil or unknown events.
func Format(event events.Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *events.GameStartEvent:
		return fmt.Sprintf("New game: %d disks, best possible is %d moves", e.DiskCount, e.MinimumMoves)
	case *events.GameResetEvent:
		if e.Abandoned {
			return fmt.Sprintf("Game abandoned, reset with %d disks", e.DiskCount)
		}
		return fmt.Sprintf("Reset with %d disks", e.DiskCount)
	case *events.GameCompleteEvent:
		return fmt.Sprintf("Completed in %d moves! (minimum %d, time %s)",
			e.Moves, e.MinimumMoves, stats.FormatDuration(e.ElapsedSeconds))
	case *events.TowerEvent:
		if e.Type() == events.EventTowerDeselected {
			return fmt.Sprintf("Tower %d deselected", e.Tower+1)
		}
		return fmt.Sprintf("Tower %d selected", e.Tower+1)
	case *events.MoveEvent:
		if e.Type() == events.EventMoveRejected {
			return fmt.Sprintf("Disk %d cannot go on tower %d", e.Disk, e.To+1)
		}
		return fmt.Sprintf("Moved disk %d from tower %d to tower %d", e.Disk, e.From+1, e.To+1)
	case *events.StatsUpdatedEvent:
		return fmt.Sprintf("Statistics saved: %d games completed", e.GamesCompleted)
	case *events.ErrorEvent:
		return "ERROR: " + truncate(e.Message, maxMessageLength)
	default:
		return ""
	}
}

// severityOf returns how a formatted event should be styled.
func severityOf(event events.Event) severity {
	switch event.Type() {
	case events.EventMoveRejected, events.EventGameReset:
		return severityWarning
	case events.EventGameComplete, events.EventStatsUpdated:
		return severitySuccess
	case events.EventError:
		return severityError
	default:
		return severityInfo
	}
}

// truncate shortens text to maxLen, adding indicator if truncated.
func truncate(s string, maxLen int) string {
	s = safeString(s)
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(truncateIndicator) {
		return truncateIndicator
	}
	return s[:maxLen-len(truncateIndicator)] + truncateIndicator
}

// safeString sanitizes a string for display by removing control characters
// and limiting newlines.
func safeString(s string) string {
	s = stripANSI(s)

	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == ' ' || !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	result := sb.String()
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}

	return strings.TrimSpace(result)
}

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
