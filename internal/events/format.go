package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// FormatLine renders one JSONL event line in a human-readable form:
// "[15:04:05] type: detail". Lines that are not JSON are returned as-is.
func FormatLine(line string) string {
	var event map[string]any
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return line
	}

	timestamp := ""
	if ts, ok := event["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			timestamp = t.Format("15:04:05")
		} else {
			timestamp = ts
		}
	}

	eventType, _ := event["type"].(string)
	num := func(key string) int {
		v, _ := event[key].(float64)
		return int(v)
	}

	var detail string
	switch EventType(eventType) {
	case EventGameStart:
		detail = fmt.Sprintf("disks=%d min=%d", num("disk_count"), num("minimum_moves"))
	case EventGameReset:
		detail = fmt.Sprintf("disks=%d", num("disk_count"))
		if abandoned, _ := event["abandoned"].(bool); abandoned {
			detail += " (abandoned)"
		}
	case EventGameComplete:
		detail = fmt.Sprintf("disks=%d moves=%d min=%d time=%02d:%02d",
			num("disk_count"), num("moves"), num("minimum_moves"),
			num("elapsed_seconds")/60, num("elapsed_seconds")%60)
	case EventTowerSelected, EventTowerDeselected:
		detail = fmt.Sprintf("tower=%d", num("tower")+1)
	case EventDiskMoved, EventMoveRejected:
		detail = fmt.Sprintf("disk=%d %d->%d moves=%d", num("disk"), num("from")+1, num("to")+1, num("moves"))
	case EventStatsUpdated:
		detail = fmt.Sprintf("games=%d total=%ds", num("games_completed"), num("total_time_seconds"))
	default:
		if msg, ok := event["message"].(string); ok {
			detail = msg
		}
	}

	if detail != "" {
		return fmt.Sprintf("[%s] %s: %s", timestamp, eventType, detail)
	}
	return fmt.Sprintf("[%s] %s", timestamp, eventType)
}
