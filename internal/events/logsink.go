package events

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultKeepBackups is how many rotated event logs LogSink keeps.
const DefaultKeepBackups = 5

// LogSink appends events to a JSON lines file. `hanoi events` reads it back.
//
// A non-empty log from an earlier run is renamed to
// "<path>.<timestamp>.bak" on Start, so followers always see a fresh file.
type LogSink struct {
	path        string
	keepBackups int

	file    *os.File
	buf     *bufio.Writer
	enc     *json.Encoder
	written int
	done    chan struct{}
}

// NewLogSink creates a sink writing to path.
func NewLogSink(path string) *LogSink {
	return &LogSink{
		path:        path,
		keepBackups: DefaultKeepBackups,
		done:        make(chan struct{}),
	}
}

// Start opens the log and consumes events until ctx is done or events is
// closed. Events already buffered in the channel when ctx is done are
// still written.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create event log directory: %w", err)
	}
	if err := s.rotate(); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	s.file = file
	s.buf = bufio.NewWriter(file)
	s.enc = json.NewEncoder(s.buf)

	go s.run(ctx, events)
	return nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.drain(events)
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.write(event)
		}
	}
}

// drain writes whatever is buffered in events without waiting for more.
func (s *LogSink) drain(events <-chan Event) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			s.write(event)
		default:
			return
		}
	}
}

// write encodes one event and flushes it so followers see whole lines.
func (s *LogSink) write(event Event) {
	if err := s.enc.Encode(event); err != nil {
		slog.Warn("event log write failed", "event_type", event.Type(), "error", err)
		return
	}
	if err := s.buf.Flush(); err != nil {
		slog.Warn("event log flush failed", "event_type", event.Type(), "error", err)
		return
	}
	s.written++
}

// rotate moves a non-empty log aside and prunes old backups.
func (s *LogSink) rotate() error {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat event log: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	bak := fmt.Sprintf("%s.%s.bak", s.path, time.Now().Format("2006-01-02T15-04-05.000"))
	if err := os.Rename(s.path, bak); err != nil {
		return fmt.Errorf("rotate event log: %w", err)
	}

	backups, err := filepath.Glob(s.path + ".*.bak")
	if err != nil || len(backups) <= s.keepBackups {
		return nil
	}
	// Timestamps sort lexically.
	sort.Strings(backups)
	for _, old := range backups[:len(backups)-s.keepBackups] {
		if err := os.Remove(old); err != nil {
			slog.Warn("remove old event log failed", "path", old, "error", err)
		}
	}
	return nil
}

// Stop waits for the sink to finish consuming and closes the file. Start
// must have succeeded.
func (s *LogSink) Stop() error {
	<-s.done

	if s.file == nil {
		return nil
	}
	err := errors.Join(s.buf.Flush(), s.file.Close())
	s.file = nil
	return err
}

// Written returns the number of events written. Call it after Stop.
func (s *LogSink) Written() int {
	return s.written
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}
