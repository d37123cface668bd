package events

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// followPollInterval is how often Follow checks for new lines at EOF.
const followPollInterval = 100 * time.Millisecond

// ReadLast returns up to n trailing lines of the log at path.
// A missing file yields no lines and no error.
func ReadLast(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return lines, nil
}

// Follow calls fn for every line appended to path after it is called,
// waiting for the file to appear if needed. It returns when ctx is done.
func Follow(ctx context.Context, path string, fn func(line string)) error {
	file, err := waitForFile(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	reader := bufio.NewReader(file)
	var partial string
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		chunk, err := reader.ReadString('\n')
		partial += chunk
		if err != nil {
			if err == io.EOF {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(followPollInterval):
				}
				continue
			}
			return fmt.Errorf("read event log: %w", err)
		}
		fn(strings.TrimSuffix(partial, "\n"))
		partial = ""
	}
}

// waitForFile opens path, polling until it exists or ctx is done.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	for {
		file, err := os.Open(path)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open event log: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}
