package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/npratt/hanoi/internal/game"
	"github.com/npratt/hanoi/internal/session"
	"github.com/npratt/hanoi/internal/stats"
)

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalSize returns the current terminal width and height.
// Returns 0, 0 if the terminal size cannot be determined.
func terminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return width, height
}

// terminalTooSmall returns true if the terminal is below the minimum size.
func terminalTooSmall() bool {
	width, height := terminalSize()
	return width < minWidth || height < minHeight
}

// commandKind identifies a line-mode command.
type commandKind int

const (
	cmdNone commandKind = iota
	cmdSelect
	cmdMove
	cmdReset
	cmdDisks
	cmdStats
	cmdHelp
	cmdQuit
)

// command is one parsed line of input. Tower arguments are 0-based.
type command struct {
	kind commandKind
	args []int
}

var errUnknownCommand = errors.New("unknown command")

// parseCommand parses a line-mode command. Towers are typed 1-based.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{kind: cmdNone}, nil
	}

	name, rest := fields[0], fields[1:]
	switch name {
	case "1", "2", "3":
		n, _ := strconv.Atoi(name)
		return command{kind: cmdSelect, args: []int{n - 1}}, nil
	case "select", "s":
		towers, err := parseTowers(rest, 1)
		return command{kind: cmdSelect, args: towers}, err
	case "move", "m":
		towers, err := parseTowers(rest, 2)
		return command{kind: cmdMove, args: towers}, err
	case "reset", "r":
		return command{kind: cmdReset}, nil
	case "disks", "d":
		if len(rest) != 1 {
			return command{}, fmt.Errorf("usage: disks N (%d-%d)", game.MinDisks, game.MaxDisks)
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid disk count %q", rest[0])
		}
		return command{kind: cmdDisks, args: []int{n}}, nil
	case "stats":
		return command{kind: cmdStats}, nil
	case "help", "h", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "q", "exit":
		return command{kind: cmdQuit}, nil
	default:
		return command{}, fmt.Errorf("%w %q (type help)", errUnknownCommand, name)
	}
}

// parseTowers converts want 1-based tower numbers to 0-based indexes.
func parseTowers(fields []string, want int) ([]int, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d tower number(s), got %d", want, len(fields))
	}
	out := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > game.TowerCount {
			return nil, fmt.Errorf("invalid tower %q (1-%d)", f, game.TowerCount)
		}
		out[i] = n - 1
	}
	return out, nil
}

const lineHelp = `Commands:
  1, 2, 3          select a tower, or move the selected disk onto it
  select N         same as typing N
  move A B         move the top disk of tower A onto tower B
  reset            start over with the same number of disks
  disks N          start over with N disks (3-7)
  stats            show your statistics
  help             show this help
  quit             leave the game`

// lineUI writes line-mode output.
type lineUI struct {
	out     io.Writer
	info    *color.Color
	warn    *color.Color
	success *color.Color
	failure *color.Color
}

func newLineUI(out io.Writer) *lineUI {
	return &lineUI{
		out:     out,
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed),
	}
}

func (u *lineUI) colorFor(sev severity) *color.Color {
	switch sev {
	case severityWarning:
		return u.warn
	case severitySuccess:
		return u.success
	case severityError:
		return u.failure
	default:
		return u.info
	}
}

func (u *lineUI) board(snap session.Snapshot) {
	fmt.Fprintln(u.out, renderPlainBoard(snap))
	timer := "Time: " + stats.FormatDuration(snap.ElapsedSeconds)
	if snap.Running {
		timer += " (running)"
	}
	fmt.Fprintf(u.out, "Moves: %d (Min: %d)  %s\n", snap.Moves, snap.MinimumMoves, timer)
	if snap.Complete {
		u.success.Fprintf(u.out, "Completed in %d moves!\n", snap.Moves)
	}
}

func (u *lineUI) prompt() {
	fmt.Fprint(u.out, "> ")
}

// RunSimple plays in line mode: it reads commands from in and writes the
// board to out. Timer ticks and input are handled in one select loop, so the
// controller is never touched from two goroutines. It returns when in is
// exhausted, the user quits or ctx is done.
func (t *TUI) RunSimple(ctx context.Context, in io.Reader, out io.Writer) error {
	ui := newLineUI(out)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	fmt.Fprintf(out, "Tower of Hanoi: move every disk to tower 3. Type help for commands.\n")
	ui.board(t.ctrl.Snapshot())
	ui.prompt()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if tk, ok := t.ctrl.PendingTick(); ok {
				t.ctrl.Tick(tk)
			}

		case _, ok := <-t.statsChange:
			if !ok {
				t.statsChange = nil
				continue
			}
			t.ctrl.ReloadStats(ctx)

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}

			wasRunning := t.ctrl.Snapshot().Running
			quit := t.execLine(ctx, ui, line)
			if snap := t.ctrl.Snapshot(); snap.Running && !wasRunning {
				// Align the first second with the first click.
				ticker.Reset(t.tickInterval)
			}
			if quit {
				if t.onQuit != nil {
					t.onQuit()
				}
				return nil
			}
			ui.prompt()
		}
	}
}

// execLine runs one line-mode command and reports whether the user quit.
func (t *TUI) execLine(ctx context.Context, ui *lineUI, line string) bool {
	cmd, err := parseCommand(line)
	if err != nil {
		ui.failure.Fprintln(ui.out, err)
		return false
	}

	var opErr error
	switch cmd.kind {
	case cmdNone:
	case cmdSelect:
		_, opErr = t.ctrl.HandleSelect(ctx, cmd.args[0])
	case cmdMove:
		_, opErr = t.move(ctx, cmd.args[0], cmd.args[1])
	case cmdReset:
		t.ctrl.Reset(ctx)
	case cmdDisks:
		_, opErr = t.ctrl.ChangeDiskCount(ctx, cmd.args[0])
	case cmdStats:
		WriteStats(ui.out, t.ctrl.Snapshot().Stats)
		return false
	case cmdHelp:
		fmt.Fprintln(ui.out, lineHelp)
		return false
	case cmdQuit:
		return true
	}

	t.drainEvents(ui)
	if opErr != nil {
		ui.failure.Fprintf(ui.out, "Error: %v\n", opErr)
	}
	ui.board(t.ctrl.Snapshot())
	return false
}

// move clicks from then to, clearing any earlier selection first.
func (t *TUI) move(ctx context.Context, from, to int) (session.Snapshot, error) {
	snap := t.ctrl.Snapshot()
	if snap.HasSelection() && snap.Selected != from {
		if _, err := t.ctrl.HandleSelect(ctx, snap.Selected); err != nil {
			return snap, err
		}
	}
	if snap.Selected != from {
		if _, err := t.ctrl.HandleSelect(ctx, from); err != nil {
			return snap, err
		}
	}
	if !t.ctrl.Snapshot().HasSelection() {
		// Source tower was empty.
		return t.ctrl.Snapshot(), nil
	}
	return t.ctrl.HandleSelect(ctx, to)
}

// drainEvents prints the events emitted by the last command. Emission is
// synchronous, so everything the command produced is already buffered.
func (t *TUI) drainEvents(ui *lineUI) {
	if t.eventChan == nil {
		return
	}
	for {
		select {
		case e, ok := <-t.eventChan:
			if !ok {
				t.eventChan = nil
				return
			}
			if text := Format(e); text != "" {
				ui.colorFor(severityOf(e)).Fprintln(ui.out, text)
			}
		default:
			return
		}
	}
}

// WriteStats prints the player statistics as aligned plain text.
func WriteStats(w io.Writer, rec stats.PlayerStatistics) {
	label := color.New(color.Faint)
	value := color.New(color.Bold)
	row := func(name, v string) {
		label.Fprintf(w, "%-16s", name)
		value.Fprintln(w, v)
	}

	row("Games completed", strconv.Itoa(rec.GamesCompleted))
	row("Best time", rec.FormatBestTime())
	row("Fewest moves", rec.FormatFewestMoves())
	row("Total time", stats.FormatDuration(rec.TotalTimeSeconds))
	if rec.GamesCompleted > 0 {
		row("Average time", stats.FormatDuration(rec.AverageTimeSeconds()))
	}
	row("Last disks", strconv.Itoa(rec.LastDiskCount))
}
