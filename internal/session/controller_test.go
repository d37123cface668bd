package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/game"
	"github.com/npratt/hanoi/internal/stats"
	"github.com/npratt/hanoi/internal/storage"
)

// optimalThree solves three disks from tower 0 to tower 2.
var optimalThree = [][2]int{
	{0, 2}, {0, 1}, {2, 1}, {0, 2}, {1, 0}, {1, 2}, {0, 2},
}

type recorder struct {
	events []events.Event
}

func (r *recorder) Emit(e events.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *recorder) count(t events.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type() == t {
			n++
		}
	}
	return n
}

var errReadOnly = errors.New("read-only")

type readOnlyStore struct {
	storage.Store
}

func (readOnlyStore) Put(context.Context, string, []byte) error { return errReadOnly }

func newTestController(t *testing.T, blob storage.Store, opts ...Option) (*Controller, *recorder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recorder{}
	ids := 0
	opts = append([]Option{
		WithLogger(logger),
		WithEmitter(rec),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		}),
	}, opts...)
	c := New(stats.NewStore(blob, stats.WithLogger(logger)), opts...)
	c.Start(context.Background())
	return c, rec
}

func move(t *testing.T, c *Controller, from, to int) Snapshot {
	t.Helper()
	ctx := context.Background()
	if _, err := c.HandleSelect(ctx, from); err != nil {
		t.Fatalf("HandleSelect(%d) error = %v", from, err)
	}
	snap, err := c.HandleSelect(ctx, to)
	if err != nil {
		t.Fatalf("HandleSelect(%d) error = %v", to, err)
	}
	return snap
}

func tick(c *Controller, n int) {
	for i := 0; i < n; i++ {
		if tk, ok := c.PendingTick(); ok {
			c.Tick(tk)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())
	snap := c.Snapshot()

	if snap.DiskCount != game.MinDisks {
		t.Errorf("DiskCount = %d, want %d", snap.DiskCount, game.MinDisks)
	}
	if snap.MinimumMoves != 7 {
		t.Errorf("MinimumMoves = %d, want 7", snap.MinimumMoves)
	}
	if snap.Running || snap.ElapsedSeconds != 0 || snap.HasSelection() {
		t.Errorf("fresh snapshot = %+v, want idle", snap)
	}
	if snap.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want session-1", snap.SessionID)
	}
	if _, ok := c.PendingTick(); ok {
		t.Error("PendingTick() ok before first select, want false")
	}
}

func TestWithDiskCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{5, 5},
		{7, 7},
		{9, game.MinDisks},
		{0, game.MinDisks},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			c, _ := newTestController(t, storage.NewMemStore(), WithDiskCount(tt.n))
			if got := c.Snapshot().DiskCount; got != tt.want {
				t.Errorf("DiskCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleSelect_FirstClickStartsTimer(t *testing.T) {
	c, rec := newTestController(t, storage.NewMemStore())

	snap, err := c.HandleSelect(context.Background(), 0)
	if err != nil {
		t.Fatalf("HandleSelect() error = %v", err)
	}
	if !snap.Running {
		t.Error("Running = false after first select, want true")
	}
	if snap.Selected != 0 {
		t.Errorf("Selected = %d, want 0", snap.Selected)
	}
	if _, ok := c.PendingTick(); !ok {
		t.Error("PendingTick() not ok while running")
	}

	want := []events.EventType{events.EventGameStart, events.EventTowerSelected}
	if got := rec.types(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestHandleSelect_EmptyTowerStillStartsTimer(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())

	snap, _ := c.HandleSelect(context.Background(), 1)
	if !snap.Running {
		t.Error("Running = false, want true")
	}
	if snap.HasSelection() {
		t.Errorf("Selected = %d, want none", snap.Selected)
	}
}

func TestTick_CountsOnlyWhileRunning(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())

	if c.Tick(Tick{}) {
		t.Error("Tick() counted before the timer started")
	}

	_, _ = c.HandleSelect(context.Background(), 0)
	tick(c, 3)

	if got := c.Snapshot().ElapsedSeconds; got != 3 {
		t.Errorf("ElapsedSeconds = %d, want 3", got)
	}
}

func TestTick_StaleTokensIgnoredAfterReset(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())
	ctx := context.Background()

	_, _ = c.HandleSelect(ctx, 0)
	stale, _ := c.PendingTick()
	c.Tick(stale)

	snap := c.Reset(ctx)
	if snap.Running || snap.ElapsedSeconds != 0 {
		t.Fatalf("after Reset: running=%v elapsed=%d, want idle", snap.Running, snap.ElapsedSeconds)
	}

	for i := 0; i < 5; i++ {
		if c.Tick(stale) {
			t.Fatal("stale tick counted after Reset")
		}
	}

	// A new game gets a new generation; the old token still does nothing.
	_, _ = c.HandleSelect(ctx, 0)
	if c.Tick(stale) {
		t.Error("stale tick counted in the next game")
	}
	if got := c.Snapshot().ElapsedSeconds; got != 0 {
		t.Errorf("ElapsedSeconds = %d, want 0", got)
	}
}

func TestHandleSelect_CompletionStopsTimerAndRecordsStats(t *testing.T) {
	blob := storage.NewMemStore()
	c, rec := newTestController(t, blob)
	ctx := context.Background()

	_, _ = c.HandleSelect(ctx, 0)
	tk, _ := c.PendingTick()
	for i := 0; i < 42; i++ {
		c.Tick(tk)
	}
	_, _ = c.HandleSelect(ctx, 0) // deselect; the timer keeps running

	var snap Snapshot
	for _, m := range optimalThree {
		snap = move(t, c, m[0], m[1])
	}

	if !snap.Complete {
		t.Fatalf("Complete = false after optimal solution: %v", snap.Towers)
	}
	if snap.Moves != 7 {
		t.Errorf("Moves = %d, want 7", snap.Moves)
	}
	if snap.Running {
		t.Error("Running = true after completion")
	}
	if _, ok := c.PendingTick(); ok {
		t.Error("PendingTick() ok after completion")
	}

	// No tick may count once the game is complete.
	if c.Tick(tk) {
		t.Error("tick counted after completion")
	}
	if got := c.Snapshot().ElapsedSeconds; got != 42 {
		t.Errorf("ElapsedSeconds = %d, want 42", got)
	}

	st := snap.Stats
	if st.GamesCompleted != 1 || st.TotalTimeSeconds != 42 {
		t.Errorf("stats = %+v, want 1 game and 42s", st)
	}
	if st.BestTimeSeconds == nil || *st.BestTimeSeconds != 42 {
		t.Errorf("BestTimeSeconds = %v, want 42", st.BestTimeSeconds)
	}
	if st.FewestMoves == nil || *st.FewestMoves != 7 {
		t.Errorf("FewestMoves = %v, want 7", st.FewestMoves)
	}
	if blob.Puts() != 1 {
		t.Errorf("Puts = %d, want 1", blob.Puts())
	}

	if rec.count(events.EventGameComplete) != 1 || rec.count(events.EventStatsUpdated) != 1 {
		t.Errorf("events = %v, want one complete and one stats update", rec.types())
	}
	if got := rec.count(events.EventDiskMoved); got != 7 {
		t.Errorf("disk.moved events = %d, want 7", got)
	}
}

func TestHandleSelect_IgnoredAfterCompletion(t *testing.T) {
	blob := storage.NewMemStore()
	c, _ := newTestController(t, blob)
	for _, m := range optimalThree {
		move(t, c, m[0], m[1])
	}
	before := c.Snapshot()

	after, err := c.HandleSelect(context.Background(), 2)
	if err != nil {
		t.Fatalf("HandleSelect() error = %v", err)
	}
	if after.Selected != before.Selected || after.Moves != before.Moves || after.Running {
		t.Errorf("after = %+v, want unchanged %+v", after, before)
	}
	if blob.Puts() != 1 {
		t.Errorf("Puts = %d, want 1", blob.Puts())
	}
}

func TestHandleSelect_TwoCompletions(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())
	ctx := context.Background()

	_, _ = c.HandleSelect(ctx, 0)
	tick(c, 42)
	_, _ = c.HandleSelect(ctx, 0)
	for _, m := range optimalThree {
		move(t, c, m[0], m[1])
	}

	c.Reset(ctx)
	_, _ = c.HandleSelect(ctx, 0)
	tick(c, 30)
	_, _ = c.HandleSelect(ctx, 0)
	// Three extra moves of the smallest disk before the optimal tail.
	detour := [][2]int{{0, 1}, {1, 0}, {0, 1}, {1, 2}}
	var snap Snapshot
	for _, m := range append(detour, optimalThree[1:]...) {
		snap = move(t, c, m[0], m[1])
	}

	if !snap.Complete || snap.Moves != 10 {
		t.Fatalf("second game: complete=%v moves=%d, want complete in 10", snap.Complete, snap.Moves)
	}

	st := snap.Stats
	if st.GamesCompleted != 2 {
		t.Errorf("GamesCompleted = %d, want 2", st.GamesCompleted)
	}
	if st.BestTimeSeconds == nil || *st.BestTimeSeconds != 30 {
		t.Errorf("BestTimeSeconds = %v, want 30", st.BestTimeSeconds)
	}
	if st.FewestMoves == nil || *st.FewestMoves != 7 {
		t.Errorf("FewestMoves = %v, want 7", st.FewestMoves)
	}
	if st.TotalTimeSeconds != 72 {
		t.Errorf("TotalTimeSeconds = %d, want 72", st.TotalTimeSeconds)
	}
	if st.LastDiskCount != 3 {
		t.Errorf("LastDiskCount = %d, want 3", st.LastDiskCount)
	}
}

func TestHandleSelect_PersistFailureIsNonFatal(t *testing.T) {
	c, rec := newTestController(t, readOnlyStore{storage.NewMemStore()})
	ctx := context.Background()

	for i, m := range optimalThree {
		if _, err := c.HandleSelect(ctx, m[0]); err != nil {
			t.Fatalf("move %d: unexpected error %v", i, err)
		}
		snap, err := c.HandleSelect(ctx, m[1])
		if i < len(optimalThree)-1 {
			if err != nil {
				t.Fatalf("move %d: unexpected error %v", i, err)
			}
			continue
		}
		if !errors.Is(err, errReadOnly) {
			t.Fatalf("final move error = %v, want %v", err, errReadOnly)
		}
		if !snap.Complete {
			t.Error("Complete = false despite save failure")
		}
		if snap.Stats.GamesCompleted != 1 {
			t.Errorf("GamesCompleted = %d, want 1 in memory", snap.Stats.GamesCompleted)
		}
	}

	if rec.count(events.EventError) != 1 {
		t.Errorf("error events = %d, want 1", rec.count(events.EventError))
	}
	if rec.count(events.EventStatsUpdated) != 0 {
		t.Error("stats.updated emitted for a failed save")
	}
}

func TestReset(t *testing.T) {
	c, rec := newTestController(t, storage.NewMemStore(), WithDiskCount(4))
	ctx := context.Background()

	move(t, c, 0, 1)
	snap := c.Reset(ctx)

	if snap.DiskCount != 4 {
		t.Errorf("DiskCount = %d, want 4", snap.DiskCount)
	}
	if snap.Moves != 0 || snap.HasSelection() || snap.Complete {
		t.Errorf("snapshot = %+v, want fresh game", snap)
	}
	if want := []int{4, 3, 2, 1}; fmt.Sprint(snap.Towers[0]) != fmt.Sprint(want) {
		t.Errorf("Towers[0] = %v, want %v", snap.Towers[0], want)
	}
	if snap.SessionID != "session-2" {
		t.Errorf("SessionID = %q, want session-2", snap.SessionID)
	}

	last := rec.events[len(rec.events)-1].(*events.GameResetEvent)
	if !last.Abandoned {
		t.Error("Abandoned = false for a reset with moves made")
	}

	c.Reset(ctx)
	last = rec.events[len(rec.events)-1].(*events.GameResetEvent)
	if last.Abandoned {
		t.Error("Abandoned = true for a reset of an untouched game")
	}
}

func TestChangeDiskCount(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
		want    int
	}{
		{"minimum", 3, false, 3},
		{"maximum", 7, false, 7},
		{"too few", 2, true, 3},
		{"too many", 8, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, storage.NewMemStore())
			snap, err := c.ChangeDiskCount(context.Background(), tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedDiskCount) {
					t.Errorf("error = %v, want %v", err, ErrUnsupportedDiskCount)
				}
			} else if err != nil {
				t.Fatalf("ChangeDiskCount(%d) error = %v", tt.n, err)
			}
			if snap.DiskCount != tt.want {
				t.Errorf("DiskCount = %d, want %d", snap.DiskCount, tt.want)
			}
			if snap.MinimumMoves != game.MinimumMoves(tt.want) {
				t.Errorf("MinimumMoves = %d, want %d", snap.MinimumMoves, game.MinimumMoves(tt.want))
			}
		})
	}
}

func TestChangeDiskCount_StopsRunningTimer(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())
	ctx := context.Background()

	_, _ = c.HandleSelect(ctx, 0)
	tk, _ := c.PendingTick()
	c.Tick(tk)

	if _, err := c.ChangeDiskCount(ctx, 5); err != nil {
		t.Fatalf("ChangeDiskCount() error = %v", err)
	}
	if c.Tick(tk) {
		t.Error("tick counted after disk count change")
	}
	if snap := c.Snapshot(); snap.Running || snap.ElapsedSeconds != 0 {
		t.Errorf("running=%v elapsed=%d, want idle", snap.Running, snap.ElapsedSeconds)
	}
}

func TestReloadStats(t *testing.T) {
	blob := storage.NewMemStore()
	c, _ := newTestController(t, blob)

	other := stats.NewStore(blob)
	if _, err := other.RecordCompletion(context.Background(), 15, 9, 3); err != nil {
		t.Fatalf("RecordCompletion() error = %v", err)
	}

	if got := c.Snapshot().Stats.GamesCompleted; got != 0 {
		t.Fatalf("GamesCompleted before reload = %d, want 0", got)
	}
	snap := c.ReloadStats(context.Background())
	if snap.Stats.GamesCompleted != 1 {
		t.Errorf("GamesCompleted after reload = %d, want 1", snap.Stats.GamesCompleted)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemStore())
	snap := c.Snapshot()
	snap.Towers[0][0] = 99

	if got := c.Snapshot().Towers[0][0]; got != 3 {
		t.Errorf("Towers[0][0] = %d, want 3", got)
	}
}

func TestTimer(t *testing.T) {
	var tm Timer
	if tm.Running() {
		t.Fatal("zero Timer is running")
	}

	first := tm.Start()
	if !tm.Accept(first) || !tm.Accept(first) {
		t.Fatal("current token rejected")
	}
	tm.Stop()
	if tm.Accept(first) {
		t.Error("token accepted after Stop")
	}

	second := tm.Start()
	if second.Generation == first.Generation {
		t.Error("Start reused a generation")
	}
	if tm.Accept(first) {
		t.Error("old token accepted after restart")
	}
	if got := tm.Elapsed(); got != 2 {
		t.Errorf("Elapsed = %d, want 2", got)
	}

	tm.Reset()
	if tm.Elapsed() != 0 || tm.Running() {
		t.Errorf("after Reset: elapsed=%d running=%v", tm.Elapsed(), tm.Running())
	}
}
