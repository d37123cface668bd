package game

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestMinimumMoves(t *testing.T) {
	tests := []struct {
		disks int
		want  int
	}{
		{3, 7},
		{4, 15},
		{5, 31},
		{6, 63},
		{7, 127},
	}

	for _, tt := range tests {
		if got := MinimumMoves(tt.disks); got != tt.want {
			t.Errorf("MinimumMoves(%d) = %d, want %d", tt.disks, got, tt.want)
		}
	}
}

func TestSupportedDiskCounts(t *testing.T) {
	want := []int{3, 4, 5, 6, 7}
	if got := SupportedDiskCounts(); !reflect.DeepEqual(got, want) {
		t.Errorf("SupportedDiskCounts() = %v, want %v", got, want)
	}
	for _, n := range []int{0, 2, 8, -1} {
		if ValidDiskCount(n) {
			t.Errorf("ValidDiskCount(%d) = true, want false", n)
		}
	}
}

func TestNewGame(t *testing.T) {
	for _, n := range SupportedDiskCounts() {
		s := NewGame(n)

		if len(s.Towers[0]) != n {
			t.Fatalf("n=%d: tower 0 has %d disks, want %d", n, len(s.Towers[0]), n)
		}
		for i, d := range s.Towers[0] {
			if want := n - i; d != want {
				t.Errorf("n=%d: tower 0 position %d = %d, want %d", n, i, d, want)
			}
		}
		if len(s.Towers[1]) != 0 || len(s.Towers[2]) != 0 {
			t.Errorf("n=%d: towers 1 and 2 should be empty, got %v", n, s)
		}
		if s.Moves != 0 || s.Selected != NoSelection || s.Complete {
			t.Errorf("n=%d: unexpected initial state %+v", n, s)
		}
		if err := Validate(s); err != nil {
			t.Errorf("n=%d: Validate() = %v", n, err)
		}
	}
}

func TestNewGame_PanicsOnUnsupportedCount(t *testing.T) {
	for _, n := range []int{0, 2, 8} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewGame(%d) did not panic", n)
				}
			}()
			_ = NewGame(n)
		}()
	}
}

func TestSelectOrMove_SelectThenDeselectRestoresState(t *testing.T) {
	start := NewGame(4)

	selected := SelectOrMove(start, 0)
	if selected.Selected != 0 {
		t.Fatalf("Selected = %d, want 0", selected.Selected)
	}

	back := SelectOrMove(selected, 0)
	if !reflect.DeepEqual(back, start) {
		t.Errorf("select+deselect = %+v, want %+v", back, start)
	}
	if back.Moves != 0 {
		t.Errorf("Moves = %d, want 0", back.Moves)
	}
}

func TestSelectOrMove_EmptySourceIsNoop(t *testing.T) {
	s := NewGame(3)
	next, action := Step(s, 1)
	if action != ActionNone {
		t.Errorf("action = %v, want none", action)
	}
	if !reflect.DeepEqual(next, s) {
		t.Errorf("state changed: %+v", next)
	}
}

func TestSelectOrMove_IllegalMoveCancelsSelection(t *testing.T) {
	s := NewGame(3)
	s = SelectOrMove(s, 0)
	s = SelectOrMove(s, 2) // 1 -> tower 2
	s = SelectOrMove(s, 0)
	s = SelectOrMove(s, 1) // 2 -> tower 1
	// tower 1 top = 2, tower 2 top = 1
	before := s.Clone()

	s = SelectOrMove(s, 1)
	next, action := Step(s, 2)

	if action != ActionRejected {
		t.Errorf("action = %v, want rejected", action)
	}
	if !reflect.DeepEqual(next.Towers, before.Towers) {
		t.Errorf("towers = %v, want %v", next, before)
	}
	if next.Moves != before.Moves {
		t.Errorf("Moves = %d, want %d", next.Moves, before.Moves)
	}
	if next.HasSelection() {
		t.Errorf("Selected = %d, want none", next.Selected)
	}
}

func TestSelectOrMove_ThreeDiskSolution(t *testing.T) {
	s := NewGame(3)
	if got := s.String(); got != "[[3 2 1] [] []]" {
		t.Fatalf("start = %s", got)
	}

	moves := [][2]int{{0, 2}, {0, 1}, {2, 1}, {0, 2}, {1, 0}, {1, 2}, {0, 2}}
	for i, mv := range moves {
		if s.Complete {
			t.Fatalf("completed early after %d moves", i)
		}
		s = SelectOrMove(s, mv[0])
		var action Action
		s, action = Step(s, mv[1])
		if action != ActionMoved {
			t.Fatalf("move %d (%d->%d): action = %v", i+1, mv[0], mv[1], action)
		}
	}

	if !s.Complete {
		t.Fatal("puzzle not complete")
	}
	if s.Moves != 7 || s.Moves != MinimumMoves(3) {
		t.Errorf("Moves = %d, want %d", s.Moves, MinimumMoves(3))
	}
	if got := s.String(); got != "[[] [] [3 2 1]]" {
		t.Errorf("final = %s, want [[] [] [3 2 1]]", got)
	}
}

func TestSelectOrMove_CompleteIgnoresInput(t *testing.T) {
	s := State{
		Towers:    [TowerCount]Tower{{}, {}, {3, 2, 1}},
		DiskCount: 3,
		Moves:     7,
		Selected:  NoSelection,
		Complete:  true,
	}
	for i := 0; i < TowerCount; i++ {
		if next, action := Step(s, i); action != ActionNone || !reflect.DeepEqual(next, s) {
			t.Errorf("Step(complete, %d) = %v, %v", i, next, action)
		}
	}
}

func TestSelectOrMove_OutOfRangeTowerIsNoop(t *testing.T) {
	s := NewGame(3)
	for _, i := range []int{-1, 3, 10} {
		if _, action := Step(s, i); action != ActionNone {
			t.Errorf("Step(%d) action = %v, want none", i, action)
		}
	}
}

func TestSelectOrMove_DoesNotMutateInput(t *testing.T) {
	s := SelectOrMove(NewGame(3), 0)
	before := s.Clone()

	_ = SelectOrMove(s, 1)

	if !reflect.DeepEqual(s, before) {
		t.Errorf("input mutated: %v, want %v", s, before)
	}
}

func TestSelectOrMove_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for _, n := range SupportedDiskCounts() {
		s := NewGame(n)
		for step := 0; step < 2000; step++ {
			prev := s
			var action Action
			s, action = Step(s, rng.IntN(TowerCount))

			if err := Validate(s); err != nil {
				t.Fatalf("n=%d step %d: %v (state %v)", n, step, err, s)
			}
			switch action {
			case ActionMoved:
				if s.Moves != prev.Moves+1 {
					t.Fatalf("n=%d step %d: moves %d -> %d", n, step, prev.Moves, s.Moves)
				}
			default:
				if s.Moves != prev.Moves {
					t.Fatalf("n=%d step %d: %v changed moves", n, step, action)
				}
			}
			if s.Complete {
				s = NewGame(n)
			}
		}
	}
}
