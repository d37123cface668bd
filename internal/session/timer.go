package session

// Tick is a token for one scheduled timer tick. A tick only counts if it
// belongs to the generation the timer is currently running.
type Tick struct {
	Generation uint64
}

// Timer counts elapsed seconds for one game. Every Start and Stop begins a
// new generation, so ticks scheduled before a stop are rejected no matter
// when they fire.
type Timer struct {
	generation uint64
	running    bool
	elapsed    int
}

// Start begins counting and returns the token to schedule ticks with.
func (t *Timer) Start() Tick {
	t.generation++
	t.running = true
	return Tick{Generation: t.generation}
}

// Stop halts counting. Outstanding ticks become stale.
func (t *Timer) Stop() {
	t.generation++
	t.running = false
}

// Reset stops the timer and clears the elapsed count.
func (t *Timer) Reset() {
	t.Stop()
	t.elapsed = 0
}

// Accept adds one second if tk is current and reports whether it did.
func (t *Timer) Accept(tk Tick) bool {
	if !t.running || tk.Generation != t.generation {
		return false
	}
	t.elapsed++
	return true
}

// Pending returns the token for the next tick while the timer runs.
func (t *Timer) Pending() (Tick, bool) {
	if !t.running {
		return Tick{}, false
	}
	return Tick{Generation: t.generation}, true
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	return t.running
}

// Elapsed returns the counted seconds.
func (t *Timer) Elapsed() int {
	return t.elapsed
}
