package mcts

import "time"

// deadline is the movetime budget of one search. A non-positive budget
// means unbounded. It is only ever read between cycles, never inside
// one, so plain wall-clock reads suffice.
type deadline struct {
	start  time.Time
	budget time.Duration
}

// Set the budget in milliseconds, negative disables it
func (d *deadline) set(movetime int) {
	if movetime < 0 {
		d.budget = 0
		return
	}
	d.budget = time.Duration(movetime) * time.Millisecond
}

// Restart the clock, called once per Search setup
func (d *deadline) restart() {
	d.start = time.Now()
}

func (d *deadline) bounded() bool {
	return d.budget > 0
}

func (d *deadline) exceeded() bool {
	return d.bounded() && time.Since(d.start) >= d.budget
}

// Milliseconds since the last restart, at least 1
func (d *deadline) elapsed() int {
	return max(int(time.Since(d.start).Milliseconds()), 1)
}
