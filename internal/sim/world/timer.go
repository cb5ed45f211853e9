package world

import "time"

type TimerMode uint8

const (
	TimerOnce TimerMode = iota
	TimerRepeating
)

// Timer counts elapsed frame time. A once timer stays finished until Reset; a
// repeating timer reports how many periods completed during the last Tick.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration
	mode     TimerMode
	fired    int
}

func NewTimer(d time.Duration, mode TimerMode) Timer {
	return Timer{duration: d, mode: mode}
}

func (t *Timer) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	switch t.mode {
	case TimerRepeating:
		t.fired = 0
		if t.duration <= 0 {
			t.fired = 1
			return
		}
		t.elapsed += dt
		if t.elapsed >= t.duration {
			t.fired = int(t.elapsed / t.duration)
			t.elapsed %= t.duration
		}
	default:
		t.elapsed += dt
		if t.elapsed > t.duration {
			t.elapsed = t.duration
		}
	}
}

func (t *Timer) Finished() bool {
	if t.mode == TimerRepeating {
		return t.fired > 0
	}
	return t.elapsed >= t.duration
}

// Fired is the number of completed periods in the last Tick (repeating only).
func (t *Timer) Fired() int { return t.fired }

func (t *Timer) Reset() {
	t.elapsed = 0
	t.fired = 0
}

func (t *Timer) SetDuration(d time.Duration) { t.duration = d }
func (t *Timer) Duration() time.Duration     { return t.duration }
func (t *Timer) Elapsed() time.Duration      { return t.elapsed }

// randDuration returns a duration uniformly in [lo, hi).
func randDuration(rng Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Float64()*float64(hi-lo))
}
